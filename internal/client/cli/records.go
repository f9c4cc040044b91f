package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
)

var (
	errNoCatalog  = errors.New("open a catalog screen first")
	errYesNo      = errors.New("answer yes or no")
	errNotDeleted = errors.New("deletion cancelled")
)

// field is one editable attribute of a record. Exactly one of text and
// flag is set.
type field struct {
	label    string
	required bool
	text     *string
	flag     *bool
}

func (f field) String() string {
	if f.flag != nil {
		return yesNo(*f.flag)
	}
	return *f.text
}

// recordEditor performs record commands against one collection.
type recordEditor interface {
	show(ctx context.Context, a *App, id int) error
	add(ctx context.Context, a *App) error
	edit(ctx context.Context, a *App, id int) error
	remove(ctx context.Context, a *App, id int) error
}

type catalog[T any] struct {
	noun   string
	res    *client.Resource[T]
	id     func(*T) int
	fields func(*T) []field
}

// recordEditors maps catalog screens to their collections.
func (a *App) recordEditors() map[string]recordEditor {
	return map[string]recordEditor{
		PathRoles: &catalog[models.Role]{
			noun: "Role",
			res:  a.catalogs.Roles,
			id:   func(r *models.Role) int { return r.ID },
			fields: func(r *models.Role) []field {
				return []field{
					{label: "Name", required: true, text: &r.Name},
					{label: "Description", text: &r.Description},
				}
			},
		},
		PathStates: &catalog[models.State]{
			noun: "State",
			res:  a.catalogs.States,
			id:   func(s *models.State) int { return s.ID },
			fields: func(s *models.State) []field {
				return []field{
					{label: "Name", required: true, text: &s.Name},
					{label: "Color", text: &s.HexColor},
				}
			},
		},
		PathRequestTypes: &catalog[models.RequestType]{
			noun: "Request type",
			res:  a.catalogs.RequestTypes,
			id:   func(r *models.RequestType) int { return r.ID },
			fields: func(r *models.RequestType) []field {
				return []field{
					{label: "Name", required: true, text: &r.Name},
					{label: "Template", text: &r.Template},
					{label: "Active", flag: &r.IsActive},
				}
			},
		},
		PathFAQ: &catalog[models.FrequentQuestion]{
			noun: "Question",
			res:  a.catalogs.FrequentQuestions,
			id:   func(q *models.FrequentQuestion) int { return q.ID },
			fields: func(q *models.FrequentQuestion) []field {
				return []field{
					{label: "Question", required: true, text: &q.Question},
					{label: "Response", required: true, text: &q.Response},
				}
			},
		},
	}
}

func (c *catalog[T]) show(ctx context.Context, a *App, id int) error {
	item, err := c.res.Get(ctx, id)
	if err != nil {
		return err
	}
	rows := [][]string{{"ID", strconv.Itoa(c.id(item))}}
	for _, f := range c.fields(item) {
		rows = append(rows, []string{f.label, f.String()})
	}
	writeTable(a.out, []string{"Field", "Value"}, rows)
	return nil
}

func (c *catalog[T]) add(ctx context.Context, a *App) error {
	var item T
	if err := a.fill(c.fields(&item), true); err != nil {
		return err
	}
	created, err := c.res.Create(ctx, item)
	if err != nil {
		return err
	}
	a.notifier.Success(fmt.Sprintf("%s %d created.", c.noun, c.id(created)))
	return a.reload(ctx)
}

func (c *catalog[T]) edit(ctx context.Context, a *App, id int) error {
	item, err := c.res.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := a.fill(c.fields(item), false); err != nil {
		return err
	}
	if _, err := c.res.Update(ctx, *item); err != nil {
		return err
	}
	a.notifier.Success(fmt.Sprintf("%s %d updated.", c.noun, id))
	return a.reload(ctx)
}

func (c *catalog[T]) remove(ctx context.Context, a *App, id int) error {
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete %s %d? (yes/no)", strings.ToLower(c.noun), id), a.out)
	if err != nil {
		return err
	}
	if ok, err := parseYesNo(answer); err != nil || !ok {
		return errNotDeleted
	}
	if err := c.res.Delete(ctx, id); err != nil {
		return err
	}
	a.notifier.Success(fmt.Sprintf("%s %d deleted.", c.noun, id))
	return a.reload(ctx)
}

// fill prompts for each field. When editing, an empty answer keeps the
// current value.
func (a *App) fill(fields []field, creating bool) error {
	for _, f := range fields {
		prompt := f.label
		if f.flag != nil {
			prompt += " (yes/no)"
		}
		if !creating {
			prompt += " [" + f.String() + "]"
		}

		answer, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if answer == "" {
			if creating && f.required {
				return fmt.Errorf("%s: %w", f.label, ErrEmptyInput)
			}
			continue
		}

		if f.flag == nil {
			*f.text = answer
			continue
		}
		v, err := parseYesNo(answer)
		if err != nil {
			return fmt.Errorf("%s: %w", f.label, err)
		}
		*f.flag = v
	}
	return nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	}
	return false, errYesNo
}

func (a *App) currentCatalog() (recordEditor, error) {
	path, _, _ := strings.Cut(a.router.Current(), "?")
	ed, ok := a.records[path]
	if !ok {
		return nil, errNoCatalog
	}
	return ed, nil
}

// reload redraws the current screen after a change.
func (a *App) reload(ctx context.Context) error {
	return a.Open(ctx, a.router.Current())
}

// ShowRecord prints one record of the catalog on screen.
func (a *App) ShowRecord(ctx context.Context, id int) error {
	ed, err := a.currentCatalog()
	if err != nil {
		return err
	}
	return ed.show(ctx, a, id)
}

// AddRecord prompts for a new record of the catalog on screen.
func (a *App) AddRecord(ctx context.Context) error {
	ed, err := a.currentCatalog()
	if err != nil {
		return err
	}
	return ed.add(ctx, a)
}

// EditRecord prompts for changes to one record of the catalog on screen.
func (a *App) EditRecord(ctx context.Context, id int) error {
	ed, err := a.currentCatalog()
	if err != nil {
		return err
	}
	return ed.edit(ctx, a, id)
}

// DeleteRecord removes one record of the catalog on screen after
// confirmation.
func (a *App) DeleteRecord(ctx context.Context, id int) error {
	ed, err := a.currentCatalog()
	if err != nil {
		return err
	}
	return ed.remove(ctx, a, id)
}
