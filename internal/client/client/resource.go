package client

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
)

// Resource is CRUD over one backend collection. Update sends the whole
// record to the collection path; the backend reads the ID from the body.
type Resource[T any] struct {
	c    *HTTPClient
	path string
}

func NewResource[T any](c *HTTPClient, path string) *Resource[T] {
	return &Resource[T]{c: c, path: strings.Trim(path, "/")}
}

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) item(id int) string {
	return r.path + "/" + strconv.Itoa(id)
}

func (r *Resource[T]) List(ctx context.Context, opts ...RequestOption) ([]T, error) {
	var items []T
	if err := r.c.Get(ctx, r.path, &items, opts...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int) (*T, error) {
	var item T
	if err := r.c.Get(ctx, r.item(id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Resource[T]) Create(ctx context.Context, item T) (*T, error) {
	var created T
	if err := r.c.Post(ctx, r.path, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Resource[T]) Update(ctx context.Context, item T) (*T, error) {
	var updated T
	if err := r.c.Put(ctx, r.path, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.c.Delete(ctx, r.item(id), nil)
}

// Catalogs are the administrative collections the console browses.
type Catalogs struct {
	Roles             *Resource[models.Role]
	States            *Resource[models.State]
	RequestTypes      *Resource[models.RequestType]
	FrequentQuestions *Resource[models.FrequentQuestion]
}

func NewCatalogs(c *HTTPClient) *Catalogs {
	return &Catalogs{
		Roles:             NewResource[models.Role](c, "admin/Roles"),
		States:            NewResource[models.State](c, "State"),
		RequestTypes:      NewResource[models.RequestType](c, "RequestType"),
		FrequentQuestions: NewResource[models.FrequentQuestion](c, "FrequentQuestions"),
	}
}
