package cli

import (
	"context"
	"fmt"
	"time"
)

// Open navigates to path and prints the screen it lands on.
func (a *App) Open(ctx context.Context, path string) error {
	if err := a.router.Navigate(ctx, path); err != nil {
		return err
	}
	a.printPage()
	return nil
}

func (a *App) printPage() {
	fmt.Fprintln(a.out, renderPage(a.router.Page()))
}

func (a *App) Menu(_ context.Context) error {
	items := a.router.Menu(a.session)
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Label, it.Path})
	}
	writeTable(a.out, []string{"Screen", "Path"}, rows)
	return nil
}

// Notifications lists the visible notifications, newest first.
func (a *App) Notifications(_ context.Context) error {
	msgs := a.notifier.Messages()
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, []string{m.ID, m.CreatedAt.Local().Format(time.TimeOnly), renderNotice(m)})
	}
	writeTable(a.out, []string{"ID", "Time", "Message"}, rows)
	return nil
}

// Dismiss removes one notification, or all of them for "all".
func (a *App) Dismiss(_ context.Context, id string) error {
	if id == "all" {
		a.notifier.Clear()
		return nil
	}
	a.notifier.Dismiss(id)
	return nil
}
