package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/config"
	"github.com/dmitrijs2005/gophadmin/internal/client/notify"
	"github.com/dmitrijs2005/gophadmin/internal/client/pipeline"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
	"github.com/dmitrijs2005/gophadmin/internal/client/services"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/client/storage"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	session     *session.Session
	notifier    *notify.Center
	tracker     *pipeline.Tracker
	router      *router.Router
	catalogs    *client.Catalogs
	records     map[string]recordEditor
	authService services.AuthService
	registry    *prometheus.Registry

	reader *bufio.Reader
	out    io.Writer

	// resetTokenID is remembered between 'forgot' and 'reset'.
	resetTokenID string

	seenMu sync.Mutex
	seen   map[string]struct{}

	signedIn atomic.Bool
	unwatch  func()
}

// NewApp wires storage, session, notifications, navigation and the request
// pipeline. The order matters: the pipeline needs the session, router and
// notifier, and the auth service needs the pipeline-backed client.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	db, err := client.InitDatabase(ctx, c.StorageDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := storage.New(db, c.StoragePrefix, log)
	sess := session.New(ctx, store, session.WithLogger(log))
	center := notify.NewCenter(notify.WithTimeout(c.NotificationTimeout), notify.WithCooldown(c.NotificationCooldown))

	reg := prometheus.NewRegistry()
	metrics := pipeline.NewMetrics(reg)
	tracker := pipeline.NewTracker(metrics)

	nav := router.New(sess, router.WithNotifier(center), router.WithLogger(log))

	p := pipeline.NewStandard(&http.Client{Timeout: c.RequestTimeout}, pipeline.Options{
		BaseURL:  c.APIBaseURL,
		Tokens:   sess,
		Tracker:  tracker,
		SkipURLs: c.LoadingSkipURLs,
		Errors: pipeline.ErrorHandler{
			Session:   sess,
			Navigator: nav,
			Notifier:  center,
			LoginPath: PathLogin,
			Metrics:   metrics,
		},
		Log: log,
	})
	api := client.NewHTTPClient(p, log)

	a := &App{
		config:      c,
		log:         log,
		db:          db,
		session:     sess,
		notifier:    center,
		tracker:     tracker,
		router:      nav,
		catalogs:    client.NewCatalogs(api),
		authService: services.NewAuthService(api, sess, nav, PathLogin, log),
		registry:    reg,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		seen:        map[string]struct{}{},
	}
	for _, rt := range a.routes() {
		nav.Handle(rt)
	}
	a.records = a.recordEditors()
	a.signedIn.Store(sess.IsAuthenticated())
	a.unwatch = sess.Subscribe(a.onSessionChange)
	return a, nil
}

// Run opens the start screen and blocks in the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if a.config.MetricsAddr != "" {
		go a.serveMetrics(ctx, a.config.MetricsAddr)
	}

	defer a.notifier.Subscribe(a.printNotices)()
	defer a.tracker.Subscribe(a.printLoading)()

	fmt.Fprintln(a.out, titleStyle.Render("Admin console")+" (type 'help' for commands)")

	start := "/"
	if a.session.IsAuthenticated() {
		start = PathHome
	}
	if err := a.Open(ctx, start); err != nil {
		return err
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) Close() {
	a.unwatch()
	if err := a.db.Close(); err != nil {
		a.log.Error(context.Background(), "closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) displayName() string {
	p := a.session.Snapshot().Principal
	switch {
	case p == nil:
		return "guest"
	case p.UserName != "":
		return p.UserName
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return a.router.Current()
	}
	return a.displayName() + " " + a.router.Current()
}

// onSessionChange announces sign-outs, whether the user asked for one or the
// pipeline dropped an expired session.
func (a *App) onSessionChange(snap session.Snapshot) {
	now := snap.IsAuthenticated()
	if a.signedIn.Swap(now) && !now {
		a.notifier.Info("Signed out.")
	}
}

// printNotices prints messages not shown yet, oldest first.
func (a *App) printNotices(msgs []notify.Message) {
	a.seenMu.Lock()
	defer a.seenMu.Unlock()

	current := make(map[string]struct{}, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		current[m.ID] = struct{}{}
		if _, ok := a.seen[m.ID]; ok {
			continue
		}
		fmt.Fprintln(a.out, renderNotice(m))
	}
	a.seen = current
}

func (a *App) printLoading(loading bool) {
	if loading {
		fmt.Fprintln(a.out, faintStyle.Render("loading..."))
	}
}
