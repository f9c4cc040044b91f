// Package router is the console's navigation layer. Screens are mounted on
// a chi mux and entered through Navigate, which dispatches a synthetic GET,
// runs the route's gates and follows any redirect they or the request
// pipeline ask for.
package router

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/client/guard"
	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/go-chi/chi/v5"
)

// maxRedirects bounds how many hops one Navigate call may follow.
const maxRedirects = 8

// Notifier shows gate notices to the user.
type Notifier interface {
	Error(text string) string
}

// Route is one console screen. Roles are any-of; Public routes skip every
// gate. Routes with InMenu set are listed by Menu.
type Route struct {
	Path   string
	Title  string
	Roles  []string
	Public bool
	InMenu bool
	Screen http.HandlerFunc
}

type MenuItem struct {
	Label string
	Path  string
	Roles []string
}

// Page is the outcome of the last completed navigation.
type Page struct {
	URL   string
	Title string
	Body  string
}

type Router struct {
	mux      *chi.Mux
	session  guard.Session
	policy   guard.Policy
	notifier Notifier
	log      logging.Logger

	titles map[string]string
	menu   []MenuItem

	navMu sync.Mutex

	mu          sync.Mutex
	page        Page
	dispatching bool
	pending     string
}

type Option func(*Router)

func WithPolicy(p guard.Policy) Option {
	return func(r *Router) { r.policy = p }
}

func WithNotifier(n Notifier) Option {
	return func(r *Router) { r.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.log = l }
}

// New builds an empty router. "/" leads to the login screen and unknown
// paths lead home.
func New(sess guard.Session, opts ...Option) *Router {
	r := &Router{
		mux:     chi.NewRouter(),
		session: sess,
		policy:  guard.DefaultPolicy,
		log:     logging.Discard(),
		titles:  map[string]string{},
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.With("component", "router")

	r.mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, r.policy.LoginPath, http.StatusSeeOther)
	})
	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, r.policy.HomePath, http.StatusSeeOther)
	})
	return r
}

// Handle mounts a screen behind its gates.
func (r *Router) Handle(rt Route) {
	r.titles[rt.Path] = rt.Title
	if rt.InMenu {
		r.menu = append(r.menu, MenuItem{Label: rt.Title, Path: rt.Path, Roles: rt.Roles})
	}
	r.mux.With(r.gate(rt)).Get(rt.Path, rt.Screen)
}

func (r *Router) gate(rt Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if rt.Public {
				next.ServeHTTP(w, req)
				return
			}

			target := guard.Target{Path: req.URL.Path, URL: req.URL.RequestURI(), Roles: rt.Roles}
			d := guard.Evaluate(r.session, target, r.policy.Authenticated, r.policy.Roles)
			if !d.Allow {
				if d.Notice != "" && r.notifier != nil {
					r.notifier.Error(d.Notice)
				}
				r.log.Debug(req.Context(), "navigation denied", "path", target.Path, "redirect", d.Location())
				http.Redirect(w, req, d.Location(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// Navigate enters target, following redirects until a screen renders.
// The committed location only changes when navigation completes.
func (r *Router) Navigate(ctx context.Context, target string) error {
	r.navMu.Lock()
	defer r.navMu.Unlock()

	loc := target
	for hop := 0; hop <= maxRedirects; hop++ {
		w, err := r.dispatch(ctx, loc)
		if err != nil {
			return err
		}

		next := r.takePending()
		if next == "" && w.status >= 300 && w.status < 400 {
			next = w.header.Get("Location")
		}
		if next == "" {
			r.commit(loc, w)
			return nil
		}

		r.log.Debug(ctx, "redirect", "from", loc, "to", next)
		loc = next
	}
	return fmt.Errorf("navigate %s: %w", target, common.ErrTooManyRedirects)
}

func (r *Router) dispatch(ctx context.Context, loc string) (*pageWriter, error) {
	if !strings.HasPrefix(loc, "/") {
		loc = "/" + loc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", loc, err)
	}

	r.mu.Lock()
	r.dispatching = true
	r.pending = ""
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.dispatching = false
		r.mu.Unlock()
	}()

	w := newPageWriter()
	r.mux.ServeHTTP(w, req)
	return w, nil
}

func (r *Router) takePending() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pending
	r.pending = ""
	return p
}

func (r *Router) commit(loc string, w *pageWriter) {
	if !strings.HasPrefix(loc, "/") {
		loc = "/" + loc
	}
	title := ""
	path, _, _ := strings.Cut(loc, "?")
	rctx := chi.NewRouteContext()
	if r.mux.Match(rctx, http.MethodGet, path) {
		title = r.titles[rctx.RoutePattern()]
	}

	r.mu.Lock()
	r.page = Page{URL: loc, Title: title, Body: w.body.String()}
	r.mu.Unlock()
}

// Current returns the committed location, path and query.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.URL
}

func (r *Router) Page() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page
}

// Redirect asks to go to path. While a screen is rendering the request is
// queued and taken as that navigation's next hop; otherwise it navigates
// right away.
func (r *Router) Redirect(path string, query url.Values) {
	loc := path
	if len(query) > 0 {
		loc += "?" + query.Encode()
	}

	r.mu.Lock()
	if r.dispatching {
		r.pending = loc
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	if err := r.Navigate(context.Background(), loc); err != nil {
		r.log.Error(context.Background(), "redirect failed", "to", loc, "error", err)
	}
}

// Menu lists the entries view may open: entries without roles always, the
// rest when any role is held and the path is allowed.
func (r *Router) Menu(view guard.Session) []MenuItem {
	items := make([]MenuItem, 0, len(r.menu))
	for _, it := range r.menu {
		if len(it.Roles) > 0 && !view.HasAnyRole(it.Roles...) {
			continue
		}
		if len(it.Roles) > 0 && !view.CanAccessPath(it.Path) {
			continue
		}
		items = append(items, it)
	}
	return items
}

// pageWriter buffers what a screen renders.
type pageWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newPageWriter() *pageWriter {
	return &pageWriter{header: http.Header{}}
}

func (w *pageWriter) Header() http.Header { return w.header }

func (w *pageWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *pageWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}
