package cli

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
	"github.com/dmitrijs2005/gophadmin/internal/common"
)

// Console locations.
const (
	PathLogin          = "/login"
	PathForgotPassword = "/forgot-password"
	PathHome           = "/home"
	PathUsers          = "/admin/users"
	PathReports        = "/reports"
	PathRoles          = "/admin/roles"
	PathStates         = "/catalogs/states"
	PathRequestTypes   = "/catalogs/request-types"
	PathFAQ            = "/catalogs/faq"
)

const (
	RoleAdmin  = "Admin"
	RoleReport = "Report"
)

// routes lists every console screen in menu order.
func (a *App) routes() []router.Route {
	return []router.Route{
		{Path: PathLogin, Title: "Sign in", Public: true, Screen: a.loginScreen},
		{Path: PathForgotPassword, Title: "Password recovery", Public: true, Screen: a.forgotScreen},
		{Path: PathHome, Title: "Home", InMenu: true, Screen: a.homeScreen},
		{Path: PathUsers, Title: "Users", Roles: []string{RoleAdmin}, InMenu: true, Screen: a.usersScreen},
		{Path: PathReports, Title: "Reports", Roles: []string{RoleAdmin, RoleReport}, InMenu: true, Screen: a.reportsScreen},
		{Path: PathRoles, Title: "Roles", Roles: []string{RoleAdmin}, InMenu: true,
			Screen: catalogScreen(a.catalogs.Roles, []string{"ID", "Name", "Description", "System"}, func(r models.Role) []string {
				return []string{strconv.Itoa(r.ID), r.Name, r.Description, yesNo(r.IsSystem)}
			})},
		{Path: PathStates, Title: "States", Roles: []string{RoleAdmin}, InMenu: true,
			Screen: catalogScreen(a.catalogs.States, []string{"ID", "Name", "Color", "System"}, func(s models.State) []string {
				return []string{strconv.Itoa(s.ID), s.Name, s.HexColor, yesNo(s.IsSystem)}
			})},
		{Path: PathRequestTypes, Title: "Request types", Roles: []string{RoleAdmin}, InMenu: true,
			Screen: catalogScreen(a.catalogs.RequestTypes, []string{"ID", "Name", "Active"}, func(r models.RequestType) []string {
				return []string{strconv.Itoa(r.ID), r.Name, yesNo(r.IsActive)}
			})},
		{Path: PathFAQ, Title: "Frequent questions", Roles: []string{RoleAdmin, RoleReport}, InMenu: true,
			Screen: catalogScreen(a.catalogs.FrequentQuestions, []string{"ID", "Question"}, func(q models.FrequentQuestion) []string {
				return []string{strconv.Itoa(q.ID), q.Question}
			})},
	}
}

func (a *App) loginScreen(w http.ResponseWriter, r *http.Request) {
	if a.session.IsAuthenticated() {
		fmt.Fprintf(w, "Signed in as %s. Type 'open %s' to continue.\n", a.displayName(), PathHome)
		return
	}
	fmt.Fprintln(w, "Type 'login' to sign in or 'forgot' to recover your password.")
	if ret := r.URL.Query().Get(common.ReturnURLParam); ret != "" {
		fmt.Fprintln(w, faintStyle.Render("You will be taken back to "+ret))
	}
}

func (a *App) forgotScreen(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintln(w, "Type 'forgot' to request a verification code, then 'reset' to choose a new password.")
}

func (a *App) homeScreen(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "Welcome, %s.\n", a.displayName())
	for _, it := range a.router.Menu(a.session) {
		fmt.Fprintf(w, "  %-22s %s\n", it.Label, faintStyle.Render(it.Path))
	}
}

func (a *App) usersScreen(w http.ResponseWriter, _ *http.Request) {
	snap := a.session.Snapshot()
	if snap.Principal == nil {
		return
	}
	writeTable(w, []string{"ID", "User", "Email", "Roles"}, [][]string{{
		snap.Principal.ID, snap.Principal.UserName, snap.Principal.Email, strings.Join(snap.Principal.Roles, ", "),
	}})
}

func (a *App) reportsScreen(w http.ResponseWriter, r *http.Request) {
	states, err := a.catalogs.States.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	types, err := a.catalogs.RequestTypes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	active := 0
	for _, t := range types {
		if t.IsActive && !t.IsDeleted {
			active++
		}
	}
	writeTable(w, []string{"Metric", "Value"}, [][]string{
		{"Workflow states", strconv.Itoa(len(states))},
		{"Request types", strconv.Itoa(len(types))},
		{"Active request types", strconv.Itoa(active)},
	})
}

// catalogScreen lists a backend collection as a table.
func catalogScreen[T any](res *client.Resource[T], columns []string, row func(T) []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := res.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, row(it))
		}
		writeTable(w, columns, rows)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
