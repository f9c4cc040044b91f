package guard

import (
	"testing"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(roles []string, allowed ...string) session.Snapshot {
	return session.Snapshot{
		Credential: &models.Credential{Token: "T"},
		Principal:  &models.Principal{ID: "u1", Roles: roles, AllowedPaths: allowed},
	}
}

func TestAuthenticated(t *testing.T) {
	p := DefaultPolicy

	d := p.Authenticated(snapshot(nil), Target{Path: "/reports", URL: "/reports?page=2"})
	assert.True(t, d.Allow)

	d = p.Authenticated(session.Snapshot{}, Target{Path: "/reports", URL: "/reports?page=2"})
	require.False(t, d.Allow)
	assert.Equal(t, "/login", d.Redirect)
	assert.Equal(t, "/reports?page=2", d.Query.Get("returnUrl"))
	assert.Equal(t, "/login?returnUrl=%2Freports%3Fpage%3D2", d.Location())
	assert.Empty(t, d.Notice)
}

func TestRoles(t *testing.T) {
	p := DefaultPolicy
	target := Target{Path: "/reports", URL: "/reports", Roles: []string{"Admin", "Report"}}

	tests := []struct {
		name   string
		s      Session
		t      Target
		allow  bool
		notice string
	}{
		{name: "any required role suffices", s: snapshot([]string{"Report"}), t: target, allow: true},
		{name: "no roles held", s: snapshot([]string{}), t: target, notice: NoticeMissingRole},
		{name: "other role held", s: snapshot([]string{"Viewer"}), t: target, notice: NoticeMissingRole},
		{name: "anonymous", s: session.Snapshot{}, t: target, notice: NoticeMissingRole},
		{name: "role held but path not allowed", s: snapshot([]string{"Admin"}, "/admin"), t: target, notice: NoticeDeniedPath},
		{name: "role held and path prefix allowed", s: snapshot([]string{"Admin"}, "/rep"), t: target, allow: true},
		{name: "route without roles is open", s: session.Snapshot{}, t: Target{Path: "/home"}, allow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Roles(tt.s, tt.t)
			assert.Equal(t, tt.allow, d.Allow)
			if !tt.allow {
				assert.Equal(t, "/home", d.Redirect)
				assert.Equal(t, tt.notice, d.Notice)
				assert.Equal(t, "/home", d.Location())
			}
		})
	}
}

func TestEvaluate_FirstDenialWins(t *testing.T) {
	p := Policy{LoginPath: "/signin", HomePath: "/start"}
	target := Target{Path: "/admin/users", URL: "/admin/users", Roles: []string{"Admin"}}

	d := Evaluate(session.Snapshot{}, target, p.Authenticated, p.Roles)
	assert.Equal(t, "/signin", d.Redirect)

	d = Evaluate(snapshot([]string{"Report"}), target, p.Authenticated, p.Roles)
	assert.Equal(t, "/start", d.Redirect)
	assert.Equal(t, NoticeMissingRole, d.Notice)

	d = Evaluate(snapshot([]string{"Admin"}), target, p.Authenticated, p.Roles)
	assert.True(t, d.Allow)

	assert.True(t, Evaluate(session.Snapshot{}, target).Allow)
}

func TestGates_DoNotMutateSession(t *testing.T) {
	s := snapshot([]string{"Report"})
	before := s.Principal.Clone()

	_ = Evaluate(s, Target{Path: "/admin", Roles: []string{"Admin"}}, DefaultPolicy.Authenticated, DefaultPolicy.Roles)
	assert.Equal(t, before, s.Principal)
}
