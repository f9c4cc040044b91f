package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stateBackend struct {
	mu     sync.Mutex
	calls  []string
	bodies []models.State
}

func (b *stateBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/Auth/admin/login", &backend{})
	mux.HandleFunc("/api/State", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"id":2,"name":"Closed","hexColor":"#ff0000"}]`)
		case http.MethodPost, http.MethodPut:
			var s models.State
			_ = json.NewDecoder(r.Body).Decode(&s)
			b.mu.Lock()
			b.bodies = append(b.bodies, s)
			b.mu.Unlock()
			if s.ID == 0 {
				s.ID = 3
			}
			_ = json.NewEncoder(w).Encode(s)
		}
	})
	mux.HandleFunc("/api/State/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"id":2,"name":"Closed","hexColor":"#ff0000"}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	return mux
}

func (b *stateBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
}

func (b *stateBackend) writes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.calls {
		if !strings.HasPrefix(c, http.MethodGet+" ") {
			out = append(out, c)
		}
	}
	return out
}

func TestApp_CatalogRecordCommands(t *testing.T) {
	ctx := context.Background()
	be := &stateBackend{}
	a, out := newTestApp(t, be.handler(), "admin\nReview\n#ffaa00\n\n#00ff00\nyes\nno\n")
	stubPassword(t, "secret1")

	require.NoError(t, a.Login(ctx))
	require.ErrorIs(t, a.ShowRecord(ctx, 2), errNoCatalog, "home is not a catalog")

	require.NoError(t, a.Open(ctx, PathStates))

	out.Reset()
	require.NoError(t, a.ShowRecord(ctx, 2))
	assert.Contains(t, out.String(), "Closed")
	assert.Contains(t, out.String(), "#ff0000")

	require.NoError(t, a.AddRecord(ctx))
	require.NoError(t, a.EditRecord(ctx, 2))
	require.NoError(t, a.DeleteRecord(ctx, 2))
	require.ErrorIs(t, a.DeleteRecord(ctx, 2), errNotDeleted)

	assert.Equal(t, []string{"POST /api/State", "PUT /api/State", "DELETE /api/State/2"}, be.writes())
	require.Len(t, be.bodies, 2)
	assert.Equal(t, models.State{Name: "Review", HexColor: "#ffaa00"}, be.bodies[0])
	assert.Equal(t, models.State{ID: 2, Name: "Closed", HexColor: "#00ff00"}, be.bodies[1], "blank answer keeps the name")

	texts := noticeTexts(a)
	assert.Contains(t, texts, "State 3 created.")
	assert.Contains(t, texts, "State 2 updated.")
	assert.Contains(t, texts, "State 2 deleted.")
	assert.Equal(t, PathStates, a.router.Current())
}

func TestApp_AddRecordRequiresName(t *testing.T) {
	ctx := context.Background()
	be := &stateBackend{}
	a, _ := newTestApp(t, be.handler(), "admin\n\n")
	stubPassword(t, "secret1")

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Open(ctx, PathStates))

	require.ErrorIs(t, a.AddRecord(ctx), ErrEmptyInput)
	assert.Empty(t, be.writes())
}

func TestFill_Flags(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		start   bool
		want    bool
		wantErr error
	}{
		{name: "yes", input: "yes\n", want: true},
		{name: "short no", input: "n\n", start: true, want: false},
		{name: "blank keeps", input: "\n", start: true, want: true},
		{name: "garbage", input: "maybe\n", start: true, want: true, wantErr: errYesNo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t, http.NotFoundHandler(), tt.input)
			rt := models.RequestType{Name: "Incident", IsActive: tt.start}

			err := a.fill([]field{{label: "Active", flag: &rt.IsActive}}, false)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, rt.IsActive)
		})
	}
}
