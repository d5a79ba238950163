package tests

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/commit-reveal/api"
	"github.com/vocdoni/commit-reveal/api/client"
	"github.com/vocdoni/commit-reveal/engine"
	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/template"
	"github.com/vocdoni/commit-reveal/types"
	"github.com/vocdoni/commit-reveal/verifier"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

// testService runs the full API stack over an in-memory store on an
// httptest server, with a controllable clock.
type testService struct {
	store  *storage.Storage
	engine *engine.Engine
	clock  *fakeClock
	server *httptest.Server
	client *client.HTTPclient
}

func newTestService(t *testing.T) *testService {
	t.Helper()
	c := qt.New(t)

	store := storage.New(memdb.New())
	t.Cleanup(store.Close)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	registry := template.DefaultRegistry()
	eng := engine.New(store, registry, engine.WithTimeFunc(clock.Now))
	vf := verifier.New(store, registry)

	a, err := api.NewRouter(&api.APIConfig{
		Engine:   eng,
		Verifier: vf,
	})
	c.Assert(err, qt.IsNil)

	server := httptest.NewServer(a.Router())
	t.Cleanup(server.Close)

	cl, err := client.New(server.URL)
	c.Assert(err, qt.IsNil)

	return &testService{
		store:  store,
		engine: eng,
		clock:  clock,
		server: server,
		client: cl,
	}
}

func yesNoConfig() *types.VoteConfig {
	return &types.VoteConfig{
		Title:              "integration vote",
		Description:        "exercised by the end-to-end tests",
		TemplateID:         template.TemplateYesNo,
		Creator:            "alice",
		CommitmentDuration: types.Duration(time.Hour),
		RevealDuration:     types.Duration(time.Hour),
	}
}
