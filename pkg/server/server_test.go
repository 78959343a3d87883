package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/hxstate/pkg/middleware"
	"github.com/vango-dev/hxstate/pkg/session"
	"github.com/vango-dev/hxstate/pkg/state"
)

// downStore reports every operation as a backend failure.
type downStore struct{}

func (downStore) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, &session.StoreError{Backend: "test", Op: "load", Key: key, Err: errors.New("connection refused")}
}
func (downStore) Save(ctx context.Context, key string, data []byte) error {
	return &session.StoreError{Backend: "test", Op: "save", Key: key, Err: errors.New("connection refused")}
}
func (downStore) SaveIfAbsent(ctx context.Context, key string, data []byte) ([]byte, bool, error) {
	return nil, false, &session.StoreError{Backend: "test", Op: "insert", Key: key, Err: errors.New("connection refused")}
}
func (downStore) Delete(ctx context.Context, key string) error { return nil }
func (downStore) Close() error                                { return nil }

// readOnlyStore serves reads from a memory store and fails every write.
type readOnlyStore struct {
	*session.MemoryStore
}

func (readOnlyStore) Save(ctx context.Context, key string, data []byte) error {
	return &session.StoreError{Backend: "test", Op: "save", Key: key, Err: errors.New("disk full")}
}
func (readOnlyStore) SaveIfAbsent(ctx context.Context, key string, data []byte) ([]byte, bool, error) {
	return nil, false, &session.StoreError{Backend: "test", Op: "insert", Key: key, Err: errors.New("disk full")}
}

type testServer struct {
	*Server
	backend  *session.MemoryStore
	registry *prometheus.Registry
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, variant Variant) *testServer {
	t.Helper()
	backend := session.NewMemoryStore()
	t.Cleanup(func() { _ = backend.Close() })

	reg := prometheus.NewRegistry()
	srv, err := New(&ServerConfig{
		Variant: variant,
		Counter: state.NewCounterStore(
			session.Namespace(backend, "binding:"),
			session.Namespace(backend, "counter:"),
		),
		Todos:   state.NewTodoStore(session.Namespace(backend, "todos:")),
		Logger:  quietLogger(),
		Metrics: middleware.NewMetrics(middleware.WithRegistry(reg)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	n := 0
	srv.newItemID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	return &testServer{Server: srv, backend: backend, registry: reg}
}

func newDownServer(t *testing.T, variant Variant) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	srv, err := New(&ServerConfig{
		Variant: variant,
		Counter: state.NewCounterStore(downStore{}, downStore{}),
		Todos:   state.NewTodoStore(downStore{}),
		Logger:  quietLogger(),
		Metrics: middleware.NewMetrics(middleware.WithRegistry(reg)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &testServer{Server: srv, registry: reg}
}

// do sends one request. A non-nil form is sent url-encoded.
func (ts *testServer) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

// visit performs a first GET and returns the minted cookie.
func (ts *testServer) visit(t *testing.T, target string) *http.Cookie {
	t.Helper()
	rec := ts.do(t, http.MethodGet, target, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", target, rec.Code)
	}
	c := sessionCookie(rec)
	if c == nil {
		t.Fatalf("GET %s did not set a session cookie", target)
	}
	return c
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	return nil
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string)
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *ServerConfig
	}{
		{"unknown variant", &ServerConfig{Variant: "blog", Todos: state.NewTodoStore(session.NewMemoryStore())}},
		{"counter without store", &ServerConfig{Variant: VariantCounter}},
		{"todos without store", &ServerConfig{Variant: VariantTodos}},
		{"both without counter", &ServerConfig{Variant: VariantBoth, Todos: state.NewTodoStore(session.NewMemoryStore())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.config); err == nil {
				t.Error("New() error = nil")
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	srv, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}
	cfg := srv.Config()
	if cfg.Address != ":8080" || cfg.Variant != VariantBoth {
		t.Errorf("defaults = %q %q", cfg.Address, cfg.Variant)
	}
	if cfg.Resolver == nil || cfg.Composer == nil || cfg.Logger == nil {
		t.Error("dependencies not defaulted")
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, VariantTodos)
	rec := ts.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if sessionCookie(rec) != nil {
		t.Error("healthz minted a session")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, VariantTodos)
	ts.visit(t, "/")

	rec := ts.do(t, http.MethodGet, "/metrics", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"hxstate_sessions_minted_total 1", `hxstate_requests_total{method="GET",route="/",status="200"} 1`} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestVariantRouting(t *testing.T) {
	t.Run("counter", func(t *testing.T) {
		ts := newTestServer(t, VariantCounter)
		if rec := ts.do(t, http.MethodGet, "/", nil, nil); !strings.Contains(rec.Body.String(), `id="name-form"`) {
			t.Error("GET / is not the counter page")
		}
		if rec := ts.do(t, http.MethodPost, "/todos", url.Values{"todo": {"x"}}, nil); rec.Code != http.StatusNotFound {
			t.Errorf("POST /todos status = %d, want 404", rec.Code)
		}
	})
	t.Run("todos", func(t *testing.T) {
		ts := newTestServer(t, VariantTodos)
		if rec := ts.do(t, http.MethodGet, "/", nil, nil); !strings.Contains(rec.Body.String(), `id="todo-list"`) {
			t.Error("GET / is not the to-do page")
		}
		if rec := ts.do(t, http.MethodPost, "/clicked", nil, nil); rec.Code != http.StatusNotFound {
			t.Errorf("POST /clicked status = %d, want 404", rec.Code)
		}
	})
	t.Run("both", func(t *testing.T) {
		ts := newTestServer(t, VariantBoth)
		if rec := ts.do(t, http.MethodGet, "/", nil, nil); !strings.Contains(rec.Body.String(), `id="todo-list"`) {
			t.Error("GET / is not the to-do page")
		}
		if rec := ts.do(t, http.MethodGet, "/counter", nil, nil); !strings.Contains(rec.Body.String(), `id="name-form"`) {
			t.Error("GET /counter is not the counter page")
		}
	})
}

func TestIdentity_FirstVisitsAreDistinct(t *testing.T) {
	ts := newTestServer(t, VariantTodos)

	a := ts.visit(t, "/")
	b := ts.visit(t, "/")
	if a.Value == b.Value {
		t.Fatalf("two first visits share identity %q", a.Value)
	}
	for _, c := range []*http.Cookie{a, b} {
		if !session.ValidID(c.Value) {
			t.Errorf("identity %q is not a UUID", c.Value)
		}
		if c.Path != "/" || !c.HttpOnly {
			t.Errorf("cookie = %+v, want Path=/ HttpOnly", c)
		}
		if !c.Expires.IsZero() || c.MaxAge != 0 {
			t.Errorf("cookie has an expiry: %+v", c)
		}
	}
	if got := counterValue(t, ts.registry, "hxstate_sessions_minted_total", nil); got != 2 {
		t.Errorf("sessions minted = %v, want 2", got)
	}
}

func TestIdentity_KnownCookieIsKept(t *testing.T) {
	ts := newTestServer(t, VariantTodos)
	c := ts.visit(t, "/")

	rec := ts.do(t, http.MethodGet, "/", nil, c)
	if sessionCookie(rec) != nil {
		t.Error("known identity was re-issued")
	}
}

func TestIdentity_MalformedCookieIsReplaced(t *testing.T) {
	ts := newTestServer(t, VariantTodos)
	rec := ts.do(t, http.MethodGet, "/", nil, &http.Cookie{Name: "session", Value: "not-a-token"})
	c := sessionCookie(rec)
	if c == nil || !session.ValidID(c.Value) {
		t.Fatalf("cookie = %v, want a fresh identity", c)
	}
}

func TestStoreUnavailable(t *testing.T) {
	ts := newDownServer(t, VariantBoth)
	known := &http.Cookie{Name: "session", Value: session.NewID()}

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
		action string
	}{
		{"counter view", http.MethodGet, "/counter", nil, "view"},
		{"submit name", http.MethodPost, "/name", url.Values{"name": {"Ada"}, "count": {"1"}}, "submit_name"},
		{"increment", http.MethodPost, "/clicked", nil, "increment"},
		{"list", http.MethodGet, "/", nil, "list"},
		{"add", http.MethodPost, "/todos", url.Values{"todo": {"milk"}}, "add"},
		{"toggle", http.MethodPatch, "/todos/x", nil, "toggle"},
		{"edit", http.MethodGet, "/todos/edit/x", nil, "edit"},
		{"rename", http.MethodPost, "/todos/update/x", url.Values{"todo": {"milk"}}, "rename"},
		{"delete", http.MethodDelete, "/todos/x", nil, "delete"},
		{"clear", http.MethodPost, "/todos/clear-completed", nil, "clear_completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.target, tt.form, known)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			body := rec.Body.String()
			if strings.Contains(body, "connection refused") {
				t.Errorf("body leaks backend detail: %q", body)
			}
			if strings.Contains(body, "<") {
				t.Errorf("body renders a default view: %q", body)
			}
			labels := map[string]string{"action": tt.action, "kind": "store"}
			if got := counterValue(t, ts.registry, "hxstate_action_errors_total", labels); got != 1 {
				t.Errorf("action errors = %v, want 1", got)
			}
		})
	}
}

func TestValidationPrecedesStoreAccess(t *testing.T) {
	// The store is down, so any store access would turn these into 500s.
	ts := newDownServer(t, VariantBoth)

	tests := []struct {
		name   string
		target string
		form   url.Values
	}{
		{"empty name", "/name", url.Values{"name": {"  "}, "count": {"1"}}},
		{"negative count", "/name", url.Values{"name": {"Ada"}, "count": {"-1"}}},
		{"count above max", "/name", url.Values{"name": {"Ada"}, "count": {"18446744073709551615"}}},
		{"empty todo", "/todos", url.Values{"todo": {""}}},
		{"empty rename", "/todos/update/x", url.Values{"todo": {"\t"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.target, tt.form, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if sessionCookie(rec) == nil {
				t.Error("error response did not carry the minted identity")
			}
		})
	}
}

func TestSaveFailure(t *testing.T) {
	ctx := context.Background()
	backend := session.NewMemoryStore()
	t.Cleanup(func() { _ = backend.Close() })
	identity := session.NewID()

	// Seed a bound counter and a list with one done item, so every
	// mutation below loads successfully and then has to write.
	counters := state.NewCounterStore(session.Namespace(backend, "binding:"), session.Namespace(backend, "counter:"))
	key, err := counters.Bind(ctx, identity)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if err := counters.Save(ctx, key, state.Counter{Count: 1, Name: "Ada"}); err != nil {
		t.Fatalf("counter Save() error = %v", err)
	}
	seeded := state.TodoList{Items: []state.Item{{ID: "item-1", Label: "a", Done: true}}}
	if err := state.NewTodoStore(session.Namespace(backend, "todos:")).Save(ctx, identity, seeded); err != nil {
		t.Fatalf("todo Save() error = %v", err)
	}
	before := backend.Count()

	failing := readOnlyStore{backend}
	reg := prometheus.NewRegistry()
	srv, err := New(&ServerConfig{
		Variant: VariantBoth,
		Counter: state.NewCounterStore(
			session.Namespace(failing, "binding:"),
			session.Namespace(failing, "counter:"),
		),
		Todos:   state.NewTodoStore(session.Namespace(failing, "todos:")),
		Logger:  quietLogger(),
		Metrics: middleware.NewMetrics(middleware.WithRegistry(reg)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := &testServer{Server: srv, backend: backend, registry: reg}
	known := &http.Cookie{Name: "session", Value: identity}

	page := ts.do(t, http.MethodGet, "/counter", nil, known)
	if page.Code != http.StatusOK || !strings.Contains(page.Body.String(), countSpan(1)) {
		t.Fatalf("seeded counter page = %d %q", page.Code, page.Body.String())
	}

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
		action string
	}{
		{"submit name", http.MethodPost, "/name", url.Values{"name": {"Grace"}, "count": {"5"}}, "submit_name"},
		{"increment", http.MethodPost, "/clicked", nil, "increment"},
		{"add", http.MethodPost, "/todos", url.Values{"todo": {"milk"}}, "add"},
		{"toggle", http.MethodPatch, "/todos/item-1", nil, "toggle"},
		{"rename", http.MethodPost, "/todos/update/item-1", url.Values{"todo": {"b"}}, "rename"},
		{"delete", http.MethodDelete, "/todos/item-1", nil, "delete"},
		{"clear", http.MethodPost, "/todos/clear-completed", nil, "clear_completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.target, tt.form, known)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500: %q", rec.Code, rec.Body.String())
			}
			body := rec.Body.String()
			if strings.Contains(body, "disk full") {
				t.Errorf("body leaks backend detail: %q", body)
			}
			if strings.Contains(body, "<") {
				t.Errorf("body renders a fragment after a failed save: %q", body)
			}
			labels := map[string]string{"action": tt.action, "kind": "store"}
			if got := counterValue(t, ts.registry, "hxstate_action_errors_total", labels); got != 1 {
				t.Errorf("action errors = %v, want 1", got)
			}
		})
	}

	if backend.Count() != before {
		t.Errorf("backend holds %d keys after failed saves, want %d", backend.Count(), before)
	}
	list, err := state.NewTodoStore(session.Namespace(backend, "todos:")).LoadOrEmpty(ctx, identity)
	if err != nil || len(list.Items) != 1 || list.Items[0] != seeded.Items[0] {
		t.Errorf("stored list changed: %+v, %v", list, err)
	}
}
