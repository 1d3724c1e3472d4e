package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"trainsafe/backend/internal/netguard"
)

type stubHandler struct {
	hits map[string]int
}

func (s *stubHandler) mark(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.hits[name]++
		c.Status(http.StatusOK)
	}
}

func (s *stubHandler) Login(c *gin.Context)    { s.mark("login")(c) }
func (s *stubHandler) Validate(c *gin.Context) { s.mark("validate")(c) }
func (s *stubHandler) Logout(c *gin.Context)   { s.mark("logout")(c) }
func (s *stubHandler) Execute(c *gin.Context)  { s.mark("execute")(c) }

type stubPinger struct {
	err error
}

func (p *stubPinger) PingContext(context.Context) error { return p.err }

func newTestRouter(t *testing.T, db Pinger, allow *netguard.Allowlist) (*gin.Engine, *stubHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stub := &stubHandler{hits: map[string]int{}}
	r := NewRouter(Deps{
		Login:     stub,
		Sessions:  stub,
		Queries:   stub,
		DB:        db,
		Allowlist: allow,
	})
	return r, stub
}

func TestRouterRoutes(t *testing.T) {
	r, stub := newTestRouter(t, &stubPinger{}, nil)

	for _, path := range []string{"/login", "/validate_2fa", "/logout", "/execute"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("POST %s = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
	for _, name := range []string{"login", "validate", "logout", "execute"} {
		if stub.hits[name] != 1 {
			t.Fatalf("handler %s hit %d times, want 1", name, stub.hits[name])
		}
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, &stubPinger{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHealthzDegraded(t *testing.T) {
	r, _ := newTestRouter(t, &stubPinger{err: errors.New("down")}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestAllowlistBlocksForeignIP(t *testing.T) {
	allow, err := netguard.NewAllowlist([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("allowlist: %v", err)
	}
	r, stub := newTestRouter(t, &stubPinger{}, allow)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "192.168.1.5:45000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if stub.hits["login"] != 0 {
		t.Fatal("blocked request must not reach the handler")
	}

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.1.2.3:45000"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &stubPinger{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
