package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/safestreet/safestreet-go/session"
)

type staticSessions struct {
	s *session.Session
}

func (ss *staticSessions) Get() *session.Session {
	return ss.s.Clone()
}

func testRoutes() *RouteTable {
	t := NewRouteTable("/")
	t.Register(session.RoleUser, "/dashboard")
	t.Register(session.RoleClient, "/client")
	t.Register(session.RoleAdmin, "/admin")
	t.Register(session.RoleSuperAdmin, "/admin")
	t.Freeze()
	return t
}

func verifiedSession(role session.Role) *session.Session {
	return &session.Session{
		User:         &session.User{ID: "u-1", Role: role},
		CSRFToken:    "tok",
		RoleVerified: true,
	}
}

func TestRouteTableFreeze(t *testing.T) {
	table := NewRouteTable("/")
	if !table.Register(session.RoleUser, "/dashboard") {
		t.Fatal("register before freeze failed")
	}
	table.Freeze()
	if table.Register(session.RoleAdmin, "/admin") {
		t.Fatal("register after freeze succeeded")
	}
	if !table.Frozen() {
		t.Fatal("table not frozen")
	}
	if got := table.Landing(session.RoleAdmin); got != "/" {
		t.Fatalf("unregistered role landing = %q, want fallback", got)
	}
}

func TestRouteTableRejectsInvalidRole(t *testing.T) {
	table := NewRouteTable("/")
	if table.Register(session.Role("made-up"), "/x") {
		t.Fatal("registered an invalid role")
	}
	if table.Register(session.RoleUser, "") {
		t.Fatal("registered an empty landing")
	}
}

func TestProtectNoSessionRedirectsToLogin(t *testing.T) {
	g := New(testRoutes(), &staticSessions{}, nil, "/login")

	res := g.Protect(context.Background(), session.RoleUser)
	if res.Decision != Redirect || res.Target != "/login" {
		t.Fatalf("verdict = %+v, want login redirect", res)
	}
}

func TestProtectAllowsMatchingRole(t *testing.T) {
	ss := &staticSessions{s: verifiedSession(session.RoleAdmin)}
	g := New(testRoutes(), ss, nil, "/login")

	if res := g.Protect(context.Background(), session.RoleAdmin, session.RoleSuperAdmin); res.Decision != Allow {
		t.Fatalf("verdict = %+v, want allow", res)
	}
}

func TestProtectWrongRoleLandsOnOwnPage(t *testing.T) {
	cases := []struct {
		role session.Role
		want string
	}{
		{session.RoleUser, "/dashboard"},
		{session.RoleClient, "/client"},
		{session.RoleAdmin, "/admin"},
		{session.RoleSuperAdmin, "/admin"},
	}

	for _, tc := range cases {
		ss := &staticSessions{s: verifiedSession(tc.role)}
		g := New(testRoutes(), ss, nil, "/login")

		// Gate on a role set the visitor is never part of.
		allowed := session.RoleAdmin
		if tc.role == session.RoleAdmin || tc.role == session.RoleSuperAdmin {
			allowed = session.RoleUser
		}

		res := g.Protect(context.Background(), allowed)
		if res.Decision != Redirect || res.Target != tc.want {
			t.Fatalf("%s: verdict = %+v, want redirect to %s", tc.role, res, tc.want)
		}
	}
}

func TestProtectVerifiesUnverifiedSession(t *testing.T) {
	ss := &staticSessions{s: &session.Session{
		User:      &session.User{ID: "u-1", Role: session.RoleUser},
		CSRFToken: "tok",
	}}

	verified := false
	verify := func(ctx context.Context) error {
		verified = true
		ss.s.RoleVerified = true
		return nil
	}

	g := New(testRoutes(), ss, verify, "/login")
	if res := g.Protect(context.Background(), session.RoleUser); res.Decision != Allow {
		t.Fatalf("verdict = %+v, want allow after verification", res)
	}
	if !verified {
		t.Fatal("verifier never ran")
	}
}

func TestProtectFailsClosedOnVerificationError(t *testing.T) {
	ss := &staticSessions{s: &session.Session{
		User:      &session.User{ID: "u-1", Role: session.RoleAdmin},
		CSRFToken: "tok",
	}}
	verify := func(ctx context.Context) error {
		ss.s = nil
		return errors.New("server unreachable")
	}

	g := New(testRoutes(), ss, verify, "/login")
	res := g.Protect(context.Background(), session.RoleAdmin)
	if res.Decision != Redirect || res.Target != "/login" {
		t.Fatalf("verdict = %+v, want login redirect", res)
	}
}

func TestProtectEmptyAllowedMeansAnyVerified(t *testing.T) {
	ss := &staticSessions{s: verifiedSession(session.RoleClient)}
	g := New(testRoutes(), ss, nil, "/login")

	if res := g.Protect(context.Background()); res.Decision != Allow {
		t.Fatalf("verdict = %+v, want allow", res)
	}
}

func TestLandingPerRole(t *testing.T) {
	cases := map[session.Role]string{
		session.RoleUser:       "/dashboard",
		session.RoleClient:     "/client",
		session.RoleAdmin:      "/admin",
		session.RoleSuperAdmin: "/admin",
	}

	for role, want := range cases {
		ss := &staticSessions{s: verifiedSession(role)}
		g := New(testRoutes(), ss, nil, "/login")

		res := g.Landing(context.Background())
		if res.Decision != Redirect || res.Target != want {
			t.Fatalf("%s: landing = %+v, want %s", role, res, want)
		}
	}
}

func TestLandingWithoutSessionGoesHome(t *testing.T) {
	g := New(testRoutes(), &staticSessions{}, nil, "/login", WithHomePath("/"))
	res := g.Landing(context.Background())
	if res.Target != "/" {
		t.Fatalf("landing = %+v, want public home", res)
	}
}

func TestOnRedirectHook(t *testing.T) {
	count := 0
	g := New(testRoutes(), &staticSessions{}, nil, "/login",
		WithOnRedirect(func(Result) { count++ }))

	g.Protect(context.Background(), session.RoleUser)
	g.Landing(context.Background())

	if count != 2 {
		t.Fatalf("redirect hook ran %d times, want 2", count)
	}
}

func TestMiddleware(t *testing.T) {
	ssAdmin := &staticSessions{s: verifiedSession(session.RoleAdmin)}
	g := New(testRoutes(), ssAdmin, nil, "/login")

	handler := g.Middleware(session.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/tools", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("allowed request status = %d", rec.Code)
	}

	ssUser := &staticSessions{s: verifiedSession(session.RoleUser)}
	g = New(testRoutes(), ssUser, nil, "/login")
	handler = g.Middleware(session.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler ran for denied role")
	}))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/tools", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("denied request status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Fatalf("redirect location = %q, want /dashboard", got)
	}
}

func TestMiddlewareLoginRedirectCarriesNext(t *testing.T) {
	g := New(testRoutes(), &staticSessions{}, nil, "/login")
	handler := g.Middleware(session.RoleUser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler ran without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/reports", nil))
	if got := rec.Header().Get("Location"); got != "/login?next=%2Fdashboard%2Freports" {
		t.Fatalf("redirect location = %q", got)
	}
}
