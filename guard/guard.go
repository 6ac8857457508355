package guard

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"sync"

	"github.com/safestreet/safestreet-go/session"
)

// Decision is the outcome of a route evaluation.
type Decision int

const (
	// Allow renders the requested route.
	Allow Decision = iota
	// Redirect sends the visitor to Result.Target instead.
	Redirect
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect"
}

// Result is a route evaluation verdict. Target is set only for Redirect.
type Result struct {
	Decision Decision
	Target   string
	Reason   string
}

func allow() Result {
	return Result{Decision: Allow}
}

func redirect(target, reason string) Result {
	return Result{Decision: Redirect, Target: target, Reason: reason}
}

// RouteTable maps roles to their landing pages. Register landings during
// startup, then Freeze; a frozen table rejects further registration, so the
// redirect topology cannot drift at runtime.
type RouteTable struct {
	mu       sync.RWMutex
	landings map[session.Role]string
	fallback string
	frozen   bool
}

// NewRouteTable returns a table whose unknown-role landing is fallback.
func NewRouteTable(fallback string) *RouteTable {
	return &RouteTable{
		landings: make(map[session.Role]string),
		fallback: fallback,
	}
}

// Register maps a role to its landing path. Returns false once the table is
// frozen or when the role is invalid.
func (t *RouteTable) Register(role session.Role, landing string) bool {
	if !role.Valid() || landing == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return false
	}
	t.landings[role] = landing
	return true
}

// Freeze makes the table immutable.
func (t *RouteTable) Freeze() {
	t.mu.Lock()
	t.frozen = true
	t.mu.Unlock()
}

// Frozen reports whether the table is immutable.
func (t *RouteTable) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Landing returns the landing path for role, or the fallback when the role
// has no registration.
func (t *RouteTable) Landing(role session.Role) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if landing, ok := t.landings[role]; ok {
		return landing
	}
	return t.fallback
}

// Roles returns the registered roles in stable order.
func (t *RouteTable) Roles() []session.Role {
	t.mu.RLock()
	defer t.mu.RUnlock()
	roles := make([]session.Role, 0, len(t.landings))
	for role := range t.landings {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// SessionSource supplies the current session snapshot. *session.Manager
// satisfies it.
type SessionSource interface {
	Get() *session.Session
}

// Verifier confirms the cached role against the authority of record. A nil
// error marks the session verified; any error collapses it.
type Verifier func(ctx context.Context) error

// Guard evaluates role-gated navigation. Every verdict is computed from a
// verified session: when the snapshot is unverified the guard runs the
// verifier first and only then decides, so a stale or tampered local role
// never admits anyone.
type Guard struct {
	routes     *RouteTable
	sessions   SessionSource
	verify     Verifier
	loginPath  string
	homePath   string
	onRedirect func(Result)
}

// Option configures a Guard.
type Option func(*Guard)

// WithOnRedirect installs a hook invoked for every Redirect verdict.
func WithOnRedirect(fn func(Result)) Option {
	return func(g *Guard) { g.onRedirect = fn }
}

// WithHomePath sets where Landing sends unauthenticated visitors. Defaults to
// the login path.
func WithHomePath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.homePath = path
		}
	}
}

// New builds a guard over the given session source. verify may be nil when
// sessions are verified elsewhere; the guard then treats an unverified
// snapshot as unauthenticated.
func New(routes *RouteTable, sessions SessionSource, verify Verifier, loginPath string, opts ...Option) *Guard {
	g := &Guard{
		routes:    routes,
		sessions:  sessions,
		verify:    verify,
		loginPath: loginPath,
		homePath:  loginPath,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Protect evaluates access to a route restricted to the given roles. An
// empty allowed list means "any authenticated, verified account".
//
// Verdicts, in order: no session -> login; verification fails -> login
// (fail closed); role not allowed -> the visitor's own landing page, never
// an error page.
func (g *Guard) Protect(ctx context.Context, allowed ...session.Role) Result {
	s := g.sessions.Get()
	if !s.Authenticated() {
		return g.redirectTo(g.loginPath, "no session")
	}

	if !s.RoleVerified {
		if g.verify == nil {
			return g.redirectTo(g.loginPath, "role not verified")
		}
		if err := g.verify(ctx); err != nil {
			return g.redirectTo(g.loginPath, "role verification failed")
		}
		s = g.sessions.Get()
		if !s.Authenticated() || !s.RoleVerified {
			return g.redirectTo(g.loginPath, "session lost during verification")
		}
	}

	if len(allowed) == 0 || s.HasRole(allowed...) {
		return allow()
	}
	return g.redirectTo(g.routes.Landing(s.User.Role), "role not permitted")
}

// Landing resolves where a visitor entering at the root belongs: their
// role's landing page when authenticated, the public home page otherwise.
func (g *Guard) Landing(ctx context.Context) Result {
	s := g.sessions.Get()
	if !s.Authenticated() {
		return g.redirectTo(g.homePath, "no session")
	}
	if !s.RoleVerified && g.verify != nil {
		if err := g.verify(ctx); err != nil {
			return g.redirectTo(g.loginPath, "role verification failed")
		}
		s = g.sessions.Get()
		if !s.Authenticated() {
			return g.redirectTo(g.loginPath, "session lost during verification")
		}
	}
	return g.redirectTo(g.routes.Landing(s.User.Role), "landing")
}

// Middleware adapts Protect to net/http for server-rendered deployments.
// Redirect verdicts answer 303 so a POST to a protected route does not
// replay against the redirect target. Login redirects carry the requested
// path in a "next" query parameter so the visitor returns after signing in.
func (g *Guard) Middleware(allowed ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := g.Protect(r.Context(), allowed...)
			if verdict.Decision == Redirect {
				target := verdict.Target
				if target == g.loginPath && r.URL.Path != "" {
					target += "?next=" + url.QueryEscape(r.URL.Path)
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) redirectTo(target, reason string) Result {
	res := redirect(target, reason)
	if g.onRedirect != nil {
		g.onRedirect(res)
	}
	return res
}
