package safestreet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/safestreet/safestreet-go/session"
)

// Credentials is the login input. Either Email or Phone identifies the
// account.
type Credentials struct {
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken,omitempty"`
}

// SignupInput is the registration payload.
type SignupInput struct {
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	Password     string       `json:"password"`
	Role         session.Role `json:"role,omitempty"`
	CompanyName  string       `json:"companyName,omitempty"`
	CaptchaToken string       `json:"captchaToken,omitempty"`
}

// authPayload is the shared response shape of the auth endpoints.
type authPayload struct {
	User      *session.User `json:"user"`
	CSRFToken string        `json:"csrfToken"`
}

// Login authenticates against the backend and persists the resulting
// session. Client accounts that are still pending review, or were rejected,
// fail with [ErrApprovalPending] / [ErrApprovalRejected] and nothing is
// persisted.
func (c *Client) Login(ctx context.Context, creds Credentials) (*session.User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}

	var payload authPayload
	err := c.call(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     creds,
		SkipAuth: true,
	}, &payload)
	if err != nil {
		c.metricInc(MetricLoginFailure)
		return nil, err
	}
	if payload.User == nil {
		c.metricInc(MetricLoginFailure)
		return nil, ErrEmptyUserPayload
	}

	if payload.User.Role == session.RoleClient {
		switch payload.User.ApprovalStatus {
		case session.ApprovalPending:
			c.metricInc(MetricLoginFailure)
			return nil, fmt.Errorf("%w: your account is pending approval", ErrApprovalPending)
		case session.ApprovalRejected:
			c.metricInc(MetricLoginFailure)
			return nil, fmt.Errorf("%w: your registration was rejected", ErrApprovalRejected)
		}
	}

	if err := c.sessions.Set(ctx, &session.Session{
		User:         payload.User,
		CSRFToken:    payload.CSRFToken,
		RoleVerified: true,
	}); err != nil {
		return nil, err
	}
	c.metricInc(MetricLoginSuccess)
	c.logger.Debug().Str("role", string(payload.User.Role)).Msg("login succeeded")
	return payload.User, nil
}

// Signup registers a new account and persists the returned session. Fails
// with [ErrEmptyUserPayload] when the server answers without a user object.
func (c *Client) Signup(ctx context.Context, input SignupInput) (*session.User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}

	var payload authPayload
	err := c.call(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/auth/register",
		Body:     input,
		SkipAuth: true,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, ErrEmptyUserPayload
	}

	if err := c.sessions.Set(ctx, &session.Session{
		User:         payload.User,
		CSRFToken:    payload.CSRFToken,
		RoleVerified: true,
	}); err != nil {
		return nil, err
	}
	c.metricInc(MetricLoginSuccess)
	return payload.User, nil
}

// Logout tells the backend to end the session and clears local state. Local
// teardown happens regardless of the network outcome: the call is
// fire-and-forget.
func (c *Client) Logout(ctx context.Context) {
	if c == nil {
		return
	}
	_, _ = c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Body:   struct{}{},
		// Carries CSRF, but a failing logout must not enter refresh
		// recovery; local teardown below is the real logout.
		retried: true,
	})
	c.sessions.Clear(ctx)
	c.coordinator.markActive()
}

// FetchUser re-fetches the account record from the server and replaces the
// cached copy, marking the role verified. Any failure clears the session:
// an unreachable or disagreeing server means "no longer authenticated".
func (c *Client) FetchUser(ctx context.Context) (*session.User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}

	user, err := c.currentUserFromServer(ctx)
	if err != nil {
		c.sessions.Clear(ctx)
		return nil, err
	}

	s := c.sessions.Get()
	if s == nil {
		s = &session.Session{}
	}
	s.User = user
	s.RoleVerified = true
	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyRole confirms the cached role against the server. On mismatch the
// server wins: the local user record and durable storage are overwritten
// (an admin may have changed the role mid-session). Any network failure
// collapses the session to unauthenticated.
func (c *Client) VerifyRole(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}

	cached := c.sessions.Get()
	serverUser, err := c.currentUserFromServer(ctx)
	if err != nil {
		c.metricInc(MetricVerifyFailure)
		c.sessions.Clear(ctx)
		return fmt.Errorf("role verification failed: %w", err)
	}

	if cached != nil && cached.User != nil && cached.User.Role != serverUser.Role {
		c.metricInc(MetricRoleSelfHeal)
		c.logger.Warn().
			Str("cached", string(cached.User.Role)).
			Str("server", string(serverUser.Role)).
			Msg("cached role stale; adopting server role")
	}

	s := cached
	if s == nil {
		s = &session.Session{}
	}
	s.User = serverUser
	s.RoleVerified = true
	return c.sessions.Set(ctx, s)
}

func (c *Client) currentUserFromServer(ctx context.Context) (*session.User, error) {
	var payload struct {
		User *session.User `json:"user"`
	}
	if err := c.get(ctx, "/user", nil, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, ErrEmptyUserPayload
	}
	return payload.User, nil
}

// Role-capability predicates. All of them answer false until VerifyRole (or
// a fresh login) has succeeded in this process, even when a cached role is
// present: verification is mandatory before any privilege check passes.

// IsAdmin reports whether the verified user is an admin or super-admin.
func (c *Client) IsAdmin() bool {
	return c.HasRoleAccess(session.RoleAdmin, session.RoleSuperAdmin)
}

// IsClient reports whether the verified user is a client.
func (c *Client) IsClient() bool {
	return c.HasRoleAccess(session.RoleClient)
}

// IsUser reports whether the verified user is an end user.
func (c *Client) IsUser() bool {
	return c.HasRoleAccess(session.RoleUser)
}

// HasRoleAccess reports whether the verified user holds any of the given
// roles.
func (c *Client) HasRoleAccess(roles ...session.Role) bool {
	if c == nil {
		return false
	}
	return c.sessions.Get().HasRole(roles...)
}

// ForgotPassword requests a password-reset email. Public endpoint.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.call(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/auth/forgot-password",
		Body:     map[string]string{"email": email},
		SkipAuth: true,
	}, nil)
}

// VerifyResetToken checks a password-reset token before showing the form.
func (c *Client) VerifyResetToken(ctx context.Context, token string) error {
	return c.call(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/auth/verify-reset-token",
		Body:     map[string]string{"token": token},
		SkipAuth: true,
	}, nil)
}

// ResetPassword completes a password reset.
func (c *Client) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	return c.call(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Body: map[string]string{
			"token":           token,
			"password":        password,
			"confirmPassword": confirmPassword,
		},
		SkipAuth: true,
	}, nil)
}

// TokenExpiry peeks at the stored CSRF token and, when the server issues it
// as a JWT, returns its expiry so integrators can refresh ahead of time.
// The token is decoded without signature verification — the client has no
// key and no business validating it — and an opaque token returns ok=false.
func (c *Client) TokenExpiry() (time.Time, bool) {
	if c == nil {
		return time.Time{}, false
	}
	s := c.sessions.Get()
	if s == nil || s.CSRFToken == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.CSRFToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
