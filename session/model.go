package session

import "time"

// Role is the server-assigned role of an account.
type Role string

const (
	// RoleUser is an end user submitting dangerous-driving reports.
	RoleUser Role = "user"
	// RoleClient is an insurance company browsing and requesting footage.
	RoleClient Role = "client"
	// RoleAdmin moderates content and manages advertisements.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin has every admin capability plus account management.
	RoleSuperAdmin Role = "super-admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleClient, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ApprovalStatus is the moderation state of a client account.
type ApprovalStatus string

const (
	// ApprovalPending means the client signup has not been reviewed yet.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved means the client may log in.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalRejected means the client signup was declined.
	ApprovalRejected ApprovalStatus = "rejected"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	// AccountActive is a usable account.
	AccountActive AccountStatus = "active"
	// AccountInactive is a deactivated account.
	AccountInactive AccountStatus = "inactive"
)

// User is the session-cached copy of the server's account record. The server
// copy is authoritative; this one exists only so privilege checks and page
// routing can run without a network round-trip.
type User struct {
	ID             string         `json:"id"`
	FullName       string         `json:"fullName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	Role           Role           `json:"role"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus,omitempty"`
	Status         AccountStatus  `json:"status,omitempty"`
}

// Session is the process-wide authentication state. CSRFToken is echoed back
// on every mutating request; RoleVerified is true only after a successful
// server round-trip confirmed the cached role.
type Session struct {
	User         *User     `json:"user"`
	CSRFToken    string    `json:"csrfToken"`
	RoleVerified bool      `json:"roleVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Authenticated reports whether the session carries a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// HasRole reports whether the session is verified and its user holds one of
// the given roles. An unverified session always answers false, even when a
// plausible-looking cached role is present.
func (s *Session) HasRole(roles ...Role) bool {
	if !s.Authenticated() || !s.RoleVerified {
		return false
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand sessions across goroutines
// without sharing the User pointer.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return &out
}
