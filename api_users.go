package safestreet

import (
	"context"

	"github.com/safestreet/safestreet-go/session"
)

// ProfileUpdate carries the editable subset of the account record. Zero
// fields are omitted from the payload and left unchanged server-side.
type ProfileUpdate struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`
}

// AdminCreateUserInput is the payload for admin-provisioned accounts.
type AdminCreateUserInput struct {
	FullName string       `json:"fullName"`
	Email    string       `json:"email"`
	Phone    string       `json:"phone,omitempty"`
	Password string       `json:"password"`
	Role     session.Role `json:"role"`
}

// CurrentUser returns the server's view of the authenticated account without
// touching the cached session. Use [Client.FetchUser] to also replace the
// cached copy.
func (c *Client) CurrentUser(ctx context.Context) (*session.User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	return c.currentUserFromServer(ctx)
}

// UpdateProfile patches the authenticated account and adopts the updated
// record into the cached session.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*session.User, error) {
	var payload struct {
		User *session.User `json:"user"`
	}
	if err := c.patch(ctx, "/user", update, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, ErrEmptyUserPayload
	}

	if s := c.sessions.Get(); s != nil {
		s.User = payload.User
		if err := c.sessions.Set(ctx, s); err != nil {
			return nil, err
		}
	}
	return payload.User, nil
}

// AllUsers lists every account. Admin only.
func (c *Client) AllUsers(ctx context.Context) ([]session.User, error) {
	return c.listUsers(ctx, "/user/all")
}

// ClientsAndAdmins lists privileged accounts for the admin dashboard.
func (c *Client) ClientsAndAdmins(ctx context.Context) ([]session.User, error) {
	return c.listUsers(ctx, "/user/getClientsAndAdmins")
}

// NewSignups lists accounts awaiting approval. Admin only.
func (c *Client) NewSignups(ctx context.Context) ([]session.User, error) {
	return c.listUsers(ctx, "/user/new-signups")
}

func (c *Client) listUsers(ctx context.Context, path string) ([]session.User, error) {
	var payload struct {
		Users []session.User `json:"users"`
	}
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// CreateUser provisions an account directly. Admin only.
func (c *Client) CreateUser(ctx context.Context, input AdminCreateUserInput) (*session.User, error) {
	var payload struct {
		User *session.User `json:"user"`
	}
	if err := c.post(ctx, "/user", input, &payload); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// ApproveUser settles a pending client registration. Admin only.
func (c *Client) ApproveUser(ctx context.Context, userID string, status session.ApprovalStatus) error {
	return c.patch(ctx, "/user/"+userID+"/approval",
		map[string]string{"approvalStatus": string(status)}, nil)
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.del(ctx, "/user/"+userID, nil)
}
