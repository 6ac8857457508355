package safestreet

import (
	"context"
	"net/http"
)

// ContactMessage is a visitor inquiry from the public contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// DeathStats is the public road-fatality aggregate shown on the home page.
type DeathStats struct {
	Year     int `json:"year"`
	Deaths   int `json:"deaths"`
	Injuries int `json:"injuries"`
}

// SendContactMessage submits the public contact form. No session required.
func (c *Client) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	return c.call(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/home/contact",
		Body:     msg,
		SkipAuth: true,
	}, nil)
}

// LatestDeathStats fetches the public fatality aggregates. No session
// required.
func (c *Client) LatestDeathStats(ctx context.Context) ([]DeathStats, error) {
	var payload struct {
		Stats []DeathStats `json:"stats"`
	}
	err := c.call(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/home/latestDeathStats",
		SkipAuth: true,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Stats, nil
}
