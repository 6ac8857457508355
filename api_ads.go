package safestreet

import (
	"context"
	"time"
)

// Advertisement is a sponsored placement managed by admins.
type Advertisement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	TargetURL string    `json:"targetUrl"`
	Active    bool      `json:"active"`
	StartsAt  time.Time `json:"startsAt,omitempty"`
	EndsAt    time.Time `json:"endsAt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdvertisementInput is the create/update payload for a placement.
type AdvertisementInput struct {
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	TargetURL string    `json:"targetUrl"`
	Active    bool      `json:"active"`
	StartsAt  time.Time `json:"startsAt,omitempty"`
	EndsAt    time.Time `json:"endsAt,omitempty"`
}

// Advertisements lists all placements.
func (c *Client) Advertisements(ctx context.Context) ([]Advertisement, error) {
	var payload struct {
		Advertisements []Advertisement `json:"advertisements"`
	}
	if err := c.get(ctx, "/advertisements", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Advertisements, nil
}

// CreateAdvertisement registers a new placement. Admin only.
func (c *Client) CreateAdvertisement(ctx context.Context, input AdvertisementInput) (*Advertisement, error) {
	var payload struct {
		Advertisement *Advertisement `json:"advertisement"`
	}
	if err := c.post(ctx, "/advertisements", input, &payload); err != nil {
		return nil, err
	}
	return payload.Advertisement, nil
}

// UpdateAdvertisement replaces a placement. Admin only.
func (c *Client) UpdateAdvertisement(ctx context.Context, id string, input AdvertisementInput) (*Advertisement, error) {
	var payload struct {
		Advertisement *Advertisement `json:"advertisement"`
	}
	if err := c.put(ctx, "/advertisements/"+id, input, &payload); err != nil {
		return nil, err
	}
	return payload.Advertisement, nil
}

// DeleteAdvertisement removes a placement. Admin only.
func (c *Client) DeleteAdvertisement(ctx context.Context, id string) error {
	return c.del(ctx, "/advertisements/"+id, nil)
}
