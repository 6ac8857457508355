package safestreet

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ReportStatus is the moderation state of a dangerous-driving report.
type ReportStatus string

const (
	// ReportPending awaits moderation.
	ReportPending ReportStatus = "pending"
	// ReportApproved is publicly visible.
	ReportApproved ReportStatus = "approved"
	// ReportRejected was declined by a moderator.
	ReportRejected ReportStatus = "rejected"
)

// Report is a backend-owned dangerous-driving report record. The client
// holds no authoritative copy and enforces no invariants over it.
type Report struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	VehicleNo    string       `json:"vehicleNo,omitempty"`
	IncidentDate time.Time    `json:"incidentDate"`
	MediaURL     string       `json:"mediaUrl,omitempty"`
	Status       ReportStatus `json:"status"`
	ReporterID   string       `json:"reporterId,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// CreateReportInput is the submission payload for a new report.
type CreateReportInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	VehicleNo    string    `json:"vehicleNo,omitempty"`
	IncidentDate time.Time `json:"incidentDate"`
	MediaURL     string    `json:"mediaUrl,omitempty"`
}

// HomeStats is the public aggregate shown on the landing page.
type HomeStats struct {
	TotalReports    int `json:"totalReports"`
	ResolvedReports int `json:"resolvedReports"`
	ActiveClients   int `json:"activeClients"`
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	Status ReportStatus
	Page   int
	Limit  int
}

func (f ReportFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// CreateReport submits a new dangerous-driving report.
func (c *Client) CreateReport(ctx context.Context, input CreateReportInput) (*Report, error) {
	var payload struct {
		Report *Report `json:"report"`
	}
	if err := c.post(ctx, "/report", input, &payload); err != nil {
		return nil, err
	}
	return payload.Report, nil
}

// Reports lists reports visible to the current role.
func (c *Client) Reports(ctx context.Context, filter ReportFilter) ([]Report, error) {
	var payload struct {
		Reports []Report `json:"reports"`
	}
	if err := c.get(ctx, "/report", filter.query(), &payload); err != nil {
		return nil, err
	}
	return payload.Reports, nil
}

// ModerateReport sets a report's moderation status. Admin only.
func (c *Client) ModerateReport(ctx context.Context, reportID string, status ReportStatus) error {
	return c.call(ctx, Request{
		Method: http.MethodPatch,
		Path:   "/report/" + reportID + "/status",
		Body:   map[string]string{"status": string(status)},
	}, nil)
}

// PublicHomeStats fetches the landing-page aggregates. Public endpoint: no
// session required and no CSRF attached.
func (c *Client) PublicHomeStats(ctx context.Context) (*HomeStats, error) {
	var stats HomeStats
	err := c.call(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/report/statsForHome",
		SkipAuth: true,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
