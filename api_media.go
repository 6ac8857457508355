package safestreet

import (
	"context"
	"net/http"
	"time"
)

// MediaRequestStatus tracks a footage request through its lifecycle.
type MediaRequestStatus string

const (
	// MediaRequested is a new footage request awaiting review.
	MediaRequested MediaRequestStatus = "requested"
	// MediaApproved means the uploader may attach footage.
	MediaApproved MediaRequestStatus = "approved"
	// MediaUploaded means footage is attached and deliverable.
	MediaUploaded MediaRequestStatus = "uploaded"
	// MediaRejected means the request was declined.
	MediaRejected MediaRequestStatus = "rejected"
)

// MediaRequest is a client's request for incident footage.
type MediaRequest struct {
	ID        string             `json:"id"`
	ReportID  string             `json:"reportId"`
	ClientID  string             `json:"clientId"`
	Status    MediaRequestStatus `json:"status"`
	Note      string             `json:"note,omitempty"`
	MediaURL  string             `json:"mediaUrl,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// MediaRequests lists footage requests visible to the current role.
func (c *Client) MediaRequests(ctx context.Context) ([]MediaRequest, error) {
	var payload struct {
		Requests []MediaRequest `json:"requests"`
	}
	if err := c.get(ctx, "/media-requests", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Requests, nil
}

// RequestMedia files a footage request against a report. Client role only.
func (c *Client) RequestMedia(ctx context.Context, reportID, note string) (*MediaRequest, error) {
	var payload struct {
		Request *MediaRequest `json:"request"`
	}
	err := c.post(ctx, "/media-requests/request", map[string]string{
		"reportId": reportID,
		"note":     note,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Request, nil
}

// UploadMedia attaches footage bytes to an approved request. The body is
// sent as-is with the given content type; multipart assembly is the
// caller's concern.
func (c *Client) UploadMedia(ctx context.Context, requestID string, body []byte, contentType string) error {
	header := http.Header{}
	header.Set("Content-Type", contentType)
	return c.call(ctx, Request{
		Method: http.MethodPost,
		Path:   "/media-requests/upload/" + requestID,
		Header: header,
		Body:   body,
	}, nil)
}

// UpdateMediaRequestStatus moves a request through its lifecycle.
func (c *Client) UpdateMediaRequestStatus(ctx context.Context, requestID string, status MediaRequestStatus) error {
	return c.patch(ctx, "/media-requests/"+requestID+"/status",
		map[string]string{"status": string(status)}, nil)
}
