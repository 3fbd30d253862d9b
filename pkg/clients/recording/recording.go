// Package recording provides a client for the cloud recording API.
package recording

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// MaxRange is the widest time window the platform accepts in one list query.
const MaxRange = 31 * 24 * time.Hour

// Record is one recorded meeting with its files.
type Record struct {
	MeetingRecordID string `json:"meeting_record_id"`
	MeetingID       string `json:"meeting_id"`
	MeetingCode     string `json:"meeting_code"`
	Subject         string `json:"subject"`
	HostUserID      string `json:"host_user_id,omitempty"`
	State           int    `json:"state"`
	Files           []File `json:"record_files"`
}

// File is one recording file.
type File struct {
	RecordFileID    string `json:"record_file_id"`
	RecordStartTime int64  `json:"record_start_time"` // unix milliseconds
	RecordEndTime   int64  `json:"record_end_time"`
	RecordSize      int64  `json:"record_size"`
	SharingState    int    `json:"sharing_state"`
	SharingURL      string `json:"sharing_url,omitempty"`
}

// ListOptions filters the record list.
type ListOptions struct {
	UserID    string
	StartTime time.Time
	EndTime   time.Time
	MeetingID string // optional
	Page      int
	PageSize  int
}

// List is one page of records.
type List struct {
	clients.Page
	Records []Record `json:"record_meetings"`
}

// Address is the download location of one file.
type Address struct {
	RecordFileID    string `json:"record_file_id"`
	ViewAddress     string `json:"view_address,omitempty"`
	DownloadAddress string `json:"download_address"`
	FileType        string `json:"download_address_file_type,omitempty"`
}

// Addresses are the download locations for one record.
type Addresses struct {
	MeetingRecordID string    `json:"meeting_record_id"`
	MeetingID       string    `json:"meeting_id"`
	Files           []Address `json:"record_files"`
}

// Client accesses the recording endpoints.
type Client struct {
	*clients.Client
}

// New creates a recording client. It requires credentials.
func New(p clients.Params) (*Client, error) {
	if err := clients.RequireCredentials(p.Config); err != nil {
		return nil, clients.ConstructionError(clients.KindRecording, err)
	}
	base, err := clients.NewClient(clients.KindRecording, p)
	if err != nil {
		return nil, err
	}
	return &Client{Client: base}, nil
}

// List returns one page of records in the requested window.
func (c *Client) List(ctx context.Context, opts ListOptions) (*List, error) {
	if err := errors.ValidateIdentifier("userid", opts.UserID); err != nil {
		return nil, err
	}
	if opts.StartTime.IsZero() || opts.EndTime.IsZero() || !opts.EndTime.After(opts.StartTime) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a start time before the end time is required")
	}
	if opts.EndTime.Sub(opts.StartTime) > MaxRange {
		return nil, errors.New(errors.ErrCodeInvalidInput, "time range exceeds %s", MaxRange)
	}

	q := url.Values{}
	q.Set("userid", opts.UserID)
	q.Set("start_time", strconv.FormatInt(opts.StartTime.Unix(), 10))
	q.Set("end_time", strconv.FormatInt(opts.EndTime.Unix(), 10))
	if opts.MeetingID != "" {
		q.Set("meeting_id", opts.MeetingID)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}

	var resp List
	if err := c.Get(ctx, "/v1/records", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Addresses returns the download locations for a record.
func (c *Client) Addresses(ctx context.Context, recordID, userID string) (*Addresses, error) {
	if err := errors.ValidateIdentifier("meeting_record_id", recordID); err != nil {
		return nil, err
	}
	if err := errors.ValidateIdentifier("userid", userID); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("userid", userID)

	var resp Addresses
	if err := c.Get(ctx, "/v1/addresses/"+recordID, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a record and all of its files.
func (c *Client) Delete(ctx context.Context, recordID, userID string) error {
	if err := errors.ValidateIdentifier("meeting_record_id", recordID); err != nil {
		return err
	}
	if err := errors.ValidateIdentifier("userid", userID); err != nil {
		return err
	}
	q := url.Values{}
	q.Set("userid", userID)
	return c.Client.Delete(ctx, "/v1/records/"+recordID, q, nil)
}
