// Package user provides a client for the enterprise user management API.
package user

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// Page size limits accepted by the platform.
const (
	DefaultPageSize = 10
	MaxPageSize     = 20
)

// User is an enterprise account.
type User struct {
	UserID     string `json:"userid"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Area       string `json:"area,omitempty"`
	JobTitle   string `json:"job_title,omitempty"`
	StaffID    string `json:"staff_id,omitempty"`
	Status     string `json:"status,omitempty"`
	UUID       string `json:"uuid,omitempty"`
	UpdateTime string `json:"update_time,omitempty"`
}

// CreateRequest describes a user to add to the enterprise.
type CreateRequest struct {
	UserID   string `json:"userid"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone"`
	Area     string `json:"area,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	StaffID  string `json:"staff_id,omitempty"`
}

// UpdateRequest changes profile fields of an existing user.
// Empty fields are left unchanged.
type UpdateRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Area     string `json:"area,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	StaffID  string `json:"staff_id,omitempty"`
}

// List is one page of users.
type List struct {
	clients.Page
	Users []User `json:"users"`
}

// Client accesses the user endpoints. Get responses are cached.
type Client struct {
	*clients.Client
}

// New creates a user client. It requires credentials.
func New(p clients.Params) (*Client, error) {
	if err := clients.RequireCredentials(p.Config); err != nil {
		return nil, clients.ConstructionError(clients.KindUser, err)
	}
	base, err := clients.NewClient(clients.KindUser, p)
	if err != nil {
		return nil, err
	}
	return &Client{Client: base}, nil
}

// Create adds a user.
func (c *Client) Create(ctx context.Context, req CreateRequest) error {
	if err := errors.ValidateIdentifier("userid", req.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(req.Username) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "username cannot be empty")
	}
	if req.Phone == "" {
		return errors.New(errors.ErrCodeInvalidInput, "phone cannot be empty")
	}
	if req.Area == "" {
		req.Area = "86"
	}
	return c.Post(ctx, "/v1/users", req, nil)
}

// Get returns the user with the given userid.
// If refresh is true the response cache is bypassed.
func (c *Client) Get(ctx context.Context, userID string, refresh bool) (*User, error) {
	if err := errors.ValidateIdentifier("userid", userID); err != nil {
		return nil, err
	}
	var u User
	err := c.Cached(ctx, userID, refresh, &u, func() error {
		return c.Client.Get(ctx, "/v1/users/"+userID, nil, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update changes a user's profile and drops it from the response cache.
func (c *Client) Update(ctx context.Context, userID string, req UpdateRequest) error {
	if err := errors.ValidateIdentifier("userid", userID); err != nil {
		return err
	}
	if req == (UpdateRequest{}) {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to update for %s", userID)
	}
	if err := c.Put(ctx, "/v1/users/"+userID, req, nil); err != nil {
		return err
	}
	_ = c.Invalidate(ctx, userID)
	return nil
}

// List returns one page of enterprise users. Pages start at 1.
func (c *Client) List(ctx context.Context, page, pageSize int) (*List, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var resp List
	if err := c.Client.Get(ctx, "/v1/users/list", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a user and drops it from the response cache.
func (c *Client) Delete(ctx context.Context, userID string) error {
	if err := errors.ValidateIdentifier("userid", userID); err != nil {
		return err
	}
	if err := c.Client.Delete(ctx, "/v1/users/"+userID, nil, nil); err != nil {
		return err
	}
	_ = c.Invalidate(ctx, userID)
	return nil
}
