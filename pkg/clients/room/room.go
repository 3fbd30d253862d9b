// Package room provides a client for the Rooms (meeting room device) API.
//
// Rooms are listed and inspected only; booking and scheduling of rooms is
// handled by the platform itself.
package room

import (
	"context"
	"net/url"
	"strconv"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// Page size limits accepted by the platform.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// Room is a meeting room with its installed device.
type Room struct {
	MeetingRoomID       string `json:"meeting_room_id"`
	MeetingRoomName     string `json:"meeting_room_name"`
	MeetingRoomStatus   int    `json:"meeting_room_status"`
	MeetingRoomLocation string `json:"meeting_room_location,omitempty"`
	Capacity            int    `json:"participant_number,omitempty"`
	AccountType         int    `json:"account_type,omitempty"`
	ActiveCode          string `json:"active_code,omitempty"`
	IsAllowCall         bool   `json:"is_allow_call"`
}

// List is one page of rooms.
type List struct {
	clients.Page
	Rooms []Room `json:"meeting_room_list"`
}

// Client accesses the meeting room endpoints. Get responses are cached.
type Client struct {
	*clients.Client
}

// New creates a room client. It requires credentials.
func New(p clients.Params) (*Client, error) {
	if err := clients.RequireCredentials(p.Config); err != nil {
		return nil, clients.ConstructionError(clients.KindRoom, err)
	}
	base, err := clients.NewClient(clients.KindRoom, p)
	if err != nil {
		return nil, err
	}
	return &Client{Client: base}, nil
}

// List returns one page of the enterprise's rooms. Pages start at 1.
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
	if err := c.Client.Get(ctx, "/v1/meeting-rooms", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one room by id.
func (c *Client) Get(ctx context.Context, roomID string, refresh bool) (*Room, error) {
	if err := errors.ValidateIdentifier("meeting_room_id", roomID); err != nil {
		return nil, err
	}
	var r Room
	err := c.Cached(ctx, roomID, refresh, &r, func() error {
		var resp struct {
			Room
			BasicInfo *Room `json:"basic_info"`
		}
		if err := c.Client.Get(ctx, "/v1/meeting-rooms/"+roomID, nil, &resp); err != nil {
			return err
		}
		if resp.BasicInfo != nil {
			r = *resp.BasicInfo
		} else {
			r = resp.Room
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
