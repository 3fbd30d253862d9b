package meeting

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// Meeting types.
const (
	TypeScheduled = 0
	TypeInstant   = 1
)

// DefaultInstanceID is the device type the operator acts from (1 is PC).
const DefaultInstanceID = 1

// Meeting is one scheduled or running meeting.
type Meeting struct {
	MeetingID   string   `json:"meeting_id"`
	MeetingCode string   `json:"meeting_code"`
	Subject     string   `json:"subject"`
	Type        int      `json:"type"`
	Status      string   `json:"status,omitempty"`
	StartTime   string   `json:"start_time"` // unix seconds
	EndTime     string   `json:"end_time"`   // unix seconds
	JoinURL     string   `json:"join_url,omitempty"`
	Hosts       []Member `json:"hosts,omitempty"`
	Settings    Settings `json:"settings"`
}

// Start returns the parsed start time, or the zero time if it is missing.
func (m Meeting) Start() time.Time { return parseUnix(m.StartTime) }

// End returns the parsed end time, or the zero time if it is missing.
func (m Meeting) End() time.Time { return parseUnix(m.EndTime) }

// Member references a user in a meeting.
type Member struct {
	UserID string `json:"userid"`
}

// Settings are the per-meeting options exposed by the platform.
type Settings struct {
	MuteEnableJoin            bool   `json:"mute_enable_join,omitempty"`
	AllowUnmuteSelf           bool   `json:"allow_unmute_self,omitempty"`
	AllowInBeforeHost         bool   `json:"allow_in_before_host,omitempty"`
	AutoInWaitingRoom         bool   `json:"auto_in_waiting_room,omitempty"`
	OnlyEnterpriseUserAllowed bool   `json:"only_enterprise_user_allowed,omitempty"`
	AutoRecordType            string `json:"auto_record_type,omitempty"` // none, local, cloud
}

// CreateRequest describes a meeting to schedule.
type CreateRequest struct {
	UserID     string
	InstanceID int // defaults to DefaultInstanceID
	Subject    string
	Type       int
	StartTime  time.Time
	EndTime    time.Time
	Password   string
	Hosts      []string
	Settings   *Settings
}

func (r CreateRequest) validate() error {
	if err := errors.ValidateIdentifier("userid", r.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(r.Subject) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "subject cannot be empty")
	}
	if r.Type != TypeScheduled && r.Type != TypeInstant {
		return errors.New(errors.ErrCodeInvalidInput, "unknown meeting type %d", r.Type)
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errors.New(errors.ErrCodeInvalidInput, "start and end time are required")
	}
	if !r.EndTime.After(r.StartTime) {
		return errors.New(errors.ErrCodeInvalidInput, "end time must be after start time")
	}
	return nil
}

type createBody struct {
	UserID     string    `json:"userid"`
	InstanceID int       `json:"instanceid"`
	Subject    string    `json:"subject"`
	Type       int       `json:"type"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Password   string    `json:"password,omitempty"`
	Hosts      []Member  `json:"hosts,omitempty"`
	Settings   *Settings `json:"settings,omitempty"`
}

// CancelRequest describes why a meeting is cancelled.
type CancelRequest struct {
	UserID       string `json:"userid"`
	InstanceID   int    `json:"instanceid"`
	ReasonCode   int    `json:"reason_code"`
	ReasonDetail string `json:"reason_detail,omitempty"`
}

// ListOptions pages through a user's meetings.
type ListOptions struct {
	InstanceID int
	Pos        int  // cursor returned as NextPos by the previous page
	ShowAll    bool // include recurring sub-meetings
}

// List is one page of meetings.
type List struct {
	MeetingNumber int       `json:"meeting_number"`
	Remaining     int       `json:"remaining"`
	NextPos       int       `json:"next_pos"`
	Meetings      []Meeting `json:"meeting_info_list"`
}

// HasNext reports whether more meetings follow this page.
func (l *List) HasNext() bool { return l.Remaining > 0 }

type infoList struct {
	MeetingNumber int       `json:"meeting_number"`
	Meetings      []Meeting `json:"meeting_info_list"`
}

// Client accesses the meeting endpoints.
type Client struct {
	*clients.Client
}

// New creates a meeting client. It requires credentials.
func New(p clients.Params) (*Client, error) {
	if err := clients.RequireCredentials(p.Config); err != nil {
		return nil, clients.ConstructionError(clients.KindMeeting, err)
	}
	base, err := clients.NewClient(clients.KindMeeting, p)
	if err != nil {
		return nil, err
	}
	return &Client{Client: base}, nil
}

// Create schedules a meeting and returns it as stored by the platform.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Meeting, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	body := createBody{
		UserID:     req.UserID,
		InstanceID: instance(req.InstanceID),
		Subject:    req.Subject,
		Type:       req.Type,
		StartTime:  strconv.FormatInt(req.StartTime.Unix(), 10),
		EndTime:    strconv.FormatInt(req.EndTime.Unix(), 10),
		Password:   req.Password,
		Settings:   req.Settings,
	}
	for _, h := range req.Hosts {
		body.Hosts = append(body.Hosts, Member{UserID: h})
	}

	var resp infoList
	if err := c.Post(ctx, "/v1/meetings", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meetings) == 0 {
		return nil, errors.New(errors.ErrCodeAPI, "create meeting: empty meeting_info_list")
	}
	return &resp.Meetings[0], nil
}

// Get returns the meeting with the given id as seen by userID.
func (c *Client) Get(ctx context.Context, meetingID, userID string) (*Meeting, error) {
	if err := errors.ValidateIdentifier("meeting_id", meetingID); err != nil {
		return nil, err
	}
	if err := errors.ValidateIdentifier("userid", userID); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("userid", userID)
	q.Set("instanceid", strconv.Itoa(DefaultInstanceID))

	var resp infoList
	if err := c.Client.Get(ctx, "/v1/meetings/"+meetingID, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meetings) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "meeting %s", meetingID)
	}
	return &resp.Meetings[0], nil
}

// List returns one page of the meetings userID takes part in.
func (c *Client) List(ctx context.Context, userID string, opts ListOptions) (*List, error) {
	if err := errors.ValidateIdentifier("userid", userID); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("userid", userID)
	q.Set("instanceid", strconv.Itoa(instance(opts.InstanceID)))
	if opts.Pos > 0 {
		q.Set("pos", strconv.Itoa(opts.Pos))
	}
	if opts.ShowAll {
		q.Set("is_show_all_sub_meetings", "1")
	}

	var resp List
	if err := c.Client.Get(ctx, "/v1/meetings", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cancel cancels a scheduled meeting.
func (c *Client) Cancel(ctx context.Context, meetingID string, req CancelRequest) error {
	if err := errors.ValidateIdentifier("meeting_id", meetingID); err != nil {
		return err
	}
	if err := errors.ValidateIdentifier("userid", req.UserID); err != nil {
		return err
	}
	req.InstanceID = instance(req.InstanceID)
	if req.ReasonCode == 0 {
		req.ReasonCode = 1
	}
	return c.Post(ctx, "/v1/meetings/"+meetingID+"/cancel", req, nil)
}

func instance(id int) int {
	if id <= 0 {
		return DefaultInstanceID
	}
	return id
}

func parseUnix(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}
	}
	return time.Unix(n, 0)
}
