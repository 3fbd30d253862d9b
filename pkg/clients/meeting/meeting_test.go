package meeting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/errors"
	"github.com/matzehuels/meetingkit/pkg/transport"
)

func testConfig(baseURL string) config.Config {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.AppID = "200000001"
	cfg.SecretID = "sid"
	cfg.SecretKey = "skey"
	return cfg
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := testConfig(baseURL)
	c, err := New(clients.Params{Config: cfg, Transport: transport.New(cfg)})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	c := testClient(t, "http://localhost")
	if c.Kind() != clients.KindMeeting {
		t.Errorf("Kind() = %v, want meeting", c.Kind())
	}
	var _ clients.Handle = c
}

func TestNewRequiresCredentials(t *testing.T) {
	cfg := config.Default()
	_, err := New(clients.Params{Config: cfg, Transport: transport.New(cfg)})
	if !errors.Is(err, errors.ErrCodeClientConstruction) {
		t.Fatalf("New() error = %v, want CLIENT_CONSTRUCTION", err)
	}
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("New() error = %v, want INVALID_CONFIG cause", err)
	}
}

func TestCreate(t *testing.T) {
	start := time.Unix(1700000000, 0)
	var got createBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/meetings" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(infoList{
			MeetingNumber: 1,
			Meetings: []Meeting{{
				MeetingID:   "7567173273889276131",
				MeetingCode: "806146667",
				Subject:     got.Subject,
				StartTime:   got.StartTime,
				EndTime:     got.EndTime,
			}},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	m, err := c.Create(context.Background(), CreateRequest{
		UserID:    "alice",
		Subject:   "Weekly sync",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Hosts:     []string{"bob"},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if got.UserID != "alice" || got.InstanceID != DefaultInstanceID {
		t.Errorf("request userid/instanceid = %q/%d", got.UserID, got.InstanceID)
	}
	if got.StartTime != "1700000000" || got.EndTime != "1700003600" {
		t.Errorf("request times = %s-%s", got.StartTime, got.EndTime)
	}
	if len(got.Hosts) != 1 || got.Hosts[0].UserID != "bob" {
		t.Errorf("request hosts = %+v", got.Hosts)
	}
	if m.MeetingCode != "806146667" {
		t.Errorf("MeetingCode = %q", m.MeetingCode)
	}
	if !m.Start().Equal(start) || !m.End().Equal(start.Add(time.Hour)) {
		t.Errorf("Start/End = %v/%v", m.Start(), m.End())
	}
}

func TestCreateValidation(t *testing.T) {
	start := time.Unix(1700000000, 0)
	valid := CreateRequest{UserID: "alice", Subject: "s", StartTime: start, EndTime: start.Add(time.Minute)}

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"missing user", func(r *CreateRequest) { r.UserID = "" }},
		{"path in user", func(r *CreateRequest) { r.UserID = "../x" }},
		{"blank subject", func(r *CreateRequest) { r.Subject = "  " }},
		{"bad type", func(r *CreateRequest) { r.Type = 7 }},
		{"missing start", func(r *CreateRequest) { r.StartTime = time.Time{} }},
		{"end before start", func(r *CreateRequest) { r.EndTime = start.Add(-time.Minute) }},
	}

	c := testClient(t, "http://127.0.0.1:1")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := c.Create(context.Background(), req)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Create() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestCreateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meeting_number":0,"meeting_info_list":[]}`))
	}))
	defer server.Close()

	start := time.Unix(1700000000, 0)
	c := testClient(t, server.URL)
	_, err := c.Create(context.Background(), CreateRequest{UserID: "a", Subject: "s", StartTime: start, EndTime: start.Add(time.Hour)})
	if !errors.Is(err, errors.ErrCodeAPI) {
		t.Errorf("Create() error = %v, want API_ERROR", err)
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/meetings/123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("userid") != "alice" || r.URL.Query().Get("instanceid") != "1" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"meeting_number":1,"meeting_info_list":[{"meeting_id":"123","subject":"Standup","status":"MEETING_STATE_STARTED"}]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	m, err := c.Get(context.Background(), "123", "alice")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if m.Subject != "Standup" || m.Status != "MEETING_STATE_STARTED" {
		t.Errorf("Get() = %+v", m)
	}

	if _, err := c.Get(context.Background(), "999", "alice"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get() error = %v, want NOT_FOUND", err)
	}
	if _, err := c.Get(context.Background(), "", "alice"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get() error = %v, want INVALID_INPUT", err)
	}
}

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("pos") == "" {
			w.Write([]byte(`{"meeting_number":1,"remaining":1,"next_pos":20,"meeting_info_list":[{"meeting_id":"1"}]}`))
			return
		}
		if q.Get("pos") != "20" || q.Get("is_show_all_sub_meetings") != "1" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"meeting_number":1,"remaining":0,"meeting_info_list":[{"meeting_id":"2"}]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	page, err := c.List(context.Background(), "alice", ListOptions{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if !page.HasNext() || page.NextPos != 20 || page.Meetings[0].MeetingID != "1" {
		t.Errorf("first page = %+v", page)
	}

	page, err = c.List(context.Background(), "alice", ListOptions{Pos: page.NextPos, ShowAll: true})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.HasNext() || page.Meetings[0].MeetingID != "2" {
		t.Errorf("second page = %+v", page)
	}
}

func TestCancel(t *testing.T) {
	var got CancelRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/meetings/123/cancel" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	if err := c.Cancel(context.Background(), "123", CancelRequest{UserID: "alice"}); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if got.UserID != "alice" || got.InstanceID != 1 || got.ReasonCode != 1 {
		t.Errorf("cancel body = %+v", got)
	}

	if err := c.Cancel(context.Background(), "123", CancelRequest{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Cancel() error = %v, want INVALID_INPUT", err)
	}
}

func TestParseUnix(t *testing.T) {
	if !(Meeting{}).Start().IsZero() {
		t.Error("missing start should be zero time")
	}
	if !(Meeting{StartTime: "abc"}).Start().IsZero() {
		t.Error("invalid start should be zero time")
	}
}
