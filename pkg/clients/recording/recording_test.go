package recording

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/errors"
	"github.com/matzehuels/meetingkit/pkg/transport"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.AppID = "200000001"
	cfg.SecretID = "sid"
	cfg.SecretKey = "skey"
	c, err := New(clients.Params{Config: cfg, Transport: transport.New(cfg)})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestList(t *testing.T) {
	start := time.Unix(1700000000, 0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/v1/records" || q.Get("userid") != "alice" ||
			q.Get("start_time") != "1700000000" || q.Get("end_time") != "1700086400" || q.Get("meeting_id") != "m1" {
			t.Errorf("unexpected %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Write([]byte(`{"total_count":1,"current_page":1,"total_page":1,"record_meetings":[{"meeting_record_id":"rec1","meeting_id":"m1","subject":"Demo","record_files":[{"record_file_id":"f1","record_size":1024}]}]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	list, err := c.List(context.Background(), ListOptions{
		UserID:    "alice",
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
		MeetingID: "m1",
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list.Records) != 1 || len(list.Records[0].Files) != 1 || list.Records[0].Files[0].RecordSize != 1024 {
		t.Errorf("List() = %+v", list)
	}
}

func TestListValidation(t *testing.T) {
	start := time.Unix(1700000000, 0)
	c := testClient(t, "http://127.0.0.1:1")

	tests := []struct {
		name string
		opts ListOptions
	}{
		{"missing user", ListOptions{StartTime: start, EndTime: start.Add(time.Hour)}},
		{"missing window", ListOptions{UserID: "alice"}},
		{"inverted window", ListOptions{UserID: "alice", StartTime: start, EndTime: start.Add(-time.Hour)}},
		{"window too wide", ListOptions{UserID: "alice", StartTime: start, EndTime: start.Add(MaxRange + time.Second)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.List(context.Background(), tt.opts); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("List() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestAddresses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/addresses/rec1" || r.URL.Query().Get("userid") != "alice" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"meeting_record_id":"rec1","record_files":[{"record_file_id":"f1","download_address":"https://dl.example.com/f1.mp4"}]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	addrs, err := c.Addresses(context.Background(), "rec1", "alice")
	if err != nil {
		t.Fatalf("Addresses() error: %v", err)
	}
	if len(addrs.Files) != 1 || addrs.Files[0].DownloadAddress != "https://dl.example.com/f1.mp4" {
		t.Errorf("Addresses() = %+v", addrs)
	}

	if _, err := c.Addresses(context.Background(), "rec2", "alice"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Addresses() error = %v, want NOT_FOUND", err)
	}
}

func TestDelete(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	if err := c.Delete(context.Background(), "rec1", "alice"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if method != http.MethodDelete || path != "/v1/records/rec1" {
		t.Errorf("request = %s %s", method, path)
	}
	if err := c.Delete(context.Background(), "rec1", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Delete() error = %v, want INVALID_INPUT", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	cfg := config.Default()
	if _, err := New(clients.Params{Config: cfg, Transport: transport.New(cfg)}); !errors.Is(err, errors.ErrCodeClientConstruction) {
		t.Errorf("New() error = %v, want CLIENT_CONSTRUCTION", err)
	}
}
