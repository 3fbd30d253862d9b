package room

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/meetingkit/pkg/cache"
	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/errors"
	"github.com/matzehuels/meetingkit/pkg/transport"
)

func testClient(t *testing.T, baseURL string, backend cache.Cache) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.AuthType = config.AuthOAuth2
	cfg.AppID = "200000001"
	cfg.AccessToken = "token"
	c, err := New(clients.Params{Config: cfg, Transport: transport.New(cfg), Cache: backend})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	c := testClient(t, "http://localhost", nil)
	if c.Kind() != clients.KindRoom {
		t.Errorf("Kind() = %v, want room", c.Kind())
	}

	cfg := config.Default()
	if _, err := New(clients.Params{Config: cfg, Transport: transport.New(cfg)}); !errors.Is(err, errors.ErrCodeClientConstruction) {
		t.Errorf("New() error = %v, want CLIENT_CONSTRUCTION", err)
	}
	cfg.AppID, cfg.SecretID, cfg.SecretKey = "a", "s", "k"
	if _, err := New(clients.Params{Config: cfg}); !errors.Is(err, errors.ErrCodeClientConstruction) {
		t.Errorf("New() without transport error = %v, want CLIENT_CONSTRUCTION", err)
	}
}

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/meeting-rooms" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("page_size"); got != "20" {
			t.Errorf("page_size = %s, want default 20", got)
		}
		if r.Header.Get("AccessToken") != "token" {
			t.Error("oauth2 access token not sent")
		}
		w.Write([]byte(`{"total_count":1,"current_page":1,"total_page":1,"meeting_room_list":[{"meeting_room_id":"r1","meeting_room_name":"Aurora","meeting_room_status":2}]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, nil)
	list, err := c.List(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list.Rooms) != 1 || list.Rooms[0].MeetingRoomName != "Aurora" {
		t.Errorf("List() = %+v", list)
	}
	if list.HasNext() {
		t.Error("single page should not have a next page")
	}
}

func TestGet(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/v1/meeting-rooms/r1":
			w.Write([]byte(`{"basic_info":{"meeting_room_id":"r1","meeting_room_name":"Aurora","participant_number":12}}`))
		case "/v1/meeting-rooms/r2":
			w.Write([]byte(`{"meeting_room_id":"r2","meeting_room_name":"Borealis"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	fc, _ := cache.NewFileCache(t.TempDir())
	defer fc.Close()
	c := testClient(t, server.URL, fc)
	ctx := context.Background()

	r, err := c.Get(ctx, "r1", false)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if r.MeetingRoomName != "Aurora" || r.Capacity != 12 {
		t.Errorf("Get(r1) = %+v", r)
	}
	if _, err := c.Get(ctx, "r1", false); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}

	r, err = c.Get(ctx, "r2", false)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if r.MeetingRoomName != "Borealis" {
		t.Errorf("Get(r2) = %+v", r)
	}

	if _, err := c.Get(ctx, "r3", false); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get() error = %v, want NOT_FOUND", err)
	}
	if _, err := c.Get(ctx, "a/b", false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get() error = %v, want INVALID_INPUT", err)
	}
}
