package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meetingkit.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClientsStats(t *testing.T) {
	out, err := execute(t, "clients", "stats", "webhook", "webhook")
	if err != nil {
		t.Fatalf("clients stats: %v", err)
	}
	for _, want := range []string{"total_creations", "cache_enabled", "webhook", iconCached, iconFresh} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClientsStatsNoArgs(t *testing.T) {
	out, err := execute(t, "clients", "stats")
	if err != nil {
		t.Fatalf("clients stats: %v", err)
	}
	if !strings.Contains(out, "none") {
		t.Errorf("expected empty cache listing, got:\n%s", out)
	}
}

func TestClientsStatsUnknownKind(t *testing.T) {
	if _, err := execute(t, "clients", "stats", "calendar"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestClientsBatch(t *testing.T) {
	// No credentials: meeting fails to construct, webhook does not need any.
	cfg := writeConfig(t, `app_id = ""`)
	out, err := execute(t, "clients", "batch", "webhook", "meeting", "calendar", "--config", cfg)
	if err != nil {
		t.Fatalf("batch should not fail on item errors: %v", err)
	}
	for _, want := range []string{"webhook", "meeting:", "calendar:", "2 of 3 kinds failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClientsBatchRequiresArgs(t *testing.T) {
	if _, err := execute(t, "clients", "batch"); err == nil {
		t.Fatal("expected error without kinds")
	}
}

func TestConfigShowRedacts(t *testing.T) {
	cfg := writeConfig(t, `
app_id = "200000001"
secret_id = "sid"
secret_key = "supersecretvalue"
`)
	out, err := execute(t, "config", "show", "--config", cfg)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "supersecretvalue") {
		t.Errorf("secret leaked:\n%s", out)
	}
	if !strings.Contains(out, `app_id = "200000001"`) {
		t.Errorf("app_id missing:\n%s", out)
	}
}

func TestConfigShowBadFile(t *testing.T) {
	cfg := writeConfig(t, `no_such_key = 1`)
	if _, err := execute(t, "config", "show", "--config", cfg); err == nil {
		t.Fatal("expected error for unknown config key")
	}
}

func TestMeetingCommands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/meetings/m-1":
			_, _ = io.WriteString(w, `{"meeting_number":1,"meeting_info_list":[{"meeting_id":"m-1","meeting_code":"123456789","subject":"Standup","start_time":"1700000000","end_time":"1700003600"}]}`)
		case "/v1/meetings":
			_, _ = io.WriteString(w, `{"meeting_number":1,"remaining":3,"next_pos":1,"meeting_info_list":[{"meeting_id":"m-2","subject":"Retro"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := writeConfig(t, `
app_id = "200000001"
sdk_id = "18000000001"
secret_id = "sid"
secret_key = "skey"
base_url = "`+srv.URL+`"
`)

	out, err := execute(t, "meeting", "get", "m-1", "--user", "alice", "--config", cfg)
	if err != nil {
		t.Fatalf("meeting get: %v", err)
	}
	for _, want := range []string{"m-1", "123456789", "Standup"} {
		if !strings.Contains(out, want) {
			t.Errorf("get output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "meeting", "list", "--user", "alice", "--config", cfg)
	if err != nil {
		t.Fatalf("meeting list: %v", err)
	}
	if !strings.Contains(out, "Retro") || !strings.Contains(out, "--pos 1") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	if _, err := execute(t, "meeting", "get", "missing", "--user", "alice", "--config", cfg); err == nil {
		t.Error("expected error for unknown meeting")
	}
}

func TestMeetingRequiresUser(t *testing.T) {
	if _, err := execute(t, "meeting", "get", "m-1"); err == nil {
		t.Fatal("expected error without --user")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "responses")
	cfg := writeConfig(t, `
[response_cache]
backend = "file"
dir = "`+filepath.ToSlash(dir)+`"
`)

	out, err := execute(t, "cache", "path", "--config", cfg)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	shard := filepath.Join(dir, "ab")
	if err := os.MkdirAll(shard, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(shard, "cdef.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err = execute(t, "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("unexpected clear output:\n%s", out)
	}

	out, err = execute(t, "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("second cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("unexpected clear output:\n%s", out)
	}
}

func TestCacheDirDefault(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirRedisBackend(t *testing.T) {
	cfg := writeConfig(t, `
[response_cache]
backend = "redis"
redis_addr = "localhost:6379"
`)
	if _, err := execute(t, "cache", "path", "--config", cfg); err == nil {
		t.Fatal("expected error for redis backend")
	}
}

func TestCompleteKinds(t *testing.T) {
	labels, directive := completeKinds(nil, nil, "")
	if len(labels) != 6 {
		t.Fatalf("got %d kinds, want 6: %v", len(labels), labels)
	}
	if labels[0] != "meeting" || labels[5] != "sync" {
		t.Errorf("unexpected order: %v", labels)
	}
	if directive == 0 {
		t.Error("expected NoFileComp directive")
	}
}
