package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/registry"
)

type stubHandle clients.Kind

func (h stubHandle) Kind() clients.Kind { return clients.Kind(h) }

func TestPrintCreationStats(t *testing.T) {
	var buf bytes.Buffer
	printCreationStats(&buf, registry.CreationStats{
		Stats:        registry.Stats{TotalCreations: 4, CacheHits: 1},
		CacheHitRate: 0.25,
		Configuration: map[string]any{
			registry.KeyCacheEnabled: true,
			registry.KeyTimeout:      10.0,
			registry.KeyDebug:        false,
			registry.KeyBaseURL:      "https://api.example.com",
		},
		CachedClients: []string{"meeting", "user"},
	})

	out := buf.String()
	for _, want := range []string{"0.25", "https://api.example.com", "meeting", "user", "Cached clients"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintBatchOrderAndDuplicates(t *testing.T) {
	results := map[string]registry.BatchResult{
		"user":     {Handle: stubHandle(clients.KindUser)},
		"calendar": {Message: "unknown client kind", Err: errors.New("unknown client kind")},
	}

	var buf bytes.Buffer
	printBatch(&buf, []string{"user", "calendar", "user"}, results)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "user") {
		t.Errorf("first line = %q, want user", lines[0])
	}
	if !strings.Contains(lines[1], "calendar: unknown client kind") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestCacheStatus(t *testing.T) {
	if got := cacheStatus(true); !strings.Contains(got, iconCached) {
		t.Errorf("cacheStatus(true) = %q", got)
	}
	if got := cacheStatus(false); !strings.Contains(got, iconFresh) {
		t.Errorf("cacheStatus(false) = %q", got)
	}
}
