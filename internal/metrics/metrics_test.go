package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegistryCarriesAllSeries(t *testing.T) {
	m := New()
	m.ObserveEvent("tcp_connect")
	m.ObserveDrop(DropRateLimit)
	m.ObserveTruncation()
	m.ObserveAppend(0.0001)
	m.OnEvict(10, 14)
	m.SetRingStats(50, 4000, 2)

	fams, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, f := range fams {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"netlog_events_total",
		"netlog_dropped_total",
		"netlog_evicted_records_total",
		"netlog_truncated_paths_total",
		"netlog_ring_live_records",
		"netlog_ring_used_bytes",
		"netlog_sessions_open",
		"netlog_append_duration_seconds",
	} {
		if !found[name] {
			t.Fatalf("series %s not registered", name)
		}
	}
}

func TestOnEvictCountsRange(t *testing.T) {
	m := New()
	m.OnEvict(0, 0)   // one record
	m.OnEvict(10, 14) // five records
	fams, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range fams {
		if f.GetName() != "netlog_evicted_records_total" {
			continue
		}
		got := f.GetMetric()[0].GetCounter().GetValue()
		if got != 6 {
			t.Fatalf("evicted = %v, want 6", got)
		}
		return
	}
	t.Fatalf("evicted counter missing")
}

func TestHandlerServesExposition(t *testing.T) {
	m := New()
	m.ObserveEvent("udp_bind")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "netlog_events_total") {
		t.Fatalf("exposition missing events counter:\n%s", body)
	}
	if !strings.Contains(body, `probe="udp_bind"`) {
		t.Fatalf("exposition missing probe label:\n%s", body)
	}
}
