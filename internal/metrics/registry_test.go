package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nexus-edge/hvac-console/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRegistryIsSafe(t *testing.T) {
	var r *metrics.Registry

	r.RecordConnection(true, 0.01)
	r.RecordTransaction("read_input", true, 0.01, 4)
	r.RecordPoll(false)
	r.RecordPollSkipped()
	r.UpdateMonitor(true, 3)
	r.UpdateBreakerState(2)
	r.RecordCommand("help", true)
	r.RecordJournal(true)

	if r.Gatherer() != nil {
		t.Error("expected nil gatherer for nil registry")
	}
}

func TestRecordTransaction(t *testing.T) {
	r := metrics.NewRegistry(nil)

	r.RecordTransaction("read_input", true, 0.01, 10)
	r.RecordTransaction("write", true, 0.02, 3)
	r.RecordTransaction("write", false, 0.02, 3)

	if got := testutil.ToFloat64(r.RegistersRead); got != 10 {
		t.Errorf("expected 10 registers read, got %v", got)
	}
	if got := testutil.ToFloat64(r.RegistersWritten); got != 3 {
		t.Errorf("expected 3 registers written, got %v", got)
	}
	if got := testutil.ToFloat64(r.TransactionsTotal.WithLabelValues("write", "error")); got != 1 {
		t.Errorf("expected 1 failed write, got %v", got)
	}
}

func TestMonitorGauges(t *testing.T) {
	r := metrics.NewRegistry(nil)

	r.UpdateMonitor(true, 9)
	r.RecordPoll(true)
	r.RecordPoll(false)
	r.RecordPollSkipped()

	if got := testutil.ToFloat64(r.MonitorEnabled); got != 1 {
		t.Errorf("expected monitor enabled gauge 1, got %v", got)
	}
	if got := testutil.ToFloat64(r.MonitorEntries); got != 9 {
		t.Errorf("expected 9 entries, got %v", got)
	}
	if got := testutil.ToFloat64(r.PollsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed poll, got %v", got)
	}
	if got := testutil.ToFloat64(r.PollsSkipped); got != 1 {
		t.Errorf("expected 1 skipped poll, got %v", got)
	}
}

func TestCommandsAndJournal(t *testing.T) {
	r := metrics.NewRegistry(nil)

	r.RecordCommand("level set", true)
	r.RecordCommand("level set", false)
	r.RecordJournal(false)
	r.RecordJournal(true)
	r.RecordJournal(true)

	if got := testutil.ToFloat64(r.CommandsTotal.WithLabelValues("level set", "success")); got != 1 {
		t.Errorf("expected 1 successful command, got %v", got)
	}
	if got := testutil.ToFloat64(r.JournalEntries); got != 1 {
		t.Errorf("expected 1 journal entry, got %v", got)
	}
	if got := testutil.ToFloat64(r.JournalDropped); got != 2 {
		t.Errorf("expected 2 dropped entries, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	r := metrics.NewRegistry(nil)
	r.RecordCommand("help", true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hvac_console_commands_total") {
		t.Errorf("expected commands counter in exposition, got %q", rec.Body.String())
	}
}
