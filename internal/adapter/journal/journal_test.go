package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nexus-edge/hvac-console/internal/adapter/journal"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/rs/zerolog"
)

func openJournal(t *testing.T, path string) *journal.Journal {
	t.Helper()
	j, err := journal.Open(journal.Config{Path: path}, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return j
}

func TestOpen_Disabled(t *testing.T) {
	if _, err := journal.Open(journal.Config{}, zerolog.Nop(), nil); !errors.Is(err, domain.ErrJournalDisabled) {
		t.Errorf("expected ErrJournalDisabled, got %v", err)
	}
}

func TestJournal_WriteAndRecent(t *testing.T) {
	j := openJournal(t, filepath.Join(t.TempDir(), "journal.db"))
	defer j.Stop(context.Background())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := j.Write(ctx, journal.Entry{
			Time:     base.Add(time.Duration(i) * time.Minute),
			Register: domain.HoldingLevel,
			Name:     "level",
			Previous: uint16(i * 10),
			Value:    uint16((i + 1) * 10),
			Source:   "level set",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Value != 50 || got[2].Value != 30 {
		t.Errorf("expected newest first (50..30), got %d..%d", got[0].Value, got[2].Value)
	}
	if !got[0].Time.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("expected timestamp %v, got %v", base.Add(4*time.Minute), got[0].Time)
	}
	if got[0].Name != "level" || got[0].Source != "level set" {
		t.Errorf("unexpected entry %+v", got[0])
	}

	if err := j.HealthCheck(ctx); err != nil {
		t.Errorf("expected healthy journal, got %v", err)
	}
}

func TestJournal_RecordIsDrainedOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j := openJournal(t, path)
	_ = j.Start(context.Background())

	for i := 0; i < 10; i++ {
		j.Record(journal.Entry{Register: uint16(i), Name: "r", Value: uint16(i), Source: "test"})
	}
	if err := j.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Recording after stop is a silent no-op.
	j.Record(journal.Entry{Register: 1})

	reopened := openJournal(t, path)
	defer reopened.Stop(context.Background())
	got, err := reopened.Recent(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("expected 10 drained entries, got %d", len(got))
	}
}
