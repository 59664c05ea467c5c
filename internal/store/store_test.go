package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/seedaudit/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return s
}

func TestInsertAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := model.RunRecord{
			StartedAt:            base.Add(time.Duration(i) * time.Hour),
			Command:              "gen",
			RunsRequested:        10,
			RunsCollected:        10 - i,
			Duplicates:           i,
			DuplicateRate:        float64(i) / 10,
			EstimatedEntropyBits: 30,
			IdealEntropyBits:     132,
			OutputPath:           "out.json",
			Aborted:              i == 2,
		}
		if _, err := s.InsertRun(ctx, rec, nil); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	all, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
	if !all[0].StartedAt.Equal(base) || all[2].RunsCollected != 8 {
		t.Fatalf("unexpected order %+v", all)
	}
	if !all[2].Aborted || all[0].Aborted {
		t.Fatalf("aborted flag not round-tripped")
	}

	last, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].RunsCollected != 9 || last[1].RunsCollected != 8 {
		t.Fatalf("expected the two newest runs oldest-first, got %+v", last)
	}
}

func TestInsertRunPositions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	positions := []model.PositionStats{
		{Position: 0, EntropyBits: 0.971, Chi2Approx: 0.2, DistinctWords: 2},
		{Position: 1, EntropyBits: 0.5, Chi2Approx: 1.5, DistinctWords: 2},
	}
	id, err := s.InsertRun(ctx, model.RunRecord{StartedAt: time.Now(), Command: "gen"}, positions)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.ListPositions(ctx, id)
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if len(got) != 2 || got[0].EntropyBits != 0.971 || got[1].Chi2Approx != 1.5 {
		t.Fatalf("unexpected positions %+v", got)
	}
}

func TestListRunsEmpty(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.ListRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}

func TestListRunsOrdersSubsecondTimes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 3, 0, time.UTC)
	// Inserted newest first; fractions of different lengths must still sort by time.
	for i, offset := range []time.Duration{120 * time.Millisecond, 100 * time.Millisecond, 0} {
		rec := model.RunRecord{StartedAt: base.Add(offset), Command: "gen", RunsCollected: i}
		if _, err := s.InsertRun(ctx, rec, nil); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, want := range []int{2, 1, 0} {
		if runs[i].RunsCollected != want {
			t.Fatalf("position %d: expected run %d, got %+v", i, want, runs)
		}
	}
	if !runs[1].StartedAt.Equal(base.Add(100 * time.Millisecond)) {
		t.Fatalf("time not round-tripped: %s", runs[1].StartedAt)
	}
}
