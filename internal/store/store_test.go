package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	r := Run{Rule: 6, Width: 100, Steps: 500, Alpha: 0.5, Boundary: "periodic", Policy: "synchronous",
		Pattern: "S", Seed: 9, Mean: 0.48, Variance: 0.001, Samples: 450, Sensitivity: 1}
	if err := s.Save(ctx, &r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Fatalf("Save should assign a uuid, got %q", r.ID)
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("Save should stamp CreatedAt")
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rule != 6 || got.Alpha != 0.5 || got.Pattern != "S" || got.Samples != 450 || got.Mean != 0.48 {
		t.Fatalf("Get = %+v", got)
	}
	if !got.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("created_at %v, want %v", got.CreatedAt, r.CreatedAt)
	}

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get unknown = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, &r); err == nil {
		t.Fatal("duplicate id should fail")
	}
}

func TestListFilterAndOrder(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	runs := []Run{
		{Rule: 9, Alpha: 0.5, Boundary: "periodic", Policy: "synchronous", CreatedAt: base},
		{Rule: 6, Alpha: 0.75, Boundary: "fixed", Policy: "randomOrder", CreatedAt: base},
		{Rule: 6, Alpha: 0.25, Boundary: "periodic", Policy: "synchronous", CreatedAt: base},
		{Rule: 6, Alpha: 0.25, Boundary: "periodic", Policy: "synchronous", CreatedAt: base.Add(time.Second)},
	}
	if err := s.SaveAll(ctx, runs); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List returned %d runs", len(all))
	}
	if all[0].Rule != 6 || all[0].Alpha != 0.25 || !all[0].CreatedAt.Equal(base) || all[3].Rule != 9 {
		t.Fatalf("unexpected order: %+v", all)
	}

	rule := 6
	sixes, err := s.List(ctx, Filter{Rule: &rule, Boundary: "periodic"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sixes) != 2 {
		t.Fatalf("filtered = %d runs, want 2", len(sixes))
	}

	limited, err := s.List(ctx, Filter{Policy: "synchronous", Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 || limited[0].Policy != "synchronous" {
		t.Fatalf("limited = %+v", limited)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Save(context.Background(), &Run{Rule: 1, Boundary: "adiabatic", Policy: "synchronous"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	runs, err := s.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].Boundary != "adiabatic" {
		t.Fatalf("runs after reopen = %+v", runs)
	}
}

func TestSaveAllRollsBack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	runs := []Run{{ID: "dup", Rule: 1}, {ID: "dup", Rule: 2}}
	if err := s.SaveAll(ctx, runs); err == nil {
		t.Fatal("duplicate ids should fail")
	}
	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("failed batch left %d runs", len(all))
	}
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if err := s.Save(context.Background(), &Run{Rule: 3}); err != nil {
		t.Fatalf("Save: %v", err)
	}
}
