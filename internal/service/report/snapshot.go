package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/service/metrics"
	"github.com/google/uuid"
)

// Snapshot is an immutable view of every uploaded record. Reports computed
// against the same Version are interchangeable.
type Snapshot struct {
	Version  string
	Records  []attendance.Record
	LoadedAt time.Time
	Options  metrics.Options
}

// Info summarises the snapshot for API responses and refresh events.
func (s *Snapshot) Info() report.SnapshotInfo {
	return report.SnapshotInfo{
		Version:     s.Version,
		RecordCount: len(s.Records),
		LoadedAt:    s.LoadedAt.Format(time.RFC3339),
	}
}

// SnapshotStore holds the current snapshot and swaps in fresh ones.
type SnapshotStore struct {
	repo    attendance.RecordRepository
	current atomic.Pointer[Snapshot]
	// refreshMu keeps concurrent refreshes from racing on the swap.
	refreshMu sync.Mutex
	onLoad    func(*Snapshot)
	now       func() time.Time
}

func NewSnapshotStore(repo attendance.RecordRepository) *SnapshotStore {
	return &SnapshotStore{
		repo: repo,
		now:  time.Now,
	}
}

// Refresh reloads every uploaded row and replaces the current snapshot. On
// failure the previous snapshot stays in place.
func (s *SnapshotStore) Refresh(ctx context.Context) (*Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.now()
	rows, err := s.repo.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance rows: %w", err)
	}

	snap := s.Load(attendance.FromRows(rows))
	slog.Info("attendance snapshot refreshed",
		"version", snap.Version,
		"records", len(snap.Records),
		"duration", s.now().Sub(start),
	)
	return snap, nil
}

// OnLoad registers fn to run after every snapshot swap. Call it before the
// first Load or Refresh.
func (s *SnapshotStore) OnLoad(fn func(*Snapshot)) {
	s.onLoad = fn
}

// Load installs records as the current snapshot.
func (s *SnapshotStore) Load(records []attendance.Record) *Snapshot {
	snap := &Snapshot{
		Version:  uuid.NewString(),
		Records:  records,
		LoadedAt: s.now(),
		Options:  metrics.CollectOptions(records),
	}
	s.current.Store(snap)
	if s.onLoad != nil {
		s.onLoad(snap)
	}
	return snap
}

// Current returns the loaded snapshot.
func (s *SnapshotStore) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, attendance.ErrSnapshotNotLoaded
	}
	return snap, nil
}

// Functions lists the function names present in the current snapshot.
func (s *SnapshotStore) Functions(ctx context.Context) ([]string, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), snap.Options.Functions...), nil
}
