package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/casewatch/internal/model"
	"github.com/nao1215/casewatch/internal/notify"
	"github.com/nao1215/casewatch/internal/provider"
	"github.com/nao1215/casewatch/internal/reconcile"
	"github.com/nao1215/casewatch/internal/report"
)

// Step names, in execution order.
const (
	StepFetch        = "fetch"
	StepMerge        = "merge"
	StepLoadPrevious = "load_previous"
	StepDiff         = "diff"
	StepPersist      = "persist"
	StepNotify       = "notify"
)

// SnapshotStore loads and stores the last known record.
// *database.SnapshotDB implements it.
type SnapshotStore interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Store(ctx context.Context, record *model.StatusRecord, changed bool) error
}

// ErrReadOnly is returned by a read-only store's Store method.
var ErrReadOnly = errors.New("snapshot store is read-only")

// ReadOnly wraps store so that Load works and Store does nothing.
// Dry runs use it to diff against the real snapshot without moving it.
func ReadOnly(store SnapshotStore) SnapshotStore {
	if store == nil {
		return nil
	}
	return readOnlyStore{store: store}
}

type readOnlyStore struct {
	store SnapshotStore
}

func (r readOnlyStore) Load(ctx context.Context) (model.Snapshot, error) {
	return r.store.Load(ctx)
}

func (readOnlyStore) Store(context.Context, *model.StatusRecord, bool) error {
	return ErrReadOnly
}

// stepBase holds what every step shares.
type stepBase struct {
	logger *slog.Logger
}

// StepOption configures a step.
type StepOption func(*stepBase)

// WithStepLogger sets the logger a step writes its result line to.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(b *stepBase) {
		b.logger = logger
	}
}

func newStepBase(opts []StepOption) stepBase {
	b := stepBase{}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// FetchStep calls every provider and records the candidates.
type FetchStep struct {
	stepBase
	providers []provider.Provider
}

// NewFetchStep creates a FetchStep for providers, called in order.
func NewFetchStep(providers []provider.Provider, opts ...StepOption) *FetchStep {
	return &FetchStep{stepBase: newStepBase(opts), providers: providers}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return StepFetch }

// Do gathers candidates. It never fails; unavailable sources are recorded.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	run.Candidates = provider.Gather(ctx, s.providers, s.logger)
	s.logger.Info("fetch complete",
		"available", run.AvailableCount(),
		"total", len(run.Candidates),
	)
	return nil
}

// MergeStep combines the available candidates into the current record.
type MergeStep struct {
	stepBase
}

// NewMergeStep creates a MergeStep.
func NewMergeStep(opts ...StepOption) *MergeStep {
	return &MergeStep{stepBase: newStepBase(opts)}
}

// Name returns the step name.
func (s *MergeStep) Name() string { return StepMerge }

// Do merges the candidates. It returns reconcile.ErrNoSources when every
// source was unavailable, which ends the pass.
func (s *MergeStep) Do(_ context.Context, run *model.Run) error {
	current, err := reconcile.MergeCandidates(run.Candidates)
	if err != nil {
		return err
	}
	run.Current = current
	s.logger.Info("merged", "record", current.String())
	return nil
}

// LoadPreviousStep reads the stored snapshot.
type LoadPreviousStep struct {
	stepBase
	store SnapshotStore
}

// NewLoadPreviousStep creates a LoadPreviousStep. A nil store behaves as an
// empty one.
func NewLoadPreviousStep(store SnapshotStore, opts ...StepOption) *LoadPreviousStep {
	return &LoadPreviousStep{stepBase: newStepBase(opts), store: store}
}

// Name returns the step name.
func (s *LoadPreviousStep) Name() string { return StepLoadPrevious }

// Do loads the snapshot. A load failure is logged and treated as absent.
func (s *LoadPreviousStep) Do(ctx context.Context, run *model.Run) error {
	run.Previous = model.AbsentSnapshot()
	if s.store == nil {
		s.logger.Info("no previous snapshot", "reason", "no store")
		return nil
	}

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load previous snapshot; comparing against zero", "error", err)
		return nil
	}

	run.Previous = snapshot
	if !snapshot.Present {
		s.logger.Info("no previous snapshot", "reason", "first run")
		return nil
	}
	s.logger.Info("loaded previous snapshot",
		"record", snapshot.Baseline().String(),
		"saved_at", snapshot.SavedAt.Format(time.RFC3339),
	)
	return nil
}

// DiffStep compares the current record with the previous snapshot.
type DiffStep struct {
	stepBase
}

// NewDiffStep creates a DiffStep.
func NewDiffStep(opts ...StepOption) *DiffStep {
	return &DiffStep{stepBase: newStepBase(opts)}
}

// Name returns the step name.
func (s *DiffStep) Name() string { return StepDiff }

// Do fills the deltas of the current record and sets run.Changed.
func (s *DiffStep) Do(_ context.Context, run *model.Run) error {
	run.Changed = reconcile.DiffSnapshot(run.Current, run.Previous)
	s.logger.Info("diff complete",
		"changed", run.Changed,
		"record", run.Current.String(),
	)
	return nil
}

// PersistStep stores the current record, changed or not.
type PersistStep struct {
	stepBase
	store SnapshotStore
}

// NewPersistStep creates a PersistStep. A nil store skips persistence.
func NewPersistStep(store SnapshotStore, opts ...StepOption) *PersistStep {
	return &PersistStep{stepBase: newStepBase(opts), store: store}
}

// Name returns the step name.
func (s *PersistStep) Name() string { return StepPersist }

// Do stores the record. A store failure is logged and the pass continues.
func (s *PersistStep) Do(ctx context.Context, run *model.Run) error {
	if s.store == nil {
		s.logger.Info("snapshot not stored", "reason", "no store")
		return nil
	}

	if err := s.store.Store(ctx, run.Current, run.Changed); err != nil {
		if errors.Is(err, ErrReadOnly) {
			s.logger.Info("snapshot not stored", "reason", "read-only")
			return nil
		}
		s.logger.Warn("failed to store snapshot", "error", err)
		return nil
	}

	run.Persisted = true
	s.logger.Info("snapshot stored", "record", run.Current.String())
	return nil
}

// NotifyStep sends the message when the numbers changed or the run is forced.
type NotifyStep struct {
	stepBase
	notifier notify.Notifier
}

// NewNotifyStep creates a NotifyStep.
func NewNotifyStep(notifier notify.Notifier, opts ...StepOption) *NotifyStep {
	return &NotifyStep{stepBase: newStepBase(opts), notifier: notifier}
}

// Name returns the step name.
func (s *NotifyStep) Name() string { return StepNotify }

// Do renders and sends the message, or logs why it was skipped.
// A transport failure is logged and recorded; it never fails the pass.
func (s *NotifyStep) Do(ctx context.Context, run *model.Run) error {
	if !run.ShouldNotify() {
		s.logger.Info("notification skipped", "reason", "no changes")
		return nil
	}

	run.Message = report.BuildMessage(run.Current)
	s.logger.Debug("notification message", "message", run.Message)

	if s.notifier == nil {
		run.NotifyError = "no notifier configured"
		s.logger.Warn("notification not sent", "reason", run.NotifyError)
		return nil
	}

	if err := s.notifier.Send(ctx, run.Message); err != nil {
		run.NotifyError = err.Error()
		s.logger.Warn("notification failed",
			"transport", s.notifier.Name(),
			"error", err,
		)
		return nil
	}

	run.Notified = true
	s.logger.Info("notification sent",
		"transport", s.notifier.Name(),
		"forced", run.Force && !run.Changed,
	)
	return nil
}

// DefaultPipeline creates the standard pass:
// fetch, merge, load previous, diff, persist, notify.
func DefaultPipeline(
	providers []provider.Provider,
	store SnapshotStore,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	stepOpts := []StepOption{WithStepLogger(logger)}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewFetchStep(providers, stepOpts...),
		NewMergeStep(stepOpts...),
		NewLoadPreviousStep(store, stepOpts...),
		NewDiffStep(stepOpts...),
		NewPersistStep(store, stepOpts...),
		NewNotifyStep(notifier, stepOpts...),
	)
	return p
}
