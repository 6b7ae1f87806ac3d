package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/casewatch/internal/database"
	"github.com/nao1215/casewatch/internal/model"
	"github.com/nao1215/casewatch/internal/provider"
	"github.com/nao1215/casewatch/internal/reconcile"
)

var storedAt = time.Date(2020, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeProvider struct {
	name   string
	record *model.StatusRecord
	err    error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(context.Context) (*model.StatusRecord, error) {
	if f.record == nil {
		return nil, f.err
	}
	return f.record.Clone(), nil
}

func counters(source string, infected, released, dead int) *model.StatusRecord {
	r := model.NewStatusRecord(source)
	r.Infected = infected
	r.Released = released
	r.Dead = dead
	return r
}

type memoryStore struct {
	mu         sync.Mutex
	snapshot   model.Snapshot
	loadErr    error
	storeErr   error
	loadCalls  int
	storeCalls int
}

func (m *memoryStore) Load(context.Context) (model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	if m.loadErr != nil {
		return model.AbsentSnapshot(), m.loadErr
	}
	return m.snapshot, nil
}

func (m *memoryStore) Store(_ context.Context, record *model.StatusRecord, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCalls++
	if m.storeErr != nil {
		return m.storeErr
	}
	m.snapshot = model.PresentSnapshot(*record.Clone(), m.snapshot.SavedAt)
	return nil
}

type recordingNotifier struct {
	messages []string
	err      error
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Send(_ context.Context, text string) error {
	r.messages = append(r.messages, text)
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(nil, nil, nil, discardLogger())
	want := []string{StepFetch, StepMerge, StepLoadPrevious, StepDiff, StepPersist, StepNotify}
	got := p.StepNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRunScenarios(t *testing.T) {
	t.Parallel()

	t.Run("first run notifies against a zero baseline", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{}
		notifier := &recordingNotifier{}
		providers := []provider.Provider{
			&fakeProvider{name: "naver", record: counters("NAVER", 5, 0, 0)},
		}

		run := model.NewRun(false)
		err := DefaultPipeline(providers, store, notifier, discardLogger()).Execute(context.Background(), run)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !run.Changed || run.Current.InfectedDelta != 5 {
			t.Errorf("expected changed with +5, got %s", run.Current)
		}
		if !run.Persisted || store.storeCalls != 1 {
			t.Error("expected the snapshot to be stored")
		}
		if len(notifier.messages) != 1 || !run.Notified {
			t.Fatalf("expected one notification, got %d", len(notifier.messages))
		}
		if !strings.Contains(notifier.messages[0], "- 확진자: 5 명 (+5)") {
			t.Errorf("unexpected message:\n%s", notifier.messages[0])
		}
	})

	t.Run("changed values notify with deltas", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{snapshot: model.PresentSnapshot(*counters("NAVER", 10, 5, 1), storedAt)}
		notifier := &recordingNotifier{}
		providers := []provider.Provider{
			&fakeProvider{name: "naver", record: counters("NAVER", 12, 5, 1)},
		}

		run := model.NewRun(false)
		if err := DefaultPipeline(providers, store, notifier, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !run.Changed {
			t.Error("expected changed")
		}
		if run.Current.InfectedDelta != 2 || run.Current.ReleasedDelta != 0 || run.Current.DeadDelta != 0 {
			t.Errorf("unexpected deltas: %s", run.Current)
		}
		if len(notifier.messages) != 1 {
			t.Errorf("expected one notification, got %d", len(notifier.messages))
		}
	})

	t.Run("unchanged values skip the notification but still persist", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{snapshot: model.PresentSnapshot(*counters("NAVER", 10, 5, 1), storedAt)}
		notifier := &recordingNotifier{}
		providers := []provider.Provider{
			&fakeProvider{name: "naver", record: counters("NAVER", 10, 5, 1)},
		}

		run := model.NewRun(false)
		if err := DefaultPipeline(providers, store, notifier, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.Changed {
			t.Error("expected unchanged")
		}
		if len(notifier.messages) != 0 || run.Message != "" {
			t.Error("expected no notification")
		}
		if store.storeCalls != 1 {
			t.Errorf("expected snapshot to be stored every run, got %d calls", store.storeCalls)
		}
	})

	t.Run("force notifies without changes", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{snapshot: model.PresentSnapshot(*counters("NAVER", 10, 5, 1), storedAt)}
		notifier := &recordingNotifier{}
		providers := []provider.Provider{
			&fakeProvider{name: "naver", record: counters("NAVER", 10, 5, 1)},
		}

		run := model.NewRun(true)
		if err := DefaultPipeline(providers, store, notifier, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.Changed {
			t.Error("expected unchanged")
		}
		if len(notifier.messages) != 1 || !run.Notified {
			t.Errorf("expected forced notification, got %d", len(notifier.messages))
		}
		if !strings.Contains(run.Message, "(+0)") {
			t.Errorf("expected zero deltas in message:\n%s", run.Message)
		}
	})

	t.Run("all sources unavailable aborts without touching the store", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{}
		notifier := &recordingNotifier{}
		providers := []provider.Provider{
			&fakeProvider{name: "naver", err: provider.ErrUnexpectedStatus},
			&fakeProvider{name: "mohw", err: provider.ErrNoFigures},
			&fakeProvider{name: "sbs", err: context.DeadlineExceeded},
		}

		run := model.NewRun(true)
		err := DefaultPipeline(providers, store, notifier, discardLogger()).Execute(context.Background(), run)
		if !errors.Is(err, reconcile.ErrNoSources) {
			t.Fatalf("expected ErrNoSources, got %v", err)
		}
		if store.loadCalls != 0 || store.storeCalls != 0 {
			t.Errorf("store must not be touched: load=%d store=%d", store.loadCalls, store.storeCalls)
		}
		if len(notifier.messages) != 0 {
			t.Error("expected no notification")
		}
		if len(run.Candidates) != 3 || run.AvailableCount() != 0 {
			t.Errorf("expected three unavailable candidates, got %+v", run.Candidates)
		}
	})

	t.Run("partial outage merges the remaining sources", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{}
		providers := []provider.Provider{
			&fakeProvider{name: "naver", record: counters("A", 100, 0, 0)},
			&fakeProvider{name: "mohw", record: counters("B", 98, 0, 0)},
			&fakeProvider{name: "sbs", err: provider.ErrNoFigures},
		}

		run := model.NewRun(false)
		err := DefaultPipeline(providers, store, &recordingNotifier{}, discardLogger()).Execute(context.Background(), run)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Current.Infected != 100 || run.Current.Source != "A,B" {
			t.Errorf("unexpected merge result: %s", run.Current)
		}
	})
}

func TestStepFailuresAreRecovered(t *testing.T) {
	t.Parallel()

	providers := func() []provider.Provider {
		return []provider.Provider{&fakeProvider{name: "naver", record: counters("NAVER", 7, 1, 0)}}
	}

	t.Run("load failure compares against zero", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{loadErr: errors.New("disk on fire")}
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		run := model.NewRun(false)
		if err := DefaultPipeline(providers(), store, &recordingNotifier{}, logger).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Previous.Present {
			t.Error("expected absent previous snapshot")
		}
		if run.Current.InfectedDelta != 7 || !run.Persisted {
			t.Errorf("expected zero baseline and a stored snapshot, got %s", run.Current)
		}
		if !strings.Contains(logs.String(), "failed to load previous snapshot") {
			t.Errorf("expected load failure to be logged:\n%s", logs.String())
		}
	})

	t.Run("store failure still notifies", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{storeErr: errors.New("read-only file system")}
		notifier := &recordingNotifier{}

		run := model.NewRun(false)
		if err := DefaultPipeline(providers(), store, notifier, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Persisted {
			t.Error("expected Persisted to be false")
		}
		if len(notifier.messages) != 1 {
			t.Error("expected notification despite store failure")
		}
	})

	t.Run("notification failure does not fail the run", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{}
		notifier := &recordingNotifier{err: errors.New("503")}

		run := model.NewRun(false)
		if err := DefaultPipeline(providers(), store, notifier, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Notified || run.NotifyError == "" {
			t.Errorf("expected recorded notify error, got notified=%v err=%q", run.Notified, run.NotifyError)
		}
		if !store.snapshot.Present {
			t.Error("snapshot must be stored before notification")
		}
		if len(run.PerformedSteps) != 6 {
			t.Errorf("expected all steps to run, got %v", run.PerformedSteps)
		}
	})

	t.Run("read-only store diffs without writing", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{snapshot: model.PresentSnapshot(*counters("NAVER", 5, 1, 0), storedAt)}
		notifier := &recordingNotifier{}

		run := model.NewRun(false)
		err := DefaultPipeline(providers(), ReadOnly(store), notifier, discardLogger()).Execute(context.Background(), run)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Current.InfectedDelta != 2 {
			t.Errorf("expected diff against stored snapshot, got %s", run.Current)
		}
		if run.Persisted || store.storeCalls != 0 {
			t.Error("read-only store must not be written")
		}
		if len(notifier.messages) != 1 {
			t.Error("expected notification")
		}
	})

	t.Run("nil store and notifier", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun(false)
		if err := DefaultPipeline(providers(), nil, nil, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Persisted || run.Notified {
			t.Error("expected nothing persisted or sent")
		}
	})
}

func TestPipelineWithSnapshotDB(t *testing.T) {
	t.Parallel()

	db, err := database.Open(filepath.Join(t.TempDir(), "corona19status.db"), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	execute := func(infected int) (*model.Run, *recordingNotifier) {
		notifier := &recordingNotifier{}
		providers := []provider.Provider{
			&fakeProvider{name: "naver", record: counters("NAVER", infected, 1, 0)},
		}
		run := model.NewRun(false)
		if err := DefaultPipeline(providers, db, notifier, discardLogger()).Execute(ctx, run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return run, notifier
	}

	first, n1 := execute(10)
	second, n2 := execute(10)
	third, n3 := execute(13)

	if !first.Changed || len(n1.messages) != 1 {
		t.Error("first run should notify")
	}
	if second.Changed || len(n2.messages) != 0 {
		t.Error("second run with identical numbers should not notify")
	}
	if !third.Changed || third.Current.InfectedDelta != 3 || len(n3.messages) != 1 {
		t.Errorf("third run should notify +3, got %s", third.Current)
	}

	history, err := db.History(ctx, 0)
	if err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("expected 3 history entries, got %d", len(history))
	}
}
