package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/session"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/store"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/testutil"
)

// Harness executes one scenario against a fresh store and controller.
type Harness struct {
	store    session.RecordStore
	fake     *testutil.Store // nil unless the scenario uses the fake store
	ctrl     *session.Controller
	recorder *testutil.Recorder
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh store: an in-memory SQLite database
// or a new fake. Op IDs are sequential so runs are reproducible.
//
// Execution flow:
// 1. Open the store and add the seed records
// 2. Wire a controller with a recording listener
// 3. Execute flow steps, comparing each against its expect clause
// 4. Evaluate assertions against the trace and final records
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	h := &Harness{logger: logger}

	switch scenario.Store {
	case StoreFake:
		h.fake = testutil.NewStore()
		h.store = h.fake
	default:
		st, err := store.OpenSQLite(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		h.store = st
	}

	if err := h.seed(ctx, scenario.Seed); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	h.recorder = &testutil.Recorder{}
	h.ctrl = session.New(h.store,
		session.WithLogger(logger),
		session.WithOpIDGenerator(&testutil.SequentialOpIDs{}),
	)
	unsubscribe := h.ctrl.Subscribe(h.recorder.Listen)
	defer unsubscribe()

	result := NewResult()
	for i, step := range scenario.Flow {
		h.executeStep(ctx, i, step, result)
	}
	result.Records = h.ctrl.Snapshot().Records

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// seed adds records directly through the store, bypassing the controller.
func (h *Harness) seed(ctx context.Context, people []Person) error {
	for i, p := range people {
		outcome, err := h.store.AddOne(ctx, p.Fields())
		if err != nil {
			return fmt.Errorf("seed %d: %w", i, err)
		}
		if !outcome.IsOk() {
			return fmt.Errorf("seed %d: rejected: %s", i, outcome.Reason())
		}
	}
	return nil
}

// executeStep runs one flow step, traces it and checks its expect clause.
func (h *Harness) executeStep(ctx context.Context, i int, step FlowStep, result *Result) {
	if h.fake != nil {
		h.inject(step)
		defer h.fake.Heal()
	}

	before := len(h.recorder.Snapshots())

	event := TraceEvent{Seq: i + 1, Action: step.Action}
	switch step.Action {
	case ActionRefresh:
		event.Status = "unchanged"
		if h.ctrl.Refresh(ctx) {
			event.Status = "replaced"
		}
	case ActionSubmit:
		receipt := h.ctrl.SubmitNew(ctx, step.Fields.Fields())
		event.Status = receipt.Status.String()
		event.TID = receipt.TID
		event.Reason = receipt.Reason
	}

	snaps := h.recorder.Snapshots()[before:]
	event.Busy = make([]bool, len(snaps))
	for j, s := range snaps {
		event.Busy[j] = s.Busy
	}
	snap := h.ctrl.Snapshot()
	event.Version = snap.Version
	event.Records = len(snap.Records)

	result.Trace = append(result.Trace, event)

	if step.Expect != nil {
		for _, msg := range compareExpect(step.Expect, event) {
			result.AddError(fmt.Sprintf("flow[%d]: %s", i, msg))
		}
	}

	h.logger.Info("flow step completed",
		"step", i,
		"action", step.Action,
		"status", event.Status,
	)
}

func (h *Harness) inject(step FlowStep) {
	switch step.Inject {
	case InjectFetchFault:
		h.fake.FailFetch(nil)
	case InjectAddFault:
		h.fake.FailAdd(nil)
	case InjectReject:
		h.fake.Reject(step.Reason)
	}
}

func compareExpect(want *ExpectClause, got TraceEvent) []string {
	var errs []string
	if want.Status != got.Status {
		errs = append(errs, fmt.Sprintf("expected status %q, got %q", want.Status, got.Status))
	}
	if want.TID != 0 && want.TID != got.TID {
		errs = append(errs, fmt.Sprintf("expected tid %d, got %d", want.TID, got.TID))
	}
	if want.Reason != "" && want.Reason != got.Reason {
		errs = append(errs, fmt.Sprintf("expected reason %q, got %q", want.Reason, got.Reason))
	}
	return errs
}
