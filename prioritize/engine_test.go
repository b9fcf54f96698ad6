package prioritize

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-radar/metrics"
	"opportunity-radar/models"
	"opportunity-radar/random"
)

type fakeStrategy struct {
	calls   int
	actions []models.PrioritizedAction
	err     error
}

func (f *fakeStrategy) Prioritize(_ context.Context, _ []models.GlobalEvent, _ string, _ int) ([]models.PrioritizedAction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PrioritizedAction, len(f.actions))
	copy(out, f.actions)
	return out, nil
}

func scoredAction(id string, priority int) models.PrioritizedAction {
	return models.PrioritizedAction{ID: id, Scores: models.Scores{PriorityScore: priority}, ActionType: models.ActionFeature}
}

func sampleEvents(n int) []models.GlobalEvent {
	events := make([]models.GlobalEvent, n)
	for i := range events {
		events[i] = testEvent(fmt.Sprintf("e%d", i), 80, 80, models.CategoryTool)
	}
	return events
}

func TestEngineWithoutRemoteUsesHeuristic(t *testing.T) {
	m := metrics.New("engine_test")
	e := NewEngine(nil, NewHeuristic(random.NewSeeded(3), nil), Options{Metrics: m})

	res := e.Prioritize(context.Background(), Request{Events: sampleEvents(4), Domain: "d"})
	assert.Equal(t, SourceHeuristic, res.Source)
	assert.Empty(t, res.FallbackReason)
	assert.Len(t, res.Actions, 4)
	assert.False(t, e.RemoteEnabled())
}

func TestEngineRemoteSuccessSortsAndTruncates(t *testing.T) {
	remote := &fakeStrategy{actions: []models.PrioritizedAction{
		scoredAction("low", 10), scoredAction("high", 90), scoredAction("mid", 50),
	}}
	local := &fakeStrategy{}
	e := NewEngine(remote, local, Options{BreakerFailures: 3})

	res := e.Prioritize(context.Background(), Request{Events: sampleEvents(2), Domain: "d", MaxActions: 2})
	assert.Equal(t, SourceGemini, res.Source)
	require.Len(t, res.Actions, 2)
	assert.Equal(t, "high", res.Actions[0].ID)
	assert.Equal(t, "mid", res.Actions[1].ID)
	assert.Equal(t, 0, local.calls)
}

func TestEngineFallsBackOnEveryFailureClass(t *testing.T) {
	for _, kind := range []FailureKind{FailureTransport, FailureStatus, FailureMalformed} {
		m := metrics.New("fallback_test")
		remote := &fakeStrategy{err: &RemoteError{Kind: kind, Err: errors.New("boom")}}
		local := &fakeStrategy{actions: []models.PrioritizedAction{scoredAction("local", 60)}}
		e := NewEngine(remote, local, Options{Metrics: m})

		res := e.Prioritize(context.Background(), Request{Events: sampleEvents(1), Domain: "d"})
		assert.Equal(t, SourceHeuristic, res.Source, kind)
		assert.Equal(t, string(kind), res.FallbackReason)
		assert.Equal(t, 1, remote.calls, "no retry")
		assert.Equal(t, 1, local.calls)
		series, err := testutil.GatherAndCount(m.Registry(), "fallback_test_prioritization_fallbacks_total")
		require.NoError(t, err)
		assert.Equal(t, 1, series)
	}
}

func TestEngineCircuitOpensAfterRepeatedFailures(t *testing.T) {
	remote := &fakeStrategy{err: &RemoteError{Kind: FailureTransport, Err: errors.New("down")}}
	local := &fakeStrategy{}
	e := NewEngine(remote, local, Options{BreakerFailures: 2, BreakerDelay: time.Hour})

	req := Request{Events: sampleEvents(1), Domain: "d"}
	assert.Equal(t, "transport", e.Prioritize(context.Background(), req).FallbackReason)
	assert.Equal(t, "transport", e.Prioritize(context.Background(), req).FallbackReason)

	res := e.Prioritize(context.Background(), req)
	assert.Equal(t, "circuit_open", res.FallbackReason)
	assert.Equal(t, SourceHeuristic, res.Source)
	assert.Equal(t, 2, remote.calls, "open circuit skips the remote call")
	assert.Equal(t, 3, local.calls)
}

func TestEngineSkipsRemoteWithoutEvents(t *testing.T) {
	remote := &fakeStrategy{}
	e := NewEngine(remote, NewHeuristic(nil, nil), Options{})

	res := e.Prioritize(context.Background(), Request{Domain: "d"})
	assert.Equal(t, SourceHeuristic, res.Source)
	assert.Empty(t, res.Actions)
	assert.Equal(t, 0, remote.calls)
}

func TestEngineConfiguredDefaultLimit(t *testing.T) {
	e := NewEngine(nil, NewHeuristic(random.NewSeeded(5), nil), Options{MaxActions: 3})

	assert.Len(t, e.Prioritize(context.Background(), Request{Events: sampleEvents(10), Domain: "d"}).Actions, 3)
	assert.Len(t, e.Prioritize(context.Background(), Request{Events: sampleEvents(10), Domain: "d", MaxActions: 5}).Actions, 5)
}
