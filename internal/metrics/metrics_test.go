package metrics

import (
	"testing"
	"time"

	"flex_report/internal/engine"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEstimate_CountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(estimatesTotal.WithLabelValues(OutcomeUndetermined))

	ObserveEstimate(OutcomeUndetermined, time.Millisecond)
	ObserveEstimate(OutcomeUndetermined, time.Millisecond)

	got := testutil.ToFloat64(estimatesTotal.WithLabelValues(OutcomeUndetermined))
	if got-before != 2 {
		t.Errorf("undetermined count grew by %v, want 2", got-before)
	}
}

func TestObservers_RegisterSamples(t *testing.T) {
	ObserveCrossing(engine.Crossing{Evaluations: 52})
	ObserveBatch(3)

	if n := testutil.CollectAndCount(solverEvaluations); n != 1 {
		t.Errorf("solver histogram series = %d, want 1", n)
	}
	if n := testutil.CollectAndCount(batchSize); n != 1 {
		t.Errorf("batch histogram series = %d, want 1", n)
	}
}
