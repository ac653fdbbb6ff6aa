package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(DiscoveryRequests.WithLabelValues(OperationFacets, OutcomeSuccess))

	ObserveOperation(OperationFacets, OutcomeSuccess, 3*time.Millisecond)

	after := testutil.ToFloat64(DiscoveryRequests.WithLabelValues(OperationFacets, OutcomeSuccess))
	assert.Equal(t, before+1, after)
}

func TestTrackJob(t *testing.T) {
	const taskType = "metrics-test-task"

	done := TrackJob(taskType)
	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
	done("")
	assert.Equal(t, float64(0), testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType)))

	TrackJob(taskType)("DEPENDENCY_UNAVAILABLE")
	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "DEPENDENCY_UNAVAILABLE")))
}
