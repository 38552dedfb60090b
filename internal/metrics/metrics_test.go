package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordRecompute("api", OutcomeCompleted, 20*time.Millisecond)
	p.RecordRecompute("api", OutcomeCompleted, 10*time.Millisecond)
	p.RecordRecompute("cron", OutcomeFailed, time.Millisecond)
	p.RecordSolve(12, time.Millisecond)
	p.RecordAssigned(9)
	p.RecordLockWait(time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.recomputes.WithLabelValues("api", OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.recomputes.WithLabelValues("cron", OutcomeFailed)))
	assert.Equal(t, 12.0, testutil.ToFloat64(p.matrixSize))
	assert.Equal(t, 9.0, testutil.ToFloat64(p.assigned))

	n, err := testutil.GatherAndCount(reg, "test_assignment_recomputes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewPrometheus_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "dup")
	assert.Panics(t, func() { NewPrometheus(reg, "dup") })
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	p := NewPrometheus(reg, "")
	p.RecordAssigned(3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "projsel_assignment_assigned_projects 3")
	assert.Contains(t, body, "go_goroutines")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() {
		r.RecordRecompute("api", OutcomeBusy, time.Second)
		r.RecordSolve(1, time.Second)
		r.RecordAssigned(1)
		r.RecordLockWait(time.Second)
	})
}
