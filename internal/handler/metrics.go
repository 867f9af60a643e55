package handler

import (
	"fmt"
	"net/http"

	"github.com/tasktrack/tasktrack/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus text exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "tasktrack_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "tasktrack_logins_total{outcome=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "tasktrack_logins_total{outcome=\"failed\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "tasktrack_logouts_total %d\n", snap.Logouts)

	writeMetric(w, "tasktrack_auth_rejected_total{reason=\"missing\"} %d\n", snap.AuthRejectedMissing)
	writeMetric(w, "tasktrack_auth_rejected_total{reason=\"invalid\"} %d\n", snap.AuthRejectedInvalid)
	writeMetric(w, "tasktrack_auth_rejected_total{reason=\"revoked\"} %d\n", snap.AuthRejectedRevoked)

	writeMetric(w, "tasktrack_tasks_created_total %d\n", snap.TasksCreated)
	writeMetric(w, "tasktrack_tasks_updated_total %d\n", snap.TasksUpdated)
	writeMetric(w, "tasktrack_tasks_deleted_total %d\n", snap.TasksDeleted)

	writeMetric(w, "tasktrack_http_request_duration_seconds_count %d\n", snap.RequestCount)
	writeMetric(w, "tasktrack_http_request_duration_seconds_sum %.6f\n", float64(snap.RequestDurationTotal)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
