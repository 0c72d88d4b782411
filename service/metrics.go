package service

import (
	"sync"
	"time"
)

// MetricsCollector tracks timings for synchronization passes and submissions
type MetricsCollector struct {
	mu sync.RWMutex

	syncStartTime time.Time
	syncEndTime   time.Time
	syncCount     int
	syncFailures  int
	syncTotalTime time.Duration
	lastSyncTime  time.Duration

	submissionStartTime time.Time
	submissionEndTime   time.Time
	submissionCount     int
	submissionFailures  int
	submissionTotalTime time.Duration

	duplicatesRejected int
}

// OperationMetrics contains timing information for an operation
type OperationMetrics struct {
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Count          int       `json:"count"`
	Failures       int       `json:"failures"`
	ProcessingTime int64     `json:"processing_time_ms"`
	LastDuration   int64     `json:"last_duration_ms,omitempty"`
}

// MetricsResponse provides the metrics for all operations
type MetricsResponse struct {
	Sync               OperationMetrics `json:"sync"`
	Submission         OperationMetrics `json:"submission"`
	DuplicatesRejected int              `json:"duplicates_rejected"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordSync records one finished synchronization pass
func (mc *MetricsCollector) RecordSync(duration time.Duration, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	if mc.syncCount == 0 && mc.syncFailures == 0 {
		mc.syncStartTime = now.Add(-duration)
	}
	mc.syncEndTime = now
	if err != nil {
		mc.syncFailures++
		return
	}
	mc.syncCount++
	mc.syncTotalTime += duration
	mc.lastSyncTime = duration
}

// RecordSubmission records one finished registration submission
func (mc *MetricsCollector) RecordSubmission(duration time.Duration, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	if mc.submissionCount == 0 && mc.submissionFailures == 0 {
		mc.submissionStartTime = now.Add(-duration)
	}
	mc.submissionEndTime = now
	if err != nil {
		mc.submissionFailures++
		return
	}
	mc.submissionCount++
	mc.submissionTotalTime += duration
}

func (mc *MetricsCollector) RecordDuplicate() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.duplicatesRejected++
}

// GetMetrics returns current metrics for all operations
func (mc *MetricsCollector) GetMetrics() MetricsResponse {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return MetricsResponse{
		Sync: OperationMetrics{
			StartTime:      mc.syncStartTime,
			EndTime:        mc.syncEndTime,
			Count:          mc.syncCount,
			Failures:       mc.syncFailures,
			ProcessingTime: mc.syncTotalTime.Milliseconds(),
			LastDuration:   mc.lastSyncTime.Milliseconds(),
		},
		Submission: OperationMetrics{
			StartTime:      mc.submissionStartTime,
			EndTime:        mc.submissionEndTime,
			Count:          mc.submissionCount,
			Failures:       mc.submissionFailures,
			ProcessingTime: mc.submissionTotalTime.Milliseconds(),
		},
		DuplicatesRejected: mc.duplicatesRejected,
	}
}

// Reset clears all metrics
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.syncStartTime = time.Time{}
	mc.syncEndTime = time.Time{}
	mc.syncCount = 0
	mc.syncFailures = 0
	mc.syncTotalTime = 0
	mc.lastSyncTime = 0

	mc.submissionStartTime = time.Time{}
	mc.submissionEndTime = time.Time{}
	mc.submissionCount = 0
	mc.submissionFailures = 0
	mc.submissionTotalTime = 0

	mc.duplicatesRejected = 0
}
