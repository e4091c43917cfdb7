package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// BatchMetrics aggregates what the loader observed over its lifetime.
type BatchMetrics struct {
	Batches   uint64
	Resources uint64
	Failures  uint64
	Bytes     uint64
	// Average wall time of the last AVG_COUNT batches.
	AvgBatchTime time.Duration
}

type metricsState struct {
	mu         sync.Mutex
	avgCounter uint8
	samples    [AVG_COUNT]time.Duration
	filled     uint8
	totals     BatchMetrics
}

var metrics = &metricsState{}

// MetricsRecordBatch stores the outcome of one completed batch.
func MetricsRecordBatch(elapsed time.Duration, resources, failures int, bytes uint64) {
	metrics.mu.Lock()
	defer metrics.mu.Unlock()

	metrics.samples[metrics.avgCounter] = elapsed
	metrics.avgCounter++
	metrics.avgCounter %= AVG_COUNT
	if metrics.filled < AVG_COUNT {
		metrics.filled++
	}

	var sum time.Duration
	for i := uint8(0); i < metrics.filled; i++ {
		sum += metrics.samples[i]
	}
	metrics.totals.AvgBatchTime = sum / time.Duration(metrics.filled)

	metrics.totals.Batches++
	metrics.totals.Resources += uint64(resources)
	metrics.totals.Failures += uint64(failures)
	metrics.totals.Bytes += bytes
}

func MetricsSnapshot() BatchMetrics {
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	return metrics.totals
}

// MetricsReset clears all recorded batches.
func MetricsReset() {
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	metrics.avgCounter = 0
	metrics.filled = 0
	metrics.samples = [AVG_COUNT]time.Duration{}
	metrics.totals = BatchMetrics{}
}
