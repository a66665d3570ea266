// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ProcessMetric defines the process runtime instrumentation
type ProcessMetric struct {
	// Specifies the total number of processes spawned
	spawnCount metric.Int64Counter
	// Specifies the total number of processes stopped
	stopCount metric.Int64Counter
	// Specifies the total number of envelopes processed
	processedCount metric.Int64Counter
	// Specifies the total number of envelopes that failed
	failureCount metric.Int64Counter
	// Specifies the processing latency in milliseconds
	processingDuration metric.Float64Histogram
}

// NewProcessMetric creates an instance of ProcessMetric
func NewProcessMetric(meter metric.Meter) (*ProcessMetric, error) {
	processMetric := new(ProcessMetric)
	var err error

	if processMetric.spawnCount, err = meter.Int64Counter(
		"process_spawn_count",
		metric.WithDescription("Total number of processes spawned"),
	); err != nil {
		return nil, fmt.Errorf("failed to create spawnCount instrument, %w", err)
	}

	if processMetric.stopCount, err = meter.Int64Counter(
		"process_stop_count",
		metric.WithDescription("Total number of processes stopped"),
	); err != nil {
		return nil, fmt.Errorf("failed to create stopCount instrument, %w", err)
	}

	if processMetric.processedCount, err = meter.Int64Counter(
		"process_processed_count",
		metric.WithDescription("Total number of envelopes processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if processMetric.failureCount, err = meter.Int64Counter(
		"process_failure_count",
		metric.WithDescription("Total number of envelopes that failed or panicked"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failureCount instrument, %w", err)
	}

	if processMetric.processingDuration, err = meter.Float64Histogram(
		"process_processing_duration",
		metric.WithDescription("The latency of envelope processing in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processingDuration instrument, %w", err)
	}

	return processMetric, nil
}

// SpawnCount returns the total number of processes spawned
func (x *ProcessMetric) SpawnCount() metric.Int64Counter {
	return x.spawnCount
}

// StopCount returns the total number of processes stopped
func (x *ProcessMetric) StopCount() metric.Int64Counter {
	return x.stopCount
}

// ProcessedCount returns the total number of envelopes processed
func (x *ProcessMetric) ProcessedCount() metric.Int64Counter {
	return x.processedCount
}

// FailureCount returns the total number of envelopes that failed
func (x *ProcessMetric) FailureCount() metric.Int64Counter {
	return x.failureCount
}

// ProcessingDuration returns the envelope processing latency in milliseconds
func (x *ProcessMetric) ProcessingDuration() metric.Float64Histogram {
	return x.processingDuration
}
