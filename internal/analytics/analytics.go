// Package analytics records per-workspace daily counters. Recording is
// fire-and-forget: a failed write is logged and dropped, never surfaced
// to the pipeline.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Counter field names.
const (
	FieldMessagesReceived = "messages_received"
	FieldMessagesReplied  = "messages_replied"
)

// Recorder increments a daily counter for a workspace license.
type Recorder interface {
	Record(ctx context.Context, licenseID int64, field string, delta int64) error
	Close() error
}

// Dispatch increments a counter in the background. Used on the pipeline
// hot path where analytics must never add latency or failure modes.
func Dispatch(rec Recorder, licenseID int64, field string, delta int64) {
	if rec == nil || licenseID == 0 {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("analytics: record panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rec.Record(ctx, licenseID, field, delta); err != nil {
			zap.L().Debug("analytics: record failed",
				zap.Int64("license_id", licenseID),
				zap.String("field", field),
				zap.Error(err),
			)
		}
	}()
}

// Noop is a Recorder that discards everything. Used when analytics is
// disabled.
type Noop struct{}

func (Noop) Record(context.Context, int64, string, int64) error { return nil }
func (Noop) Close() error                                       { return nil }
