package detector

import (
	"context"
	"fmt"
	"time"

	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
	"github.com/DhanushPillay/VisioNova/pkg/observability/metrics"
)

// Adapter invokes detectors through a uniform boundary: every failure mode
// (error return, panic, timeout, cancellation) is converted into a Result
// with Success=false. Nothing propagates past Invoke. The adapter does not
// retry; retry policy, if any, belongs to the caller.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter creates an adapter with the given per-invocation timeout.
// A non-positive timeout disables the deadline.
func NewAdapter(timeout time.Duration) *Adapter {
	return &Adapter{timeout: timeout}
}

// Invoke runs one detector against the image and captures the outcome.
func (a *Adapter) Invoke(ctx context.Context, d Detector, image []byte) Result {
	start := time.Now()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	score, err := a.analyze(ctx, d, image)
	latency := time.Since(start)
	metrics.RecordDetectorInvocation(d.ID(), latency.Seconds())

	if err != nil {
		reason := "error"
		if ctx.Err() != nil {
			// Timeout and cancellation are data, treated like any other failure.
			reason = "timeout"
			err = fmt.Errorf("detector timed out after %s: %w", latency.Round(time.Millisecond), ctx.Err())
		}
		metrics.RecordDetectorFailure(d.ID(), reason)
		logging.LogEvent("detector_failure", map[string]interface{}{
			"detector": d.ID(),
			"reason":   reason,
			"error":    err.Error(),
		})
		return Result{
			DetectorID: d.ID(),
			Success:    false,
			Latency:    latency,
			Error:      err.Error(),
		}
	}

	source := score.Source
	if source == "" {
		source = SourceModel
	}
	return Result{
		DetectorID: d.ID(),
		Success:    true,
		RawScore:   clampScore(score.Value),
		Source:     source,
		Latency:    latency,
	}
}

// Inspect runs one forensic analyzer under the same per-invocation timeout
// and panic guard as detector invocations. A hung, crashing, or timed-out
// analyzer yields an error; callers treat it as an absent signal.
func (a *Adapter) Inspect(ctx context.Context, f ForensicAnalyzer, image []byte) (ForensicSignal, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	type outcome struct {
		sig ForensicSignal
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("forensic analyzer panicked: %v", r)}
			}
		}()
		s, ierr := f.Inspect(ctx, image)
		done <- outcome{sig: s, err: ierr}
	}()

	select {
	case out := <-done:
		return out.sig, out.err
	case <-ctx.Done():
		// The analyzer goroutine is abandoned, same as a hung detector.
		return nil, fmt.Errorf("forensic analyzer timed out: %w", ctx.Err())
	}
}

// analyze calls the detector and recovers panics into errors so a
// misbehaving detector can never take down the pipeline.
func (a *Adapter) analyze(ctx context.Context, d Detector, image []byte) (score Score, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detector panicked: %v", r)
		}
	}()

	type outcome struct {
		score Score
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("detector panicked: %v", r)}
			}
		}()
		s, aerr := d.Analyze(ctx, image)
		done <- outcome{score: s, err: aerr}
	}()

	select {
	case out := <-done:
		return out.score, out.err
	case <-ctx.Done():
		// The detector goroutine is abandoned; it owns no shared state so
		// letting it finish in the background is safe.
		return Score{}, ctx.Err()
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
