// Package backend implements translation service adapters. Each adapter owns
// its batching, pacing and retry policy and exposes the uniform Backend
// interface: segments in, exactly as many translations out, in order.
package backend

import (
	"context"
	"errors"

	"github.com/luminareads/lingopress"
)

// Policy bundles the throughput knobs every adapter carries.
type Policy struct {
	// MaxBatchChars caps the total character size of one service call.
	// Oversized single segments still go out alone.
	MaxBatchChars int
	RateLimit     lingopress.RateLimitConfig
	Retry         lingopress.RetryConfig
}

// DefaultPolicy returns a conservative policy suitable for public APIs.
func DefaultPolicy() Policy {
	return Policy{
		MaxBatchChars: 4000,
		RateLimit: lingopress.RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         1,
		},
		Retry: lingopress.DefaultRetryConfig(),
	}
}

// SplitBatches groups segments into service-call sized batches by character
// count, preserving order. A segment larger than the cap forms its own batch.
func SplitBatches(segments []string, maxChars int) [][]string {
	if maxChars <= 0 {
		maxChars = DefaultPolicy().MaxBatchChars
	}

	var batches [][]string
	var current []string
	size := 0

	for _, seg := range segments {
		if len(current) > 0 && size+len(seg) > maxChars {
			batches = append(batches, current)
			current = nil
			size = 0
		}
		current = append(current, seg)
		size += len(seg)
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// batchFunc performs one raw service call for a single batch.
type batchFunc func(ctx context.Context, batch []string) ([]string, error)

// runner drives batching, pacing, retry and count repair for an adapter.
// Adapters supply only the raw call.
type runner struct {
	policy  Policy
	limiter *lingopress.RateLimiter
}

func newRunner(policy Policy) *runner {
	return &runner{
		policy:  policy,
		limiter: lingopress.NewRateLimiter(policy.RateLimit),
	}
}

// run translates all segments batch by batch. The result always has exactly
// one entry per input segment; any shortfall the service produces is repaired
// or retried per segment before run gives up.
func (r *runner) run(ctx context.Context, req lingopress.TranslateRequest, call batchFunc) ([]string, error) {
	if len(req.Segments) == 0 {
		return []string{}, nil
	}

	batches := SplitBatches(req.Segments, r.policy.MaxBatchChars)
	out := make([]string, 0, len(req.Segments))

	for i, batch := range batches {
		translated, err := r.runBatch(ctx, batch, call)
		if err != nil {
			return nil, err
		}
		out = append(out, translated...)

		if req.Progress != nil {
			req.Progress(i+1, len(batches))
		}
	}

	return out, nil
}

// runBatch performs one paced, retried call and normalizes its count.
func (r *runner) runBatch(ctx context.Context, batch []string, call batchFunc) ([]string, error) {
	translated, err := r.pacedCall(ctx, batch, call)
	if err != nil {
		var mismatch *lingopress.CountMismatchError
		if !errors.As(err, &mismatch) {
			return nil, err
		}
		return r.perSegment(ctx, batch, call)
	}

	if len(translated) > len(batch) {
		// Extra entries at the tail are service chatter; drop them.
		return translated[:len(batch)], nil
	}
	if len(translated) < len(batch) {
		return r.perSegment(ctx, batch, call)
	}
	return translated, nil
}

// perSegment retranslates a batch one segment at a time. Singleton calls
// cannot misalign, so this recovers from services that merge or split
// responses within a batch.
func (r *runner) perSegment(ctx context.Context, batch []string, call batchFunc) ([]string, error) {
	out := make([]string, len(batch))
	for i, seg := range batch {
		translated, err := r.pacedCall(ctx, []string{seg}, call)
		if err != nil {
			return nil, err
		}
		if len(translated) == 0 {
			return nil, &lingopress.CountMismatchError{Expected: 1, Got: 0}
		}
		out[i] = translated[0]
	}
	return out, nil
}

func (r *runner) pacedCall(ctx context.Context, batch []string, call batchFunc) ([]string, error) {
	return lingopress.WithRetry(ctx, r.policy.Retry, func() ([]string, error) {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return call(ctx, batch)
	})
}
