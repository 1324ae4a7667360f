package utils

import (
	"math"
	"time"
)

// BackoffStrategy yields the delay before retry attempt n (0-indexed).
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ConstantBackoff waits the same delay between every attempt.
type ConstantBackoff struct {
	Delay time.Duration
}

func NewConstantBackoff(delay time.Duration) *ConstantBackoff {
	return &ConstantBackoff{Delay: delay}
}

func (b *ConstantBackoff) NextDelay(int) time.Duration {
	return b.Delay
}

// ExponentialBackoff doubles (or multiplies) the delay per attempt up
// to a cap. An optional random source adds jitter in
// [0.5*delay, 1.5*delay) so retrying callers do not synchronize.
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	Multiplier float64
	MaxDelay   time.Duration
	Jitter     *RandSource
}

func NewExponentialBackoff(baseDelay, maxDelay time.Duration, multiplier float64) *ExponentialBackoff {
	if multiplier <= 0 {
		multiplier = 2.0
	}
	return &ExponentialBackoff{
		BaseDelay:  baseDelay,
		Multiplier: multiplier,
		MaxDelay:   maxDelay,
	}
}

func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := float64(b.BaseDelay) * math.Pow(b.Multiplier, float64(attempt))
	if b.MaxDelay > 0 && delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}
	if b.Jitter != nil {
		delay *= 0.5 + b.Jitter.Float64()
	}
	return time.Duration(delay)
}
