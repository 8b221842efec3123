// Package imagegen drives cover image generation with bounded retry and
// a guaranteed-safe fallback.
//
// Throttle-class errors are retried with exponential backoff and jitter
// up to a cap. Any other generation error switches to a fixed fallback
// prompt with a deterministic seed, so a run that needs imagery always
// ends with an image. The retry logic is an explicit state machine
// (attempting, backoff, fallback, done) so the cap and the fallback
// trigger are testable in isolation.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	gax "github.com/googleapis/gax-go/v2"
)

const (
	// DefaultMaxRetries is the throttle retry cap.
	DefaultMaxRetries = 5

	// DefaultBackoffBase is the exponential backoff base in seconds.
	DefaultBackoffBase = 2.0

	// MaxPromptLen is the longest prompt passed to the generator.
	MaxPromptLen = 1024

	// FallbackPrompt is the guaranteed-safe prompt used when normal
	// generation fails with a non-throttle error.
	FallbackPrompt = "Generate an image for a podcast without any human"

	// FallbackSeed is the fixed seed for the fallback image, keeping
	// the safe default reproducible.
	FallbackSeed = 0

	// maxSeed bounds randomly drawn generation seeds.
	maxSeed = 2147483646
)

// Generator produces one image for a prompt and seed.
type Generator interface {
	Generate(ctx context.Context, prompt string, seed int64) ([]byte, error)
}

// Image is a generated cover image.
type Image struct {
	// Data is the raw image bytes (PNG).
	Data []byte

	// Seed is the generation seed that produced the image.
	Seed int64

	// Fallback reports whether this is the safe fallback image.
	Fallback bool
}

// state is one node of the retry state machine.
type state int

const (
	stateAttempting state = iota
	stateBackoff
	stateFallback
	stateDone
)

// Driver wraps a Generator with retry, backoff, and fallback behavior.
type Driver struct {
	gen         Generator
	maxRetries  int
	backoffBase float64
	rng         *rand.Rand
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures a Driver.
type Option func(*Driver)

// WithMaxRetries sets the throttle retry cap.
func WithMaxRetries(n int) Option {
	return func(d *Driver) { d.maxRetries = n }
}

// WithBackoffBase sets the exponential backoff base in seconds.
func WithBackoffBase(base float64) Option {
	return func(d *Driver) { d.backoffBase = base }
}

// WithRand sets the random source used for seeds and jitter.
func WithRand(rng *rand.Rand) Option {
	return func(d *Driver) { d.rng = rng }
}

// WithSleep replaces the backoff wait; tests use this to avoid real
// delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Driver) { d.sleep = sleep }
}

// NewDriver creates a Driver around gen.
func NewDriver(gen Generator, opts ...Option) *Driver {
	d := &Driver{
		gen:         gen,
		maxRetries:  DefaultMaxRetries,
		backoffBase: DefaultBackoffBase,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:       gax.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Generate produces one image for prompt, truncated to MaxPromptLen.
//
// Each normal attempt draws a fresh random seed. Throttle errors back
// off and retry; after maxRetries attempts the last throttle error is
// surfaced. Any other error switches to the fallback prompt with
// FallbackSeed and returns that image instead of the error.
func (d *Driver) Generate(ctx context.Context, prompt string) (*Image, error) {
	prompt = Truncate(prompt, MaxPromptLen)

	var (
		st       = stateAttempting
		attempts int
		lastErr  error
		img      *Image
	)

	for {
		switch st {
		case stateAttempting:
			attempts++
			seed := d.rng.Int63n(maxSeed + 1)
			data, err := d.gen.Generate(ctx, prompt, seed)
			switch {
			case err == nil:
				img = &Image{Data: data, Seed: seed}
				st = stateDone
			case isThrottle(err):
				lastErr = err
				if attempts >= d.maxRetries {
					return nil, fmt.Errorf("imagegen: throttled after %d attempts: %w", attempts, lastErr)
				}
				st = stateBackoff
			default:
				slog.Warn("imagegen: generation failed, using fallback image", "err", err)
				st = stateFallback
			}

		case stateBackoff:
			wait := time.Duration((math.Pow(d.backoffBase, float64(attempts)) + d.rng.Float64()) * float64(time.Second))
			slog.Info("imagegen: rate limited, backing off", "attempt", attempts, "max", d.maxRetries, "wait", wait)
			if err := d.sleep(ctx, wait); err != nil {
				return nil, err
			}
			st = stateAttempting

		case stateFallback:
			data, err := d.gen.Generate(ctx, FallbackPrompt, FallbackSeed)
			if err != nil {
				return nil, fmt.Errorf("imagegen: fallback generation failed: %w", err)
			}
			img = &Image{Data: data, Seed: FallbackSeed, Fallback: true}
			st = stateDone

		case stateDone:
			return img, nil
		}
	}
}

// Truncate clips s to at most n bytes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// throttler is implemented by backend errors that represent
// rate-limit/throttle conditions.
type throttler interface {
	Throttle() bool
}

// isThrottle reports whether err is a throttle-class error.
func isThrottle(err error) bool {
	var t throttler
	return errors.As(err, &t) && t.Throttle()
}
