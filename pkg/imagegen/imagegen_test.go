package imagegen

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"
)

// throttleErr is a throttle-class generation error.
type throttleErr struct{}

func (throttleErr) Error() string  { return "throttled" }
func (throttleErr) Throttle() bool { return true }

// stubGen scripts per-call results.
type stubGen struct {
	calls   []call
	results []func(prompt string, seed int64) ([]byte, error)
}

type call struct {
	prompt string
	seed   int64
}

func (s *stubGen) Generate(_ context.Context, prompt string, seed int64) ([]byte, error) {
	s.calls = append(s.calls, call{prompt, seed})
	i := len(s.calls) - 1
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i](prompt, seed)
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestDriver(gen Generator, opts ...Option) *Driver {
	base := []Option{
		WithSleep(noSleep),
		WithRand(rand.New(rand.NewSource(1))),
	}
	return NewDriver(gen, append(base, opts...)...)
}

func TestGenerateSuccess(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return []byte("png"), nil },
	}}

	img, err := newTestDriver(gen).Generate(context.Background(), "a podcast about birds")
	if err != nil {
		t.Fatal(err)
	}
	if string(img.Data) != "png" {
		t.Fatalf("data = %q", img.Data)
	}
	if img.Fallback {
		t.Fatal("success must not be marked fallback")
	}
	if len(gen.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(gen.calls))
	}
}

func TestGenerateThrottleEscalatesAfterCap(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return nil, throttleErr{} },
	}}

	_, err := newTestDriver(gen, WithMaxRetries(5)).Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected escalated throttle error")
	}
	var te throttleErr
	if !errors.As(err, &te) {
		t.Fatalf("escalated error does not wrap the throttle error: %v", err)
	}
	if len(gen.calls) != 5 {
		t.Fatalf("got %d attempts, want exactly 5", len(gen.calls))
	}
}

func TestGenerateThrottleThenSuccess(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return nil, throttleErr{} },
		func(string, int64) ([]byte, error) { return nil, throttleErr{} },
		func(string, int64) ([]byte, error) { return []byte("ok"), nil },
	}}

	img, err := newTestDriver(gen).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if string(img.Data) != "ok" {
		t.Fatalf("data = %q", img.Data)
	}
	if len(gen.calls) != 3 {
		t.Fatalf("got %d attempts, want 3", len(gen.calls))
	}
}

func TestGenerateNonThrottleFallsBack(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return nil, errors.New("content policy violation") },
		func(string, int64) ([]byte, error) { return []byte("safe"), nil },
	}}

	img, err := newTestDriver(gen).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if !img.Fallback {
		t.Fatal("expected fallback image")
	}
	if string(img.Data) != "safe" {
		t.Fatalf("data = %q", img.Data)
	}

	// Exactly one normal attempt, then the fallback call.
	if len(gen.calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(gen.calls))
	}
	if gen.calls[1].prompt != FallbackPrompt {
		t.Errorf("fallback prompt = %q", gen.calls[1].prompt)
	}
	if gen.calls[1].seed != FallbackSeed {
		t.Errorf("fallback seed = %d, want %d", gen.calls[1].seed, FallbackSeed)
	}
	if img.Seed != FallbackSeed {
		t.Errorf("image seed = %d, want %d", img.Seed, FallbackSeed)
	}
}

func TestGenerateFallbackFailureSurfaces(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return nil, errors.New("bad request") },
		func(string, int64) ([]byte, error) { return nil, errors.New("bad request again") },
	}}

	if _, err := newTestDriver(gen).Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when fallback also fails")
	}
}

func TestGenerateFreshSeeds(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return nil, throttleErr{} },
		func(string, int64) ([]byte, error) { return nil, throttleErr{} },
		func(string, int64) ([]byte, error) { return []byte("ok"), nil },
	}}

	if _, err := newTestDriver(gen).Generate(context.Background(), "prompt"); err != nil {
		t.Fatal(err)
	}

	seeds := map[int64]bool{}
	for _, c := range gen.calls {
		seeds[c.seed] = true
	}
	if len(seeds) != len(gen.calls) {
		t.Fatalf("expected a fresh seed per attempt, got %v", gen.calls)
	}
}

func TestGeneratePromptTruncated(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return []byte("ok"), nil },
	}}

	long := strings.Repeat("x", 4000)
	if _, err := newTestDriver(gen).Generate(context.Background(), long); err != nil {
		t.Fatal(err)
	}
	if got := len(gen.calls[0].prompt); got != MaxPromptLen {
		t.Fatalf("prompt length = %d, want %d", got, MaxPromptLen)
	}
}

func TestGenerateBackoffHonorsContext(t *testing.T) {
	gen := &stubGen{results: []func(string, int64) ([]byte, error){
		func(string, int64) ([]byte, error) { return nil, throttleErr{} },
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Real gax.Sleep returns ctx.Err() for a canceled context.
	d := NewDriver(gen, WithRand(rand.New(rand.NewSource(1))))
	_, err := d.Generate(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
