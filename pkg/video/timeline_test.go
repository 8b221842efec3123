package video

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/praven80/doctalk/pkg/media"
	"github.com/praven80/doctalk/pkg/storage"
)

func TestBuildTimelineCoversAudio(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	timeline, err := BuildTimeline([]string{"generated_image_0.png"}, 63, rng)
	if err != nil {
		t.Fatal(err)
	}

	var total float64
	for _, e := range timeline {
		if e.Duration < MinImageSeconds || e.Duration >= MaxImageSeconds {
			t.Errorf("duration %v outside [%v, %v)", e.Duration, MinImageSeconds, MaxImageSeconds)
		}
		total += e.Duration
	}
	if total < 63 {
		t.Fatalf("cumulative duration %v < 63", total)
	}

	// Minimal entry count: without the last entry the timeline must
	// not yet cover the audio.
	if total-timeline[len(timeline)-1].Duration >= 63 {
		t.Fatalf("timeline has more entries than needed: %v", timeline)
	}
}

func TestBuildTimelineCyclesImages(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	images := []string{"a.png", "b.png", "c.png"}

	timeline, err := BuildTimeline(images, 200, rng)
	if err != nil {
		t.Fatal(err)
	}

	for i, e := range timeline {
		if want := images[i%len(images)]; e.Image != want {
			t.Fatalf("entry %d shows %q, want %q", i, e.Image, want)
		}
	}
}

func TestBuildTimelineStopsMidCycle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// Two images but the audio fits within one interval: the cycle
	// must stop after the first entry.
	timeline, err := BuildTimeline([]string{"a.png", "b.png"}, 10, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(timeline) != 1 {
		t.Fatalf("got %d entries, want 1", len(timeline))
	}
	if timeline[0].Image != "a.png" {
		t.Fatalf("entry shows %q", timeline[0].Image)
	}
}

func TestBuildTimelineEmptyImages(t *testing.T) {
	_, err := BuildTimeline(nil, 63, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("got %v, want ErrNoImages", err)
	}
}

func TestBuildTimelineInvalidDuration(t *testing.T) {
	for _, dur := range []float64{0, -1} {
		if _, err := BuildTimeline([]string{"a.png"}, dur, rand.New(rand.NewSource(1))); err == nil {
			t.Errorf("duration %v: expected error", dur)
		}
	}
}

func TestAssembleBuildsFFmpegCommand(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ff := media.New()
	var gotArgs []string
	ff.RunCommand = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return nil, nil
	}

	a := NewAssembler(store, ff)
	timeline := []Entry{
		{Image: "generated_image_0.png", Duration: 21.5},
		{Image: "generated_image_1.png", Duration: 23.25},
	}
	if err := a.Assemble(context.Background(), timeline, "final_podcast.mp3", "doctalk_video.mp4"); err != nil {
		t.Fatal(err)
	}

	cmd := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"ffmpeg", "-f concat", "-c:v libx264", "-c:a aac",
		"scale=1920:1080", "fps=24",
		store.Path("final_podcast.mp3"),
		store.Path("doctalk_video.mp4"),
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q: %s", want, cmd)
		}
	}

	// The staged concat script lists every entry plus the trailing
	// repeat of the final image.
	script, err := storage.ReadFile(context.Background(), store, "slideshow.txt")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(script)), "\n")
	if len(lines) != 5 {
		t.Fatalf("concat script has %d lines, want 5:\n%s", len(lines), script)
	}
	if !strings.Contains(lines[1], "duration 21.500") {
		t.Errorf("missing duration line: %q", lines[1])
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "generated_image_1.png") {
		t.Errorf("final image not repeated: %q", last)
	}
}

func TestAssembleEmptyTimeline(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	a := NewAssembler(store, media.New())
	if err := a.Assemble(context.Background(), nil, "a.mp3", "v.mp4"); !errors.Is(err, ErrNoImages) {
		t.Fatalf("got %v, want ErrNoImages", err)
	}
}

func TestAssembleEncodeFailure(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ff := media.New()
	encodeErr := errors.New("encoder exploded")
	ff.RunCommand = func(context.Context, string, ...string) ([]byte, error) {
		return nil, encodeErr
	}

	a := NewAssembler(store, ff)
	err = a.Assemble(context.Background(), []Entry{{Image: "a.png", Duration: 20}}, "a.mp3", "v.mp4")
	if !errors.Is(err, encodeErr) {
		t.Fatalf("got %v, want wrapped encode error", err)
	}
}
