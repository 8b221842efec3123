// Package video builds the slideshow timeline for an episode and muxes
// it with the final audio into an MP4.
//
// The visual track cycles the generated image set, each showing for a
// random 20-25 second interval, until the slideshow covers the audio.
// Rendering goes through ffmpeg's concat demuxer at 1920x1080, 24fps,
// H.264 video with AAC audio.
package video

import (
	"errors"
	"fmt"
	"math/rand"
)

// Output parameters for the rendered slideshow.
const (
	Width     = 1920
	Height    = 1080
	FrameRate = 24

	// MinImageSeconds and MaxImageSeconds bound each image's display
	// interval; durations are drawn uniformly from [min, max).
	MinImageSeconds = 20.0
	MaxImageSeconds = 25.0
)

// ErrNoImages is returned when the image set is empty.
var ErrNoImages = errors.New("video: image set is empty")

// Entry is one slideshow step: show an image for a duration.
type Entry struct {
	// Image is the image's location within the working store.
	Image string

	// Duration is the display time in seconds.
	Duration float64
}

// BuildTimeline produces the slideshow schedule for the given audio
// duration.
//
// Images are cycled in order; each appearance draws an independent
// display duration from [MinImageSeconds, MaxImageSeconds). The
// timeline stops, possibly mid-cycle, as soon as its cumulative
// duration first reaches or exceeds audioDuration, so the slideshow
// always covers the soundtrack and may slightly overrun it.
func BuildTimeline(images []string, audioDuration float64, rng *rand.Rand) ([]Entry, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if audioDuration <= 0 {
		return nil, fmt.Errorf("video: invalid audio duration %v", audioDuration)
	}

	var (
		timeline []Entry
		total    float64
	)
	for total < audioDuration {
		for _, img := range images {
			dur := MinImageSeconds + rng.Float64()*(MaxImageSeconds-MinImageSeconds)
			timeline = append(timeline, Entry{Image: img, Duration: dur})
			total += dur
			if total >= audioDuration {
				break
			}
		}
	}
	return timeline, nil
}
