package doctalk

import (
	"time"

	"github.com/google/uuid"
)

// Source selects where the episode's script comes from.
type Source string

const (
	// SourceDocument generates the script from an uploaded document.
	SourceDocument Source = "document"

	// SourceURL generates the script from a web article.
	SourceURL Source = "url"

	// SourceScript uses a pre-written script as-is.
	SourceScript Source = "script"
)

// Media selects the episode's output format.
type Media string

const (
	// MediaAudio produces the podcast MP3 only.
	MediaAudio Media = "audio"

	// MediaVideo additionally produces a slideshow MP4.
	MediaVideo Media = "video"
)

// Session is the state of one DocTalk run: a unique run ID, the chosen
// source and media mode, and the user prompts entered so far.
type Session struct {
	// ID is the unique run identifier, also used to key published
	// outputs.
	ID string

	// CreatedAt is when the session started.
	CreatedAt time.Time

	// Source is where the script comes from.
	Source Source

	// Media is the output format.
	Media Media

	history []string
}

// NewSession starts a session for one episode run.
func NewSession(source Source, media Media) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Source:    source,
		Media:     media,
	}
}

// AddPrompt records a user prompt in the session history.
func (s *Session) AddPrompt(prompt string) {
	if prompt != "" {
		s.history = append(s.history, prompt)
	}
}

// History returns the user prompts recorded so far, oldest first.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}
