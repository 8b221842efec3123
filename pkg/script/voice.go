package script

import "log/slog"

// VoiceID is an opaque token selecting a synthesis voice.
type VoiceID string

// Default voices for the two hosts.
const (
	VoiceHostA VoiceID = "Ruth"
	VoiceHostB VoiceID = "Stephen"
)

// VoiceMap assigns synthesis voices to the known speaker labels.
// Construct once per run with NewVoiceMap; read-only afterwards.
type VoiceMap struct {
	voices       map[string]VoiceID
	defaultVoice VoiceID
}

// NewVoiceMap builds the standard two-host assignment: hostA speaks the
// "Speaker 1"/"Host 1" lines, hostB the "Speaker 2"/"Host 2" lines.
func NewVoiceMap(hostA, hostB VoiceID) *VoiceMap {
	return &VoiceMap{
		voices: map[string]VoiceID{
			"Speaker 1": hostA,
			"Speaker 2": hostB,
			"Host 1":    hostA,
			"Host 2":    hostB,
		},
		defaultVoice: hostA,
	}
}

// Resolve returns the voice for a speaker label. Unknown labels resolve
// to the first host's voice with a warning; Resolve never fails.
func (m *VoiceMap) Resolve(speaker string) VoiceID {
	if v, ok := m.voices[speaker]; ok {
		return v
	}
	slog.Warn("script: unknown speaker, using default voice", "speaker", speaker, "voice", m.defaultVoice)
	return m.defaultVoice
}
