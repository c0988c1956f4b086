package model

import "strings"

// MoodOther is the fallback category used by profiles that coerce unknown
// moods instead of rejecting them.
const MoodOther = "other"

// MoodProfile is a named set of accepted mood values. The two upload
// endpoints deliberately use different profiles; collapsing them would
// change externally observable validation behavior.
type MoodProfile struct {
	Name     string
	accepted map[string]struct{}
	// Coerce decides what happens to an unknown or missing mood: if true it
	// becomes MoodOther, otherwise normalization reports failure.
	Coerce bool
}

// ProfileRich accepts the full mood set and coerces anything else to "other".
var ProfileRich = NewMoodProfile("rich", true,
	"love", "happy", "sad", "energetic", "relaxed", "romantic", "party", "workout", "chill")

// ProfileRestricted accepts four categories and rejects everything else.
var ProfileRestricted = NewMoodProfile("restricted", false,
	"love", "sadness", "old_melody", "energy")

// NewMoodProfile builds a profile from its accepted values.
func NewMoodProfile(name string, coerce bool, moods ...string) *MoodProfile {
	accepted := make(map[string]struct{}, len(moods))
	for _, m := range moods {
		accepted[m] = struct{}{}
	}
	return &MoodProfile{Name: name, accepted: accepted, Coerce: coerce}
}

// Normalize maps a free-text mood onto the profile. Matching is
// case-insensitive and the stored form is always lowercase. The second
// return value is false only when the profile rejects the input.
func (p *MoodProfile) Normalize(input string) (string, bool) {
	mood := strings.ToLower(strings.TrimSpace(input))
	if _, ok := p.accepted[mood]; ok {
		return mood, true
	}
	if p.Coerce {
		return MoodOther, true
	}
	return "", false
}

// Accepted returns the profile's values, for error messages.
func (p *MoodProfile) Accepted() []string {
	out := make([]string, 0, len(p.accepted))
	for m := range p.accepted {
		out = append(out, m)
	}
	return out
}
