package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoodProfileNormalize(t *testing.T) {
	tests := []struct {
		name    string
		profile *MoodProfile
		input   string
		want    string
		wantOK  bool
	}{
		{"rich exact match", ProfileRich, "happy", "happy", true},
		{"rich uppercase input", ProfileRich, "HAPPY", "happy", true},
		{"rich mixed case", ProfileRich, "PaRtY", "party", true},
		{"rich surrounding whitespace", ProfileRich, "  chill  ", "chill", true},
		{"rich unknown falls back to other", ProfileRich, "unknown-mood", "other", true},
		{"rich empty falls back to other", ProfileRich, "", "other", true},
		{"restricted exact match", ProfileRestricted, "love", "love", true},
		{"restricted uppercase input", ProfileRestricted, "ENERGY", "energy", true},
		{"restricted old_melody", ProfileRestricted, "old_melody", "old_melody", true},
		{"restricted unknown rejected", ProfileRestricted, "unknown-mood", "", false},
		{"restricted rich-only mood rejected", ProfileRestricted, "party", "", false},
		{"restricted empty rejected", ProfileRestricted, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.profile.Normalize(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoodProfileAccepted(t *testing.T) {
	accepted := ProfileRestricted.Accepted()
	assert.Len(t, accepted, 4)
	assert.ElementsMatch(t, []string{"love", "sadness", "old_melody", "energy"}, accepted)
}
