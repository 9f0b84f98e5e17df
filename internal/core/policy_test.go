package core_test

import (
	"testing"

	"github.com/mikey/grammar-relay/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestShouldCorrect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"too short", "ok", false},
		{"too short after trim", "  a. ", false},
		{"greeting dear", "Dear John,", false},
		{"greeting hello", "hello there.", false},
		{"greeting hi", "Hi team!", false},
		{"signoff sincerely", "Sincerely, Bob.", false},
		{"signoff best", "Best wishes.", false},
		{"signoff regards", "Regards, Ann.", false},
		{"signoff thanks", "Thanks for everything.", false},
		{"signoff thank", "Thank you so much.", false},
		{"greeting case insensitive", "DEAR team, please review.", false},
		{"no terminal punctuation", "i goes to school", false},
		{"mid-sentence fragment", "this is an incomplete", false},
		{"period", "i goes to school.", true},
		{"exclamation", "what a day!", true},
		{"question", "are you coming?", true},
		{"trailing newline", "she walk to work\n", true},
		{"trailing newline with spaces", "she walk to work\n  ", true},
		{"greeting word mid-sentence", "I said hello to him.", true},
		{"greeting-prefixed word", "Heyday celebrations were loud.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.ShouldCorrect(tt.text), "text: %q", tt.text)
		})
	}
}
