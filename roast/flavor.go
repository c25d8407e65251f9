// Package roast produces the bot's humorous text, either from a completion backend or from
// a static fallback table. Produce never fails.
package roast

import (
	"fmt"
	"strings"

	"github.com/Soypete/roastbot/ai"
)

// Flavor selects the prompt pair and fallback table of a request.
type Flavor string

const (
	Roast      Flavor = "roast"
	Compliment Flavor = "compliment"
	Battle     Flavor = "battle"
	Truth      Flavor = "truth"
	Fortune    Flavor = "fortune"
	Story      Flavor = "story"
	Joke       Flavor = "joke"
	Riddle     Flavor = "riddle"
	Advice     Flavor = "advice"
	Verse      Flavor = "verse"
	Comparison Flavor = "comparison"
	Therapy    Flavor = "therapy"
)

// Flavors lists every flavor the catalog must define.
var Flavors = []Flavor{
	Roast, Compliment, Battle, Truth, Fortune, Story,
	Joke, Riddle, Advice, Verse, Comparison, Therapy,
}

// TwoParty reports whether the flavor interpolates a second label.
func (f Flavor) TwoParty() bool {
	return f == Battle || f == Comparison
}

// Placeholders substituted into prompts and fallback templates.
const (
	TargetPlaceholder = "{target}"
	OtherPlaceholder  = "{other}"
)

// FlavorSpec is everything the provider needs for one flavor.
type FlavorSpec struct {
	Flavor      Flavor  `yaml:"-"`
	Title       string  `yaml:"title"`
	Emoji       string  `yaml:"emoji"`
	Color       int     `yaml:"color"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	System      string  `yaml:"system"`
	Prompt      string  `yaml:"prompt"`
	Fallbacks   []Entry `yaml:"fallbacks"`
}

// Entry is one fallback template. Answer is only used by riddles.
type Entry struct {
	Text   string `yaml:"text"`
	Answer string `yaml:"answer,omitempty"`
}

// Request builds the completion request for the given labels.
func (s FlavorSpec) Request(target, other string) ai.Request {
	return ai.Request{
		System:      s.System,
		Prompt:      fill(s.Prompt, target, other),
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
	}
}

func (s FlavorSpec) validate() error {
	if s.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", s.MaxTokens)
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", s.Temperature)
	}
	if strings.TrimSpace(s.System) == "" {
		return fmt.Errorf("system prompt is required")
	}
	if !strings.Contains(s.Prompt, TargetPlaceholder) {
		return fmt.Errorf("prompt must contain %s", TargetPlaceholder)
	}
	if s.Flavor.TwoParty() && !strings.Contains(s.Prompt, OtherPlaceholder) {
		return fmt.Errorf("prompt must contain %s", OtherPlaceholder)
	}
	if len(s.Fallbacks) == 0 {
		return fmt.Errorf("at least one fallback is required")
	}
	for i, e := range s.Fallbacks {
		if !strings.Contains(e.Text, TargetPlaceholder) {
			return fmt.Errorf("fallback %d: must contain %s", i, TargetPlaceholder)
		}
		if s.Flavor.TwoParty() && !strings.Contains(e.Text, OtherPlaceholder) {
			return fmt.Errorf("fallback %d: must contain %s", i, OtherPlaceholder)
		}
		if s.Flavor == Riddle && strings.TrimSpace(e.Answer) == "" {
			return fmt.Errorf("fallback %d: riddle answer is required", i)
		}
	}
	return nil
}

// fill substitutes the labels in one pass, so labels containing a placeholder are left alone.
func fill(template, target, other string) string {
	return strings.NewReplacer(TargetPlaceholder, target, OtherPlaceholder, other).Replace(template)
}
