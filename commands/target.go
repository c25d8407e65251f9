package commands

import (
	"strings"
	"unicode/utf8"
)

// maxLabelLength bounds free-text targets so they cannot blow up prompts.
const maxLabelLength = 100

// target is the resolved subject of a single-party command.
type target struct {
	Label string
	// User is set when the target came from a mention or is the invoker.
	User *User
	// Explicit is true when the invoker named a target.
	Explicit bool
	// Self is true when the invoker targets themselves.
	Self bool
}

// resolveTarget picks the first mention, then the free-text argument, then the invoker.
func resolveTarget(inv Invocation) target {
	if len(inv.Mentions) > 0 {
		m := inv.Mentions[0]
		return target{
			Label:    m.DisplayName,
			User:     &m,
			Explicit: true,
			Self:     m.ID != "" && m.ID == inv.Invoker.ID,
		}
	}
	if label := cleanLabel(inv.Args); label != "" {
		return target{Label: label, Explicit: true}
	}
	invoker := inv.Invoker
	return target{Label: invoker.DisplayName, User: &invoker, Self: true}
}

func cleanLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxLabelLength {
		return s
	}
	r := []rune(s)
	return string(r[:maxLabelLength])
}
