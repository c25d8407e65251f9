package commands

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Soypete/roastbot/roast"
)

// Dice bounds.
const (
	DefaultDice = "1d6"
	MinDice     = 1
	MaxDice     = 10
	MinSides    = 2
	MaxSides    = 100
)

// Poll bounds.
const (
	MinPollOptions = 2
	MaxPollOptions = 10
)

// OptionSeparator splits choose and poll arguments.
const OptionSeparator = "|"

// NumberEmojis are the poll vote reactions, in option order.
var NumberEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// DiceRoll is the outcome of RollDice.
type DiceRoll struct {
	Count int
	Sides int
	Rolls []int
	Total int
}

var dicePattern = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)

// RollDice rolls an "NdM" expression. An empty expression rolls DefaultDice and a missing N
// means one die. Out of range expressions return a *UsageError and roll nothing.
func RollDice(expr string, rng roast.Rand) (DiceRoll, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultDice
	}
	m := dicePattern.FindStringSubmatch(expr)
	if m == nil {
		return DiceRoll{}, Usagef("%q is not a dice expression.", expr)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return DiceRoll{}, Usagef("%q is too many dice.", m[1])
		}
		count = n
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return DiceRoll{}, Usagef("%q is too many sides.", m[2])
	}
	if count < MinDice || count > MaxDice {
		return DiceRoll{}, Usagef("You can roll between %d and %d dice.", MinDice, MaxDice)
	}
	if sides < MinSides || sides > MaxSides {
		return DiceRoll{}, Usagef("Dice need between %d and %d sides.", MinSides, MaxSides)
	}

	roll := DiceRoll{Count: count, Sides: sides, Rolls: make([]int, count)}
	for i := range roll.Rolls {
		roll.Rolls[i] = rng.IntN(sides) + 1
		roll.Total += roll.Rolls[i]
	}
	return roll, nil
}

// splitOptions splits on OptionSeparator and drops blank entries.
func splitOptions(s string) []string {
	var out []string
	for _, part := range strings.Split(s, OptionSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Choose picks one of the separated options uniformly.
func Choose(args string, rng roast.Rand) (string, error) {
	options := splitOptions(args)
	if len(options) < 2 {
		return "", Usagef("Give me at least two options separated by %q.", OptionSeparator)
	}
	return options[rng.IntN(len(options))], nil
}

// ParsePoll splits "question | option | option ...".
func ParsePoll(args string) (question string, options []string, err error) {
	parts := splitOptions(args)
	if len(parts) == 0 {
		return "", nil, Usagef("A poll needs a question.")
	}
	question, options = parts[0], parts[1:]
	if len(options) < MinPollOptions || len(options) > MaxPollOptions {
		return "", nil, Usagef("A poll needs between %d and %d options.", MinPollOptions, MaxPollOptions)
	}
	return question, options, nil
}
