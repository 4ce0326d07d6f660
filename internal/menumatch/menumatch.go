// Package menumatch maps free-text dish names, such as AI suggestions or
// typed order lines, onto menu items.
package menumatch

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tavola-pos/api/internal/model"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Quantity   int
	Item       *model.MenuItem  // when Matched
	Candidates []model.MenuItem // when Ambiguous
}

// Matcher scores menu items by how many words of their name appear in the
// input.
type Matcher struct {
	items      []model.MenuItem
	nameTokens [][]string // pre-tokenized names per item
}

const (
	fullNameWeight = 5
	regularWeight  = 1
)

var stopWords = map[string]bool{
	"a":    true,
	"al":   true,
	"ai":   true,
	"and":  true,
	"di":   true,
	"the":  true,
	"with": true,
	"of":   true,
}

// New creates a new Matcher with pre-tokenized names
func New(items []model.MenuItem) *Matcher {
	m := &Matcher{
		items:      items,
		nameTokens: make([][]string, len(items)),
	}
	for i, item := range items {
		m.nameTokens[i] = keywords(tokenize(normalize(item.Name)))
	}
	return m
}

// Match finds the menu item named by text. A leading or trailing quantity
// such as "2x" or "3" is reported in Quantity and ignored for matching.
func (m *Matcher) Match(text string) MatchResult {
	qty, descTokens := extractQuantity(tokenize(normalize(text)))

	inputTokens := make(map[string]bool, len(descTokens))
	for _, tok := range keywords(descTokens) {
		inputTokens[tok] = true
	}

	type scoredItem struct {
		item  model.MenuItem
		score int
	}

	var scored []scoredItem
	for i, item := range m.items {
		tokens := m.nameTokens[i]
		if len(tokens) == 0 {
			continue
		}

		score := 0
		for _, tok := range tokens {
			if inputTokens[tok] {
				score += regularWeight
			}
		}
		// Every word of the name present beats any partial match.
		if score == len(tokens) {
			score += fullNameWeight
		}

		if score > 0 {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	if len(scored) == 0 {
		return MatchResult{Status: Unmatched, Quantity: qty}
	}

	maxScore := 0
	for _, s := range scored {
		if s.score > maxScore {
			maxScore = s.score
		}
	}

	var topScorers []model.MenuItem
	for _, s := range scored {
		if s.score == maxScore {
			topScorers = append(topScorers, s.item)
		}
	}

	if len(topScorers) == 1 {
		return MatchResult{Status: Matched, Quantity: qty, Item: &topScorers[0]}
	}
	return MatchResult{Status: Ambiguous, Quantity: qty, Candidates: topScorers}
}

// normalize converts a string to lowercase and replaces non-alphanumeric chars with spaces
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

func tokenize(s string) []string {
	return strings.Fields(s)
}

func keywords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stopWords[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// extractQuantity finds quantity tokens like "2x", "x3" or "4" and separates
// them from the description. The quantity defaults to 1.
func extractQuantity(tokens []string) (qty int, rest []string) {
	qty = 1
	rest = make([]string, 0, len(tokens))

	for _, tok := range tokens {
		if n, ok := parseQty(tok); ok {
			qty = n
			continue
		}
		rest = append(rest, tok)
	}
	return qty, rest
}

// parseQty parses "2", "2x" or "x2" into 2.
func parseQty(tok string) (int, bool) {
	digits := strings.TrimSuffix(strings.TrimPrefix(tok, "x"), "x")
	if !isDigits(digits) {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
