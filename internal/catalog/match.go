package catalog

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MatchStatus represents the status of a quick-entry match
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

// Entry is one sellable option: a plain product or a product variant.
type Entry struct {
	ProductID uuid.UUID
	VariantID uuid.UUID // Nil for plain products
	Name      string
	SKU       string
	Label     string // variant label, empty for plain products
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Entry      *Entry  // when Matched
	Candidates []Entry // when Ambiguous
	Quantity   int32   // parsed from the input, 1 when absent
}

// Matcher resolves free-typed seller input ("camiseta talla m x2") to a
// catalog entry. Label tokens weigh more than name tokens so variant
// qualifiers dominate when present.
type Matcher struct {
	entries     []Entry
	nameTokens  [][]string
	labelTokens [][]string
}

const (
	labelWeight = 5
	nameWeight  = 1
)

// New creates a new Matcher with pre-tokenized entries
func New(entries []Entry) *Matcher {
	m := &Matcher{
		entries:     entries,
		nameTokens:  make([][]string, len(entries)),
		labelTokens: make([][]string, len(entries)),
	}

	for i, e := range entries {
		m.nameTokens[i] = tokenize(normalize(e.Name + " " + e.SKU))
		if e.Label != "" {
			m.labelTokens[i] = tokenize(normalize(e.Label))
		}
	}

	return m
}

// Match scores all entries against the input tokens.
func (m *Matcher) Match(text string) MatchResult {
	normalized := normalize(text)
	tokens := tokenize(normalized)

	qty, descTokens := extractQuantity(tokens)

	inputTokens := make(map[string]bool)
	for _, tok := range descTokens {
		inputTokens[tok] = true
	}

	type scoredEntry struct {
		entry Entry
		score int
	}

	var scored []scoredEntry

	for i, e := range m.entries {
		// Hard filter: when the input names a variant qualifier that
		// this entry's label has none of, a variant entry must match
		// at least one label token to stay in the running.
		score := 0
		labelHit := false
		for _, kw := range m.labelTokens[i] {
			if inputTokens[kw] {
				score += labelWeight
				labelHit = true
			}
		}
		for _, kw := range m.nameTokens[i] {
			if inputTokens[kw] {
				score += nameWeight
			}
		}
		if len(m.labelTokens[i]) > 0 && !labelHit {
			// Variant entries never win on name tokens alone; the
			// plain-product entry covers that case.
			continue
		}

		if score > 0 {
			scored = append(scored, scoredEntry{entry: e, score: score})
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

	var topScorers []Entry
	for _, s := range scored {
		if s.score == maxScore {
			topScorers = append(topScorers, s.entry)
		}
	}

	if len(topScorers) == 1 {
		return MatchResult{
			Status:   Matched,
			Entry:    &topScorers[0],
			Quantity: qty,
		}
	}

	return MatchResult{
		Status:     Ambiguous,
		Candidates: topScorers,
		Quantity:   qty,
	}
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

	// Collapse multiple spaces
	result := sb.String()
	result = strings.Join(strings.Fields(result), " ")

	return result
}

// tokenize splits a string on whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}

// extractQuantity finds quantity tokens like "x2", "2un", "3pcs" and
// separates them from the description.
func extractQuantity(tokens []string) (qty int32, rest []string) {
	qty = 1
	rest = make([]string, 0, len(tokens))

	for _, tok := range tokens {
		parsed, ok := parseQty(tok)
		if ok {
			qty = parsed
		} else {
			rest = append(rest, tok)
		}
	}

	return qty, rest
}

// parseQty parses tokens like "x2", "2un" or "3pcs" into a count.
// A bare number is NOT treated as a quantity because SKUs and product
// names carry numbers ("CM-10").
func parseQty(tok string) (int32, bool) {
	if tok == "" {
		return 0, false
	}

	if strings.HasPrefix(tok, "x") {
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n < 1 {
			return 0, false
		}
		return int32(n), true
	}

	digitEnd := 0
	for i, r := range tok {
		if unicode.IsDigit(r) {
			digitEnd = i + 1
		} else {
			break
		}
	}
	if digitEnd == 0 {
		return 0, false
	}

	switch tok[digitEnd:] {
	case "un", "und", "pcs", "u":
		n, err := strconv.Atoi(tok[:digitEnd])
		if err != nil || n < 1 {
			return 0, false
		}
		return int32(n), true
	}
	return 0, false
}
