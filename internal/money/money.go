// Package money formats and parses Colombian peso amounts. Amounts are
// whole pesos carried as int64; no fractional currency unit is modeled.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NBSP keeps the symbol and the figure on the same line.
const nbsp = "\u00a0"

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Format renders an amount with the peso symbol and es-CO grouping:
// 120000 -> "$ 120.000".
func Format(amount int64) string {
	return "$" + nbsp + FormatPlain(amount)
}

// FormatPlain renders an amount with es-CO grouping and no symbol.
func FormatPlain(amount int64) string {
	return printer.Sprintf("%v", number.Decimal(amount))
}

// Parse converts free-form currency text into whole pesos. It strips
// currency symbols, alphabetic currency codes and whitespace (including
// non-breaking spaces), then disambiguates "." and ",":
//
//   - both present: the separator appearing later is the decimal point,
//     every occurrence of the other is grouping and is dropped;
//   - a single "," or ".": grouping when the trailing digit group has
//     exactly 3 digits, decimal otherwise;
//   - a separator repeated more than once is always grouping.
//
// Empty input or anything that still fails to parse yields 0. The result
// is rounded half away from zero to whole pesos.
func Parse(raw string) int64 {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" || cleaned == "-" {
		return 0
	}

	normalized := normalizeSeparators(cleaned)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0
	}
	return d.Round(0).IntPart()
}

// ParsePercent parses a discount percentage. Invalid input degrades to 0
// and the result is clamped to [0, 100]; it never blocks a recompute.
func ParsePercent(raw string) int64 {
	p := Parse(raw)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// stripNonNumeric keeps digits, separators and a leading minus sign.
func stripNonNumeric(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the later one is the decimal separator.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = dropAllButLast(s, ',')
			return strings.Replace(s, ",", ".", 1)
		}
		s = strings.ReplaceAll(s, ",", "")
		return dropAllButLast(s, '.')
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 || isGroupingTail(s, lastComma) {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || isGroupingTail(s, lastDot) {
			return strings.ReplaceAll(s, ".", "")
		}
		return s
	}
	return s
}

// isGroupingTail reports whether the digits after the separator at idx
// form a grouping tail (exactly 3 digits).
func isGroupingTail(s string, idx int) bool {
	return len(s)-idx-1 == 3
}

// dropAllButLast removes every occurrence of sep except the final one.
func dropAllButLast(s string, sep byte) string {
	last := strings.LastIndexByte(s, sep)
	return strings.ReplaceAll(s[:last], string(sep), "") + s[last:]
}
