package money

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$ 0"},
		{950, "$ 950"},
		{120000, "$ 120.000"},
		{1234567, "$ 1.234.567"},
	}
	for _, tt := range tests {
		if got := Format(tt.amount); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"plain integer", "120000", 120000},
		{"peso symbol and nbsp", "$ 120.000", 120000},
		{"currency code", "COP 1.000", 1000},
		{"regular spaces", "  45 000 ", 45000},

		// Both separators: the later one is decimal.
		{"euro style", "1.234,56", 1235},
		{"us style", "1,234.56", 1235},
		{"multi grouping euro", "1.234.567,89", 1234568},
		{"multi grouping us", "1,234,567.89", 1234568},

		// Lone comma: grouping iff trailing group has exactly 3 digits.
		{"comma grouping", "12,000", 12000},
		{"comma decimal", "12,5", 13},
		{"comma decimal two digits", "12,34", 12},

		// Lone dot: same rule.
		{"dot grouping", "1.234", 1234},
		{"dot decimal", "1234.56", 1235},
		{"dot decimal long tail", "1.2345", 1},
		{"repeated dot is grouping", "1.234.567", 1234567},

		{"rounds half away", "99.5", 100},
		{"empty", "", 0},
		{"whitespace only", "   ", 0},
		{"garbage", "abc", 0},
		{"lone separator", ",", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 950, 1000, 50000, 120000, 1234567, 999999999} {
		if got := Parse(Format(n)); got != n {
			t.Errorf("Parse(Format(%d)) = %d", n, got)
		}
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"0", 0},
		{"10", 10},
		{"70", 70},
		{"100", 100},
		{"150", 100},
		{"-5", 0},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := ParsePercent(tt.raw); got != tt.want {
			t.Errorf("ParsePercent(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
