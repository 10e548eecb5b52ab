// Package money parses and formats Brazilian real amounts as exact decimals.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the currency prefix used on display strings.
const Symbol = "R$"

// Places is the number of fractional digits kept for currency values.
const Places = 2

var hundred = decimal.NewFromInt(100)

// ParseBRL converts a display amount such as "R$ 1.499,90" into an exact decimal.
// Amounts without a comma are accepted when the dot is clearly a decimal point
// ("150.00"); otherwise dots are read as thousands separators ("1.500").
func ParseBRL(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, Symbol)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("parse amount %q: empty", raw)
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") == 1 && !dotIsThousands(s):
	default:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

func dotIsThousands(s string) bool {
	idx := strings.LastIndex(s, ".")
	return len(s)-idx-1 == 3
}

// MustParseBRL is ParseBRL for trusted constants; it panics on malformed input.
func MustParseBRL(raw string) decimal.Decimal {
	d, err := ParseBRL(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// Round quantizes d to currency precision using half-up rounding.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Percent returns d * p / 100 rounded to currency precision.
func Percent(d, p decimal.Decimal) decimal.Decimal {
	return Round(d.Mul(p).Div(hundred))
}

// FormatBRL renders d as a display string like "R$ 1.499,90".
func FormatBRL(d decimal.Decimal) string {
	fixed := Round(d).StringFixed(Places)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s %s%s,%s", Symbol, sign, b.String(), fracPart)
}

// String renders d with currency precision and a dot separator ("1499.90").
func String(d decimal.Decimal) string {
	return Round(d).StringFixed(Places)
}
