package misc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Value kinds accepted by ParseNumber. Percent values are canonicalized to
// integer basis points (1% = 100 bps); counts are rounded to whole units.
const (
	KindCount    = "count"
	KindPercent  = "percent"
	KindCurrency = "currency"
	KindRatio    = "ratio"
)

type ParsedNumber struct {
	Value float64 `json:"value"`
	Raw   string  `json:"rawInput"`
	Valid bool    `json:"isValid"`
	Error string  `json:"error,omitempty"`
}

var (
	unicodeSpaceRe = regexp.MustCompile("[  -​  ]")
	unicodeMinusRe = regexp.MustCompile("[−–—]")
	separatorRe    = regexp.MustCompile(`[,_\s]`)

	percentRe    = regexp.MustCompile(`^(\d*\.?\d+)%?$`)
	scientificRe = regexp.MustCompile(`^(\d*\.?\d+)e([+-]?\d+)$`)
	suffixRe     = regexp.MustCompile(`^(\d*\.?\d+)([kmbt])$`)
	plainRe      = regexp.MustCompile(`^-?(\d*\.?\d+)$`)
)

var suffixMultipliers = map[string]float64{
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
	"t": 1e12,
}

func SanitizeNumberInput(input string) string {
	s := strings.TrimSpace(input)
	s = unicodeSpaceRe.ReplaceAllString(s, " ")
	s = unicodeMinusRe.ReplaceAllString(s, "-")
	s = separatorRe.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

// ParseNumber turns user-typed input into a canonical value. It never
// returns a Go error; callers check Valid before committing the value.
func ParseNumber(input, kind string) ParsedNumber {
	if strings.TrimSpace(input) == "" {
		return ParsedNumber{Value: 0, Raw: input, Valid: true}
	}

	s := SanitizeNumberInput(input)

	// Percent inputs only take percent syntax ("5" or "5%"); magnitude
	// suffixes make no sense in percent units.
	if kind == KindPercent {
		m := percentRe.FindStringSubmatch(s)
		if m == nil {
			return invalidNumber(input, "Invalid percentage format")
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < 0 || v > 100 {
			return invalidNumber(input, "Percentage must be between 0 and 100")
		}
		// Canonical unit is basis points.
		return ParsedNumber{Value: math.Round(v * 100), Raw: input, Valid: true}
	}

	if m := scientificRe.FindStringSubmatch(s); m != nil {
		base, err := strconv.ParseFloat(m[1], 64)
		exp, err2 := strconv.Atoi(m[2])
		if err != nil || err2 != nil {
			return invalidNumber(input, "Invalid scientific notation")
		}
		v := base * math.Pow(10, float64(exp))
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return invalidNumber(input, "Invalid scientific notation")
		}
		return finishNumber(v, input, kind)
	}

	if m := suffixRe.FindStringSubmatch(s); m != nil {
		base, err := strconv.ParseFloat(m[1], 64)
		if err != nil || base < 0 {
			return invalidNumber(input, "Invalid number format")
		}
		return finishNumber(base*suffixMultipliers[m[2]], input, kind)
	}

	if m := plainRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return invalidNumber(input, "Invalid number format")
		}
		if v < 0 {
			return invalidNumber(input, "Must be a positive number")
		}
		return finishNumber(v, input, kind)
	}

	return invalidNumber(input, "Invalid number format")
}

func finishNumber(v float64, raw, kind string) ParsedNumber {
	if kind == KindCount {
		v = math.Round(v)
	}
	return ParsedNumber{Value: v, Raw: raw, Valid: true}
}

func invalidNumber(raw, msg string) ParsedNumber {
	return ParsedNumber{Raw: raw, Valid: false, Error: msg}
}

// FormatPercentFromBps renders basis points as one decimal of percent,
// rounded half-up. 700 -> "7.0%".
func FormatPercentFromBps(bps int) string {
	if bps < 0 {
		bps = 0
	}
	pct := math.Floor(float64(bps)/10+0.5) / 10
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

// FormatRatio renders a ratio value as "<v>:1" with one decimal.
func FormatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + ":1"
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "C$",
	"AUD": "A$",
	"JPY": "¥",
}

// Formatters renders canonical values for display. Build one at startup and
// pass it around; it is safe to share and never mutated per call.
type Formatters struct {
	printer *message.Printer
	symbol  string
}

func NewFormatters(locale, currencyCode string) *Formatters {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	sym, ok := currencySymbols[strings.ToUpper(currencyCode)]
	if !ok {
		sym = "$"
	}
	return &Formatters{
		printer: message.NewPrinter(tag),
		symbol:  sym,
	}
}

func (f *Formatters) Symbol() string {
	return f.symbol
}

func (f *Formatters) CountFull(n float64) string {
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(0)))
}

func (f *Formatters) CountCompact(n float64) string {
	if math.Abs(n) < 1000 {
		return f.CountFull(n)
	}
	return compact(n)
}

func (f *Formatters) CurrencyFull(amount float64) string {
	// Small amounts keep cents, everything else rounds to whole units.
	if amount < 100 {
		return f.symbol + f.printer.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
	return f.symbol + f.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

func (f *Formatters) CurrencyCompact(amount float64) string {
	if math.Abs(amount) < 1000 {
		return f.CurrencyFull(amount)
	}
	return f.symbol + compact(amount)
}

func (f *Formatters) PercentFromBps(bps int) string {
	return FormatPercentFromBps(bps)
}

func (f *Formatters) Ratio(v float64) string {
	return FormatRatio(v)
}

// FormatNumber dispatches on kind and style ("compact" or "full").
func (f *Formatters) FormatNumber(value float64, style, kind string) string {
	switch kind {
	case KindPercent:
		return FormatPercentFromBps(int(math.Round(value)))
	case KindCurrency:
		if style == "compact" {
			return f.CurrencyCompact(value)
		}
		return f.CurrencyFull(value)
	case KindRatio:
		return FormatRatio(value)
	}
	if style == "compact" {
		return f.CountCompact(value)
	}
	return f.CountFull(value)
}

// FormatForInput renders the committed (non-focused) value of an input
// field. Re-parsing the result with the same kind reproduces the value
// within the kind's rounding precision.
func (f *Formatters) FormatForInput(value float64, kind string) string {
	switch kind {
	case KindPercent:
		return FormatPercentFromBps(int(math.Round(value)))
	case KindRatio:
		return FormatRatio(value)
	case KindCurrency:
		return f.printer.Sprint(number.Decimal(value, number.MaxFractionDigits(2)))
	}
	return f.printer.Sprint(number.Decimal(math.Round(value), number.MaxFractionDigits(0)))
}

func compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return trimZeros(v/1e12) + "T"
	case abs >= 1e9:
		return trimZeros(v/1e9) + "B"
	case abs >= 1e6:
		return trimZeros(v/1e6) + "M"
	case abs >= 1e3:
		return trimZeros(v/1e3) + "K"
	}
	return trimZeros(v)
}

func trimZeros(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}

// FormatRightsSummary is shared by the table UI and the CSV export.
// "Paid 3mo • Global • Exclusive"
func FormatRightsSummary(usage string, duration int, territory string, exclusivity bool) string {
	if usage != "" {
		usage = strings.ToUpper(usage[:1]) + usage[1:]
	}
	terr := "Domestic"
	if territory == "global" {
		terr = "Global"
	}
	excl := "Non-exclusive"
	if exclusivity {
		excl = "Exclusive"
	}
	return fmt.Sprintf("%s %dmo • %s • %s", usage, duration, terr, excl)
}
