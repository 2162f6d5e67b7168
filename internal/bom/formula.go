// Package bom computes material requirements for a service from a BOM
// template and the measurements recorded during a site visit.
package bom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Measurements are the named dimensions a site visit records. Area and
// Perimeter may be given explicitly; when absent they are derived from width
// and height. Absent dimensions read as 0.
type Measurements struct {
	Width     float64
	Height    float64
	Area      *float64
	Perimeter *float64
}

// Var is a measurement variable a formula can scale.
type Var string

const (
	VarArea      Var = "area"
	VarPerimeter Var = "perimeter"
	VarWidth     Var = "width"
	VarHeight    Var = "height"
)

func (m Measurements) value(v Var) decimal.Decimal {
	w := decimal.NewFromFloat(m.Width)
	h := decimal.NewFromFloat(m.Height)
	switch v {
	case VarArea:
		if m.Area != nil {
			return decimal.NewFromFloat(*m.Area)
		}
		return w.Mul(h)
	case VarPerimeter:
		if m.Perimeter != nil {
			return decimal.NewFromFloat(*m.Perimeter)
		}
		return w.Add(h).Mul(decimal.NewFromInt(2))
	case VarWidth:
		return w
	case VarHeight:
		return h
	}
	return decimal.Zero
}

// RuleKind discriminates the two rule variants.
type RuleKind int

const (
	// KindFixed is a constant quantity, independent of measurements.
	KindFixed RuleKind = iota
	// KindScale multiplies one measurement variable by a factor.
	KindScale
)

// Rule is a parsed quantity formula: Fixed(qty) or Scale(var, factor).
type Rule struct {
	Kind   RuleKind
	Qty    float64 // KindFixed
	Var    Var     // KindScale
	Factor float64 // KindScale
}

// ErrUnknownFormula is returned when a formula contains no recognized token.
var ErrUnknownFormula = errors.New("formula references no known quantity rule")

// ParseRule parses a textual quantity formula into a Rule. Matching is
// case-insensitive and follows the legacy token precedence, first match wins:
// "fixed" before "area" before "perimeter"/"perimetro" before
// "width"/"largura" before "height"/"altura". A missing or unparseable number
// after "fixed:" defaults to 1, as does a missing multiplier; only a formula
// with no recognized token at all is an error.
func ParseRule(formula string) (Rule, error) {
	f := strings.ToLower(strings.TrimSpace(formula))

	if strings.Contains(f, "fixed") {
		qty := 1.0
		if _, after, found := strings.Cut(f, ":"); found {
			if n, err := strconv.ParseFloat(strings.TrimSpace(after), 64); err == nil {
				qty = n
			}
		}
		return Rule{Kind: KindFixed, Qty: qty}, nil
	}

	for _, match := range []struct {
		tokens []string
		v      Var
	}{
		{[]string{"area"}, VarArea},
		{[]string{"perimeter", "perimetro"}, VarPerimeter},
		{[]string{"width", "largura"}, VarWidth},
		{[]string{"height", "altura"}, VarHeight},
	} {
		for _, token := range match.tokens {
			if strings.Contains(f, token) {
				return Rule{Kind: KindScale, Var: match.v, Factor: parseFactor(f)}, nil
			}
		}
	}

	return Rule{}, fmt.Errorf("%w: %q", ErrUnknownFormula, formula)
}

// parseFactor extracts the multiplier after "*", defaulting to 1.
func parseFactor(f string) float64 {
	if _, after, found := strings.Cut(f, "*"); found {
		if n, err := strconv.ParseFloat(strings.TrimSpace(after), 64); err == nil {
			return n
		}
	}
	return 1
}

// Evaluate computes the rule's quantity for the given measurements, rounded
// UP to two decimal places. Results are clamped at zero. Arithmetic runs in
// decimal so that e.g. 3.5*2.4*1.1 ceils to 9.24, not a float-noise 9.25.
func (r Rule) Evaluate(m Measurements) float64 {
	var q decimal.Decimal
	switch r.Kind {
	case KindFixed:
		q = decimal.NewFromFloat(r.Qty)
	case KindScale:
		q = m.value(r.Var).Mul(decimal.NewFromFloat(r.Factor))
	}
	if q.IsNegative() {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	f, _ := q.Mul(hundred).Ceil().Div(hundred).Float64()
	return f
}

// EvaluateFormula parses and evaluates in one step, degrading an unrecognized
// formula to quantity 0. This is the lenient path used when reading templates
// already in storage; template writes validate with ParseRule instead.
func EvaluateFormula(formula string, m Measurements) float64 {
	rule, err := ParseRule(formula)
	if err != nil {
		return 0
	}
	return rule.Evaluate(m)
}
