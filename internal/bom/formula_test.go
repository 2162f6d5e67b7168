package bom

import (
	"errors"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestParseRule(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    Rule
		wantErr bool
	}{
		{"fixed with qty", "fixed: 4", Rule{Kind: KindFixed, Qty: 4}, false},
		{"fixed without qty", "fixed", Rule{Kind: KindFixed, Qty: 1}, false},
		{"fixed with garbage qty", "fixed: lots", Rule{Kind: KindFixed, Qty: 1}, false},
		{"area with factor", "area * 1.1", Rule{Kind: KindScale, Var: VarArea, Factor: 1.1}, false},
		{"area without factor", "area", Rule{Kind: KindScale, Var: VarArea, Factor: 1}, false},
		{"perimeter", "perimeter * 2", Rule{Kind: KindScale, Var: VarPerimeter, Factor: 2}, false},
		{"perimeter portuguese", "perimetro * 2", Rule{Kind: KindScale, Var: VarPerimeter, Factor: 2}, false},
		{"width portuguese", "largura * 3", Rule{Kind: KindScale, Var: VarWidth, Factor: 3}, false},
		{"height portuguese", "ALTURA * 0.5", Rule{Kind: KindScale, Var: VarHeight, Factor: 0.5}, false},
		{"case insensitive", "Area * 1.2", Rule{Kind: KindScale, Var: VarArea, Factor: 1.2}, false},
		{"fixed wins over area", "fixed area: 2", Rule{Kind: KindFixed, Qty: 2}, false},
		{"area wins over perimeter", "area perimeter * 3", Rule{Kind: KindScale, Var: VarArea, Factor: 3}, false},
		{"unknown token", "volume * 2", Rule{}, true},
		{"empty", "", Rule{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRule(tt.formula)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormula) {
					t.Fatalf("ParseRule(%q) err = %v, want ErrUnknownFormula", tt.formula, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRule(%q) unexpected error: %v", tt.formula, err)
			}
			if got != tt.want {
				t.Errorf("ParseRule(%q) = %+v, want %+v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestRuleEvaluate(t *testing.T) {
	m := Measurements{Width: 3.5, Height: 2.4}

	tests := []struct {
		name    string
		formula string
		want    float64
	}{
		{"fixed", "fixed: 4", 4},
		{"area derived from width x height", "area * 1.1", 9.24}, // 3.5*2.4*1.1 = 9.24 exactly, not 9.25
		{"area no factor", "area", 8.4},
		{"perimeter derived", "perimeter * 1", 11.8},
		{"width", "width * 2", 7},
		{"height", "height * 0.5", 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseRule(tt.formula)
			if err != nil {
				t.Fatalf("ParseRule(%q): %v", tt.formula, err)
			}
			if got := rule.Evaluate(m); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestRuleEvaluateRoundsUp(t *testing.T) {
	rule, err := ParseRule("area * 1")
	if err != nil {
		t.Fatal(err)
	}
	// 1.111 * 1.0 must round UP at two decimals.
	got := rule.Evaluate(Measurements{Area: floatPtr(1.111), Width: 0, Height: 0})
	if got != 1.12 {
		t.Errorf("Evaluate = %v, want 1.12", got)
	}
}

func TestRuleEvaluateClampsNegative(t *testing.T) {
	rule := Rule{Kind: KindScale, Var: VarWidth, Factor: -2}
	if got := rule.Evaluate(Measurements{Width: 3}); got != 0 {
		t.Errorf("Evaluate = %v, want 0", got)
	}
}

func TestMeasurementsExplicitOverrides(t *testing.T) {
	m := Measurements{Width: 2, Height: 3, Area: floatPtr(10), Perimeter: floatPtr(20)}

	area, _ := ParseRule("area")
	if got := area.Evaluate(m); got != 10 {
		t.Errorf("explicit area = %v, want 10", got)
	}
	per, _ := ParseRule("perimeter")
	if got := per.Evaluate(m); got != 20 {
		t.Errorf("explicit perimeter = %v, want 20", got)
	}
}

func TestEvaluateFormulaLenient(t *testing.T) {
	// Stored rows with unparseable formulas degrade to 0 rather than erroring.
	if got := EvaluateFormula("volume * 2", Measurements{Width: 3, Height: 3}); got != 0 {
		t.Errorf("EvaluateFormula = %v, want 0", got)
	}
	if got := EvaluateFormula("fixed: 2", Measurements{}); got != 2 {
		t.Errorf("EvaluateFormula = %v, want 2", got)
	}
}
