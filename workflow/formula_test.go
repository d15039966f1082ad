package workflow

import (
	"testing"

	"github.com/shopspring/decimal"
)

func values(pairs map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pairs))
	for k, v := range pairs {
		out[k] = decimal.RequireFromString(v)
	}
	return out
}

func TestEvaluateFormulaBasicArithmetic(t *testing.T) {
	got := EvaluateFormula("(CURRENT_ASSET)/(CURRENT_LIABILITY)", values(map[string]string{
		"CURRENT_ASSET":     "3000",
		"CURRENT_LIABILITY": "2000",
	}), false)
	if got == nil {
		t.Fatal("expected a value, got nil")
	}
	if !got.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("got %s, want 1.5", got)
	}
}

func TestEvaluateFormulaDivisionByZeroIsNil(t *testing.T) {
	got := EvaluateFormula("(X)/(0)", values(map[string]string{"X": "10"}), false)
	if got != nil {
		t.Fatalf("division by literal zero: got %s, want nil", got)
	}

	got = EvaluateFormula("(CURRENT_ASSET)/(CURRENT_LIABILITY)", values(map[string]string{
		"CURRENT_ASSET":     "3000",
		"CURRENT_LIABILITY": "0",
	}), false)
	if got != nil {
		t.Fatalf("zero denominator line: got %s, want nil", got)
	}
}

func TestEvaluateFormulaAbsentKeyIsZero(t *testing.T) {
	got := EvaluateFormula("MISSING_KEY+5", nil, false)
	if got == nil {
		t.Fatal("expected a value, got nil")
	}
	if !got.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("got %s, want 5", got)
	}
}

func TestEvaluateFormulaSubstringKeysDoNotCollide(t *testing.T) {
	// NET_SALES must not be corrupted by the shorter SALES key.
	got := EvaluateFormula("NET_SALES-SALES", values(map[string]string{
		"NET_SALES": "1000",
		"SALES":     "400",
	}), false)
	if got == nil {
		t.Fatal("expected a value, got nil")
	}
	if !got.Equal(decimal.RequireFromString("600")) {
		t.Fatalf("got %s, want 600", got)
	}
}

func TestEvaluateFormulaPrecedenceAndUnaryMinus(t *testing.T) {
	got := EvaluateFormula("2+3*4", nil, false)
	if got == nil || !got.Equal(decimal.RequireFromString("14")) {
		t.Fatalf("2+3*4: got %v, want 14", got)
	}
	got = EvaluateFormula("-(A)+10", values(map[string]string{"A": "4"}), false)
	if got == nil || !got.Equal(decimal.RequireFromString("6")) {
		t.Fatalf("-(A)+10: got %v, want 6", got)
	}
	got = EvaluateFormula("(2+3)*4", nil, false)
	if got == nil || !got.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("(2+3)*4: got %v, want 20", got)
	}
}

func TestEvaluateFormulaPercentage(t *testing.T) {
	got := EvaluateFormula("(NET_INCOME)/(NET_SALES)", values(map[string]string{
		"NET_INCOME": "150",
		"NET_SALES":  "1000",
	}), true)
	if got == nil {
		t.Fatal("expected a value, got nil")
	}
	if !got.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("got %s, want 15", got)
	}
}

func TestEvaluateFormulaMalformedIsNil(t *testing.T) {
	for _, formula := range []string{
		"",
		"(A",
		"A+",
		"A B",
		"1..2+",
		"A ? B",
	} {
		if got := EvaluateFormula(formula, nil, false); got != nil {
			t.Fatalf("formula %q: got %s, want nil", formula, got)
		}
	}
}

func TestEvaluateFormulaCachedReuse(t *testing.T) {
	formula := "(A)-(B)"
	first := EvaluateFormula(formula, values(map[string]string{"A": "10", "B": "4"}), false)
	second := EvaluateFormula(formula, values(map[string]string{"A": "1", "B": "4"}), false)
	if first == nil || second == nil {
		t.Fatal("expected values, got nil")
	}
	if !first.Equal(decimal.RequireFromString("6")) || !second.Equal(decimal.RequireFromString("-3")) {
		t.Fatalf("got %s and %s, want 6 and -3", first, second)
	}
}
