package workflow

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// Ratio formulas are arithmetic over uppercase line keys, e.g.
// (CURRENT_ASSET)/(CURRENT_LIABILITY). They are parsed once into an
// expression tree and cached; evaluation substitutes line values at the
// identifier nodes, so a key that is a substring of another key can never
// corrupt the expression.

type formulaExpr interface {
	// eval reports ok=false on division by zero anywhere in the subtree.
	eval(values map[string]decimal.Decimal) (decimal.Decimal, bool)
}

type literalExpr struct {
	value decimal.Decimal
}

func (e literalExpr) eval(map[string]decimal.Decimal) (decimal.Decimal, bool) {
	return e.value, true
}

// lineRefExpr resolves a line key at evaluation time. Absent keys are 0.
type lineRefExpr struct {
	key string
}

func (e lineRefExpr) eval(values map[string]decimal.Decimal) (decimal.Decimal, bool) {
	return values[e.key], true
}

type negExpr struct {
	operand formulaExpr
}

func (e negExpr) eval(values map[string]decimal.Decimal) (decimal.Decimal, bool) {
	v, ok := e.operand.eval(values)
	return v.Neg(), ok
}

type binaryExpr struct {
	op    byte
	left  formulaExpr
	right formulaExpr
}

func (e binaryExpr) eval(values map[string]decimal.Decimal) (decimal.Decimal, bool) {
	l, ok := e.left.eval(values)
	if !ok {
		return decimal.Zero, false
	}
	r, ok := e.right.eval(values)
	if !ok {
		return decimal.Zero, false
	}
	switch e.op {
	case '+':
		return l.Add(r), true
	case '-':
		return l.Sub(r), true
	case '*':
		return l.Mul(r), true
	default:
		if r.IsZero() {
			return decimal.Zero, false
		}
		return l.Div(r), true
	}
}

var (
	formulaCacheMu sync.RWMutex
	// nil entry = known-malformed formula
	formulaCache = map[string]formulaExpr{}
)

// cachedFormula parses a ratio formula into its expression tree, caching the
// result per formula string.
func cachedFormula(formula string) (formulaExpr, error) {
	formulaCacheMu.RLock()
	expr, cached := formulaCache[formula]
	formulaCacheMu.RUnlock()
	if cached {
		if expr == nil {
			return nil, errors.New("malformed formula")
		}
		return expr, nil
	}

	expr, err := parseFormula(formula)
	formulaCacheMu.Lock()
	if err != nil {
		formulaCache[formula] = nil
	} else {
		formulaCache[formula] = expr
	}
	formulaCacheMu.Unlock()
	return expr, err
}

// EvaluateFormula evaluates a formula against a line-value map. Malformed
// formulas and division by zero yield nil, never an error: callers render nil
// as N/A. When percentage is set the result is multiplied by 100.
func EvaluateFormula(formula string, values map[string]decimal.Decimal, percentage bool) *decimal.Decimal {
	expr, err := cachedFormula(formula)
	if err != nil {
		return nil
	}
	result, ok := expr.eval(values)
	if !ok {
		return nil
	}
	if percentage {
		result = result.Mul(decimal.NewFromInt(100))
	}
	return &result
}

type formulaParser struct {
	tokens []formulaToken
	pos    int
}

type formulaToken struct {
	kind byte // 'n' number, 'i' identifier, or the operator itself
	text string
}

func tokenizeFormula(formula string) ([]formulaToken, error) {
	var tokens []formulaToken
	for i := 0; i < len(formula); {
		c := formula[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')':
			tokens = append(tokens, formulaToken{kind: c})
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(formula) && (formula[j] >= '0' && formula[j] <= '9' || formula[j] == '.') {
				j++
			}
			tokens = append(tokens, formulaToken{kind: 'n', text: formula[i:j]})
			i = j
		case c >= 'A' && c <= 'Z' || c == '_':
			j := i
			for j < len(formula) && (formula[j] >= 'A' && formula[j] <= 'Z' ||
				formula[j] >= '0' && formula[j] <= '9' || formula[j] == '_') {
				j++
			}
			tokens = append(tokens, formulaToken{kind: 'i', text: formula[i:j]})
			i = j
		default:
			return nil, errors.New("unexpected character in formula")
		}
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty formula")
	}
	return tokens, nil
}

func parseFormula(formula string) (formulaExpr, error) {
	tokens, err := tokenizeFormula(formula)
	if err != nil {
		return nil, err
	}
	p := &formulaParser{tokens: tokens}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, errors.New("trailing tokens in formula")
	}
	return expr, nil
}

func (p *formulaParser) peek() (formulaToken, bool) {
	if p.pos >= len(p.tokens) {
		return formulaToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *formulaParser) parseExpr() (formulaExpr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok.kind != '+' && tok.kind != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: tok.kind, left: left, right: right}
	}
}

func (p *formulaParser) parseTerm() (formulaExpr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok.kind != '*' && tok.kind != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: tok.kind, left: left, right: right}
	}
}

func (p *formulaParser) parseFactor() (formulaExpr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("unexpected end of formula")
	}
	switch tok.kind {
	case '-':
		p.pos++
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return negExpr{operand: operand}, nil
	case 'n':
		p.pos++
		value, err := decimal.NewFromString(tok.text)
		if err != nil {
			return nil, err
		}
		return literalExpr{value: value}, nil
	case 'i':
		p.pos++
		return lineRefExpr{key: tok.text}, nil
	case '(':
		p.pos++
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != ')' {
			return nil, errors.New("missing closing parenthesis")
		}
		p.pos++
		return expr, nil
	default:
		return nil, errors.New("unexpected token in formula")
	}
}
