package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NewCalculator returns the calculator tool: a small arithmetic evaluator
// supporting + - * /, parentheses and unary minus. Splits routinely need
// per-head division, and delegating arithmetic to a tool keeps the oracle
// from doing mental math.
func NewCalculator() Definition {
	return Definition{
		Name:        "calculator",
		Description: "Evaluate an arithmetic expression. Supports +, -, *, / and parentheses, e.g. \"(26 + 4) / 3\".",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "The arithmetic expression to evaluate",
				},
			},
			"required": []string{"expression"},
		},
		Run: runCalculator,
	}
}

func runCalculator(_ context.Context, args json.RawMessage) string {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return fmt.Sprintf("Error: Invalid JSON format - %v", err)
	}
	if strings.TrimSpace(req.Expression) == "" {
		return "Error: Missing required field(s): expression"
	}

	value, err := evaluate(req.Expression)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

type exprParser struct {
	input []rune
	pos   int
}

func evaluate(expression string) (float64, error) {
	p := &exprParser{input: []rune(expression)}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character '%c' at position %d", p.input[p.pos], p.pos)
	}
	return value, nil
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		switch p.input[p.pos] {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		switch p.input[p.pos] {
		case '*':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if p.input[p.pos] == '-' {
		p.pos++
		value, err := p.parseFactor()
		return -value, err
	}

	if p.input[p.pos] == '(' {
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}

	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("unexpected character '%c' at position %d", p.input[p.pos], p.pos)
	}
	value, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", string(p.input[start:p.pos]))
	}
	return value, nil
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
