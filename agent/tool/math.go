package tool

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
)

func mathTool() Tool {
	return newTool(MathEvaluate,
		"Evalúa una expresión aritmética (+ - * / % ^ y paréntesis). Útil para presupuestos, cuotas y conversiones.",
		map[string]*schema.ParameterInfo{
			"expression": stringParam("Expresión a evaluar, por ejemplo (1200 - 350) * 0.21"),
		},
		func(_ context.Context, args Args) (Result, error) {
			expr, err := args.String("expression")
			if err != nil {
				return nil, err
			}
			value, err := Evaluate(expr)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
			}
			return Result{"expression": expr, "result": value}, nil
		},
	)
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	op    byte
	value float64
	pos   int
}

// Evaluate computes an arithmetic expression. Unary minus binds tighter than
// every binary operator except ^, which is right associative.
func Evaluate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("expression is empty")
	}
	rpn, err := toRPN(tokens)
	if err != nil {
		return 0, err
	}
	return evalRPN(rpn)
}

func tokenize(expr string) ([]token, error) {
	var out []token
	for i := 0; i < len(expr); {
		ch := expr[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case (ch >= '0' && ch <= '9') || ch == '.' || ch == ',':
			start := i
			for i < len(expr) && ((expr[i] >= '0' && expr[i] <= '9') || expr[i] == '.' || expr[i] == ',') {
				i++
			}
			raw := strings.ReplaceAll(expr[start:i], ",", ".")
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at position %d", expr[start:i], start)
			}
			out = append(out, token{kind: tokNumber, value: v, pos: start})
		case strings.IndexByte("+-*/%^", ch) >= 0:
			op := ch
			if (op == '-' || op == '+') && unaryPosition(out) {
				if op == '-' {
					op = 'u'
				} else {
					i++
					continue
				}
			}
			out = append(out, token{kind: tokOp, op: op, pos: i})
			i++
		case ch == '(':
			out = append(out, token{kind: tokLParen, pos: i})
			i++
		case ch == ')':
			out = append(out, token{kind: tokRParen, pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", ch, i)
		}
	}
	return out, nil
}

func unaryPosition(prev []token) bool {
	if len(prev) == 0 {
		return true
	}
	last := prev[len(prev)-1]
	return last.kind == tokOp || last.kind == tokLParen
}

func precedence(op byte) (int, bool) {
	switch op {
	case '+', '-':
		return 1, false
	case '*', '/', '%':
		return 2, false
	case 'u':
		return 3, true
	case '^':
		return 4, true
	}
	return 0, false
}

func toRPN(tokens []token) ([]token, error) {
	var (
		out   []token
		stack []token
	)
	for _, t := range tokens {
		switch t.kind {
		case tokNumber:
			out = append(out, t)
		case tokOp:
			if t.op == 'u' {
				// prefix operators never pop
				stack = append(stack, t)
				continue
			}
			p, right := precedence(t.op)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind != tokOp {
					break
				}
				tp, _ := precedence(top.op)
				if tp > p || (tp == p && !right) {
					out = append(out, top)
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
			stack = append(stack, t)
		case tokLParen:
			stack = append(stack, t)
		case tokRParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == tokLParen {
					matched = true
					break
				}
				out = append(out, top)
			}
			if !matched {
				return nil, fmt.Errorf("unbalanced parenthesis at position %d", t.pos)
			}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == tokLParen {
			return nil, fmt.Errorf("unbalanced parenthesis at position %d", top.pos)
		}
		out = append(out, top)
	}
	return out, nil
}

func evalRPN(rpn []token) (float64, error) {
	var stack []float64
	for _, t := range rpn {
		if t.kind == tokNumber {
			stack = append(stack, t.value)
			continue
		}
		if t.op == 'u' {
			if len(stack) < 1 {
				return 0, fmt.Errorf("missing operand at position %d", t.pos)
			}
			stack[len(stack)-1] = -stack[len(stack)-1]
			continue
		}
		if len(stack) < 2 {
			return 0, fmt.Errorf("missing operand at position %d", t.pos)
		}
		a, b := stack[len(stack)-2], stack[len(stack)-1]
		stack = stack[:len(stack)-2]

		var v float64
		switch t.op {
		case '+':
			v = a + b
		case '-':
			v = a - b
		case '*':
			v = a * b
		case '/':
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v = a / b
		case '%':
			if b == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			v = math.Mod(a, b)
		case '^':
			v = math.Pow(a, b)
		}
		stack = append(stack, v)
	}
	if len(stack) != 1 {
		return 0, fmt.Errorf("malformed expression")
	}
	if math.IsInf(stack[0], 0) || math.IsNaN(stack[0]) {
		return 0, fmt.Errorf("result is not a finite number")
	}
	return stack[0], nil
}
