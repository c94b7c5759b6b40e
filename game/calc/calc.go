// Package calc evaluates arithmetic expressions for the calculator command.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// MaxLength bounds the expression size
const MaxLength = 200

var (
	ErrEmpty      = errors.New("expression is empty")
	ErrTooLong    = fmt.Errorf("expression is longer than %d characters", MaxLength)
	ErrNotNumeric = errors.New("expression does not produce a number")
	ErrUndefined  = errors.New("result is not a finite number")
)

var env = map[string]any{
	"pi":   math.Pi,
	"e":    math.E,
	"sqrt": math.Sqrt,
	"cbrt": math.Cbrt,
	"ln":   math.Log,
	"log":  math.Log10,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"pow":  math.Pow,
}

// numeric builtins of the expression language kept available
var builtins = []string{"abs", "ceil", "floor", "round", "min", "max"}

// Evaluate computes input. Only numbers, arithmetic operators, the
// constants pi and e and a few math functions are accepted.
func Evaluate(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrEmpty
	}
	if len(input) > MaxLength {
		return 0, ErrTooLong
	}
	// ranges allocate arrays
	if strings.Contains(input, "..") {
		return 0, ErrNotNumeric
	}

	options := []expr.Option{expr.Env(env), expr.DisableAllBuiltins()}
	for _, name := range builtins {
		options = append(options, expr.EnableBuiltin(name))
	}

	program, err := expr.Compile(input, options...)
	if err != nil {
		return 0, fmt.Errorf("invalid expression: %w", err)
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("evaluation failed: %w", err)
	}

	var result float64
	switch v := output.(type) {
	case int:
		result = float64(v)
	case int64:
		result = float64(v)
	case float64:
		result = v
	default:
		return 0, ErrNotNumeric
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, ErrUndefined
	}
	return result, nil
}

// Format renders a result without trailing zeros
func Format(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}
