// Package scoring evaluates user-supplied boolean expressions against an
// evaluate-command metrics environment, gating the process exit code on a
// scoring threshold (e.g. "f1 > 0.8").
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// ErrExprNotBool is returned when an expression evaluates to a non-boolean value.
var ErrExprNotBool = errors.New("expression did not evaluate to a bool")

// Result holds the result of evaluating a single expression.
type Result struct {
	Expression string
	Passed     bool
	Error      error
}

// Eval compiles and evaluates a boolean expression against env. An empty or
// whitespace-only expression always passes (there is nothing to assert).
func Eval(exprStr string, env map[string]any) Result {
	result := Result{Expression: exprStr}

	if strings.TrimSpace(exprStr) == "" {
		result.Passed = true

		return result
	}

	program, err := expr.Compile(exprStr, expr.Env(env), expr.AsBool())
	if err != nil {
		result.Error = fmt.Errorf("compile expression %q: %w", exprStr, err)

		return result
	}

	output, err := expr.Run(program, env)
	if err != nil {
		result.Error = fmt.Errorf("evaluate expression %q: %w", exprStr, err)

		return result
	}

	passed, ok := output.(bool)
	if !ok {
		result.Error = fmt.Errorf("%w: %q returned %T", ErrExprNotBool, exprStr, output)

		return result
	}

	result.Passed = passed

	return result
}
