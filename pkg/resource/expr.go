package resource

import (
	"fmt"
	"math/rand/v2"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
)

// exprOptions declares the environment and helper functions available to
// callback expressions.
func exprOptions() []expr.Option {
	return []expr.Option{
		expr.Env(map[string]any{
			"vars":    map[string]any{},
			"type":    "",
			"charset": "",
		}),
		// type is a variable here, not the builtin.
		expr.DisableBuiltin("type"),
		expr.Function("randInt", func(params ...any) (any, error) {
			lo, hi := params[0].(int), params[1].(int)
			if hi < lo {
				lo, hi = hi, lo
			}
			return lo + rand.IntN(hi-lo+1), nil
		}, new(func(int, int) int)),
		expr.Function("uuid", func(params ...any) (any, error) {
			return uuid.NewString(), nil
		}, new(func() string)),
	}
}

// ExprCallback compiles an expr-lang expression into a Callback. The
// expression sees the callback variables as vars, plus type and charset.
//
//	cb, _ := resource.ExprCallback(`{"id": vars.id, "token": uuid()}`)
func ExprCallback(expression string) (Callback, error) {
	program, err := expr.Compile(expression, exprOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compile callback expression: %w", err)
	}
	return exprCallback(program), nil
}

func exprCallback(program *vm.Program) Callback {
	return func(vars Vars, contentType, charset string) (any, error) {
		env := map[string]any{
			"vars":    map[string]any(vars),
			"type":    contentType,
			"charset": charset,
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("run callback expression: %w", err)
		}
		return out, nil
	}
}
