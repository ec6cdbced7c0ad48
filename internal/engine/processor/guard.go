package processor

import (
	"strconv"
	"strings"

	"github.com/shihabhasan/nextflow/internal/core/domain"
)

// evalGuard evaluates a process's when guard expression against a task
// context. The pipeline DSL's full expression grammar is out of scope
// (spec.md §1 Non-goals); this narrow evaluator supports the forms the
// structured process definition format can express: a bare boolean
// literal, a bare context name (truthy unless empty/"false"/"0"), and
// "name == literal" / "name != literal" equality guards.
func evalGuard(expr string, ctx *domain.TaskContext) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true, nil
	}
	if b, err := strconv.ParseBool(expr); err == nil {
		return b, nil
	}

	for _, op := range []string{"!=", "=="} {
		if idx := strings.Index(expr, op); idx >= 0 {
			name := strings.TrimSpace(expr[:idx])
			want := strings.Trim(strings.TrimSpace(expr[idx+len(op):]), `"'`)
			got, _ := lookup(ctx, name)
			eq := got == want
			if op == "!=" {
				return !eq, nil
			}
			return eq, nil
		}
	}

	v, ok := lookup(ctx, expr)
	if !ok {
		return false, nil
	}
	return v != "" && v != "false" && v != "0", nil
}

func lookup(ctx *domain.TaskContext, name string) (string, bool) {
	if ctx == nil {
		return "", false
	}
	return ctx.Get(name)
}
