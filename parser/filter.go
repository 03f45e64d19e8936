package parser

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

// Filter keeps the job specs for which the boolean expression evaluates to
// true. Expressions see the fields release, deadline, duration and length,
// e.g. "duration > 2 && release < 10".
func Filter(specs []JobSpec, expression string) ([]JobSpec, error) {
	program, err := compileFilter(expression)
	if err != nil {
		return nil, err
	}

	kept := make([]JobSpec, 0, len(specs))
	for i, spec := range specs {
		result, err := expr.Run(program, filterEnv(spec))
		if err != nil {
			return nil, errors.Wrapf(err, "evaluate filter on job %d", i)
		}
		keep, ok := result.(bool)
		if !ok {
			return nil, errors.Errorf("filter %q is not boolean", expression)
		}
		if keep {
			kept = append(kept, spec)
		}
	}
	return kept, nil
}

func compileFilter(expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, errors.New("empty filter expression")
	}
	program, err := expr.Compile(expression, expr.Env(filterEnv(JobSpec{})), expr.AsBool())
	if err != nil {
		return nil, errors.Wrapf(err, "compile filter %q", expression)
	}
	return program, nil
}

func filterEnv(spec JobSpec) map[string]interface{} {
	return map[string]interface{}{
		"release":  spec.Release,
		"deadline": spec.Deadline,
		"duration": spec.Duration,
		"length":   spec.Length(),
	}
}
