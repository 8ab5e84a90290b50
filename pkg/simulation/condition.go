package simulation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ConditionEvaluator resolves a condition's field against the simulation
// subject's environment and applies the operator. Field resolution goes
// through expr-lang so dotted paths ("fields.plan") and expressions over
// the subject work; compiled programs are cached and reused.
// Thread-safe.
type ConditionEvaluator struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewConditionEvaluator creates an evaluator with an empty program cache.
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{cache: make(map[string]*vm.Program)}
}

// Evaluate applies cfg against env and returns the boolean outcome. Errors
// are business failures (unknown field, type mismatch, bad operator) that
// the executor records per node.
func (e *ConditionEvaluator) Evaluate(cfg ConditionConfig, env map[string]any) (bool, error) {
	actual, err := e.resolveField(cfg.Field, env)
	if err != nil {
		return false, err
	}

	switch cfg.Operator {
	case "==":
		return looseEqual(actual, cfg.Value), nil
	case "!=":
		return !looseEqual(actual, cfg.Value), nil
	case ">", ">=", "<", "<=":
		return compareNumeric(cfg.Operator, actual, cfg.Value)
	case "contains":
		return containsValue(actual, cfg.Value)
	case "not_contains":
		ok, err := containsValue(actual, cfg.Value)
		if err != nil {
			return false, err
		}

		return !ok, nil
	default:
		return false, fmt.Errorf("unsupported operator: %q", cfg.Operator)
	}
}

func (e *ConditionEvaluator) resolveField(field string, env map[string]any) (any, error) {
	prg, err := e.getOrCompile(field)
	if err != nil {
		return nil, fmt.Errorf("invalid field expression %q: %w", field, err)
	}

	out, err := vm.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("field %q evaluation failed: %w", field, err)
	}

	if out == nil {
		return nil, fmt.Errorf("field %q not present on simulation subject", field)
	}

	return out, nil
}

func (e *ConditionEvaluator) getOrCompile(field string) (*vm.Program, error) {
	e.mu.RLock()
	prg, ok := e.cache[field]
	e.mu.RUnlock()

	if ok {
		return prg, nil
	}

	compiled, err := expr.Compile(field, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[field] = compiled
	e.mu.Unlock()

	return compiled, nil
}

func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func compareNumeric(op string, a, b any) (bool, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)

	if !aok || !bok {
		return false, fmt.Errorf("operator %q requires numeric operands, got %T and %T", op, a, b)
	}

	switch op {
	case ">":
		return af > bf, nil
	case ">=":
		return af >= bf, nil
	case "<":
		return af < bf, nil
	default:
		return af <= bf, nil
	}
}

func containsValue(haystack, needle any) (bool, error) {
	needleStr := fmt.Sprintf("%v", needle)

	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, needleStr), nil
	case []string:
		for _, item := range h {
			if item == needleStr {
				return true, nil
			}
		}

		return false, nil
	case []any:
		for _, item := range h {
			if looseEqual(item, needle) {
				return true, nil
			}
		}

		return false, nil
	default:
		return false, fmt.Errorf("operator \"contains\" requires a string or list, got %T", haystack)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
