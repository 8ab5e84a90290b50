// Package simulation executes dry runs: it walks a workflow graph against a
// simulation subject and records what a live run would have done, without
// side effects.
package simulation

import (
	"errors"
	"fmt"
)

// ConditionConfig is the decoded config of a condition node: a single
// field/operator/value comparison against the simulation subject.
type ConditionConfig struct {
	Field    string
	Operator string
	Value    any
}

// LoopConfig is the decoded config of a loop node. The loop condition has
// the same shape as a condition node; MaxIterations only matters to live
// execution and is carried for the trace.
type LoopConfig struct {
	ConditionConfig

	MaxIterations int
}

// DelayConfig is the decoded config of a delay node. Exactly one of
// DelaySeconds / DelayUntil is set.
type DelayConfig struct {
	DelaySeconds int
	DelayUntil   string
}

func decodeCondition(config map[string]any) (ConditionConfig, error) {
	field, _ := config["field"].(string)
	if field == "" {
		return ConditionConfig{}, errors.New("missing required field 'field'")
	}

	operator, _ := config["operator"].(string)
	if operator == "" {
		return ConditionConfig{}, errors.New("missing required field 'operator'")
	}

	value, ok := config["value"]
	if !ok {
		return ConditionConfig{}, errors.New("missing required field 'value'")
	}

	return ConditionConfig{Field: field, Operator: operator, Value: value}, nil
}

func decodeLoop(config map[string]any) (LoopConfig, error) {
	condition, err := decodeCondition(config)
	if err != nil {
		return LoopConfig{}, err
	}

	loopCfg := LoopConfig{ConditionConfig: condition}

	if raw, ok := config["maxIterations"]; ok {
		max, ok := toInt(raw)
		if !ok || max < 1 {
			return LoopConfig{}, fmt.Errorf("invalid maxIterations: %v", raw)
		}

		loopCfg.MaxIterations = max
	}

	return loopCfg, nil
}

func decodeDelay(config map[string]any) (DelayConfig, error) {
	rawSeconds, hasSeconds := config["delaySeconds"]
	rawUntil, hasUntil := config["delayUntil"]

	if hasSeconds == hasUntil {
		return DelayConfig{}, errors.New("delay requires exactly one of 'delaySeconds' or 'delayUntil'")
	}

	if hasSeconds {
		seconds, ok := toInt(rawSeconds)
		if !ok || seconds < 1 {
			return DelayConfig{}, fmt.Errorf("invalid delaySeconds: %v", rawSeconds)
		}

		return DelayConfig{DelaySeconds: seconds}, nil
	}

	until, _ := rawUntil.(string)
	if until == "" {
		return DelayConfig{}, fmt.Errorf("invalid delayUntil: %v", rawUntil)
	}

	return DelayConfig{DelayUntil: until}, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
