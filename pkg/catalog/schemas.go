package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/robfig/cron/v3"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownNodeType is returned when a config is validated against a type
// the catalog does not know.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrInvalidConfig is wrapped by every config rejection, schema or cron.
var ErrInvalidConfig = errors.New("invalid config")

// Operators accepted by condition and loop configs.
var conditionOperators = []string{"==", "!=", ">", ">=", "<", "<=", "contains", "not_contains"}

func conditionSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"field", "operator", "value"},
		"properties": map[string]any{
			"field":    map[string]any{"type": "string", "minLength": 1},
			"operator": map[string]any{"type": "string", "enum": conditionOperators},
			"value":    map[string]any{},
		},
	}
}

// configSchemas maps node types to the JSON schema their config must
// satisfy. Types absent from this map accept any config.
var configSchemas = map[models.NodeType]map[string]any{
	models.NodeTypeCondition: conditionSchema(),

	// Loop evaluates a condition-shaped config; maxIterations bounds live
	// execution and is informational in dry runs.
	models.NodeTypeLoop: {
		"type":     "object",
		"required": []string{"field", "operator", "value"},
		"properties": map[string]any{
			"field":         map[string]any{"type": "string", "minLength": 1},
			"operator":      map[string]any{"type": "string", "enum": conditionOperators},
			"value":         map[string]any{},
			"maxIterations": map[string]any{"type": "integer", "minimum": 1},
		},
	},

	// Exactly one of delaySeconds / delayUntil.
	models.NodeTypeDelay: {
		"type": "object",
		"oneOf": []any{
			map[string]any{"required": []string{"delaySeconds"}, "not": map[string]any{"required": []string{"delayUntil"}}},
			map[string]any{"required": []string{"delayUntil"}, "not": map[string]any{"required": []string{"delaySeconds"}}},
		},
		"properties": map[string]any{
			"delaySeconds": map[string]any{"type": "integer", "minimum": 1},
			"delayUntil":   map[string]any{"type": "string", "format": "date-time"},
		},
	},

	models.NodeTypeTriggerStageEntry: {
		"type":     "object",
		"required": []string{"stage"},
		"properties": map[string]any{
			"stage": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeTriggerTimeBased: {
		"type":     "object",
		"required": []string{"schedule"},
		"properties": map[string]any{
			"schedule": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionSendMessage: {
		"type":     "object",
		"required": []string{"channel", "message"},
		"properties": map[string]any{
			"channel": map[string]any{"type": "string", "enum": []string{"email", "sms", "whatsapp"}},
			"message": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionAddTag: {
		"type":     "object",
		"required": []string{"tag"},
		"properties": map[string]any{
			"tag": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionRemoveTag: {
		"type":     "object",
		"required": []string{"tag"},
		"properties": map[string]any{
			"tag": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionAssignUser: {
		"type":     "object",
		"required": []string{"userId"},
		"properties": map[string]any{
			"userId": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionChangeStage: {
		"type":     "object",
		"required": []string{"stage"},
		"properties": map[string]any{
			"stage": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionUpdateField: {
		"type":     "object",
		"required": []string{"field", "value"},
		"properties": map[string]any{
			"field": map[string]any{"type": "string", "minLength": 1},
			"value": map[string]any{},
		},
	},

	models.NodeTypeActionSendWebhook: {
		"type":     "object",
		"required": []string{"url"},
		"properties": map[string]any{
			"url":    map[string]any{"type": "string", "format": "uri"},
			"method": map[string]any{"type": "string", "enum": []string{"GET", "POST", "PUT", "PATCH", "DELETE"}},
		},
	},

	models.NodeTypeActionAddToAudience: {
		"type":     "object",
		"required": []string{"audienceId"},
		"properties": map[string]any{
			"audienceId": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionRemoveFromAudience: {
		"type":     "object",
		"required": []string{"audienceId"},
		"properties": map[string]any{
			"audienceId": map[string]any{"type": "string", "minLength": 1},
		},
	},

	models.NodeTypeActionWaitUntilTime: {
		"type":     "object",
		"required": []string{"time"},
		"properties": map[string]any{
			"time": map[string]any{"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
		},
	},

	models.NodeTypeActionIncrementScore: {
		"type":     "object",
		"required": []string{"amount"},
		"properties": map[string]any{
			"amount": map[string]any{"type": "number", "exclusiveMinimum": 0},
		},
	},

	models.NodeTypeActionDecrementScore: {
		"type":     "object",
		"required": []string{"amount"},
		"properties": map[string]any{
			"amount": map[string]any{"type": "number", "exclusiveMinimum": 0},
		},
	},
}

// ConfigSchema returns the JSON schema for the node type's config, or nil
// when the type accepts any config.
func ConfigSchema(t models.NodeType) map[string]any {
	return configSchemas[t]
}

// ValidateConfig checks a node config against the type's schema. Cron
// expressions on time-based triggers are validated beyond what JSON schema
// can express.
func ValidateConfig(t models.NodeType, config map[string]any) error {
	if !Known(t) {
		return fmt.Errorf("%w: %s", ErrUnknownNodeType, t)
	}

	schema, ok := configSchemas[t]
	if !ok {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(config))
	if err != nil {
		return fmt.Errorf("config schema validation for %s: %w", t, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("%w for %s: %s", ErrInvalidConfig, Label(t), strings.Join(details, "; "))
	}

	if t == models.NodeTypeTriggerTimeBased {
		schedule, _ := config["schedule"].(string)
		if _, err := cron.ParseStandard(schedule); err != nil {
			return fmt.Errorf("%w: cron schedule %q: %s", ErrInvalidConfig, schedule, err)
		}
	}

	return nil
}
