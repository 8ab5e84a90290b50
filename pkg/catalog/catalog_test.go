package catalog

import (
	"testing"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnown(t *testing.T) {
	assert.True(t, Known(models.NodeTypeTriggerStageEntry))
	assert.True(t, Known(models.NodeTypeCondition))
	assert.True(t, Known(models.NodeTypeEnd))
	assert.False(t, Known("action_teleport"))
	assert.False(t, Known(""))
}

func TestClass(t *testing.T) {
	assert.Equal(t, models.ClassTrigger, Class(models.NodeTypeTriggerWebhook))
	assert.Equal(t, models.ClassAction, Class(models.NodeTypeActionEnqueueAgent))
	assert.Equal(t, models.ClassCondition, Class(models.NodeTypeCondition))
	assert.Equal(t, models.ClassDelay, Class(models.NodeTypeDelay))
	assert.Equal(t, models.ClassLoop, Class(models.NodeTypeLoop))
	assert.Equal(t, models.ClassEnd, Class(models.NodeTypeEnd))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Lead Enters Stage", Label(models.NodeTypeTriggerStageEntry))
	assert.Equal(t, "Add Tag", Label(models.NodeTypeActionAddTag))

	// Unknown types fall back to the raw type string.
	assert.Equal(t, "action_teleport", Label("action_teleport"))
}

func TestTypes_DeterministicAndComplete(t *testing.T) {
	types := Types()

	assert.Len(t, types, 23)
	assert.Equal(t, types, Types())

	for _, nodeType := range types {
		assert.True(t, Known(nodeType))
		assert.NotEmpty(t, Class(nodeType))
	}
}

func TestValidateConfig_UnknownType(t *testing.T) {
	err := ValidateConfig("action_teleport", map[string]any{})
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestValidateConfig_Condition(t *testing.T) {
	valid := map[string]any{"field": "score", "operator": ">", "value": 70}
	assert.NoError(t, ValidateConfig(models.NodeTypeCondition, valid))

	missingField := map[string]any{"operator": ">", "value": 70}
	assert.Error(t, ValidateConfig(models.NodeTypeCondition, missingField))

	badOperator := map[string]any{"field": "score", "operator": "between", "value": 70}
	assert.Error(t, ValidateConfig(models.NodeTypeCondition, badOperator))
}

func TestValidateConfig_DelayExactlyOneOf(t *testing.T) {
	seconds := map[string]any{"delaySeconds": 3600}
	assert.NoError(t, ValidateConfig(models.NodeTypeDelay, seconds))

	until := map[string]any{"delayUntil": "2026-09-01T09:00:00Z"}
	assert.NoError(t, ValidateConfig(models.NodeTypeDelay, until))

	both := map[string]any{"delaySeconds": 3600, "delayUntil": "2026-09-01T09:00:00Z"}
	assert.Error(t, ValidateConfig(models.NodeTypeDelay, both))

	neither := map[string]any{}
	assert.Error(t, ValidateConfig(models.NodeTypeDelay, neither))
}

func TestValidateConfig_TimeBasedTriggerSchedule(t *testing.T) {
	valid := map[string]any{"schedule": "0 9 * * 1"}
	assert.NoError(t, ValidateConfig(models.NodeTypeTriggerTimeBased, valid))

	invalid := map[string]any{"schedule": "every monday"}
	err := ValidateConfig(models.NodeTypeTriggerTimeBased, invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron")
}

func TestValidateConfig_SendMessageChannelEnum(t *testing.T) {
	valid := map[string]any{"channel": "whatsapp", "message": "hi {{name}}"}
	assert.NoError(t, ValidateConfig(models.NodeTypeActionSendMessage, valid))

	invalid := map[string]any{"channel": "fax", "message": "hi"}
	assert.Error(t, ValidateConfig(models.NodeTypeActionSendMessage, invalid))
}

func TestValidateConfig_TypeWithoutSchemaAcceptsAnything(t *testing.T) {
	assert.NoError(t, ValidateConfig(models.NodeTypeTriggerManual, nil))
	assert.NoError(t, ValidateConfig(models.NodeTypeEnd, map[string]any{"note": "done"}))
}
