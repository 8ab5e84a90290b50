package models

// NodeType identifies one entry of the closed node-type catalog. New types
// are added here and in the catalog tables, never at runtime.
type NodeType string

const (
	NodeTypeTriggerStageEntry  NodeType = "trigger_stage_entry"
	NodeTypeTriggerScoreChange NodeType = "trigger_score_change"
	NodeTypeTriggerFieldChange NodeType = "trigger_field_change"
	NodeTypeTriggerTimeBased   NodeType = "trigger_time_based"
	NodeTypeTriggerWebhook     NodeType = "trigger_webhook"
	NodeTypeTriggerManual      NodeType = "trigger_manual"

	NodeTypeActionSendMessage        NodeType = "action_send_message"
	NodeTypeActionAddTag             NodeType = "action_add_tag"
	NodeTypeActionRemoveTag          NodeType = "action_remove_tag"
	NodeTypeActionAssignUser         NodeType = "action_assign_user"
	NodeTypeActionChangeStage        NodeType = "action_change_stage"
	NodeTypeActionUpdateField        NodeType = "action_update_field"
	NodeTypeActionEnqueueAgent       NodeType = "action_enqueue_agent"
	NodeTypeActionSendWebhook        NodeType = "action_send_webhook"
	NodeTypeActionAddToAudience      NodeType = "action_add_to_audience"
	NodeTypeActionRemoveFromAudience NodeType = "action_remove_from_audience"
	NodeTypeActionWaitUntilTime      NodeType = "action_wait_until_time"
	NodeTypeActionIncrementScore     NodeType = "action_increment_score"
	NodeTypeActionDecrementScore     NodeType = "action_decrement_score"

	NodeTypeCondition NodeType = "condition"
	NodeTypeDelay     NodeType = "delay"
	NodeTypeLoop      NodeType = "loop"
	NodeTypeEnd       NodeType = "end"
)

// StructuralClass is the connection-rule category of a node type. The
// validator reasons about classes, not individual types.
type StructuralClass string

const (
	ClassTrigger   StructuralClass = "trigger"
	ClassAction    StructuralClass = "action"
	ClassCondition StructuralClass = "condition"
	ClassDelay     StructuralClass = "delay"
	ClassLoop      StructuralClass = "loop"
	ClassEnd       StructuralClass = "end"
)
