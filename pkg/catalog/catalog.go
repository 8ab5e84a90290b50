// Package catalog is the static table of node types: structural class,
// human label, and config schema per type. It is consulted by the graph
// builder, the connection validator, and the dry-run executor; nothing in
// it is mutable at runtime.
package catalog

import (
	"sort"

	"github.com/hatchboard/leadflow/pkg/models"
)

type entry struct {
	class models.StructuralClass
	label string
}

var entries = map[models.NodeType]entry{
	models.NodeTypeTriggerStageEntry:  {models.ClassTrigger, "Lead Enters Stage"},
	models.NodeTypeTriggerScoreChange: {models.ClassTrigger, "Score Changes"},
	models.NodeTypeTriggerFieldChange: {models.ClassTrigger, "Field Changes"},
	models.NodeTypeTriggerTimeBased:   {models.ClassTrigger, "Time-Based Trigger"},
	models.NodeTypeTriggerWebhook:     {models.ClassTrigger, "Webhook Received"},
	models.NodeTypeTriggerManual:      {models.ClassTrigger, "Manual Trigger"},

	models.NodeTypeActionSendMessage:        {models.ClassAction, "Send Message"},
	models.NodeTypeActionAddTag:             {models.ClassAction, "Add Tag"},
	models.NodeTypeActionRemoveTag:          {models.ClassAction, "Remove Tag"},
	models.NodeTypeActionAssignUser:         {models.ClassAction, "Assign User"},
	models.NodeTypeActionChangeStage:        {models.ClassAction, "Change Stage"},
	models.NodeTypeActionUpdateField:        {models.ClassAction, "Update Field"},
	models.NodeTypeActionEnqueueAgent:       {models.ClassAction, "Enqueue Agent"},
	models.NodeTypeActionSendWebhook:        {models.ClassAction, "Send Webhook"},
	models.NodeTypeActionAddToAudience:      {models.ClassAction, "Add to Audience"},
	models.NodeTypeActionRemoveFromAudience: {models.ClassAction, "Remove from Audience"},
	models.NodeTypeActionWaitUntilTime:      {models.ClassAction, "Wait Until Time"},
	models.NodeTypeActionIncrementScore:     {models.ClassAction, "Increment Score"},
	models.NodeTypeActionDecrementScore:     {models.ClassAction, "Decrement Score"},

	models.NodeTypeCondition: {models.ClassCondition, "Condition"},
	models.NodeTypeDelay:     {models.ClassDelay, "Delay"},
	models.NodeTypeLoop:      {models.ClassLoop, "Loop"},
	models.NodeTypeEnd:       {models.ClassEnd, "End"},
}

// Known reports whether the node type is part of the catalog.
func Known(t models.NodeType) bool {
	_, ok := entries[t]

	return ok
}

// Class returns the structural class of the node type, or "" for an unknown
// type. Unknown types never enter a graph, so callers may treat "" as a
// programming error.
func Class(t models.NodeType) models.StructuralClass {
	return entries[t].class
}

// Label returns the human-readable label of the node type.
func Label(t models.NodeType) string {
	if e, ok := entries[t]; ok {
		return e.label
	}

	return string(t)
}

// Types returns every catalog node type in deterministic order.
func Types() []models.NodeType {
	types := make([]models.NodeType, 0, len(entries))
	for t := range entries {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}
