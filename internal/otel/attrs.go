package otel

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic attributes for tool-call spans, loosely following the
// OpenTelemetry GenAI SIG conventions for tool execution.
const (
	ToolName   = attribute.Key("gen_ai.tool.name")
	ActorRole  = attribute.Key("eventra.actor.role")
	ActorID    = attribute.Key("eventra.actor.id")
	ResultKind = attribute.Key("eventra.result.kind")
	ScopeKind  = attribute.Key("eventra.scope.kind")
)

// ToolCallAttributes creates the standard attributes for a dispatch span.
func ToolCallAttributes(tool, role, actorID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		ToolName.String(tool),
		ActorRole.String(role),
		ActorID.String(actorID),
	}
}
