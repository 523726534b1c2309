package tool

import (
	"context"
)

// SideEffect classifies what a tool does to the outside world. The Safety
// Gate uses the class to decide which guard arguments a call must carry.
type SideEffect string

const (
	// SideEffectReadOnly indicates the tool observes state without changing it
	SideEffectReadOnly SideEffect = "read-only"

	// SideEffectCreate indicates the tool creates new artifacts
	SideEffectCreate SideEffect = "create"

	// SideEffectMutate indicates the tool changes existing artifacts
	SideEffectMutate SideEffect = "mutate"

	// SideEffectDestructive indicates the tool irreversibly removes artifacts
	SideEffectDestructive SideEffect = "destructive"
)

// ParameterType is the wire type of a tool parameter
type ParameterType string

const (
	ParameterTypeString  ParameterType = "string"
	ParameterTypeBoolean ParameterType = "boolean"
	ParameterTypeInteger ParameterType = "integer"
	ParameterTypeNumber  ParameterType = "number"
	ParameterTypeObject  ParameterType = "object"
)

// Parameter describes a single argument accepted by a tool
type Parameter struct {
	Type        ParameterType
	Description string
	Required    bool

	// Default is applied when an optional parameter is absent from a call.
	// It must already have the declared type.
	Default interface{}
}

// ExecuteFunc runs the tool body with validated arguments. The returned map
// is the observation payload and must contain only serializable values.
type ExecuteFunc func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Descriptor is the static catalogue entry for one tool. Descriptors are
// registered once at startup and never mutated afterwards.
type Descriptor struct {
	// Name uniquely identifies the tool within one agent role
	Name string

	// Description tells the planner what the tool is for
	Description string

	// Parameters maps parameter name to its schema
	Parameters map[string]Parameter

	// SideEffect is the declared side-effect class
	SideEffect SideEffect

	// RequiresConfirmation marks tools that must carry confirm=true
	RequiresConfirmation bool

	// TargetPathParam names the parameter holding the filesystem path the
	// call writes to. Empty for tools without a filesystem target.
	TargetPathParam string

	// ResolveTargetPath computes the effective target path for a call that
	// omits the target parameter, so the overwrite guard sees the same path
	// the tool body will write to. Nil for tools without a computed default.
	ResolveTargetPath func(args map[string]interface{}) string

	// Execute is the tool body, invoked only with gate-licensed arguments
	Execute ExecuteFunc
}

// Call is a proposed tool invocation as produced by the planner. It carries
// no authority until the Safety Gate has validated it.
type Call struct {
	// Name is the tool name to invoke
	Name string

	// Arguments maps parameter name to the proposed value
	Arguments map[string]interface{}
}
