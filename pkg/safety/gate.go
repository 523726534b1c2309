package safety

import (
	"os"
	"path/filepath"

	"fileagents/pkg/agent"
	"fileagents/pkg/tool"
)

// Guard argument names shared by all side-effecting tools
const (
	// ConfirmArg must be true on destructive calls
	ConfirmArg = "confirm"

	// ForceOverwriteArg must be true to write over an existing target path
	ForceOverwriteArg = "force_overwrite"
)

// Gate validates proposed tool calls before execution. It is the single
// point where non-deterministic planner output becomes a deterministic
// permission decision: anything past the gate already satisfies the
// authorization, schema and confirmation invariants. The gate itself never
// performs a side effect.
type Gate struct {
	tools *tool.Registry
	locks *pathLocker
}

// NewGate creates a gate over the given tool registry
func NewGate(tools *tool.Registry) *Gate {
	return &Gate{
		tools: tools,
		locks: newPathLocker(),
	}
}

// LicensedCall is a validated, immutable call ready for execution. For
// calls with a filesystem target the call holds the target's path lock from
// validation through execution; the caller must call Release once the tool
// has finished.
type LicensedCall struct {
	// Descriptor is the resolved tool descriptor
	Descriptor *tool.Descriptor

	// Arguments are the validated arguments with defaults applied
	Arguments map[string]interface{}

	// TargetPath is the resolved absolute target path, "" when the tool has
	// no filesystem target
	TargetPath string

	release func()
}

// Release frees the target path lock. Safe to call more than once and on
// calls without a target.
func (c *LicensedCall) Release() {
	if c.release != nil {
		c.release()
	}
}

// Validate checks a proposed call against the issuing agent's spec and the
// tool's descriptor. On success it returns a licensed call; on failure the
// typed error says exactly which invariant the call violated. Validation
// never executes the tool.
func (g *Gate) Validate(spec *agent.Spec, call tool.Call) (*LicensedCall, error) {
	if !spec.Allows(call.Name) {
		return nil, &UnauthorizedToolError{Role: spec.Role, Tool: call.Name}
	}

	desc, err := g.tools.Resolve(spec.Role, call.Name)
	if err != nil {
		return nil, err
	}

	args, err := validateArguments(desc, call.Arguments)
	if err != nil {
		return nil, err
	}

	licensed := &LicensedCall{
		Descriptor: desc,
		Arguments:  args,
	}

	if desc.TargetPathParam != "" {
		raw, _ := args[desc.TargetPathParam].(string)
		// An omitted target still has one: resolve the tool's default so the
		// overwrite guard sees the path the body will write to.
		if raw == "" && desc.ResolveTargetPath != nil {
			if raw = desc.ResolveTargetPath(args); raw != "" {
				args[desc.TargetPathParam] = raw
			}
		}
		if raw != "" {
			abs, err := filepath.Abs(raw)
			if err != nil {
				return nil, &SchemaError{Tool: desc.Name, Parameter: desc.TargetPathParam, Reason: "not a resolvable path"}
			}
			licensed.TargetPath = abs
		}
	}

	// Hold the target's lock across the existence check and the execution
	// that follows, so a concurrent sibling cannot invalidate the check.
	if licensed.TargetPath != "" && desc.SideEffect != tool.SideEffectReadOnly {
		licensed.release = g.locks.acquire(licensed.TargetPath)
	}

	if err := g.checkSideEffects(desc, licensed); err != nil {
		licensed.Release()
		return nil, err
	}
	return licensed, nil
}

// checkSideEffects enforces the confirmation and overwrite invariants.
// These are hard rules; the planner cannot argue its way past them.
func (g *Gate) checkSideEffects(desc *tool.Descriptor, licensed *LicensedCall) error {
	if desc.SideEffect == tool.SideEffectDestructive || desc.RequiresConfirmation {
		if confirmed, _ := licensed.Arguments[ConfirmArg].(bool); !confirmed {
			return &ConfirmationRequiredError{Tool: desc.Name, Path: licensed.TargetPath}
		}
		return nil
	}

	if licensed.TargetPath == "" {
		return nil
	}

	switch desc.SideEffect {
	case tool.SideEffectCreate, tool.SideEffectMutate:
		if _, err := os.Stat(licensed.TargetPath); err == nil {
			if force, _ := licensed.Arguments[ForceOverwriteArg].(bool); !force {
				return &OverwriteRefusedError{Tool: desc.Name, Path: licensed.TargetPath}
			}
		}
	}
	return nil
}

// validateArguments checks types and required parameters, applies defaults,
// and returns a fresh argument map so later mutation of the planner's map
// cannot change the licensed call
func validateArguments(desc *tool.Descriptor, proposed map[string]interface{}) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(desc.Parameters))

	for name := range proposed {
		if _, ok := desc.Parameters[name]; !ok {
			return nil, &SchemaError{Tool: desc.Name, Parameter: name, Reason: "unknown parameter"}
		}
	}

	for name, param := range desc.Parameters {
		value, present := proposed[name]
		if !present {
			if param.Required {
				return nil, &SchemaError{Tool: desc.Name, Parameter: name, Reason: "required parameter is missing"}
			}
			if param.Default != nil {
				args[name] = param.Default
			}
			continue
		}

		coerced, ok := coerce(param.Type, value)
		if !ok {
			return nil, &SchemaError{Tool: desc.Name, Parameter: name, Reason: "value does not match declared type " + string(param.Type)}
		}
		args[name] = coerced
	}
	return args, nil
}

// coerce checks a value against a parameter type. JSON decoding produces
// float64 for all numbers, so integers are accepted in either form.
func coerce(t tool.ParameterType, value interface{}) (interface{}, bool) {
	switch t {
	case tool.ParameterTypeString:
		s, ok := value.(string)
		return s, ok

	case tool.ParameterTypeBoolean:
		b, ok := value.(bool)
		return b, ok

	case tool.ParameterTypeInteger:
		switch v := value.(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		case float64:
			if v == float64(int(v)) {
				return int(v), true
			}
		}
		return nil, false

	case tool.ParameterTypeNumber:
		switch v := value.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		}
		return nil, false

	case tool.ParameterTypeObject:
		m, ok := value.(map[string]interface{})
		return m, ok
	}
	return nil, false
}
