package safety

import "fmt"

// UnauthorizedToolError is returned when an agent proposes a tool outside
// its allowed tool set
type UnauthorizedToolError struct {
	Role string
	Tool string
}

func (e *UnauthorizedToolError) Error() string {
	return fmt.Sprintf("agent %q is not authorized to call tool %q", e.Role, e.Tool)
}

// SchemaError is returned when a proposed call does not satisfy the tool's
// parameter schema
type SchemaError struct {
	Tool      string
	Parameter string
	Reason    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("tool %q parameter %q: %s", e.Tool, e.Parameter, e.Reason)
}

// ConfirmationRequiredError is returned when a destructive call does not
// carry an explicit confirm=true argument
type ConfirmationRequiredError struct {
	Tool string
	Path string
}

func (e *ConfirmationRequiredError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tool %q on %q requires confirm=true", e.Tool, e.Path)
	}
	return fmt.Sprintf("tool %q requires confirm=true", e.Tool)
}

// OverwriteRefusedError is returned when a call targets an existing path
// without force_overwrite=true
type OverwriteRefusedError struct {
	Tool string
	Path string
}

func (e *OverwriteRefusedError) Error() string {
	return fmt.Sprintf("tool %q refuses to overwrite existing path %q without force_overwrite=true", e.Tool, e.Path)
}
