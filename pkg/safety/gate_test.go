package safety

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileagents/pkg/agent"
	"fileagents/pkg/tool"
)

// countingTool records how often its executor ran
type countingTool struct {
	calls int
	desc  *tool.Descriptor
}

func newCountingTool(name string, effect tool.SideEffect, confirm bool, targetParam string) *countingTool {
	ct := &countingTool{}
	params := map[string]tool.Parameter{
		"path": {Type: tool.ParameterTypeString, Description: "target path", Required: true},
		"confirm": {
			Type: tool.ParameterTypeBoolean, Description: "confirmation flag", Default: false,
		},
		"force_overwrite": {
			Type: tool.ParameterTypeBoolean, Description: "overwrite flag", Default: false,
		},
		"retries": {
			Type: tool.ParameterTypeInteger, Description: "retry count", Default: 1,
		},
	}
	ct.desc = &tool.Descriptor{
		Name:                 name,
		Description:          "test tool",
		Parameters:           params,
		SideEffect:           effect,
		RequiresConfirmation: confirm,
		TargetPathParam:      targetParam,
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			ct.calls++
			return map[string]interface{}{"ok": true}, nil
		},
	}
	return ct
}

func gateFixture(t *testing.T, tools ...*tool.Descriptor) (*Gate, *agent.Spec) {
	t.Helper()
	reg := tool.NewRegistry()
	spec := &agent.Spec{Role: "organizer", MaxSteps: 10}
	for _, desc := range tools {
		require.NoError(t, reg.Register(spec.Role, desc))
		spec.AllowedTools = append(spec.AllowedTools, desc.Name)
	}
	return NewGate(reg), spec
}

func TestGateUnauthorizedTool(t *testing.T) {
	ct := newCountingTool("rename_file_tool", tool.SideEffectMutate, false, "path")
	gate, spec := gateFixture(t, ct.desc)
	spec.AllowedTools = nil

	_, err := gate.Validate(spec, tool.Call{Name: "rename_file_tool", Arguments: map[string]interface{}{"path": "/tmp/a"}})
	var unauthorized *UnauthorizedToolError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, "organizer", unauthorized.Role)
	assert.Zero(t, ct.calls)
}

func TestGateUnknownTool(t *testing.T) {
	ct := newCountingTool("rename_file_tool", tool.SideEffectMutate, false, "path")
	gate, spec := gateFixture(t, ct.desc)
	spec.AllowedTools = append(spec.AllowedTools, "ghost_tool")

	_, err := gate.Validate(spec, tool.Call{Name: "ghost_tool"})
	var unknown *tool.UnknownToolError
	require.ErrorAs(t, err, &unknown)
}

func TestGateSchemaValidation(t *testing.T) {
	ct := newCountingTool("rename_file_tool", tool.SideEffectReadOnly, false, "")
	gate, spec := gateFixture(t, ct.desc)

	tests := []struct {
		name      string
		args      map[string]interface{}
		parameter string
	}{
		{"missing required", map[string]interface{}{}, "path"},
		{"unknown parameter", map[string]interface{}{"path": "/tmp/a", "bogus": 1}, "bogus"},
		{"wrong type", map[string]interface{}{"path": 42}, "path"},
		{"fractional integer", map[string]interface{}{"path": "/tmp/a", "retries": 1.5}, "retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.Validate(spec, tool.Call{Name: "rename_file_tool", Arguments: tt.args})
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.parameter, schemaErr.Parameter)
		})
	}
	assert.Zero(t, ct.calls)
}

func TestGateAppliesDefaultsAndCopiesArguments(t *testing.T) {
	ct := newCountingTool("rename_file_tool", tool.SideEffectReadOnly, false, "")
	gate, spec := gateFixture(t, ct.desc)

	proposed := map[string]interface{}{"path": "/tmp/a", "retries": float64(3)}
	licensed, err := gate.Validate(spec, tool.Call{Name: "rename_file_tool", Arguments: proposed})
	require.NoError(t, err)
	defer licensed.Release()

	assert.Equal(t, false, licensed.Arguments["confirm"])
	assert.Equal(t, false, licensed.Arguments["force_overwrite"])
	assert.Equal(t, 3, licensed.Arguments["retries"], "json numbers coerce to int")

	// Mutating the planner's map must not touch the licensed call.
	proposed["path"] = "/tmp/other"
	assert.Equal(t, "/tmp/a", licensed.Arguments["path"])
}

func TestGateDestructiveRequiresConfirmation(t *testing.T) {
	ct := newCountingTool("delete_file_tool", tool.SideEffectDestructive, true, "path")
	gate, spec := gateFixture(t, ct.desc)

	// Rejection is idempotent and never reaches the executor.
	for i := 0; i < 3; i++ {
		_, err := gate.Validate(spec, tool.Call{
			Name:      "delete_file_tool",
			Arguments: map[string]interface{}{"path": "/tmp/doomed"},
		})
		var confirmErr *ConfirmationRequiredError
		require.ErrorAs(t, err, &confirmErr)
		assert.Equal(t, "delete_file_tool", confirmErr.Tool)
	}
	assert.Zero(t, ct.calls)

	licensed, err := gate.Validate(spec, tool.Call{
		Name:      "delete_file_tool",
		Arguments: map[string]interface{}{"path": "/tmp/doomed", "confirm": true},
	})
	require.NoError(t, err)
	licensed.Release()
}

func TestGateOverwriteGuard(t *testing.T) {
	ct := newCountingTool("rename_file_tool", tool.SideEffectMutate, false, "path")
	gate, spec := gateFixture(t, ct.desc)

	existing := filepath.Join(t.TempDir(), "taken.txt")
	require.NoError(t, os.WriteFile(existing, []byte("occupied"), 0644))

	_, err := gate.Validate(spec, tool.Call{
		Name:      "rename_file_tool",
		Arguments: map[string]interface{}{"path": existing},
	})
	var refused *OverwriteRefusedError
	require.ErrorAs(t, err, &refused)
	assert.Equal(t, existing, refused.Path)

	licensed, err := gate.Validate(spec, tool.Call{
		Name:      "rename_file_tool",
		Arguments: map[string]interface{}{"path": existing, "force_overwrite": true},
	})
	require.NoError(t, err)
	licensed.Release()

	// A fresh target needs no force_overwrite.
	licensed, err = gate.Validate(spec, tool.Call{
		Name:      "rename_file_tool",
		Arguments: map[string]interface{}{"path": filepath.Join(t.TempDir(), "fresh.txt")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, licensed.TargetPath)
	licensed.Release()
}

func TestGateResolvesDefaultTargetPath(t *testing.T) {
	ct := newCountingTool("convert_tool", tool.SideEffectCreate, false, "path")
	ct.desc.Parameters["path"] = tool.Parameter{
		Type: tool.ParameterTypeString, Description: "output path",
	}
	ct.desc.Parameters["source"] = tool.Parameter{
		Type: tool.ParameterTypeString, Description: "source path", Required: true,
	}
	ct.desc.ResolveTargetPath = func(args map[string]interface{}) string {
		source, _ := args["source"].(string)
		return source + ".out"
	}
	gate, spec := gateFixture(t, ct.desc)

	source := filepath.Join(t.TempDir(), "input.txt")
	defaultTarget := source + ".out"
	require.NoError(t, os.WriteFile(defaultTarget, []byte("occupied"), 0644))

	// The overwrite guard applies to the computed default target too.
	_, err := gate.Validate(spec, tool.Call{
		Name:      "convert_tool",
		Arguments: map[string]interface{}{"source": source},
	})
	var refused *OverwriteRefusedError
	require.ErrorAs(t, err, &refused)
	assert.Equal(t, defaultTarget, refused.Path)
	assert.Zero(t, ct.calls)

	licensed, err := gate.Validate(spec, tool.Call{
		Name:      "convert_tool",
		Arguments: map[string]interface{}{"source": source, "force_overwrite": true},
	})
	require.NoError(t, err)
	assert.Equal(t, defaultTarget, licensed.TargetPath)
	assert.Equal(t, defaultTarget, licensed.Arguments["path"], "body sees the resolved default")
	licensed.Release()

	// An explicit path wins over the resolver.
	explicit := filepath.Join(t.TempDir(), "elsewhere.out")
	licensed, err = gate.Validate(spec, tool.Call{
		Name:      "convert_tool",
		Arguments: map[string]interface{}{"source": source, "path": explicit},
	})
	require.NoError(t, err)
	assert.Equal(t, explicit, licensed.TargetPath)
	licensed.Release()
}

func TestGateReadOnlySkipsGuards(t *testing.T) {
	ct := newCountingTool("pdf_page_count_tool", tool.SideEffectReadOnly, false, "path")
	gate, spec := gateFixture(t, ct.desc)

	existing := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("%PDF"), 0644))

	licensed, err := gate.Validate(spec, tool.Call{
		Name:      "pdf_page_count_tool",
		Arguments: map[string]interface{}{"path": existing},
	})
	require.NoError(t, err)
	licensed.Release()
}

func TestGateReleaseIsIdempotent(t *testing.T) {
	ct := newCountingTool("rename_file_tool", tool.SideEffectMutate, false, "path")
	gate, spec := gateFixture(t, ct.desc)

	target := filepath.Join(t.TempDir(), "a.txt")
	licensed, err := gate.Validate(spec, tool.Call{
		Name:      "rename_file_tool",
		Arguments: map[string]interface{}{"path": target},
	})
	require.NoError(t, err)

	licensed.Release()
	licensed.Release()

	// The path is free again for the next call.
	next, err := gate.Validate(spec, tool.Call{
		Name:      "rename_file_tool",
		Arguments: map[string]interface{}{"path": target},
	})
	require.NoError(t, err)
	next.Release()
}

func TestGateToolNameFuzzing(t *testing.T) {
	ct := newCountingTool("rename_file_tool", tool.SideEffectReadOnly, false, "")
	gate, spec := gateFixture(t, ct.desc)

	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("tool_%d", i)
		_, err := gate.Validate(spec, tool.Call{Name: name})
		var unauthorized *UnauthorizedToolError
		assert.ErrorAs(t, err, &unauthorized)
	}
	assert.Zero(t, ct.calls)
}
