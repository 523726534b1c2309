package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopExecute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"ok": true}, nil
}

func testDescriptor(name string) *Descriptor {
	return &Descriptor{
		Name:        name,
		Description: "test tool",
		Parameters: map[string]Parameter{
			"path": {Type: ParameterTypeString, Description: "a path", Required: true},
		},
		SideEffect: SideEffectReadOnly,
		Execute:    noopExecute,
	}
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("converter", testDescriptor("convert_tool")))

	desc, err := reg.Resolve("converter", "convert_tool")
	require.NoError(t, err)
	assert.Equal(t, "convert_tool", desc.Name)
}

func TestRegistryDuplicateName(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("converter", testDescriptor("convert_tool")))

	err := reg.Register("converter", testDescriptor("convert_tool"))
	var dup *DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "converter", dup.Role)
	assert.Equal(t, "convert_tool", dup.Name)
}

func TestRegistrySameNameDifferentRoles(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("converter", testDescriptor("shared_tool")))
	require.NoError(t, reg.Register("organizer", testDescriptor("shared_tool")))

	_, err := reg.Resolve("converter", "shared_tool")
	assert.NoError(t, err)
	_, err = reg.Resolve("organizer", "shared_tool")
	assert.NoError(t, err)
}

func TestRegistryUnknownTool(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("converter", testDescriptor("convert_tool")))

	_, err := reg.Resolve("converter", "missing_tool")
	var unknown *UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing_tool", unknown.Name)

	// A tool registered for another role is unknown for this one.
	_, err = reg.Resolve("organizer", "convert_tool")
	assert.True(t, errors.As(err, &unknown))
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	reg := NewRegistry()

	assert.Error(t, reg.Register("converter", nil))
	assert.Error(t, reg.Register("converter", &Descriptor{Execute: noopExecute}))
	assert.Error(t, reg.Register("converter", &Descriptor{Name: "no_execute"}))

	destructive := testDescriptor("dangerous_tool")
	destructive.SideEffect = SideEffectDestructive
	assert.Error(t, reg.Register("converter", destructive), "destructive tools must require confirmation")

	destructive.RequiresConfirmation = true
	assert.NoError(t, reg.Register("converter", destructive))
}

func TestRegistryForRoleSorted(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("converter", testDescriptor("zeta_tool")))
	require.NoError(t, reg.Register("converter", testDescriptor("alpha_tool")))

	descriptors := reg.ForRole("converter")
	require.Len(t, descriptors, 2)
	assert.Equal(t, "alpha_tool", descriptors[0].Name)
	assert.Equal(t, "zeta_tool", descriptors[1].Name)

	assert.Empty(t, reg.ForRole("unknown"))
}

func TestParametersSchema(t *testing.T) {
	desc := &Descriptor{
		Name: "schema_tool",
		Parameters: map[string]Parameter{
			"path":  {Type: ParameterTypeString, Description: "a path", Required: true},
			"count": {Type: ParameterTypeInteger, Description: "how many"},
		},
		Execute: noopExecute,
	}

	schema := desc.ParametersSchema()
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, props, 2)

	assert.Equal(t, []string{"path"}, desc.RequiredParameters())
}
