package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileagents/pkg/agent"
	"fileagents/pkg/tool"
	"fileagents/pkg/tool/imagegen"
)

func TestRegisterWithoutImageGenerator(t *testing.T) {
	tools := tool.NewRegistry()
	agents := agent.NewRegistry()
	require.NoError(t, Register(tools, agents, Config{}))

	orchestrator, err := agents.Resolve(RoleFileOrchestrator)
	require.NoError(t, err)
	assert.Empty(t, orchestrator.AllowedTools, "the orchestrator only delegates")
	assert.ElementsMatch(t,
		[]string{RoleFileConverter, RoleFileOrganizer, RolePdfEditor},
		orchestrator.ManagedAgents)

	_, err = agents.Resolve(RoleImageCreator)
	assert.Error(t, err, "no image creator without a generator")
}

func TestRegisterWithImageGenerator(t *testing.T) {
	tools := tool.NewRegistry()
	agents := agent.NewRegistry()
	cfg := Config{ImageGenerator: imagegen.NewGenerator("test-key")}
	require.NoError(t, Register(tools, agents, cfg))

	orchestrator, err := agents.Resolve(RoleFileOrchestrator)
	require.NoError(t, err)
	assert.Contains(t, orchestrator.ManagedAgents, RoleImageCreator)

	creator, err := agents.Resolve(RoleImageCreator)
	require.NoError(t, err)
	assert.Equal(t, []string{"generate_image_tool"}, creator.AllowedTools)

	_, err = tools.Resolve(RoleImageCreator, "generate_image_tool")
	assert.NoError(t, err)
}

func TestEveryAllowedToolIsRegistered(t *testing.T) {
	tools := tool.NewRegistry()
	agents := agent.NewRegistry()
	cfg := Config{ImageGenerator: imagegen.NewGenerator("test-key")}
	require.NoError(t, Register(tools, agents, cfg))

	for _, role := range agents.Roles() {
		spec, err := agents.Resolve(role)
		require.NoError(t, err)
		assert.Greater(t, spec.MaxSteps, 0)
		for _, name := range spec.AllowedTools {
			_, err := tools.Resolve(role, name)
			assert.NoError(t, err, "role %s allows unregistered tool %s", role, name)
		}
		for _, managed := range spec.ManagedAgents {
			_, err := agents.Resolve(managed)
			assert.NoError(t, err, "role %s manages unregistered agent %s", role, managed)
		}
	}
}
