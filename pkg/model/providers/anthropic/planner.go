package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fileagents/pkg/model"
	"fileagents/pkg/tracing"
)

const (
	// DefaultModel is the model used when none is configured
	DefaultModel = "claude-3-7-sonnet-latest"

	// DefaultMaxTokens bounds the completion size
	DefaultMaxTokens = 2048
)

// Planner implements model.Planner on top of Anthropic's Messages API.
// Registered tools are exposed as tool-use definitions; managed agents are
// exposed as delegation tools.
type Planner struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// New creates a planner with the given API key
func New(apiKey string) *Planner {
	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(apiKey),
	)
	return &Planner{
		client:    &client,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
}

// WithModel sets the model name
func (p *Planner) WithModel(name string) *Planner {
	p.model = name
	return p
}

// WithMaxTokens sets the completion token bound
func (p *Planner) WithMaxTokens(n int64) *Planner {
	p.maxTokens = n
	return p
}

// Plan asks the model for the next action given the task trace so far
func (p *Planner) Plan(ctx context.Context, req *model.Request) (*model.Action, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(req)},
		},
		Messages: buildMessages(req),
		Tools:    buildTools(req),
	})
	if err != nil {
		return nil, fmt.Errorf("messages API: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)

		case anthropic.ToolUseBlock:
			args := make(map[string]interface{})
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &args); err != nil {
					return nil, fmt.Errorf("malformed tool input for %q: %w", b.Name, err)
				}
			}
			if role, ok := model.DelegateRole(b.Name, req.Delegates); ok {
				instruction, _ := args["instruction"].(string)
				return model.NewDelegationAction(role, instruction), nil
			}
			return model.NewToolCallAction(b.Name, args), nil
		}
	}
	return model.NewFinalAnswerAction(text.String()), nil
}

// buildMessages replays the task trace as alternating tool-use and
// tool-result turns
func buildMessages(req *model.Request) []anthropic.MessageParam {
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(req.TaskInstruction)),
	}

	for _, step := range req.Steps {
		switch step.Kind {
		case tracing.StepKindToolCall:
			messages = append(messages, anthropic.NewAssistantMessage(
				anthropic.NewToolUseBlock(payloadString(step, "call_id"), step.Payload["arguments"], payloadString(step, "tool")),
			))

		case tracing.StepKindDelegationCall:
			role := payloadString(step, "agent")
			input := map[string]interface{}{"instruction": payloadString(step, "instruction")}
			messages = append(messages, anthropic.NewAssistantMessage(
				anthropic.NewToolUseBlock(payloadString(step, "call_id"), input, model.DelegateToolName(role)),
			))

		case tracing.StepKindObservation:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(payloadString(step, "call_id"), marshalPayload(step.Payload["result"]), false),
			))

		case tracing.StepKindDelegationResult:
			content := payloadString(step, "answer")
			isError := false
			if kind := payloadString(step, "error_kind"); kind != "" {
				content = fmt.Sprintf("Error (%s): %s", kind, payloadString(step, "error"))
				isError = true
			}
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(payloadString(step, "call_id"), content, isError),
			))

		case tracing.StepKindError:
			content := fmt.Sprintf("Error (%s): %s", payloadString(step, "kind"), payloadString(step, "message"))
			if callID := payloadString(step, "call_id"); callID != "" {
				messages = append(messages, anthropic.NewUserMessage(
					anthropic.NewToolResultBlock(callID, content, true),
				))
			} else {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(content)))
			}
		}
	}
	return messages
}

// buildTools converts descriptors and delegates to tool definitions
func buildTools(req *model.Request) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools)+len(req.Delegates))

	for _, desc := range req.Tools {
		schema := desc.ParametersSchema()
		toolParam := anthropic.ToolParam{
			Name:        desc.Name,
			Description: anthropic.String(desc.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   desc.RequiredParameters(),
			},
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &toolParam})
	}

	for _, delegate := range req.Delegates {
		toolParam := anthropic.ToolParam{
			Name:        model.DelegateToolName(delegate.Role),
			Description: anthropic.String(fmt.Sprintf("Delegate a sub-task to the %s agent. %s", delegate.Role, delegate.Description)),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"instruction": map[string]interface{}{
						"type":        "string",
						"description": "Complete, self-contained description of the sub-task",
					},
				},
				Required: []string{"instruction"},
			},
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &toolParam})
	}
	return tools
}

// systemPrompt assembles the agent's system instructions
func systemPrompt(req *model.Request) string {
	var b strings.Builder
	title := cases.Title(language.Und, cases.NoLower)

	fmt.Fprintf(&b, "You are %s, a specialized agent.\n\n", title.String(req.AgentRole))
	b.WriteString(req.Instructions)
	b.WriteString("\n\nUse one tool per step. When the task is done, reply with the final answer as plain text without calling any tool.")

	if len(req.Delegates) > 0 {
		b.WriteString("\nYou can delegate sub-tasks to these managed agents:")
		for _, d := range req.Delegates {
			fmt.Fprintf(&b, "\n- %s: %s", d.Role, d.Description)
		}
	}
	return b.String()
}

func payloadString(step tracing.Step, key string) string {
	s, _ := step.Payload[key].(string)
	return s
}

func marshalPayload(v interface{}) string {
	if v == nil {
		return "{}"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
