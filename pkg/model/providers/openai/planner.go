package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fileagents/pkg/model"
	"fileagents/pkg/tracing"
)

const (
	// DefaultModel is the model used when none is configured
	DefaultModel = "gpt-4o"

	// DefaultMaxTokens bounds the completion size
	DefaultMaxTokens = 2048
)

// Planner implements model.Planner on top of the OpenAI chat completions
// API. Registered tools are exposed as function tools; managed agents are
// exposed as delegation functions.
type Planner struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// New creates a planner with the given API key
func New(apiKey string) *Planner {
	return NewWithConfig(openai.DefaultConfig(apiKey))
}

// NewWithConfig creates a planner from a full client config, for
// OpenAI-compatible endpoints with a custom base URL
func NewWithConfig(config openai.ClientConfig) *Planner {
	return &Planner{
		client:    openai.NewClientWithConfig(config),
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
func (p *Planner) WithMaxTokens(n int) *Planner {
	p.maxTokens = n
	return p
}

// Plan asks the model for the next action given the task trace so far
func (p *Planner) Plan(ctx context.Context, req *model.Request) (*model.Action, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildMessages(req),
		Tools:       buildTools(req),
		Temperature: 0.0,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	message := resp.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		return model.NewFinalAnswerAction(message.Content), nil
	}

	// The engine consumes exactly one action per planning step.
	tc := message.ToolCalls[0]
	args := make(map[string]interface{})
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("malformed tool arguments for %q: %w", tc.Function.Name, err)
		}
	}

	if role, ok := model.DelegateRole(tc.Function.Name, req.Delegates); ok {
		instruction, _ := args["instruction"].(string)
		return model.NewDelegationAction(role, instruction), nil
	}
	return model.NewToolCallAction(tc.Function.Name, args), nil
}

// buildMessages replays the task trace as a chat transcript
func buildMessages(req *model.Request) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req)},
		{Role: openai.ChatMessageRoleUser, Content: req.TaskInstruction},
	}

	for _, step := range req.Steps {
		switch step.Kind {
		case tracing.StepKindToolCall:
			messages = append(messages, assistantToolCall(step, payloadString(step, "tool"), step.Payload["arguments"]))

		case tracing.StepKindDelegationCall:
			role := payloadString(step, "agent")
			messages = append(messages, assistantToolCall(step, model.DelegateToolName(role), map[string]interface{}{
				"instruction": payloadString(step, "instruction"),
			}))

		case tracing.StepKindObservation:
			messages = append(messages, toolResult(step, marshalPayload(step.Payload["result"])))

		case tracing.StepKindDelegationResult:
			content := payloadString(step, "answer")
			if kind := payloadString(step, "error_kind"); kind != "" {
				content = fmt.Sprintf("Error (%s): %s", kind, payloadString(step, "error"))
			}
			messages = append(messages, toolResult(step, content))

		case tracing.StepKindError:
			content := fmt.Sprintf("Error (%s): %s", payloadString(step, "kind"), payloadString(step, "message"))
			if payloadString(step, "call_id") != "" {
				messages = append(messages, toolResult(step, content))
			} else {
				messages = append(messages, openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleUser,
					Content: content,
				})
			}
		}
	}
	return messages
}

// buildTools converts descriptors and delegates to function tools
func buildTools(req *model.Request) []openai.Tool {
	tools := make([]openai.Tool, 0, len(req.Tools)+len(req.Delegates))

	for _, desc := range req.Tools {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        desc.Name,
				Description: desc.Description,
				Parameters:  desc.ParametersSchema(),
			},
		})
	}

	for _, delegate := range req.Delegates {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        model.DelegateToolName(delegate.Role),
				Description: fmt.Sprintf("Delegate a sub-task to the %s agent. %s", delegate.Role, delegate.Description),
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"instruction": map[string]interface{}{
							"type":        "string",
							"description": "Complete, self-contained description of the sub-task",
						},
					},
					"required": []string{"instruction"},
				},
			},
		})
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

func assistantToolCall(step tracing.Step, name string, args interface{}) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:   payloadString(step, "call_id"),
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      name,
				Arguments: marshalPayload(args),
			},
		}},
	}
}

func toolResult(step tracing.Step, content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		ToolCallID: payloadString(step, "call_id"),
		Content:    content,
	}
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
