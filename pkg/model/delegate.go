package model

import "strings"

// delegateToolPrefix is the function-name prefix both providers use to
// expose managed agents as callable tools
const delegateToolPrefix = "delegate_to_"

// DelegateToolName returns the function name under which a managed agent is
// exposed to the underlying model
func DelegateToolName(role string) string {
	return delegateToolPrefix + strings.ToLower(role)
}

// DelegateRole maps a function name back to the managed-agent role it stands
// for. The second return value is false when the name is not a delegation
// function. Matching is case-insensitive on the role part because models
// occasionally re-case tool names.
func DelegateRole(toolName string, delegates []DelegateInfo) (string, bool) {
	if !strings.HasPrefix(toolName, delegateToolPrefix) {
		return "", false
	}
	suffix := strings.TrimPrefix(toolName, delegateToolPrefix)
	for _, d := range delegates {
		if strings.EqualFold(d.Role, suffix) {
			return d.Role, true
		}
	}
	return "", false
}
