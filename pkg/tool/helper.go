package tool

// ParametersSchema converts a descriptor's parameter table to a JSON-schema
// style map, the shape both planner providers expect for function tools
func (d *Descriptor) ParametersSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(d.Parameters))
	required := make([]string, 0)

	for name, param := range d.Parameters {
		prop := map[string]interface{}{
			"type":        string(param.Type),
			"description": param.Description,
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		properties[name] = prop

		if param.Required {
			required = append(required, name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// RequiredParameters returns the names of all required parameters
func (d *Descriptor) RequiredParameters() []string {
	required := make([]string, 0)
	for name, param := range d.Parameters {
		if param.Required {
			required = append(required, name)
		}
	}
	return required
}
