package llm

// ToolSchema is a model-consumable description of one callable tool, in the
// chat completions "function" shape. Parameters is the tool's JSON parameter
// schema, passed to the backend verbatim.
type ToolSchema struct {
	Type     string         `json:"type"`
	Function FunctionSchema `json:"function"`
}

// FunctionSchema carries the name, description, and parameter schema of a tool.
type FunctionSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// NewToolSchema builds a ToolSchema for a named tool.
func NewToolSchema(name, description string, parameters map[string]any) ToolSchema {
	return ToolSchema{
		Type: "function",
		Function: FunctionSchema{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
