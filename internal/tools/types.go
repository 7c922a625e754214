// In file: internal/tools/types.go

// Package tools defines the data structures for function calling (tool use)
// by the content engine's agents. These types provide a universal,
// provider-agnostic representation of tools that is translated into the
// specific format the LLM API requires.
package tools

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// Tool defines the schema for a function that can be described to an LLM.
// This is the information sent *to* the model to make it aware of a tool.
type Tool struct {
	// Type specifies the type of tool, which is almost always "function".
	Type string `json:"type"`
	// Function holds the detailed definition of the function.
	Function Function `json:"function"`
}

// Function defines the name, description, and parameters of a callable tool,
// following the common JSON Schema format used by major LLM providers.
type Function struct {
	// Name is the name of the function to be called (e.g. "search_web").
	Name string `json:"name"`
	// Description explains what the function does. This is critical: the
	// LLM uses it to decide when to use the tool.
	Description string `json:"description"`
	// Parameters defines the arguments the function accepts, as JSON Schema.
	Parameters JSONSchema `json:"parameters"`
}

// JSONSchema is a structured, type-safe representation of the JSON Schema
// used for tool parameters. Using this instead of map[string]interface{}
// keeps tool definitions clear and prevents shape mistakes.
type JSONSchema struct {
	// Type defines the data type for a schema node (e.g. "object", "string").
	Type string `json:"type"`
	// Description explains what a specific parameter is for.
	Description string `json:"description,omitempty"`
	// Properties describes the parameters of an object node.
	Properties map[string]*JSONSchema `json:"properties,omitempty"`
	// Required lists the mandatory parameter names.
	Required []string `json:"required,omitempty"`
}

// ToolCall represents a request *from* the LLM to execute a specific tool
// with the given arguments.
type ToolCall struct {
	// ID uniquely identifies this call so the execution result can be
	// matched back to the LLM's request in a multi-turn conversation.
	ID string `json:"id"`
	// Type indicates the tool type, almost always "function".
	Type string `json:"type"`
	// Function contains the name and arguments the LLM wants executed.
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the name and arguments of a requested function call.
type ToolCallFunction struct {
	// Name of the function the LLM has decided to call.
	Name string `json:"name"`
	// Arguments is a JSON string matching the function's parameter schema.
	Arguments string `json:"arguments"`
}

// NewFunctionTool creates a Tool with the correct "function" type set.
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
