// Package prompt provides a centralized prompt library for LLM interactions.
// Built-in prompts are registered at startup; JSON files loaded at runtime
// override them without code changes.
package prompt

// PromptTemplate represents a reusable prompt with metadata
type PromptTemplate struct {
	ID             string `json:"id"`                   // Unique identifier (e.g., "intake.classifier")
	Name           string `json:"name"`                 // Human-readable name
	Category       string `json:"category"`             // Category (intake, ...)
	Description    string `json:"description"`          // Description of prompt purpose
	SystemPrompt   string `json:"system_prompt"`        // The system prompt content
	UserPromptTmpl string `json:"user_prompt_template"` // Go template for user prompt
	Version        string `json:"version"`              // Version for tracking changes
}
