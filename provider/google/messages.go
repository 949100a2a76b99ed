package google

import (
	"encoding/json"

	pal "github.com/agenticpal/pal"
	"google.golang.org/genai"
)

// convertMessages maps messages to Gemini contents. System messages are
// collected into a single system instruction string.
func convertMessages(messages []pal.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	system := ""

	for _, msg := range messages {
		if msg.Role == pal.RoleSystem {
			if msg.Content != "" {
				if system != "" {
					system += "\n\n"
				}
				system += msg.Content
			}
			continue
		}

		role := "user"
		if msg.Role == pal.RoleAssistant {
			role = "model"
		}

		var parts []*genai.Part
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		for _, tc := range msg.ToolCalls {
			var args map[string]any
			json.Unmarshal([]byte(tc.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: tc.Name,
					Args: args,
				},
			})
		}

		// Tool results go back as user-role FunctionResponse parts.
		// Gemini matches on function name, which is recoverable from
		// the synthesized call IDs.
		for _, tr := range msg.ToolResults {
			var result map[string]any
			if err := json.Unmarshal([]byte(tr.Content), &result); err != nil {
				result = map[string]any{"result": tr.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     functionNameFromCallID(tr.ToolCallID),
					Response: result,
				},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{
				Role:  role,
				Parts: parts,
			})
		}
	}

	return contents, system
}
