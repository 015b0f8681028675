package llm

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

var functionCallRegex = regexp.MustCompile(`(?s)<function_call>(.*?)</function_call>`)

type functionCallPayload struct {
	Function   string                 `json:"function"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ParseResponse extracts a <function_call> block from model output. When no
// block is found, or its JSON is malformed, the whole output is treated as
// plain text.
func ParseResponse(text string) *Response {
	text = strings.TrimSpace(text)

	match := functionCallRegex.FindStringSubmatch(text)
	if match == nil {
		return &Response{Type: ResponseText, Text: text}
	}

	var payload functionCallPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &payload); err != nil {
		log.Printf("llm: failed to parse function call JSON: %v", err)
		return &Response{Type: ResponseText, Text: text}
	}

	if payload.Parameters == nil {
		payload.Parameters = map[string]interface{}{}
	}

	return &Response{
		Type:       ResponseFunctionCall,
		Function:   payload.Function,
		Parameters: payload.Parameters,
	}
}
