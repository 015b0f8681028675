// Package llm provides the Ollama chat client used by the assistant.
//
// The model does not support native tool calling, so available functions
// are described in the system prompt and the model replies with a
// <function_call>{...}</function_call> block that this package extracts.
package llm
