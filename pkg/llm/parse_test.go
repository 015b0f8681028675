package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse_PlainText(t *testing.T) {
	resp := ParseResponse("Здравствуйте! Чем могу помочь?")

	assert.Equal(t, ResponseText, resp.Type)
	assert.Equal(t, "Здравствуйте! Чем могу помочь?", resp.Text)
	assert.False(t, resp.IsFunctionCall())
}

func TestParseResponse_FunctionCall(t *testing.T) {
	resp := ParseResponse(`<function_call>{"function": "masters_list", "parameters": {"specialization": "парикмахер"}}</function_call>`)

	assert.Equal(t, ResponseFunctionCall, resp.Type)
	assert.Equal(t, "masters_list", resp.Function)
	assert.Equal(t, "парикмахер", resp.Parameters["specialization"])
	assert.True(t, resp.IsFunctionCall())
}

func TestParseResponse_FunctionCallWithSurroundingText(t *testing.T) {
	resp := ParseResponse(`Сейчас посмотрю.
<function_call>{"function": "services_list", "parameters": {}}</function_call>
Одну секунду.`)

	assert.Equal(t, ResponseFunctionCall, resp.Type)
	assert.Equal(t, "services_list", resp.Function)
	assert.NotNil(t, resp.Parameters)
}

func TestParseResponse_FunctionCallMultiline(t *testing.T) {
	resp := ParseResponse(`<function_call>
{
  "function": "create_appointment",
  "parameters": {
    "master_name": "Анна Ребикова",
    "date": "2026-09-01",
    "time": "14:00"
  }
}
</function_call>`)

	assert.Equal(t, ResponseFunctionCall, resp.Type)
	assert.Equal(t, "create_appointment", resp.Function)
	assert.Equal(t, "2026-09-01", resp.Parameters["date"])
}

func TestParseResponse_MalformedJSONFallsBackToText(t *testing.T) {
	raw := `<function_call>{"function": "masters_list", }</function_call>`
	resp := ParseResponse(raw)

	assert.Equal(t, ResponseText, resp.Type)
	assert.Equal(t, raw, resp.Text)
}

func TestParseResponse_MissingParametersDefaultsToEmptyMap(t *testing.T) {
	resp := ParseResponse(`<function_call>{"function": "services_list"}</function_call>`)

	assert.Equal(t, ResponseFunctionCall, resp.Type)
	assert.NotNil(t, resp.Parameters)
	assert.Empty(t, resp.Parameters)
}

func TestParseResponse_TrimsWhitespace(t *testing.T) {
	resp := ParseResponse("  Привет!  \n")

	assert.Equal(t, "Привет!", resp.Text)
}
