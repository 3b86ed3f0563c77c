package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel replays scripted assistant messages and records every transcript
// it was called with.
type stubModel struct {
	responses []*openai.ChatCompletionMessage
	err       error
	calls     [][]openai.ChatCompletionMessage
}

func (s *stubModel) ChatWithTools(_ context.Context, messages []openai.ChatCompletionMessage, _ []openai.Tool) (*openai.ChatCompletionMessage, error) {
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *stubModel) ModelName() string { return "stub" }

type recordingToolset struct {
	dispatched []string
	args       []string
	result     interface{}
}

func (t *recordingToolset) Definitions() []openai.Tool {
	return []openai.Tool{{
		Type:     openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{Name: "ping"},
	}}
}

func (t *recordingToolset) Dispatch(_ context.Context, name string, args json.RawMessage) interface{} {
	t.dispatched = append(t.dispatched, name)
	t.args = append(t.args, string(args))
	return t.result
}

func assistantText(content string) *openai.ChatCompletionMessage {
	return &openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}
}

func assistantToolCall(id, name, args string) *openai.ChatCompletionMessage {
	return &openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:       id,
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func TestProcessPlainReply(t *testing.T) {
	model := &stubModel{responses: []*openai.ChatCompletionMessage{assistantText("¡Hola! ¿En qué te ayudo?")}}
	engine := NewEngine(model)

	reply := engine.Process(context.Background(), Request{
		SystemPrompt: "sos un bot",
		UserMessage:  "hola",
		Tools:        &recordingToolset{},
		Fallbacks:    CustomerFallbacks(),
	})

	assert.Equal(t, "¡Hola! ¿En qué te ayudo?", reply)
	require.Len(t, model.calls, 1)
	transcript := model.calls[0]
	require.Len(t, transcript, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, transcript[0].Role)
	assert.Equal(t, "hola", transcript[1].Content)
}

func TestProcessEmptyContentFallsBack(t *testing.T) {
	model := &stubModel{responses: []*openai.ChatCompletionMessage{assistantText("  ")}}
	engine := NewEngine(model)

	reply := engine.Process(context.Background(), Request{
		UserMessage: "hola",
		Tools:       &recordingToolset{},
		Fallbacks:   CustomerFallbacks(),
	})

	assert.Equal(t, "🤔", reply)
}

func TestProcessModelErrorFallsBack(t *testing.T) {
	model := &stubModel{err: fmt.Errorf("upstream down")}
	engine := NewEngine(model)

	reply := engine.Process(context.Background(), Request{
		UserMessage: "hola",
		Tools:       &recordingToolset{},
		Fallbacks:   CustomerFallbacks(),
	})

	assert.Equal(t, "Disculpá, no pude procesar tu mensaje. ¿Podés repetirlo?", reply)
}

func TestProcessNilModelMessageFallsBack(t *testing.T) {
	model := &stubModel{} // no scripted responses -> nil message
	engine := NewEngine(model)

	reply := engine.Process(context.Background(), Request{
		UserMessage: "hola",
		Tools:       &recordingToolset{},
		Fallbacks:   OwnerFallbacks(),
	})

	// A provider returning no message at all is a failed call, not an
	// empty reply.
	assert.Equal(t, "Error procesando tu mensaje. ¿Podés repetirlo?", reply)
}

func TestProcessToolRoundFeedsResultBack(t *testing.T) {
	model := &stubModel{responses: []*openai.ChatCompletionMessage{
		assistantToolCall("call_1", "ping", `{"q":"tomate"}`),
		assistantText("Encontré tomates a $2500/kg"),
	}}
	tools := &recordingToolset{result: map[string]string{"message": "ok"}}
	engine := NewEngine(model)

	reply := engine.Process(context.Background(), Request{
		UserMessage: "¿tenés tomates?",
		Tools:       tools,
		Fallbacks:   CustomerFallbacks(),
	})

	assert.Equal(t, "Encontré tomates a $2500/kg", reply)
	require.Equal(t, []string{"ping"}, tools.dispatched)
	assert.Equal(t, []string{`{"q":"tomate"}`}, tools.args)

	// Second round transcript: system, user, assistant tool call, tool result.
	require.Len(t, model.calls, 2)
	second := model.calls[1]
	require.Len(t, second, 4)
	assert.Equal(t, openai.ChatMessageRoleTool, second[3].Role)
	assert.Equal(t, "call_1", second[3].ToolCallID)
	assert.JSONEq(t, `{"message":"ok"}`, second[3].Content)
}

func TestProcessRoundBudgetExhausted(t *testing.T) {
	responses := make([]*openai.ChatCompletionMessage, 0, MaxToolRounds+2)
	for i := 0; i < MaxToolRounds+2; i++ {
		responses = append(responses, assistantToolCall(fmt.Sprintf("call_%d", i), "ping", `{}`))
	}
	model := &stubModel{responses: responses}
	tools := &recordingToolset{result: map[string]string{"message": "ok"}}
	engine := NewEngine(model)

	reply := engine.Process(context.Background(), Request{
		UserMessage: "loop",
		Tools:       tools,
		Fallbacks:   CustomerFallbacks(),
	})

	assert.Equal(t, "Disculpá, tardé demasiado procesando. ¿Podés simplificar tu consulta?", reply)
	assert.Len(t, model.calls, MaxToolRounds)
	assert.Len(t, tools.dispatched, MaxToolRounds)
}

func TestBuildTranscriptTrimsHistoryAndSkipsDuplicateUserMessage(t *testing.T) {
	history := make([]openai.ChatCompletionMessage, 0, 30)
	for i := 0; i < 29; i++ {
		role := openai.ChatMessageRoleUser
		if i%2 == 1 {
			role = openai.ChatMessageRoleAssistant
		}
		history = append(history, openai.ChatCompletionMessage{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	history = append(history, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: "última"})

	engine := NewEngine(&stubModel{})
	transcript := engine.buildTranscript(Request{
		SystemPrompt: "sys",
		History:      history,
		UserMessage:  "última",
	})

	// system + last 20 history entries, no duplicate of the inbound message
	require.Len(t, transcript, 21)
	assert.Equal(t, openai.ChatMessageRoleSystem, transcript[0].Role)
	assert.Equal(t, "última", transcript[20].Content)

	// A fresh message does get appended.
	transcript = engine.buildTranscript(Request{
		SystemPrompt: "sys",
		History:      history,
		UserMessage:  "nueva consulta",
	})
	require.Len(t, transcript, 22)
	assert.Equal(t, "nueva consulta", transcript[21].Content)
}
