package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vendebot/vendebot-backend/internal/core/llm"
)

const (
	// MaxToolRounds caps how many completion rounds a single inbound message
	// may consume before the engine gives up.
	MaxToolRounds = 5

	// MaxContextMessages is how many persisted messages are replayed as
	// conversation context.
	MaxContextMessages = 20
)

// Fallbacks are the canned replies the engine returns when the model cannot
// produce an answer. They differ per channel (customer vs owner).
type Fallbacks struct {
	ModelUnavailable string
	RoundsExhausted  string
	EmptyContent     string
}

// CustomerFallbacks are the replies sent to customers.
func CustomerFallbacks() Fallbacks {
	return Fallbacks{
		ModelUnavailable: "Disculpá, no pude procesar tu mensaje. ¿Podés repetirlo?",
		RoundsExhausted:  "Disculpá, tardé demasiado procesando. ¿Podés simplificar tu consulta?",
		EmptyContent:     "🤔",
	}
}

// OwnerFallbacks are the replies sent on the owner management channel.
func OwnerFallbacks() Fallbacks {
	return Fallbacks{
		ModelUnavailable: "Error procesando tu mensaje. ¿Podés repetirlo?",
		RoundsExhausted:  "Procesé demasiados pasos. ¿Podés simplificar el pedido?",
		EmptyContent:     "🤔",
	}
}

// Toolset exposes the tools available during a run and executes them.
// Dispatch never fails: malformed arguments or unknown tool names come back
// as a structured error value the model can read.
type Toolset interface {
	Definitions() []openai.Tool
	Dispatch(ctx context.Context, name string, args json.RawMessage) interface{}
}

// Request is one engine run: a system prompt, replayed history, the inbound
// user message, and the toolset for this channel.
type Request struct {
	SystemPrompt string
	History      []openai.ChatCompletionMessage
	UserMessage  string
	Tools        Toolset
	Fallbacks    Fallbacks
}

// Engine runs the bounded tool-calling loop against an injected chat model.
type Engine struct {
	model     llm.ChatModel
	maxRounds int
}

func NewEngine(model llm.ChatModel) *Engine {
	return &Engine{model: model, maxRounds: MaxToolRounds}
}

// Process runs the loop until the model produces a plain reply or the round
// budget is exhausted. It always returns something sendable.
func (e *Engine) Process(ctx context.Context, req Request) string {
	messages := e.buildTranscript(req)

	for round := 0; round < e.maxRounds; round++ {
		outcome, err := e.runRound(ctx, messages, req.Tools)
		if err != nil {
			log.Printf("❌ AI error (round %d): %v", round+1, err)
			return req.Fallbacks.ModelUnavailable
		}
		if outcome.done {
			reply := strings.TrimSpace(outcome.reply)
			if reply == "" {
				return req.Fallbacks.EmptyContent
			}
			return reply
		}
		messages = outcome.messages
	}

	log.Printf("⚠️ Tool round budget exhausted (%d rounds)", e.maxRounds)
	return req.Fallbacks.RoundsExhausted
}

// buildTranscript assembles system prompt + trimmed history + the inbound
// message. The inbound message is only appended when the caller has not
// already persisted it as the last history entry.
func (e *Engine) buildTranscript(req Request) []openai.ChatCompletionMessage {
	history := req.History
	if len(history) > MaxContextMessages {
		history = history[len(history)-MaxContextMessages:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.SystemPrompt,
	})
	messages = append(messages, history...)

	if n := len(history); n == 0 ||
		history[n-1].Role != openai.ChatMessageRoleUser ||
		history[n-1].Content != req.UserMessage {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.UserMessage,
		})
	}

	return messages
}

// roundOutcome is the result of one completion round: either a terminal
// reply, or the transcript extended with tool calls and their results.
type roundOutcome struct {
	done     bool
	reply    string
	messages []openai.ChatCompletionMessage
}

func (e *Engine) runRound(ctx context.Context, messages []openai.ChatCompletionMessage, tools Toolset) (roundOutcome, error) {
	var defs []openai.Tool
	if tools != nil {
		defs = tools.Definitions()
	}

	assistant, err := e.model.ChatWithTools(ctx, messages, defs)
	if err != nil {
		return roundOutcome{}, err
	}
	if assistant == nil {
		// Empty choice list from the provider counts as a failed call.
		return roundOutcome{}, errors.New("model returned no message")
	}

	if len(assistant.ToolCalls) == 0 {
		return roundOutcome{done: true, reply: assistant.Content}, nil
	}

	messages = append(messages, *assistant)

	for _, call := range assistant.ToolCalls {
		if call.Type != openai.ToolTypeFunction {
			continue
		}

		log.Printf("🔧 Tool call: %s(%s)", call.Function.Name, call.Function.Arguments)

		result := tools.Dispatch(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))

		payload, err := json.Marshal(result)
		if err != nil {
			payload = []byte(`{"error":"internal error serializing tool result"}`)
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    string(payload),
			ToolCallID: call.ID,
		})
	}

	return roundOutcome{messages: messages}, nil
}
