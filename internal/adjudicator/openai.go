package adjudicator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// systemPrompt pins the model to the verdict shape and the change
// vocabulary. The JSON object response format enforces syntax; the
// prompt enforces the schema.
const systemPrompt = `You are a Magic: the Gathering rules judge inside a game simulator.
You are given the full game state and one action to resolve. Reply with
a single JSON object and nothing else:

{"legal": bool, "resolution": "one sentence", "reasoning": "short",
 "state_changes": [{"target_type": "player"|"card", "target_id": "...",
  "field": "life"|"zone"|"counters"|"damage", "value": "...",
  "counter_name": "..."}]}

Rules for state_changes:
- life: value is a signed integer delta, target_id is the player id.
- zone: value is one of HAND, BATTLEFIELD, GRAVEYARD, EXILE, LIBRARY.
- counters: value is a signed integer, counter_name names the counter.
- damage: value is a positive integer.
Use card instance ids exactly as they appear in the state. If the
action is illegal or you cannot resolve it, set legal to false and
return no state_changes.`

// OpenAI adjudicates through a chat completion. Each request renders
// to one user message; the reply is parsed as a strict JSON verdict.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
	logger *zap.Logger
}

// NewOpenAI builds the adjudicator. An empty model selects gpt-4o; an
// empty key falls back to the OPENAI_API_KEY environment variable via
// the client's defaults.
func NewOpenAI(apiKey, model string, logger *zap.Logger) *OpenAI {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	m := openai.ChatModelGPT4o
	if model != "" {
		m = openai.ChatModel(model)
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  m,
		logger: logger,
	}
}

// Adjudicate implements Adjudicator.
func (a *OpenAI) Adjudicate(ctx context.Context, req Request) (Response, error) {
	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("GAME STATE:\n%s\n\nACTION:\n%s", req.State, req.Action)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return Response{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Response{}, fmt.Errorf("chat completion returned no choices")
	}
	raw := stripFences(completion.Choices[0].Message.Content)
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		if a.logger != nil {
			a.logger.Warn("adjudicator returned unparseable verdict",
				zap.String("content", raw),
				zap.Error(err),
			)
		}
		return Response{}, fmt.Errorf("parse verdict: %w", err)
	}
	if a.logger != nil {
		a.logger.Debug("adjudicator verdict",
			zap.Bool("legal", resp.Legal),
			zap.String("resolution", resp.Resolution),
			zap.Int("changes", len(resp.Changes)),
		)
	}
	return resp, nil
}

// stripFences removes a markdown code fence if the model wrapped its
// JSON in one despite the response format.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
