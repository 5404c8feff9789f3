package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/PabloGalante/spiralite/internal/domain"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// interpretationSchema mirrors the JSON object the personas ask for. It is
// sent as a strict json_schema text format.
type interpretationSchema struct {
	Name           string `json:"name" jsonschema:"required,description=Evocative title of three to six words"`
	DreamType      string `json:"dreamType" jsonschema:"required,enum=Mnemonic Dreams,enum=Psychic Dreams,enum=Pre-Echo Dreams,enum=Lucid Dreams,enum=Meta-Lucid Dreams"`
	Rationale      string `json:"rationale" jsonschema:"required"`
	Interpretation string `json:"interpretation" jsonschema:"required"`
}

var interpretationFormat = responses.ResponseFormatTextConfigUnionParam{
	OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
		Name:        "DreamInterpretation",
		Schema:      GenerateSchema[interpretationSchema](),
		Strict:      openai.Bool(true),
		Description: openai.String("Dream interpretation JSON"),
		Type:        "json_schema",
	},
}

// OpenAIClient completes through the OpenAI Responses API. The system
// message becomes the instructions and the user message the single input.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client, model: model}, nil
}

// Complete implements domain.Completer.
func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	instructions, input := splitMessages(messages)

	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: interpretationFormat,
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		ne := &domain.NetworkError{Reason: "openai request failed", Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			ne.Status = apiErr.StatusCode
		}
		return "", ne
	}

	text := resp.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", &domain.NetworkError{Reason: "openai returned empty output"}
	}
	return text, nil
}

// splitMessages joins system messages into instructions and user messages
// into the input text.
func splitMessages(messages []domain.ChatMessage) (instructions, input string) {
	var sys, user []string
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			sys = append(sys, m.Content)
		default:
			user = append(user, m.Content)
		}
	}
	return strings.Join(sys, "\n\n"), strings.Join(user, "\n\n")
}

// GenerateSchema reflects T into an OpenAI strict-mode compatible schema.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out
}
