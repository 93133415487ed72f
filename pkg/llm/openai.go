package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

const systemPrompt = `You are an equity research analyst. You give short-term trading recommendations for US stocks based on recent news and your own previous calls. You answer with JSON only.`

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
	timeout   time.Duration
}

func NewOpenAIClient(apiKey, modelName string, timeout time.Duration, opts ...option.RequestOption) *OpenAIClient {
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModel(modelName),
		modelName: modelName,
		timeout:   timeout,
	}
}

func (c *OpenAIClient) Name() string {
	return c.modelName
}

func (c *OpenAIClient) Analyze(ctx context.Context, input AnalysisInput) (*AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildPrompt(input)),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	return parsePrediction(resp.Choices[0].Message.Content, c.modelName)
}
