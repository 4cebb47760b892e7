package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangChainClient adapts a langchaingo model to the Client interface.
type LangChainClient struct {
	model llms.Model
}

func NewLangChainClient(model llms.Model) (*LangChainClient, error) {
	if model == nil {
		return nil, fmt.Errorf("langchain client requires a model")
	}
	return &LangChainClient{model: model}, nil
}

func (c *LangChainClient) Generate(ctx context.Context, prompt string, opts *GenerateOptions) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	response, err := c.model.GenerateContent(ctx, messages, buildCallOptions(opts)...)
	if err != nil {
		return "", fmt.Errorf("langchain GenerateContent failed: %w", err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}
	return response.Choices[0].Content, nil
}

// Close implements Client. langchaingo models hold no closable resources.
func (c *LangChainClient) Close() error {
	return nil
}

func buildCallOptions(opts *GenerateOptions) []llms.CallOption {
	if opts == nil {
		return nil
	}
	var options []llms.CallOption
	if opts.Model != "" {
		options = append(options, llms.WithModel(opts.Model))
	}
	if opts.Temperature > 0 {
		options = append(options, llms.WithTemperature(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(opts.MaxTokens))
	}
	if len(opts.StopWords) > 0 {
		options = append(options, llms.WithStopWords(opts.StopWords))
	}
	if opts.StreamFunc != nil {
		options = append(options, llms.WithStreamingFunc(opts.StreamFunc))
	}
	return options
}
