package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpipe/taskpipe/engine/llm"
	"github.com/taskpipe/taskpipe/engine/task"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model for tests. It echoes the prompt with a
// prefix and optionally drives the streaming func.
type fakeModel struct {
	prefix    string
	streamed  []string
	err       error
	lastCall  []llms.MessageContent
	emptyResp bool
}

func (m *fakeModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastCall = messages
	if m.emptyResp {
		return &llms.ContentResponse{}, nil
	}
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	prompt := ""
	if len(messages) > 0 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			prompt = text.Text
		}
	}
	content := m.prefix + prompt
	if opts.StreamingFunc != nil {
		for _, chunk := range m.streamed {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, err
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestLangChainClient_Generate(t *testing.T) {
	t.Run("Should return the model's final text", func(t *testing.T) {
		client, err := llm.NewLangChainClient(&fakeModel{prefix: "echo:"})
		require.NoError(t, err)

		text, err := client.Generate(t.Context(), "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, "echo:hello", text)
	})

	t.Run("Should forward partial text to the streaming func", func(t *testing.T) {
		model := &fakeModel{prefix: "full:", streamed: []string{"par", "tial"}}
		client, err := llm.NewLangChainClient(model)
		require.NoError(t, err)

		var chunks []string
		text, err := client.Generate(t.Context(), "x", &llm.GenerateOptions{
			StreamFunc: func(_ context.Context, chunk []byte) error {
				chunks = append(chunks, string(chunk))
				return nil
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"par", "tial"}, chunks)
		assert.Equal(t, "full:x", text)
	})

	t.Run("Should fail on an empty response", func(t *testing.T) {
		client, err := llm.NewLangChainClient(&fakeModel{emptyResp: true})
		require.NoError(t, err)

		_, err = client.Generate(t.Context(), "x", nil)
		assert.ErrorContains(t, err, "empty response")
	})

	t.Run("Should reject a nil model", func(t *testing.T) {
		_, err := llm.NewLangChainClient(nil)
		assert.Error(t, err)
	})
}

func TestGenerateTask(t *testing.T) {
	t.Run("Should compose a model call into a pipeline", func(t *testing.T) {
		client, err := llm.NewLangChainClient(&fakeModel{prefix: "summary:"})
		require.NoError(t, err)

		generate, err := llm.GenerateTask("summarize", client, nil)
		require.NoError(t, err)
		upper := task.MustLeaf("shout", func(_ context.Context, input any, _ *task.Config) (any, error) {
			return input.(string) + "!", nil
		})

		output, err := generate.Pipe(upper).Invoke(t.Context(), "doc", nil)
		require.NoError(t, err)
		assert.Equal(t, "summary:doc!", output)
	})

	t.Run("Should reject non-string input", func(t *testing.T) {
		client, err := llm.NewLangChainClient(&fakeModel{})
		require.NoError(t, err)
		generate, err := llm.GenerateTask("summarize", client, nil)
		require.NoError(t, err)

		_, err = generate.Invoke(t.Context(), 42, nil)
		assert.ErrorContains(t, err, "string prompt")
	})

	t.Run("Should propagate a provider failure", func(t *testing.T) {
		boom := errors.New("rate limited")
		client, err := llm.NewLangChainClient(&fakeModel{err: boom})
		require.NoError(t, err)
		generate, err := llm.GenerateTask("summarize", client, nil)
		require.NoError(t, err)

		_, err = generate.Invoke(t.Context(), "doc", nil)
		assert.ErrorIs(t, err, boom)
	})
}
