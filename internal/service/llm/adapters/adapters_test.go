package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainllm "polychat/internal/domain/services/llm"
)

type fakeChatModel struct {
	input []*schema.Message
	opts  *model.Options
	reply *schema.Message
	err   error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	f.opts = model.GetCommonOptions(nil, opts...)
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func sampleRequest() *domainllm.GenerateRequest {
	return &domainllm.GenerateRequest{
		System: "Always reply in German.",
		Messages: []domainllm.Message{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hallo!"},
			{Role: "user", Content: "How are you?"},
		},
		Model:       "gpt-4o-mini",
		MaxTokens:   500,
		Temperature: 0.7,
	}
}

func TestEinoAdapter_GenerateResponse(t *testing.T) {
	fake := &fakeChatModel{
		reply: &schema.Message{
			Role:    schema.Assistant,
			Content: "Mir geht es gut.",
			ResponseMeta: &schema.ResponseMeta{
				FinishReason: "stop",
				Usage:        &schema.TokenUsage{PromptTokens: 12, CompletionTokens: 5},
			},
		},
	}
	adapter := NewEinoAdapter("openai", fake)

	resp, err := adapter.GenerateResponse(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Mir geht es gut.", resp.Text)
	assert.Equal(t, 12, resp.InputTokens)
	assert.Equal(t, 5, resp.OutputTokens)
	assert.Equal(t, "stop", resp.StopReason)

	require.Len(t, fake.input, 4)
	assert.Equal(t, schema.System, fake.input[0].Role)
	assert.Equal(t, schema.User, fake.input[1].Role)
	assert.Equal(t, schema.Assistant, fake.input[2].Role)
	assert.Equal(t, "How are you?", fake.input[3].Content)

	require.NotNil(t, fake.opts.Model)
	assert.Equal(t, "gpt-4o-mini", *fake.opts.Model)
	require.NotNil(t, fake.opts.MaxTokens)
	assert.Equal(t, 500, *fake.opts.MaxTokens)
	require.NotNil(t, fake.opts.Temperature)
	assert.InDelta(t, 0.7, *fake.opts.Temperature, 0.0001)
}

func TestEinoAdapter_Errors(t *testing.T) {
	t.Run("model error is wrapped", func(t *testing.T) {
		adapter := NewEinoAdapter("gemini", &fakeChatModel{err: errors.New("quota exceeded")})
		_, err := adapter.GenerateResponse(context.Background(), sampleRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gemini")
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("nil message", func(t *testing.T) {
		adapter := NewEinoAdapter("gemini", &fakeChatModel{})
		_, err := adapter.GenerateResponse(context.Background(), sampleRequest())
		assert.Error(t, err)
	})
}

func TestOpenAIAdapter_AgainstCompatibleServer(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hallo!"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 2, "total_tokens": 11}
		}`))
	}))
	defer srv.Close()

	adapter, err := NewOpenAIAdapter(context.Background(), OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", adapter.Name())

	resp, err := adapter.GenerateResponse(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hallo!", resp.Text)
	assert.Equal(t, 9, resp.InputTokens)

	require.NotNil(t, gotBody)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 4)
}

func TestOpenAIAdapter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
	}))
	defer srv.Close()

	adapter, err := NewOpenAIAdapter(context.Background(), OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	_, err = adapter.GenerateResponse(context.Background(), sampleRequest())
	assert.Error(t, err)
}

func TestConvertToLibraryRequest(t *testing.T) {
	libReq := ConvertToLibraryRequest(sampleRequest())

	require.Len(t, libReq.Messages, 3)
	assert.Equal(t, "assistant", libReq.Messages[1].Role)
	require.Len(t, libReq.Messages[1].Blocks, 1)
	assert.Equal(t, "Hallo!", *libReq.Messages[1].Blocks[0].TextContent)

	require.NotNil(t, libReq.Params)
	require.NotNil(t, libReq.Params.System)
	assert.Equal(t, "Always reply in German.", *libReq.Params.System)
	require.NotNil(t, libReq.Params.MaxTokens)
	assert.Equal(t, 500, *libReq.Params.MaxTokens)
}

func TestConvertToLibraryRequest_OmitsZeroParams(t *testing.T) {
	libReq := ConvertToLibraryRequest(&domainllm.GenerateRequest{
		Messages: []domainllm.Message{{Role: "user", Content: "Hi"}},
		Model:    "lorem-fast",
	})

	assert.Nil(t, libReq.Params.System)
	assert.Nil(t, libReq.Params.MaxTokens)
	assert.Nil(t, libReq.Params.Temperature)
}
