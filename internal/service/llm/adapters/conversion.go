package adapters

import (
	"strings"

	"github.com/cloudwego/eino/schema"
	llmprovider "github.com/haowjy/meridian-llm-go"

	domainllm "polychat/internal/domain/services/llm"
)

// ConvertToLibraryRequest converts a backend GenerateRequest to the meridian-llm-go
// request shape. Each message becomes a single text block.
func ConvertToLibraryRequest(req *domainllm.GenerateRequest) *llmprovider.GenerateRequest {
	messages := make([]llmprovider.Message, len(req.Messages))
	for i, msg := range req.Messages {
		text := msg.Content
		messages[i] = llmprovider.Message{
			Role: msg.Role,
			Blocks: []*llmprovider.Block{{
				BlockType:   "text",
				Sequence:    0,
				TextContent: &text,
			}},
		}
	}

	params := &llmprovider.RequestParams{}
	if req.MaxTokens > 0 {
		maxTokens := req.MaxTokens
		params.MaxTokens = &maxTokens
	}
	if req.Temperature > 0 {
		temperature := req.Temperature
		params.Temperature = &temperature
	}
	if req.System != "" {
		system := req.System
		params.System = &system
	}

	return &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
		Params:   params,
	}
}

// convertFromLibraryResponse flattens the text blocks of a library response.
// Non-text blocks (thinking, tool calls) are dropped.
func convertFromLibraryResponse(resp *llmprovider.GenerateResponse) *domainllm.GenerateResponse {
	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.TextContent == nil || block.BlockType != "text" {
			continue
		}
		sb.WriteString(*block.TextContent)
	}

	return &domainllm.GenerateResponse{
		Text:         sb.String(),
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		StopReason:   resp.StopReason,
	}
}

// convertToEinoMessages prepends the system prompt and maps roles onto eino messages.
func convertToEinoMessages(req *domainllm.GenerateRequest) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, schema.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case "assistant":
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		case "system":
			messages = append(messages, schema.SystemMessage(msg.Content))
		default:
			messages = append(messages, schema.UserMessage(msg.Content))
		}
	}
	return messages
}

func convertFromEinoMessage(msg *schema.Message, model string) *domainllm.GenerateResponse {
	resp := &domainllm.GenerateResponse{
		Text:  msg.Content,
		Model: model,
	}
	if msg.ResponseMeta != nil {
		resp.StopReason = msg.ResponseMeta.FinishReason
		if usage := msg.ResponseMeta.Usage; usage != nil {
			resp.InputTokens = usage.PromptTokens
			resp.OutputTokens = usage.CompletionTokens
		}
	}
	return resp
}
