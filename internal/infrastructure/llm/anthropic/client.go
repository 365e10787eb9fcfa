package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/resilience"
)

const (
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"
	extractionTool = "record_extraction"
	summaryTool    = "record_evidence_summary"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	MaxTokens          int
	RequestTimeout     time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, apiKey, model string) *Client {
	return NewWithOptions(baseURL, apiKey, model, Options{})
}

func NewWithOptions(baseURL, apiKey, model string, options Options) *Client {
	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	timeout := options.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

// ExtractEvents runs one schema-constrained extraction call and returns
// both the parsed payload and the raw tool input for audit storage.
func (c *Client) ExtractEvents(ctx context.Context, systemPrompt, narrative string) (*domain.ExtractionPayload, json.RawMessage, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, nil, domain.WrapError(domain.ErrConfiguration, "extract events", fmt.Errorf("api key is not set"))
	}
	if strings.TrimSpace(narrative) == "" {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "extract events", fmt.Errorf("narrative is empty"))
	}

	raw, err := c.callTool(ctx, "llm.extract", systemPrompt, narrative, extractionTool, extractionSchema())
	if err != nil {
		return nil, nil, wrapTemporaryIfNeeded("extract events", err)
	}

	if err := validateExtraction(raw); err != nil {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "extract events", err)
	}

	var payload domain.ExtractionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("parse extraction payload: %w", err)
	}
	if len(payload.Events) == 0 && len(payload.ActionItems) == 0 {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "extract events", fmt.Errorf("model returned an empty extraction"))
	}
	return &payload, raw, nil
}

// Summarize produces a short summary and tags for evidence text.
func (c *Client) Summarize(ctx context.Context, text string) (string, []string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, domain.WrapError(domain.ErrConfiguration, "summarize evidence", fmt.Errorf("api key is not set"))
	}
	if strings.TrimSpace(text) == "" {
		return "", nil, domain.WrapError(domain.ErrInvalidInput, "summarize evidence", fmt.Errorf("evidence text is empty"))
	}

	raw, err := c.callTool(ctx, "llm.summarize", buildSummarySystemPrompt(), text, summaryTool, summarySchema())
	if err != nil {
		return "", nil, wrapTemporaryIfNeeded("summarize evidence", err)
	}

	var result struct {
		Summary string   `json:"summary"`
		Tags    []string `json:"tags"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", nil, fmt.Errorf("parse summary payload: %w", err)
	}
	if strings.TrimSpace(result.Summary) == "" {
		return "", nil, domain.WrapError(domain.ErrInvalidInput, "summarize evidence", fmt.Errorf("model returned an empty summary"))
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	return result.Summary, result.Tags, nil
}

type messagesRequest struct {
	Model      string            `json:"model"`
	MaxTokens  int               `json:"max_tokens"`
	System     string            `json:"system,omitempty"`
	Messages   []requestMessage  `json:"messages"`
	Tools      []toolDefinition  `json:"tools"`
	ToolChoice map[string]string `json:"tool_choice"`
}

type requestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type messagesResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *Client) callTool(ctx context.Context, operation, systemPrompt, userText, toolName string, schema json.RawMessage) (json.RawMessage, error) {
	request := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages:  []requestMessage{{Role: "user", Content: userText}},
		Tools: []toolDefinition{{
			Name:        toolName,
			Description: "Record the structured result.",
			InputSchema: schema,
		}},
		ToolChoice: map[string]string{"type": "tool", "name": toolName},
	}

	var response messagesResponse
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, messagesPath, request, &response, operation)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyLLMError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}

	for _, block := range response.Content {
		if block.Type == "tool_use" && block.Name == toolName && len(block.Input) > 0 {
			return block.Input, nil
		}
	}
	return nil, fmt.Errorf("model response contains no %s tool call", toolName)
}
