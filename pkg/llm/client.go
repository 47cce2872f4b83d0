// Package llm provides a client for interacting with Large Language Models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"pai-companion-go/internal/config"
	"strings"
	"time"
)

// ProviderError 表示生成服务调用失败（超时、非 200、输出不可解析）。
// 调用方通过 errors.As 识别后降级到保底回复，绝不向上层抛出。
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError 判断 err 是否为生成服务错误。
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationParams 控制生成行为
type GenerationParams struct {
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Client defines the interface for an LLM client.
type Client interface {
	// Generate 以 role-based 消息与可选 system 提示调用聊天接口，返回完整回复文本。
	// 任何失败都包装为 *ProviderError。
	Generate(ctx context.Context, messages []Message, systemPrompt string, gen *GenerationParams) (string, error)
	// GenerateJSON 调用 Generate 并把输出解析到 out。
	// 输出不是合法 JSON 时返回 *ProviderError，调用方应按可恢复错误处理。
	GenerateJSON(ctx context.Context, messages []Message, systemPrompt string, gen *GenerationParams, out interface{}) error
}

type openAICompatibleClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient creates a new LLM client based on the provider in the config.
func NewClient(cfg config.LLMConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &openAICompatibleClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openAICompatibleClient) Generate(ctx context.Context, messages []Message, systemPrompt string, gen *GenerationParams) (string, error) {
	msgs := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: systemPrompt})
	}
	msgs = append(msgs, messages...)

	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: msgs,
		Stream:   false,
	}
	if gen != nil {
		reqBody.Temperature = gen.Temperature
		reqBody.TopP = gen.TopP
		reqBody.MaxTokens = gen.MaxTokens
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ProviderError{Op: "marshal", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", &ProviderError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ProviderError{Op: "call", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{Op: "call", Err: fmt.Errorf("non-200 status: %s, body: %s", resp.Status, string(bodyBytes))}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &ProviderError{Op: "decode", Err: err}
	}
	if len(chatResp.Choices) == 0 {
		return "", &ProviderError{Op: "decode", Err: errors.New("empty choices")}
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func (c *openAICompatibleClient) GenerateJSON(ctx context.Context, messages []Message, systemPrompt string, gen *GenerationParams, out interface{}) error {
	text, err := c.Generate(ctx, messages, systemPrompt, gen)
	if err != nil {
		return err
	}
	// 模型偶尔会包一层 markdown 代码块，解析前剥掉
	text = stripCodeFence(text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &ProviderError{Op: "parse", Err: fmt.Errorf("invalid json output: %w", err)}
	}
	return nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}
