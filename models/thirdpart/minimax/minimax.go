package minimax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/config"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"
)

const (
	// DefaultChatPath MiniMax 对话接口路径
	DefaultChatPath = "/v1/text/chatcompletion_v2"
	// OpenAIChatPath OpenAI 兼容服务的对话接口路径
	OpenAIChatPath = "/chat/completions"
)

// Client 对话补全客户端，兼容 MiniMax 与 OpenAI 协议
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	chatPath    string
	maxTokens   int
	temperature float64
	topP        float64
	httpClient  *http.Client
}

// Options 客户端参数，零值字段使用配置文件中的值
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	ChatPath    string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Message 消息结构
type Message struct {
	Role    string `json:"role"`           // system/user/assistant
	Content string `json:"content"`        // 消息内容
	Name    string `json:"name,omitempty"` // 可选的名称字段
}

// ResponseFormat 响应格式控制
type ResponseFormat struct {
	Type       string      `json:"type"`                  // json_object 或 json_schema
	JSONSchema *JSONSchema `json:"json_schema,omitempty"` // JSON Schema定义
}

// JSONSchema 结构化输出schema
type JSONSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Schema      map[string]interface{} `json:"schema"`
}

// ChatCompletionRequest 对话请求
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Choice 响应选项
type Choice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message,omitempty"`
	FinishReason string   `json:"finish_reason,omitempty"` // stop/length
}

// Usage token使用统计
type Usage struct {
	TotalTokens      int `json:"total_tokens"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// BaseResp MiniMax 业务状态
type BaseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

// ChatCompletionResponse 对话响应
type ChatCompletionResponse struct {
	ID       string    `json:"id"`
	Object   string    `json:"object"`
	Created  int64     `json:"created"`
	Model    string    `json:"model"`
	Choices  []Choice  `json:"choices"`
	Usage    *Usage    `json:"usage,omitempty"`
	BaseResp *BaseResp `json:"base_resp,omitempty"`
}

// NewClient 创建客户端（从全局配置）
func NewClient() (*Client, error) {
	return NewClientWithOptions(Options{})
}

// NewClientWithOptions 以配置文件为底，覆盖非零的自定义参数。
// 用于请求级别的 key/base url/model 覆盖。
func NewClientWithOptions(opts Options) (*Client, error) {
	cfg := config.GetInstance().MiniMaxConfig

	client := &Client{
		apiKey:      firstNonEmpty(opts.APIKey, cfg.APIKey),
		model:       firstNonEmpty(opts.Model, cfg.Model),
		baseURL:     strings.TrimRight(firstNonEmpty(opts.BaseURL, cfg.BaseURL), "/"),
		chatPath:    firstNonEmpty(opts.ChatPath, cfg.ChatPath, DefaultChatPath),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		httpClient:  opts.HTTPClient,
	}
	if opts.MaxTokens > 0 {
		client.maxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		client.temperature = opts.Temperature
	}
	if client.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = time.Duration(cfg.Timeout) * time.Second
		}
		client.httpClient = &http.Client{Timeout: timeout}
	}

	if err := client.ValidateConfig(); err != nil {
		return nil, err
	}
	return client, nil
}

// ChatCompletion 同步对话接口
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, format *ResponseFormat) (*ChatCompletionResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty")
	}

	req := &ChatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
		TopP:           c.topP,
		ResponseFormat: format,
	}
	return c.doRequest(ctx, req)
}

// doRequest 执行同步请求
func (c *Client) doRequest(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	apiURL := c.baseURL + c.chatPath

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	// 检查状态码（限制错误响应体大小）
	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1024)) // 限制读取1KB
		if err != nil {
			return nil, fmt.Errorf("API request failed with status %d and could not read body: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}
	log.Debugf("chat completion response: %s", truncate(string(respBody), 2048))

	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	// 检查业务错误
	if result.BaseResp != nil && result.BaseResp.StatusCode != 0 {
		return nil, fmt.Errorf("API error %d: %s", result.BaseResp.StatusCode, result.BaseResp.StatusMsg)
	}
	return &result, nil
}

// SimpleChatWithSystem 带系统提示的简单对话
func (c *Client) SimpleChatWithSystem(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}

	resp, err := c.ChatCompletion(ctx, messages, &ResponseFormat{Type: "json_object"})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ValidateConfig 验证配置
func (c *Client) ValidateConfig() error {
	if c.apiKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.baseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// GetModel 获取当前模型
func (c *Client) GetModel() string {
	return c.model
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
