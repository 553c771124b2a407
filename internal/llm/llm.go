// Package llm generates commit messages, pull-request descriptions and code reviews
// through an OpenAI-compatible chat-completion API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/prompt"
	"github.com/sashabaranov/go-openai"
)

var errMissingAPIKey = errors.New(
	"API key not set, please set OPENAI_API_KEY or run: gitai config set api_key")

// generation holds the fixed sampling parameters of one operation.
type generation struct {
	kind        prompt.Kind
	temperature float32
	maxTokens   int
}

var (
	commitGeneration = generation{kind: prompt.KindCommit, temperature: 0.7, maxTokens: 100}
	prGeneration     = generation{kind: prompt.KindPR, temperature: 0.7, maxTokens: 800}
	reviewGeneration = generation{kind: prompt.KindReview, temperature: 0.3, maxTokens: 1000}
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Options struct {
	APIKey     string
	APIBase    string
	Timeout    time.Duration
	PromptsDir string
}

type Client struct {
	opts     Options
	renderer prompt.Renderer
	chat     chatCompleter
}

// NewClient builds a client from opts. The HTTP client is created lazily so a missing
// API key is reported before any network setup.
func NewClient(opts Options) *Client {
	return &Client{opts: opts, renderer: prompt.Renderer{Dir: opts.PromptsDir}}
}

// NewClientFromConfig maps the resolved configuration onto Options.
func NewClientFromConfig(cfg *config.Config) *Client {
	return NewClient(Options{
		APIKey:     cfg.APIKey,
		APIBase:    cfg.APIBase,
		Timeout:    time.Duration(cfg.Timeout) * time.Second,
		PromptsDir: cfg.PromptsDir,
	})
}

func (c *Client) chatClient() (chatCompleter, error) {
	if c.chat != nil {
		return c.chat, nil
	}
	if strings.TrimSpace(c.opts.APIKey) == "" {
		return nil, errMissingAPIKey
	}

	clientConfig := openai.DefaultConfig(c.opts.APIKey)
	if c.opts.APIBase != "" {
		clientConfig.BaseURL = c.opts.APIBase
	}
	c.chat = openai.NewClientWithConfig(clientConfig)
	return c.chat, nil
}

// GenerateCommitMessage returns a one-line Conventional Commits message for diff.
func (c *Client) GenerateCommitMessage(ctx context.Context, diff string, model string) (string, error) {
	return c.generate(ctx, commitGeneration, prompt.Data{Diff: diff}, model)
}

// GeneratePRDescription returns a Markdown pull-request description for branch.
func (c *Client) GeneratePRDescription(ctx context.Context, commits, diff, branch, model string) (string, error) {
	return c.generate(ctx, prGeneration, prompt.Data{Commits: commits, Diff: diff, Branch: branch}, model)
}

// ReviewCode returns a Markdown code review of diff.
func (c *Client) ReviewCode(ctx context.Context, diff string, model string) (string, error) {
	return c.generate(ctx, reviewGeneration, prompt.Data{Diff: diff}, model)
}

func (c *Client) generate(ctx context.Context, g generation, data prompt.Data, model string) (string, error) {
	chat, err := c.chatClient()
	if err != nil {
		return "", err
	}

	userPrompt, err := c.renderer.Render(g.kind, data)
	if err != nil {
		return "", err
	}

	if model == "" {
		model = config.DefaultModel
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	resp, err := chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemMessage(g.kind)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call LLM: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
