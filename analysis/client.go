// Package analysis sends the evidence bundle to a vision-capable chat model
// and decodes its structured findings. Analysis failure is a hard error for
// the run: a report without findings would be evidence without judgement.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/launchlens/pdpaudit/config"
	"github.com/launchlens/pdpaudit/excerpt"
	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/regions"
)

// Client wraps the OpenAI chat API for the audit's analysis stage.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClient builds the analysis client from configuration. A custom BaseURL
// lets the same client talk to any OpenAI-compatible endpoint.
func NewClient(cfg config.AnalysisConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:       openai.NewClientWithConfig(apiCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

// Analyze audits one captured region: screenshots plus text excerpt in, a
// structured findings document out. The model is instructed to return a JSON
// object matching models.Analysis; responses that fail to decode are an
// analysis failure, not something to repair downstream.
func (c *Client) Analyze(ctx context.Context, bundle *models.EvidenceBundle, region regions.Region, ex *excerpt.Excerpt, profile string) (*models.Analysis, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: userPrompt(bundle, region, ex, profile),
		},
	}
	images := imageParts(bundle, profile)
	if len(images) == 0 {
		return nil, models.NewAuditError(
			models.ErrCodeAnalysisFailure,
			"no screenshot evidence available for analysis",
			nil,
		)
	}
	parts = append(parts, images...)

	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(region)},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, models.NewAuditError(
			models.ErrCodeAnalysisFailure,
			"analysis model returned no choices",
			nil,
		)
	}

	analysis, err := decodeAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, models.NewAuditError(
			models.ErrCodeAnalysisFailure,
			"analysis response was not valid findings JSON",
			err,
		)
	}

	slog.Info("analysis complete",
		"runID", bundle.RunID,
		"region", region.Code,
		"findings", len(analysis.Findings),
		"durationMs", time.Since(start).Milliseconds(),
	)
	return analysis, nil
}

// decodeAnalysis parses the model output, tolerating a fenced code block
// around the JSON since some models wrap despite the response format.
func decodeAnalysis(content string) (*models.Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// classifyAPIError maps transport/API failures onto the audit error codes the
// HTTP layer understands.
func classifyAPIError(err error) *models.AuditError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return models.NewAuditError(
				models.ErrCodeAnalysisAuthFailure,
				"analysis provider rejected credentials",
				err,
			)
		case 429:
			return models.NewAuditError(
				models.ErrCodeAnalysisRateLimited,
				"analysis provider rate limit exceeded",
				err,
			)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewAuditError(
			models.ErrCodeAnalysisFailure,
			"analysis request timed out",
			err,
		)
	}
	return models.NewAuditError(
		models.ErrCodeAnalysisFailure,
		"analysis request failed",
		err,
	)
}
