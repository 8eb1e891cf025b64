package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// --- Ollama Client Implementation ---

// ollamaClient реализует AIClient с использованием ollama/api
type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// newOllamaClient создает новый клиент для взаимодействия с Ollama
func newOllamaClient(cfg AIClientConfig, logger *zap.Logger) (AIClient, error) {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	// api.NewClient требует URL без суффикса /v1
	ollamaBaseURL := strings.TrimSuffix(cfg.BaseURL, "/v1")
	ollamaBaseURL = strings.TrimSuffix(ollamaBaseURL, "/")

	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга Ollama Base URL '%s': %w", ollamaBaseURL, err)
	}

	logger.Info("Ollama клиент создан",
		zap.String("baseURL", ollamaBaseURL),
		zap.String("model", cfg.Model))

	return &ollamaClient{
		client:  api.NewClient(parsedURL, httpClient),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.Named("OllamaClient"),
	}, nil
}

// GenerateText генерирует текст с использованием Ollama
func (c *ollamaClient) GenerateText(ctx context.Context, systemPrompt string, userInput string) (string, UsageInfo, error) {
	usageInfo := UsageInfo{} // Ollama API не возвращает стоимость

	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: системный промт пуст", ErrAIGenerationFailed)
	}

	messages := []api.Message{
		{Role: "system", Content: systemPrompt},
	}
	if userInput != "" {
		messages = append(messages, api.Message{Role: "user", Content: userInput})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
	}

	requestCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	c.logger.Info("Отправка запроса к Ollama",
		zap.String("model", c.model),
		zap.Int("systemPromptBytes", len(systemPrompt)),
		zap.Int("userInputBytes", len(userInput)))

	var responseText strings.Builder
	var final api.ChatResponse
	err := c.client.Chat(requestCtx, req, func(resp api.ChatResponse) error {
		responseText.WriteString(resp.Message.Content)
		if resp.Done {
			final = resp
		}
		return nil
	})

	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Ошибка от Ollama API", zap.Error(err), zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	generatedText := responseText.String()
	if generatedText == "" {
		c.logger.Error("Ollama API вернул пустой ответ", zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: получен пустой ответ", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	usageInfo.PromptTokens = final.Metrics.PromptEvalCount
	usageInfo.CompletionTokens = final.Metrics.EvalCount
	usageInfo.TotalTokens = usageInfo.PromptTokens + usageInfo.CompletionTokens
	if usageInfo.TotalTokens == 0 {
		usageInfo.PromptTokens = estimateTokens(c.model, systemPrompt) + estimateTokens(c.model, userInput)
		usageInfo.CompletionTokens = estimateTokens(c.model, generatedText)
		usageInfo.TotalTokens = usageInfo.PromptTokens + usageInfo.CompletionTokens
	}

	aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.PromptTokens))
	aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.CompletionTokens))

	c.logger.Info("Ответ от Ollama получен",
		zap.Duration("duration", duration),
		zap.Int("responseChars", len(generatedText)),
		zap.Int("promptTokens", usageInfo.PromptTokens),
		zap.Int("completionTokens", usageInfo.CompletionTokens))

	return generatedText, usageInfo, nil
}
