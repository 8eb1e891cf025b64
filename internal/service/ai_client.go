package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Цены за 1М токенов в USD (оценочные, для метрик)
const (
	pricePerMillionInputTokensUSD  = 0.1
	pricePerMillionOutputTokensUSD = 0.4
)

// ErrAIGenerationFailed - ошибка при генерации текста AI
var ErrAIGenerationFailed = errors.New("ошибка генерации текста AI")

// UsageInfo содержит информацию об использовании токенов и стоимости
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	EstimatedCostUSD float64
}

// AIClient интерфейс для взаимодействия с AI API
type AIClient interface {
	// GenerateText генерирует текст на основе системного промта и ввода пользователя.
	// Возвращает сгенерированный текст, информацию об использовании и ошибку.
	GenerateText(ctx context.Context, systemPrompt string, userInput string) (string, UsageInfo, error)
}

// AIClientConfig содержит конфигурацию для клиента нейросети
type AIClientConfig struct {
	ClientType string // openai или ollama
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
}

// NewAIClient создает клиент AI в зависимости от типа из конфигурации
func NewAIClient(cfg AIClientConfig, logger *zap.Logger) (AIClient, error) {
	switch strings.ToLower(cfg.ClientType) {
	case "openai", "":
		return newOpenAIClient(cfg, logger)
	case "ollama":
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("неизвестный тип AI клиента: %s", cfg.ClientType)
	}
}

// calculateCost рассчитывает оценочную стоимость запроса на основе токенов.
func calculateCost(promptTokens, completionTokens int) float64 {
	inputCost := float64(promptTokens) * pricePerMillionInputTokensUSD / 1_000_000.0
	outputCost := float64(completionTokens) * pricePerMillionOutputTokensUSD / 1_000_000.0
	return inputCost + outputCost
}

// estimateTokens оценивает количество токенов через tiktoken, когда
// бэкенд не вернул usage.
func estimateTokens(model, text string) int {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Неизвестная модель — берем универсальную кодировку
		tke, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0
		}
	}
	return len(tke.Encode(text, nil, nil))
}

// --- OpenAI Client Implementation ---

// openAIClient реализует AIClient с использованием go-openai
type openAIClient struct {
	client  *openaigo.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newOpenAIClient(cfg AIClientConfig, logger *zap.Logger) (AIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("не указан API ключ для AI API")
	}

	clientConfig := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	logger.Info("OpenAI клиент создан",
		zap.String("baseURL", clientConfig.BaseURL),
		zap.String("model", cfg.Model))

	return &openAIClient{
		client:  openaigo.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.Named("OpenAIClient"),
	}, nil
}

// GenerateText генерирует текст на основе системного промта и ввода пользователя
func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt string, userInput string) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}

	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: системный промт пуст", ErrAIGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userInput != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userInput,
		})
	}

	requestCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	c.logger.Info("Отправка запроса к AI",
		zap.String("model", c.model),
		zap.Int("systemPromptBytes", len(systemPrompt)),
		zap.Int("userInputBytes", len(userInput)))

	resp, err := c.client.CreateChatCompletion(requestCtx, openaigo.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})

	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Ошибка от AI API", zap.Error(err), zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Error("AI API вернул пустой ответ", zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: получен пустой ответ", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	generatedText := resp.Choices[0].Message.Content
	c.logger.Info("Ответ от AI API получен",
		zap.Duration("duration", duration),
		zap.Int("responseChars", len(generatedText)))

	usageInfo.PromptTokens = resp.Usage.PromptTokens
	usageInfo.CompletionTokens = resp.Usage.CompletionTokens
	usageInfo.TotalTokens = resp.Usage.TotalTokens
	if usageInfo.TotalTokens == 0 {
		// Бэкенд не вернул usage — оцениваем токены сами
		usageInfo.PromptTokens = estimateTokens(c.model, systemPrompt) + estimateTokens(c.model, userInput)
		usageInfo.CompletionTokens = estimateTokens(c.model, generatedText)
		usageInfo.TotalTokens = usageInfo.PromptTokens + usageInfo.CompletionTokens
	}
	usageInfo.EstimatedCostUSD = calculateCost(usageInfo.PromptTokens, usageInfo.CompletionTokens)

	aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.PromptTokens))
	aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.CompletionTokens))
	if usageInfo.EstimatedCostUSD > 0 {
		aiEstimatedCostUSD.With(prometheus.Labels{"model": c.model}).Add(usageInfo.EstimatedCostUSD)
	}

	return generatedText, usageInfo, nil
}
