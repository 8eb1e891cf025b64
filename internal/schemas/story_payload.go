// Package schemas описывает формат ответа нейросети для генерации истории
// и выполняет его строгий разбор.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Ошибки разбора ответа нейросети
var (
	ErrEmptyResponse   = errors.New("пустой ответ нейросети")
	ErrInvalidPayload  = errors.New("некорректный формат ответа нейросети")
	ErrMissingTitle    = errors.New("в ответе отсутствует заголовок истории")
	ErrMissingRootNode = errors.New("в ответе отсутствует корневой узел")
)

// StoryOptionPayload — вариант выбора в ответе нейросети.
// NextNode вложен рекурсивно: модель отдает дерево целиком.
type StoryOptionPayload struct {
	Text     string            `json:"text"`
	NextNode *StoryNodePayload `json:"nextNode"`
}

// StoryNodePayload — узел повествования в ответе нейросети.
type StoryNodePayload struct {
	Content         string               `json:"content"`
	IsEnding        bool                 `json:"isEnding"`
	IsWinningEnding bool                 `json:"isWinningEnding"`
	Options         []StoryOptionPayload `json:"options"`
}

// StoryPayload — корень ответа нейросети.
type StoryPayload struct {
	Title    string            `json:"title"`
	RootNode *StoryNodePayload `json:"rootNode"`
}

// ParseStoryPayload разбирает и валидирует ответ нейросети.
// Модели часто оборачивают JSON в markdown-ограждение, поэтому сначала
// вырезаем само тело JSON.
func ParseStoryPayload(raw string) (*StoryPayload, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var payload StoryPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if strings.TrimSpace(payload.Title) == "" {
		return nil, ErrMissingTitle
	}
	if payload.RootNode == nil {
		return nil, ErrMissingRootNode
	}
	if err := validateNode(payload.RootNode, "rootNode"); err != nil {
		return nil, err
	}

	return &payload, nil
}

// validateNode рекурсивно проверяет инварианты узла:
// концовка не ветвится, не-концовка обязана ветвиться.
func validateNode(node *StoryNodePayload, path string) error {
	if strings.TrimSpace(node.Content) == "" {
		return fmt.Errorf("%w: узел %s без содержимого", ErrInvalidPayload, path)
	}
	if node.IsEnding {
		if len(node.Options) > 0 {
			return fmt.Errorf("%w: концовка %s содержит варианты выбора", ErrInvalidPayload, path)
		}
		return nil
	}
	if len(node.Options) == 0 {
		return fmt.Errorf("%w: узел %s не является концовкой и не имеет вариантов", ErrInvalidPayload, path)
	}
	for i, opt := range node.Options {
		optPath := fmt.Sprintf("%s.options[%d]", path, i)
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("%w: вариант %s без текста", ErrInvalidPayload, optPath)
		}
		if opt.NextNode == nil {
			return fmt.Errorf("%w: вариант %s без узла назначения", ErrInvalidPayload, optPath)
		}
		if err := validateNode(opt.NextNode, optPath+".nextNode"); err != nil {
			return err
		}
	}
	return nil
}

// extractJSON вырезает JSON-объект из ответа, снимая markdown-ограждения
// и окружающий текст.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	// Берем подстроку от первой '{' до последней '}'
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
