package schemas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adventure-server/internal/schemas"
)

func TestParseStoryPayload(t *testing.T) {
	valid := `{
		"title": "Старый замок",
		"rootNode": {
			"content": "Ворота скрипят",
			"isEnding": false,
			"options": [
				{"text": "Войти", "nextNode": {"content": "Вы внутри", "isEnding": true, "isWinningEnding": true, "options": []}}
			]
		}
	}`

	t.Run("Parses a plain JSON object", func(t *testing.T) {
		payload, err := schemas.ParseStoryPayload(valid)

		require.NoError(t, err)
		assert.Equal(t, "Старый замок", payload.Title)
		require.NotNil(t, payload.RootNode)
		require.Len(t, payload.RootNode.Options, 1)
		assert.True(t, payload.RootNode.Options[0].NextNode.IsEnding)
	})

	t.Run("Strips markdown fences around the JSON", func(t *testing.T) {
		fenced := "Вот история:\n```json\n" + valid + "\n```\nНадеюсь, понравится!"

		payload, err := schemas.ParseStoryPayload(fenced)

		require.NoError(t, err)
		assert.Equal(t, "Старый замок", payload.Title)
	})

	t.Run("Empty response", func(t *testing.T) {
		_, err := schemas.ParseStoryPayload("   \n  ")
		assert.ErrorIs(t, err, schemas.ErrEmptyResponse)
	})

	t.Run("Response without JSON object", func(t *testing.T) {
		_, err := schemas.ParseStoryPayload("Извините, не могу сгенерировать историю")
		assert.ErrorIs(t, err, schemas.ErrEmptyResponse)
	})

	t.Run("Broken JSON", func(t *testing.T) {
		_, err := schemas.ParseStoryPayload(`{"title": "Т", "rootNode": {`)
		assert.ErrorIs(t, err, schemas.ErrInvalidPayload)
	})

	t.Run("Missing title", func(t *testing.T) {
		_, err := schemas.ParseStoryPayload(`{"rootNode": {"content": "x", "isEnding": true, "options": []}}`)
		assert.ErrorIs(t, err, schemas.ErrMissingTitle)
	})

	t.Run("Missing root node", func(t *testing.T) {
		_, err := schemas.ParseStoryPayload(`{"title": "Т"}`)
		assert.ErrorIs(t, err, schemas.ErrMissingRootNode)
	})

	t.Run("Ending node with options is invalid", func(t *testing.T) {
		raw := `{
			"title": "Т",
			"rootNode": {
				"content": "x",
				"isEnding": true,
				"options": [{"text": "Дальше", "nextNode": {"content": "y", "isEnding": true, "options": []}}]
			}
		}`
		_, err := schemas.ParseStoryPayload(raw)
		assert.ErrorIs(t, err, schemas.ErrInvalidPayload)
	})

	t.Run("Non-ending node without options is invalid", func(t *testing.T) {
		_, err := schemas.ParseStoryPayload(`{"title": "Т", "rootNode": {"content": "x", "isEnding": false, "options": []}}`)
		assert.ErrorIs(t, err, schemas.ErrInvalidPayload)
	})

	t.Run("Option without destination is invalid", func(t *testing.T) {
		raw := `{"title": "Т", "rootNode": {"content": "x", "options": [{"text": "Дальше"}]}}`
		_, err := schemas.ParseStoryPayload(raw)
		assert.ErrorIs(t, err, schemas.ErrInvalidPayload)
	})
}
