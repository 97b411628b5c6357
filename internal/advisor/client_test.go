package advisor

import "testing"

// TestExtractJSONFromMarkdown проверяет извлечение JSON из Markdown-блока.
func TestExtractJSONFromMarkdown(t *testing.T) {
	text := "Вот результат:\n```json\n{\"suggestions\": []}\n```"

	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected JSON to be extracted")
	}

	if string(raw) != `{"suggestions": []}` {
		t.Fatalf("unexpected JSON: %s", raw)
	}
}

// TestExtractJSONPlain проверяет извлечение чистого JSON-ответа.
func TestExtractJSONPlain(t *testing.T) {
	raw, ok := ExtractJSON(`{"predictions": [{"month": "2024-07"}]}`)
	if !ok {
		t.Fatal("expected JSON to be extracted")
	}
	if len(raw) == 0 {
		t.Fatal("expected non-empty JSON")
	}
}

// TestExtractJSONInvalid проверяет отказ на невалидном JSON.
func TestExtractJSONInvalid(t *testing.T) {
	if _, ok := ExtractJSON("никакого JSON тут нет"); ok {
		t.Fatal("expected no JSON")
	}

	if _, ok := ExtractJSON("{broken"); ok {
		t.Fatal("expected invalid JSON to be rejected")
	}
}
