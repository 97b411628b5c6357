package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Client проксирует запросы к chat-completion API Dify. Бэкенд не добавляет своей
// логики поверх ответа: это проброс запроса внешнего советника.
type Client struct {
	apiKey     string
	baseURL    string
	user       string
	httpClient *http.Client
}

type chatRequest struct {
	Inputs       map[string]string `json:"inputs"`
	Query        string            `json:"query"`
	User         string            `json:"user"`
	ResponseMode string            `json:"response_mode"`
}

type chatResponse struct {
	Answer  string `json:"answer"`
	Message string `json:"message,omitempty"`
}

// NewClient создает клиент Dify с заданными параметрами.
func NewClient(apiKey, baseURL, user string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat отправляет запрос советнику и возвращает текст ответа.
func (c *Client) Chat(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errors.New("advisor api key is missing")
	}

	if strings.TrimSpace(query) == "" {
		return "", errors.New("advisor query is empty")
	}

	payload, err := json.Marshal(chatRequest{
		Inputs:       map[string]string{},
		Query:        query,
		User:         c.user,
		ResponseMode: "blocking",
	})
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/chat-messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if response.StatusCode < 200 || response.StatusCode >= 300 {
			return "", fmt.Errorf("advisor api error: %s", strings.TrimSpace(string(body)))
		}
		return "", err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		if parsed.Message != "" {
			return "", fmt.Errorf("advisor api error: %s", parsed.Message)
		}
		return "", fmt.Errorf("advisor api error: %s", strings.TrimSpace(string(body)))
	}

	return parsed.Answer, nil
}

var jsonBlockPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractJSON достает JSON-объект из текстового ответа советника:
// модель может обернуть его в Markdown или пояснительный текст.
func ExtractJSON(text string) (json.RawMessage, bool) {
	match := jsonBlockPattern.FindString(text)
	if match == "" {
		return nil, false
	}

	if !json.Valid([]byte(match)) {
		return nil, false
	}

	return json.RawMessage(match), true
}
