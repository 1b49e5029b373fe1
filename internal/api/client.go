package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/quizmaker/tg-client/internal/domain/model"
)

// Client — клиент HTTP API платформы QuizMaker. Вся бизнес-логика
// (хранение тестов, проверка ответов, рейтинги, AI-генерация) живет на
// сервере; клиент только выполняет запросы и разбирает ответы.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option настраивает клиента.
type Option func(*Client)

// WithHTTPClient задает собственный HTTP-клиент.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout задает таймаут запросов.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient создает клиента API с указанным базовым URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest выполняет запрос и возвращает тело ответа. Токен добавляется
// заголовком Authorization, если он не пуст. Ответ 401 всегда превращается
// в ErrUnauthorized, прочие ошибочные статусы — в *APIError с текстом
// сервера, если тот его прислал.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		// Тело ошибки может быть не-JSON, тогда остаемся без текста сервера.
		if err := json.Unmarshal(data, &errBody); err == nil {
			apiErr.Message = errBody.Message
		}
		return nil, apiErr
	}

	return data, nil
}

// unmarshal разбирает тело ответа, отличая ошибку формата от сетевой.
func unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Login выполняет вход и возвращает токен доступа.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := unmarshal(data, &result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", &DecodeError{Err: fmt.Errorf("в ответе нет access_token")}
	}

	return result.AccessToken, nil
}

// Register регистрирует нового пользователя.
func (c *Client) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/users", "", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetTests загружает все тесты. Фильтрация и пагинация выполняются
// клиентом поверх загруженного списка, повторных запросов нет.
func (c *Client) GetTests(ctx context.Context, token string) ([]model.Test, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/tests", token, nil)
	if err != nil {
		return nil, err
	}

	var tests []model.Test
	if err := unmarshal(data, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// GetTest загружает один тест. Для авторизованного пользователя сервер
// добавляет его собственные попытки прохождения (testSubmissions).
func (c *Client) GetTest(ctx context.Context, token string, id int) (*model.Test, error) {
	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/tests/%d", id), token, nil)
	if err != nil {
		return nil, err
	}

	var test model.Test
	if err := unmarshal(data, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

// CreateTestRequest — тело запроса создания теста.
type CreateTestRequest struct {
	Title     string           `json:"title"`
	Tags      []string         `json:"tags"`
	Questions []model.Question `json:"questions"`
}

// CreateTest сохраняет тест на сервере и возвращает серверную копию
// с присвоенным ID. После успешного создания черновик клиента больше
// не является источником истины.
func (c *Client) CreateTest(ctx context.Context, token string, req CreateTestRequest) (*model.Test, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/tests", token, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var test model.Test
	if err := unmarshal(data, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

// GenerateTestRequest — параметры AI-генерации теста.
type GenerateTestRequest struct {
	Topic               string `json:"topic"`
	NumberOfQuestions   int    `json:"numberOfQuestions"`
	SpecialInstructions string `json:"specialInstructions"`
}

// GenerateTest запрашивает у сервера полностью сформированный тест по теме.
func (c *Client) GenerateTest(ctx context.Context, token string, req GenerateTestRequest) (*model.Test, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/tests/generate", token, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var test model.Test
	if err := unmarshal(data, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

// SubmitTest отправляет ответы на проверку. Проверка всегда выполняется
// сервером, клиент результат не пересчитывает.
func (c *Client) SubmitTest(ctx context.Context, token string, testID int, answers model.AnswerMap) (*model.SubmissionResult, error) {
	submitted := make([]model.SubmittedAnswer, 0, len(answers))
	for questionID, values := range answers {
		submitted = append(submitted, model.SubmittedAnswer{
			QuestionID: questionID,
			Answers:    values,
		})
	}
	// Порядок ключей map недетерминирован, сортируем для стабильных запросов.
	sort.Slice(submitted, func(i, j int) bool {
		return submitted[i].QuestionID < submitted[j].QuestionID
	})

	body, err := json.Marshal(struct {
		TestID  int                     `json:"testId"`
		Answers []model.SubmittedAnswer `json:"answers"`
	}{
		TestID:  testID,
		Answers: submitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/tests/submit", token, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var result model.SubmissionResult
	if err := unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMe загружает профиль текущего пользователя с историей прохождений.
func (c *Client) GetMe(ctx context.Context, token string) (*model.User, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/users/me", token, nil)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRankings загружает общий рейтинг пользователей.
func (c *Client) GetRankings(ctx context.Context, token string) ([]model.RankingUser, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/users/rankings", token, nil)
	if err != nil {
		return nil, err
	}

	var rankings []model.RankingUser
	if err := unmarshal(data, &rankings); err != nil {
		return nil, err
	}
	return rankings, nil
}

// GetMyRanking загружает персональный рейтинг текущего пользователя.
func (c *Client) GetMyRanking(ctx context.Context, token string) (*model.UserRanking, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/users/my-ranking", token, nil)
	if err != nil {
		return nil, err
	}

	var ranking model.UserRanking
	if err := unmarshal(data, &ranking); err != nil {
		return nil, err
	}
	return &ranking, nil
}

// GetTopPerformers загружает лучшие результаты по конкретному тесту.
func (c *Client) GetTopPerformers(ctx context.Context, token string, testID int) ([]model.TopPerformer, error) {
	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/users/%d/top-performers", testID), token, nil)
	if err != nil {
		return nil, err
	}

	var performers []model.TopPerformer
	if err := unmarshal(data, &performers); err != nil {
		return nil, err
	}
	return performers, nil
}
