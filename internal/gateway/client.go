package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/bloom/internal/config"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/domain/content"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/platform/metrics"
	"github.com/phrazzld/bloom/internal/redact"
)

const (
	// DefaultTimeout applies when the configuration sets none.
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 8 << 20
)

// Gateway is the learning API as seen by sessions.
type Gateway interface {
	Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	// SocialLogin signs in with a provider identity. Missing email and name
	// are filled the way the provider's first sign-in would.
	SocialLogin(ctx context.Context, provider, providerUserID, email, name string) (*domain.AuthResponse, error)
	Logout()
	Profile(ctx context.Context) (*domain.User, error)

	Categories(ctx context.Context) ([]domain.Category, error)
	// Courses lists courses, restricted to categoryID when it is not empty.
	Courses(ctx context.Context, categoryID string) ([]domain.Course, error)
	RecommendedCourses(ctx context.Context) ([]domain.Course, error)
	// Course returns the course with levels and lessons in display order.
	Course(ctx context.Context, id string) (*domain.CourseWithLevels, error)
	// Lesson returns the decoded lesson. Undecodable content items are
	// placeholders listed in Lesson.Problems.
	Lesson(ctx context.Context, id string) (*content.Lesson, error)
	LevelLessons(ctx context.Context, levelID string) ([]domain.Lesson, error)

	UserStats(ctx context.Context) (*domain.UserStats, error)
	CourseProgress(ctx context.Context, courseID string) ([]domain.UserProgress, error)
	// LessonProgress returns nil when the lesson was never started.
	LessonProgress(ctx context.Context, lessonID string) (*domain.UserProgress, error)
	UpdateProgress(ctx context.Context, lessonID string, completed bool, score *int) (*domain.UserProgress, error)
	// ConsumeEnergy spends amount (at least 1) and returns the new balance.
	ConsumeEnergy(ctx context.Context, amount int) (int, error)
}

// Client implements Gateway over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

var _ Gateway = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics records every request on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Client for the API rooted at cfg.BaseURL. A nil
// tokens uses a MemoryTokenStore.
func NewClient(cfg config.GatewayConfig, tokens TokenStore, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger.With(slog.String("component", "gateway")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// do sends body (when not nil) to ep and decodes the envelope's data into
// out.
func (c *Client) do(ctx context.Context, ep endpoint, body, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveGatewayRequest(ep.name, outcome(err), time.Since(start))
		if err != nil {
			logger.FromContextOrDefault(ctx, c.logger).Debug("gateway request failed",
				slog.String("endpoint", ep.name),
				slog.String("error", redact.Error(err)))
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", ep.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.method, c.baseURL+ep.path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", ep.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if ep.requiresAuth {
		token, ok := c.tokens.Token()
		if !ok {
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: ep.name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Endpoint: ep.name, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Error != nil && env.Error.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: env.Error.Message}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: "Request failed"}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &ResponseDecodeError{Endpoint: ep.name, Err: err}
	}
	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		message := "Unknown error"
		if env.Error != nil && env.Error.Message != "" {
			message = env.Error.Message
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ResponseDecodeError{Endpoint: ep.name, Err: err}
	}
	return nil
}

func (c *Client) authenticate(
	ctx context.Context,
	ep endpoint,
	body interface{},
) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, ep, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &ResponseDecodeError{Endpoint: ep.name, Err: errors.New("missing token")}
	}
	c.tokens.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, registerEndpoint, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, loginEndpoint, map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) SocialLogin(
	ctx context.Context,
	provider, providerUserID, email, name string,
) (*domain.AuthResponse, error) {
	email, name = domain.SocialProfileDefaults(provider, providerUserID, email, name)
	return c.authenticate(ctx, socialLoginEndpoint, map[string]string{
		"provider":   provider,
		"providerId": providerUserID,
		"email":      email,
		"name":       name,
	})
}

// Logout forgets the stored token.
func (c *Client) Logout() {
	c.tokens.Clear()
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var resp struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, profileEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &ResponseDecodeError{Endpoint: profileEndpoint.name, Err: errors.New("missing user")}
	}
	return resp.User, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.do(ctx, categoriesEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	domain.SortCategories(resp.Categories)
	return resp.Categories, nil
}

func (c *Client) Courses(ctx context.Context, categoryID string) ([]domain.Course, error) {
	var resp struct {
		Courses []domain.Course `json:"courses"`
	}
	if err := c.do(ctx, coursesEndpoint(categoryID), nil, &resp); err != nil {
		return nil, err
	}
	if categoryID == "" {
		return resp.Courses, nil
	}

	filtered := make([]domain.Course, 0, len(resp.Courses))
	for _, course := range resp.Courses {
		if course.CategoryID == categoryID {
			filtered = append(filtered, course)
		}
	}
	return filtered, nil
}

func (c *Client) RecommendedCourses(ctx context.Context) ([]domain.Course, error) {
	var resp struct {
		Courses []domain.Course `json:"courses"`
	}
	if err := c.do(ctx, recommendedCoursesEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Courses, nil
}

func (c *Client) Course(ctx context.Context, id string) (*domain.CourseWithLevels, error) {
	ep := courseEndpoint(id)
	var resp struct {
		Course *domain.CourseWithLevels `json:"course"`
	}
	if err := c.do(ctx, ep, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Course == nil {
		return nil, &ResponseDecodeError{Endpoint: ep.name, Err: errors.New("missing course")}
	}
	domain.SortCourse(resp.Course)
	return resp.Course, nil
}

func (c *Client) Lesson(ctx context.Context, id string) (*content.Lesson, error) {
	ep := lessonEndpoint(id)
	var resp struct {
		Lesson json.RawMessage `json:"lesson"`
	}
	if err := c.do(ctx, ep, nil, &resp); err != nil {
		return nil, err
	}

	lesson, err := content.DecodeLesson(resp.Lesson)
	if err != nil {
		return nil, &ResponseDecodeError{Endpoint: ep.name, Err: err}
	}

	log := logger.FromContextOrDefault(ctx, c.logger)
	for _, problem := range lesson.Problems {
		log.Warn("lesson content item replaced by placeholder",
			slog.String("lesson_id", lesson.ID),
			slog.String("problem", problem.Error()))
	}
	return lesson, nil
}

func (c *Client) LevelLessons(ctx context.Context, levelID string) ([]domain.Lesson, error) {
	var resp struct {
		Lessons []domain.Lesson `json:"lessons"`
	}
	if err := c.do(ctx, levelLessonsEndpoint(levelID), nil, &resp); err != nil {
		return nil, err
	}
	domain.SortLessons(resp.Lessons)
	return resp.Lessons, nil
}

func (c *Client) UserStats(ctx context.Context) (*domain.UserStats, error) {
	var resp struct {
		Stats *domain.UserStats `json:"stats"`
	}
	if err := c.do(ctx, userStatsEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Stats == nil {
		return nil, &ResponseDecodeError{Endpoint: userStatsEndpoint.name, Err: errors.New("missing stats")}
	}
	return resp.Stats, nil
}

func (c *Client) CourseProgress(ctx context.Context, courseID string) ([]domain.UserProgress, error) {
	var resp struct {
		Progress []domain.UserProgress `json:"progress"`
	}
	if err := c.do(ctx, courseProgressEndpoint(courseID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Progress, nil
}

func (c *Client) LessonProgress(ctx context.Context, lessonID string) (*domain.UserProgress, error) {
	var resp struct {
		Progress *domain.UserProgress `json:"progress"`
	}
	if err := c.do(ctx, lessonProgressEndpoint(lessonID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Progress, nil
}

func (c *Client) UpdateProgress(
	ctx context.Context,
	lessonID string,
	completed bool,
	score *int,
) (*domain.UserProgress, error) {
	update := domain.ProgressUpdate{LessonID: lessonID, Completed: &completed, Score: score}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var resp struct {
		Progress *domain.UserProgress `json:"progress"`
	}
	if err := c.do(ctx, updateProgressEndpoint, update, &resp); err != nil {
		return nil, err
	}
	if resp.Progress == nil {
		return nil, &ResponseDecodeError{Endpoint: updateProgressEndpoint.name, Err: errors.New("missing progress")}
	}
	return resp.Progress, nil
}

func (c *Client) ConsumeEnergy(ctx context.Context, amount int) (int, error) {
	if amount < 1 {
		amount = 1
	}

	var resp struct {
		Energy *int `json:"energy"`
	}
	body := struct {
		Amount int `json:"amount"`
	}{Amount: amount}
	if err := c.do(ctx, consumeEnergyEndpoint, body, &resp); err != nil {
		return 0, err
	}
	if resp.Energy == nil {
		return 0, &ResponseDecodeError{Endpoint: consumeEnergyEndpoint.name, Err: errors.New("missing energy")}
	}
	return *resp.Energy, nil
}
