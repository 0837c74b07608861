// Package api is the HTTP client for the document upload and content
// generation service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/docquiz/internal/model"
)

// Endpoint paths relative to the base URL.
const (
	UploadPath   = "/api/upload"
	GeneratePath = "/api/generate"
)

// Default failure messages when the server sends no error envelope.
const (
	DefaultUploadMessage   = "Upload failed"
	DefaultGenerateMessage = "Generation failed"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 120 * time.Second

// RequestIDHeader carries a per-request id for server-side correlation.
const RequestIDHeader = "X-Request-ID"

// Error is a non-2xx response from the service.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// UserMessage returns the message to show the user.
func (e *Error) UserMessage() string {
	return e.Message
}

// Client talks to the service at BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New returns a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service origin.
func (c *Client) BaseURL() string { return c.baseURL }

type uploadResponse struct {
	SessionID string `json:"session_id"`
}

type generateRequest struct {
	SessionID    string `json:"session_id"`
	Mode         string `json:"mode"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	Language     string `json:"language"`
}

type generateResponse struct {
	Data *model.Content `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// Upload sends the document at path as the multipart field "file" and
// returns the session id. The client-side file checks run first.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	if err := CheckFile(path); err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	body, contentType, err := multipartFile(path)
	if err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	var out uploadResponse
	if err := c.do(ctx, "upload", UploadPath, contentType, body, DefaultUploadMessage, &out); err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", &Error{Op: "upload", Status: http.StatusOK, Message: "upload response is missing session_id"}
	}
	return out.SessionID, nil
}

// Generate requests quiz questions or flashcards for sessionID.
func (c *Client) Generate(ctx context.Context, sessionID string, cfg model.Config) (model.Content, error) {
	payload, err := json.Marshal(generateRequest{
		SessionID:    sessionID,
		Mode:         string(cfg.Mode),
		NumQuestions: cfg.NumQuestions,
		Difficulty:   string(cfg.Difficulty),
		Language:     cfg.Lang,
	})
	if err != nil {
		return model.Content{}, fmt.Errorf("failed to encode generate request: %w", err)
	}
	var out generateResponse
	if err := c.do(ctx, "generate", GeneratePath, "application/json", bytes.NewReader(payload), DefaultGenerateMessage, &out); err != nil {
		return model.Content{}, err
	}
	if out.Data == nil {
		return model.Content{}, &Error{Op: "generate", Status: http.StatusOK, Message: "generate response is missing data"}
	}
	content := selectMode(*out.Data, cfg.Mode)
	if err := ValidateContent(content, cfg.Mode); err != nil {
		return model.Content{}, &Error{Op: "generate", Status: http.StatusOK, Message: err.Error()}
	}
	return content, nil
}

func (c *Client) do(ctx context.Context, op, path, contentType string, body io.Reader, defaultMsg string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	log := c.log.With(zap.String("op", op), zap.String("url", req.URL.String()), zap.String("request_id", reqID))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		if IsTimeout(err) {
			return fmt.Errorf("%s request timed out: %w", op, err)
		}
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	log.Info("request completed", zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Status: resp.StatusCode, Message: envelopeMessage(resp.Body, defaultMsg)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("failed to decode %s response: %v", op, err)}
	}
	return nil
}

func envelopeMessage(r io.Reader, defaultMsg string) string {
	var env errorEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return defaultMsg
	}
	if msg := strings.TrimSpace(env.Error); msg != "" {
		return msg
	}
	return defaultMsg
}

func multipartFile(path string) (io.Reader, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer func() {
		_ = file.Close()
	}()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func selectMode(c model.Content, mode model.Mode) model.Content {
	if mode == model.ModeFlashcard {
		return model.Content{Flashcards: c.Flashcards}
	}
	return model.Content{Quiz: c.Quiz}
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
