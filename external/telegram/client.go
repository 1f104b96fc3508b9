// Package telegram delivers digest messages through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/wibowo/causal-football/internal/platform/logging"
	"github.com/wibowo/causal-football/internal/platform/resilience"
)

const defaultBaseURL = "https://api.telegram.org"

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	BotToken       string
	ChatID         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	botToken       string
	chatID         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		botToken:       strings.TrimSpace(cfg.BotToken),
		chatID:         strings.TrimSpace(cfg.ChatID),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Configured reports whether both bot token and chat id are set.
func (c *Client) Configured() bool {
	return c.botToken != "" && c.chatID != ""
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Send pushes one HTML message to the configured chat. Missing credentials
// are not an error; the message is simply not delivered. That keeps digest
// pushes optional in environments without a bot.
func (c *Client) Send(ctx context.Context, text string) (bool, error) {
	if !c.Configured() {
		c.logger.DebugContext(ctx, "telegram not configured, skipping send")
		return false, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "telegram circuit breaker rejected request", "state", c.breaker.State())
			return false, fmt.Errorf("telegram temporarily unavailable")
		}
	}

	body, err := sonic.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return false, fmt.Errorf("marshal message: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.WriteString(c.baseURL)
	buf.WriteString("/bot")
	buf.WriteString(c.botToken)
	buf.WriteString("/sendMessage")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, buf.String(), bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return false, fmt.Errorf("send message: %s", redactToken(err.Error(), c.botToken))
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.circuitEnabled && resp.StatusCode >= http.StatusInternalServerError {
			c.breaker.RecordFailure()
		}
		return false, fmt.Errorf("telegram status=%d body=%s", resp.StatusCode, abbreviate(raw))
	}

	if c.circuitEnabled {
		c.breaker.RecordSuccess()
	}
	return true, nil
}

func redactToken(value, token string) string {
	if token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 160 {
		return text
	}
	return text[:160] + "..."
}
