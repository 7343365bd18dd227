package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/pkg/circuit_breaker"
)

type Config struct {
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	Model   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	BaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
}

// Client calls the generative-language REST backend. Callers see it as an
// opaque capability: prompt in, text out, possibly an error.
type Client struct {
	log    *zap.Logger
	client *http.Client
	cfg    Config
	cb     circuit_breaker.CircuitBreaker
}

func NewClient(log *zap.Logger, cfg Config) *Client {
	return &Client{
		log:    log.Named("gemini"),
		client: &http.Client{Timeout: time.Minute},
		cfg:    cfg,
		cb:     circuit_breaker.New(100, time.Second, 0.2, 2),
	}
}

func (c *Client) CB() circuit_breaker.CircuitBreaker {
	return c.cb
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := c.cb.Call(func() error {
		var err error
		text, err = c.generate(ctx, prompt)
		return err
	})
	return text, err
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.3,
			TopP:            0.7,
			TopK:            20,
			MaxOutputTokens: 512,
		},
	})
	if err != nil {
		return "", err
	}

	ur := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ur, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10)) //nolint:errcheck
		c.log.Warn("generate", zap.Int("status", resp.StatusCode), zap.ByteString("body", data))
		return "", errors.Errorf("generate: status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty candidates")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
