package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"channelchat/internal/app/chat"
	"channelchat/internal/pkg/logx"
)

const (
	summarizePath = "/api/v1/summarize"
	chatPath      = "/api/v1/chat"

	// maximum accepted response body size.
	maxResponseBytes = 1 << 20
)

type summarizeRequest struct {
	Text string `json:"text"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type chatRequest struct {
	Text               string   `json:"text"`
	PastUserInputs     []string `json:"past_user_inputs"`
	GeneratedResponses []string `json:"generated_responses"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// httpClient implements Service over the service's JSON HTTP API.
type httpClient struct {
	cfg    ServiceConfig
	client *http.Client
	logger zerolog.Logger
}

func newHTTPClient(cfg ServiceConfig) *httpClient {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &httpClient{
		cfg:    cfg,
		client: client,
		logger: logx.Component("Assistant"),
	}
}

// Summarize returns a summary of a newline-separated transcript.
func (c *httpClient) Summarize(ctx context.Context, text string) (string, error) {
	var out summarizeResponse
	if err := c.post(ctx, summarizePath, summarizeRequest{Text: text}, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// Reply returns the chatbot's answer to turn.
func (c *httpClient) Reply(ctx context.Context, turn chat.ChatTurn) (string, error) {
	req := chatRequest{
		Text:               turn.Text,
		PastUserInputs:     turn.PastUserInputs,
		GeneratedResponses: turn.GeneratedResponses,
	}
	if req.PastUserInputs == nil {
		req.PastUserInputs = []string{}
	}
	if req.GeneratedResponses == nil {
		req.GeneratedResponses = []string{}
	}

	var out chatResponse
	if err := c.post(ctx, chatPath, req, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *httpClient) post(ctx context.Context, path string, in, out any) error {
	ctx, cancel := withTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("Assistant request failed.")
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("Assistant returned non-OK status.")
		return fmt.Errorf("call %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}
