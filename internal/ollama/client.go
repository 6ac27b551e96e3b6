package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"gitmuse/internal/utils"
)

// Typed transport failures. The orchestrator matches these with errors.Is to
// decide between the single model-pull retry and the fallback path.
var (
	ErrUnreachable        = errors.New("ollama service unreachable")
	ErrTimeout            = errors.New("ollama request timed out")
	ErrModelMissing       = errors.New("model not available on ollama")
	ErrMalformedTransport = errors.New("undecodable ollama response")
)

// ChatMessage is one turn of a chat request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []ChatMessage   `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

type chatResponse struct {
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error"`
}

// Client wraps the HTTP calls to a local Ollama instance.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a client for the given base URL. Per-request deadlines
// come from the caller's context; only dialing has a fixed short timeout so
// a stopped service fails fast instead of hanging.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
	}
}

// Chat performs one synchronous chat completion and returns the raw message
// content. Low temperature keeps the output close to the requested JSON shape.
func (c *Client) Chat(ctx context.Context, model, system, user string) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
		Options: map[string]any{
			"temperature": 0.2,
			"top_p":       0.9,
		},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", classifyTransportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrMalformedTransport, err)
	}

	if utils.IsDebug() {
		log.Debug().Int("status", resp.StatusCode).Msgf("ollama chat response: %s", string(body))
	}

	if resp.StatusCode == http.StatusNotFound && bytes.Contains(bytes.ToLower(body), []byte("not found")) {
		return "", fmt.Errorf("%w: %s", ErrModelMissing, model)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrMalformedTransport, resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedTransport, err)
	}
	if out.Error != "" {
		if strings.Contains(strings.ToLower(out.Error), "not found") {
			return "", fmt.Errorf("%w: %s", ErrModelMissing, out.Error)
		}
		return "", fmt.Errorf("%w: %s", ErrMalformedTransport, out.Error)
	}

	return strings.TrimSpace(out.Message.Content), nil
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of all models registered with the service.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrMalformedTransport, resp.StatusCode, string(body))
	}

	var out tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransport, err)
	}

	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// HasModel reports whether the given model is already pulled. A bare name
// matches its ":latest" tag.
func (c *Client) HasModel(ctx context.Context, model string) (bool, error) {
	names, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == model || name == model+":latest" {
			return true, nil
		}
	}
	return false, nil
}

type pullChunk struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Pull downloads a model, reporting each streamed status line through the
// progress callback. Callers own the context; downloads can take minutes.
func (c *Client) Pull(ctx context.Context, model string, progress func(status string)) error {
	payload, err := json.Marshal(map[string]any{"name": model, "stream": true})
	if err != nil {
		return fmt.Errorf("marshal pull request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/pull", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build pull request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrMalformedTransport, resp.StatusCode, string(body))
	}

	lastStatus := ""
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var chunk pullChunk
		if err := json.Unmarshal(sc.Bytes(), &chunk); err != nil {
			continue
		}
		if chunk.Error != "" {
			return fmt.Errorf("pulling %s: %s", model, chunk.Error)
		}
		if progress != nil && chunk.Status != "" && chunk.Status != lastStatus {
			progress(chunk.Status)
			lastStatus = chunk.Status
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: reading pull stream: %v", ErrMalformedTransport, err)
	}

	return nil
}

func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
