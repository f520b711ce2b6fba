// Package ollama asks a local Ollama server for cut suggestions.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/cutlist"
	"github.com/forPelevin/reelcut/internal/domain/suggest"
)

type Adapter struct {
	url         string
	model       string
	temperature float64
	numCtx      int
	timeout     time.Duration
	client      *http.Client
}

type Options struct {
	BaseURL     string
	Model       string
	Temperature float64
	NumCtx      int
	Timeout     time.Duration
}

func New(opts Options) *Adapter {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = "http://127.0.0.1:11434"
	}
	if opts.NumCtx <= 0 {
		opts.NumCtx = 8192
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &Adapter{
		url:         base + "/api/generate",
		model:       opts.Model,
		temperature: opts.Temperature,
		numCtx:      opts.NumCtx,
		timeout:     opts.Timeout,
		client:      &http.Client{},
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format"`
	Options generateOptions `json:"options"`
}

// Suggest posts one non-streaming JSON-mode generate request.
func (a *Adapter) Suggest(ctx context.Context, transcriptChunk string) (json.RawMessage, error) {
	body, err := json.Marshal(generateRequest{
		Model:  a.model,
		Prompt: suggest.UserPrompt(transcriptChunk),
		System: suggest.SystemPrompt,
		Format: "json",
		Options: generateOptions{
			Temperature: a.temperature,
			NumCtx:      a.numCtx,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("ollama timeout after %s (model=%s)", a.timeout, a.model)
		}
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var out struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama: %s", out.Error)
	}
	doc, err := cutlist.ExtractDocument(out.Response)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return doc, nil
}
