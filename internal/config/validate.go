package config

import (
	"errors"
	"fmt"

	"github.com/forPelevin/reelcut/internal/ports/adapters/openrouter"
)

// Validate ensures the configuration is usable. Provider credentials are
// checked only for the selected provider.
func (c *Config) Validate() error {
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEncoder() error {
	if c.Encoder.FFmpegBin == "" {
		return errors.New("encoder.ffmpeg_bin must be set")
	}
	if c.Encoder.FFprobeBin == "" {
		return errors.New("encoder.ffprobe_bin must be set")
	}
	if c.Encoder.ClipTimeoutSeconds < 0 {
		return errors.New("encoder.clip_timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.ChunkLines <= 0 {
		return errors.New("llm.chunk_lines must be > 0")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be > 0")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	switch c.LLM.Provider {
	case ProviderOllama:
		if c.Ollama.URL == "" {
			return errors.New("ollama.url must be set")
		}
		if c.Ollama.ContextLen <= 0 {
			return errors.New("ollama.num_ctx must be > 0")
		}
	case ProviderOpenRouter:
		if err := openrouter.ValidateBaseURL(c.OpenRouter.BaseURL, c.OpenRouter.AllowedHosts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("llm.provider: unsupported value %q (want %q or %q)", c.LLM.Provider, ProviderOllama, ProviderOpenRouter)
	}
	return nil
}

// RequireOpenRouterKey reports a missing key only when the key is about to be used.
func (c *Config) RequireOpenRouterKey() error {
	if c.LLM.Provider == ProviderOpenRouter && c.OpenRouter.APIKey == "" {
		return errors.New("OPENROUTER_API_KEY is required when llm.provider is openrouter")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
