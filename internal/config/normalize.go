package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("OPENROUTER_API_KEY", &c.OpenRouter.APIKey)
	set("OPENROUTER_BASE_URL", &c.OpenRouter.BaseURL)
	set("REELCUT_LLM_PROVIDER", &c.LLM.Provider)
	set("REELCUT_LLM_MODEL", &c.LLM.Model)
	set("OLLAMA_URL", &c.Ollama.URL)
	if v, ok := lookup("OPENROUTER_ALLOWED_HOSTS"); ok && strings.TrimSpace(v) != "" {
		c.OpenRouter.AllowedHosts = splitList(v)
	}
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Transcript) == "" {
		c.Paths.Transcript = filepath.Join(c.Paths.WorkDir, defaultTranscriptName)
	}
	if c.Paths.Transcript, err = expandPath(c.Paths.Transcript); err != nil {
		return fmt.Errorf("paths.transcript: %w", err)
	}
	if strings.TrimSpace(c.Paths.CutList) == "" {
		c.Paths.CutList = filepath.Join(c.Paths.WorkDir, defaultCutListName)
	}
	if c.Paths.CutList, err = expandPath(c.Paths.CutList); err != nil {
		return fmt.Errorf("paths.cut_list: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutDir) == "" {
		c.Paths.OutDir = filepath.Join(c.Paths.WorkDir, defaultOutDirName)
	}
	if c.Paths.OutDir, err = expandPath(c.Paths.OutDir); err != nil {
		return fmt.Errorf("paths.out_dir: %w", err)
	}
	if c.Whisper.Model, err = expandPath(c.Whisper.Model); err != nil {
		return fmt.Errorf("whisper.model: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderOpenRouter:
			c.LLM.Model = defaultOpenRouterModel
		default:
			c.LLM.Model = defaultOllamaModel
		}
	}
	c.Ollama.URL = strings.TrimRight(strings.TrimSpace(c.Ollama.URL), "/")
	c.OpenRouter.APIKey = strings.TrimSpace(c.OpenRouter.APIKey)
	c.OpenRouter.BaseURL = strings.TrimSpace(c.OpenRouter.BaseURL)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
