package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains the working file locations of one project.
type Paths struct {
	WorkDir    string `toml:"work_dir"`
	Transcript string `toml:"transcript"`
	CutList    string `toml:"cut_list"`
	OutDir     string `toml:"out_dir"`
}

// Encoder contains the ffmpeg binaries and per-clip limits.
type Encoder struct {
	FFmpegBin          string `toml:"ffmpeg_bin"`
	FFprobeBin         string `toml:"ffprobe_bin"`
	ClipTimeoutSeconds int    `toml:"clip_timeout_seconds"`
}

// Whisper contains whisper.cpp settings for the transcribe step.
type Whisper struct {
	Bin      string `toml:"bin"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
	Threads  int    `toml:"threads"`
}

// LLM selects the cut suggestion provider.
type LLM struct {
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	ChunkLines     int     `toml:"chunk_lines"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Temperature    float64 `toml:"temperature"`
}

// Ollama contains settings for a local Ollama server.
type Ollama struct {
	URL        string `toml:"url"`
	ContextLen int    `toml:"num_ctx"`
}

// OpenRouter contains settings for the hosted chat completions provider.
type OpenRouter struct {
	APIKey       string   `toml:"api_key"`
	BaseURL      string   `toml:"base_url"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelcut.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Encoder    Encoder    `toml:"encoder"`
	Whisper    Whisper    `toml:"whisper"`
	LLM        LLM        `toml:"llm"`
	Ollama     Ollama     `toml:"ollama"`
	OpenRouter OpenRouter `toml:"openrouter"`
	Logging    Logging    `toml:"logging"`
}

const (
	userConfigPath    = "~/.config/reelcut/config.toml"
	projectConfigName = "reelcut.toml"
)

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file. The returned path is the file that
// was read and the flag reports whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath honours an explicit path, then ./reelcut.toml, then the
// per-user file.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s: %w", expanded, err)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	userPath, err := expandPath(userConfigPath)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(userPath); err == nil && !info.IsDir() {
		return userPath, true, nil
	}
	return userPath, false, nil
}

// ClipTimeout returns the per-clip encoder limit, 0 meaning none.
func (c *Config) ClipTimeout() time.Duration {
	return time.Duration(c.Encoder.ClipTimeoutSeconds) * time.Second
}

// LLMTimeout returns the per-request limit for suggestion calls.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	return filepath.Clean(pathValue), nil
}

