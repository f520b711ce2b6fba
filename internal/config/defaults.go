package config

const (
	defaultWorkDir            = "output"
	defaultTranscriptName     = "transcript.txt"
	defaultCutListName        = "clips.json"
	defaultOutDirName         = "clips"
	defaultFFmpegBin          = "ffmpeg"
	defaultFFprobeBin         = "ffprobe"
	defaultClipTimeoutSeconds = 1800
	defaultWhisperBin         = "whisper-cli"
	defaultWhisperModel       = "~/.cache/reelcut/models/ggml-small.bin"
	defaultWhisperLanguage    = "pt"
	defaultLLMProvider        = ProviderOllama
	defaultOllamaModel        = "qwen2.5:7b"
	defaultOpenRouterModel    = "anthropic/claude-3.5-sonnet"
	defaultChunkLines         = 250
	defaultLLMTimeoutSeconds  = 120
	defaultTemperature        = 0.3
	defaultOllamaURL          = "http://127.0.0.1:11434"
	defaultOllamaContextLen   = 8192
	defaultOpenRouterBaseURL  = "https://openrouter.ai"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Supported cut suggestion providers.
const (
	ProviderOllama     = "ollama"
	ProviderOpenRouter = "openrouter"
)

// Default returns a Config populated with repository defaults. Empty paths
// are derived from the work directory during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
		},
		Encoder: Encoder{
			FFmpegBin:          defaultFFmpegBin,
			FFprobeBin:         defaultFFprobeBin,
			ClipTimeoutSeconds: defaultClipTimeoutSeconds,
		},
		Whisper: Whisper{
			Bin:      defaultWhisperBin,
			Model:    defaultWhisperModel,
			Language: defaultWhisperLanguage,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			ChunkLines:     defaultChunkLines,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			Temperature:    defaultTemperature,
		},
		Ollama: Ollama{
			URL:        defaultOllamaURL,
			ContextLen: defaultOllamaContextLen,
		},
		OpenRouter: OpenRouter{
			BaseURL: defaultOpenRouterBaseURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
