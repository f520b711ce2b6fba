package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forPelevin/reelcut/internal/config"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/pipeline"
)

func bindPaths(cmd *cobra.Command, o *config.Overrides) {
	cmd.Flags().StringVar(&o.Transcript, "transcript", "", "Transcript file (default <work_dir>/transcript.txt)")
	cmd.Flags().StringVar(&o.CutList, "cuts", "", "Cut-list JSON file (default <work_dir>/clips.json)")
}

func bindCut(cmd *cobra.Command, o *config.Overrides) {
	cmd.Flags().StringVar(&o.OutDir, "out", "", "Output directory for clips (default <work_dir>/clips)")
	cmd.Flags().DurationVar(&o.ClipTimeout, "clip-timeout", 0, "Abort a single clip encode after this long (0 keeps the config value)")
}

func bindLLM(cmd *cobra.Command, o *config.Overrides) {
	cmd.Flags().StringVar(&o.Provider, "provider", "", "Suggestion provider: ollama or openrouter")
	cmd.Flags().StringVar(&o.Model, "model", "", "Model name for the provider")
	cmd.Flags().IntVar(&o.ChunkLines, "chunk-lines", 0, "Transcript lines per request")
}

// setup loads config, applies flag overrides and builds the pipeline.
func setup(cmd *cobra.Command, root *rootFlags, o *config.Overrides) (*pipeline.Pipeline, error) {
	cfg, path, exists, err := config.Load(root.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	o.LogLevel = root.logLevel
	o.LogFormat = root.logFormat
	if err := cfg.Apply(*o); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if exists {
		logger.Debug("config loaded", slog.String("path", path))
	}

	return pipeline.New(pipeline.Options{
		Config:   cfg,
		Logger:   logger,
		Stdout:   cmd.OutOrStdout(),
		Progress: os.Stderr,
	}), nil
}

func newTranscribeCommand(root *rootFlags) *cobra.Command {
	o := &config.Overrides{}
	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Transcribe a video into the timestamped transcript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd, root, o)
			if err != nil {
				return err
			}
			input, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return p.Transcribe(cmd.Context(), input)
		},
	}
	cmd.Flags().StringVar(&o.Transcript, "transcript", "", "Transcript file (default <work_dir>/transcript.txt)")
	cmd.Flags().StringVar(&o.Language, "language", "", "Spoken language passed to whisper.cpp")
	return cmd
}

func newSuggestCommand(root *rootFlags) *cobra.Command {
	o := &config.Overrides{}
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask a language model for cut suggestions over the transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd, root, o)
			if err != nil {
				return err
			}
			return p.Suggest(cmd.Context())
		},
	}
	bindPaths(cmd, o)
	bindLLM(cmd, o)
	return cmd
}

func newCutCommand(root *rootFlags) *cobra.Command {
	o := &config.Overrides{}
	cmd := &cobra.Command{
		Use:   "cut <video>",
		Short: "Render every clip of the cut-list as a vertical video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd, root, o)
			if err != nil {
				return err
			}
			input, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			_, err = p.Cut(cmd.Context(), input)
			return err
		},
	}
	bindPaths(cmd, o)
	bindCut(cmd, o)
	return cmd
}

func newRunCommand(root *rootFlags) *cobra.Command {
	o := &config.Overrides{}
	var reuse bool
	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Transcribe, suggest and cut in one go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd, root, o)
			if err != nil {
				return err
			}
			input, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			_, err = p.Run(cmd.Context(), input, reuse)
			return err
		},
	}
	bindPaths(cmd, o)
	bindCut(cmd, o)
	bindLLM(cmd, o)
	cmd.Flags().BoolVar(&reuse, "reuse", false, "Keep an existing transcript and cut-list instead of regenerating them")
	return cmd
}
