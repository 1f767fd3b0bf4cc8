// Package main provides the sigdraw command line.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/sigdraw/internal/config"
	"github.com/ivlev/sigdraw/internal/director"
	"github.com/ivlev/sigdraw/internal/engine"
	"github.com/ivlev/sigdraw/internal/logging"
	"github.com/ivlev/sigdraw/internal/source"
	"github.com/ivlev/sigdraw/internal/system"
)

const (
	inputDir  = "input/paths"
	outputDir = "output"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sigdraw",
		Short:         "Animated signature renderer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newTimingCmd())
	return rootCmd
}

func newRenderCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a path document as SVG, PNG, GIF or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.format, "format", config.FormatSVG, "output format: svg, png, gif, json")
	cmd.Flags().BoolVar(&opts.static, "static", false, "draw everything at once instead of animating")
	cmd.Flags().BoolVar(&opts.minify, "minify", false, "compact SVG output")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel frame renderers (0: logical CPUs)")
	cmd.Flags().StringVar(&opts.idPrefix, "id-prefix", "", "prefix for ids and classes in the SVG")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "report timings and ink coverage of GIF frames")
	return cmd
}

func newTimingCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "timing",
		Short: "Write the allocated stroke timings as a YAML scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTiming(cmd, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runRender(cmd *cobra.Command, opts *options) error {
	logger, err := logging.New(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	cfg, src, err := opts.prepare(cmd, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	if opts.output == "" {
		opts.output = system.OutputName(outputDir, cfg.InputPath, cfg.Format)
	}
	cfg.OutputPath = opts.output

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, src, engine.WithLogger(logger))
	return writeOutput(cfg.OutputPath, cmd.OutOrStdout(), func(w io.Writer) error {
		return project.Render(ctx, w)
	}, logger)
}

func runTiming(cmd *cobra.Command, opts *options) error {
	logger, err := logging.New(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	cfg, src, err := opts.prepare(cmd, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	if opts.output == "" {
		opts.output = director.GenerateScenarioPath(outputDir)
	}

	project := engine.NewProject(cfg, src, engine.WithLogger(logger))
	return writeOutput(opts.output, cmd.OutOrStdout(), project.WriteTiming, logger)
}

// writeOutput renders into memory first so a failed render leaves no file
// behind. A path of "-" writes to stdout.
func writeOutput(path string, stdout io.Writer, render func(io.Writer) error, logger *zap.Logger) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if path == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	logger.Info("[+++] Done", zap.String("output", path))
	return nil
}

// openSource picks the path provider: inline text, an explicit document or
// the newest document in the input directory.
func openSource(input, text string, fontSize float64, logger *zap.Logger) (source.Source, string, error) {
	if text != "" {
		return source.NewBoxSource(text, fontSize, 0), "", nil
	}
	if input == "" {
		latest, err := system.FindLatestDocument(inputDir)
		if err != nil {
			return nil, "", fmt.Errorf("%w: put a path document into %s/ or pass --input/--text", err, inputDir)
		}
		input = latest
		logger.Info("[*] Using latest document", zap.String("input", input))
	}
	src, err := source.NewFileSource(input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open input: %w", err)
	}
	return src, input, nil
}
