package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rupor-github/gencfg"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/slidegen/config"
	"github.com/ByLCY/slidegen/deck"
	"github.com/ByLCY/slidegen/layout"
	canvasrenderer "github.com/ByLCY/slidegen/renderer/canvas"
)

// newLayout builds the layout manager for the configured page size and table.
func newLayout(cfg *config.Config, log *zap.Logger) (*layout.Manager, error) {
	w, h, err := cfg.PageSize()
	if err != nil {
		return nil, err
	}
	opts := []layout.Option{layout.WithLogger(log)}
	table, err := cfg.LoadTable()
	if err != nil {
		return nil, err
	}
	if table != nil {
		opts = append(opts, layout.WithTable(table))
	}
	return layout.New(w, h, opts...)
}

func readDeck(path string) (*deck.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open deck: %w", err)
	}
	defer f.Close()
	return deck.ReadSource(f)
}

// destination resolves the output file: an explicit *.pdf path is used as is,
// anything else is a directory receiving name.pdf.
func destination(arg, name string) (string, error) {
	if strings.EqualFold(filepath.Ext(arg), ".pdf") {
		return arg, nil
	}
	dir := arg
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	return filepath.Join(dir, name+".pdf"), nil
}

func rendererOptions(cfg *config.Config, log *zap.Logger) ([]canvasrenderer.Option, error) {
	opts := []canvasrenderer.Option{
		canvasrenderer.WithLogger(log),
		canvasrenderer.WithResolution(cfg.Render.Resolution),
	}
	for _, f := range cfg.Render.Fonts {
		var (
			res canvasrenderer.FontResource
			err error
		)
		if res.Regular, err = os.ReadFile(f.Regular); err != nil {
			return nil, fmt.Errorf("font %s: %w", f.Family, err)
		}
		if f.Bold != "" {
			if res.Bold, err = os.ReadFile(f.Bold); err != nil {
				return nil, fmt.Errorf("font %s: %w", f.Family, err)
			}
		}
		opts = append(opts, canvasrenderer.WithFont(f.Family, res))
	}
	return opts, nil
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no deck outline specified")
	}
	if cmd.Args().Len() > 2 {
		env.log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	srcPath := cmd.Args().Get(0)

	src, err := readDeck(srcPath)
	if err != nil {
		return err
	}
	settings, err := src.ApplySettings(env.cfg.Deck)
	if err != nil {
		return err
	}
	if err := gencfg.Validate(&settings); err != nil {
		return fmt.Errorf("invalid deck settings: %w", err)
	}
	m, err := newLayout(env.cfg, env.log)
	if err != nil {
		return fmt.Errorf("unable to prepare layout: %w", err)
	}

	gen := deck.NewGenerator(m, settings, env.log, deck.WithSizes(env.cfg.Sizes))
	doc, err := gen.Run(ctx, src.Slides)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// per-slide problems do not stop the run
		errs := multierr.Errors(err)
		for _, e := range errs {
			env.log.Warn("Slide problem", zap.Error(e))
		}
		env.log.Warn("Some slides were not generated completely", zap.Int("problems", len(errs)))
	}

	if jsonPath := cmd.String("layout-json"); jsonPath != "" {
		if err := layout.WriteDebugJSON(doc, jsonPath); err != nil {
			return fmt.Errorf("unable to write slide JSON: %w", err)
		}
		env.log.Info("Slide JSON written", zap.String("file", jsonPath))
	}

	name := doc.FileName
	if field := env.cfg.Render.OutputNameTemplate; field != "" {
		if name, err = expandOutputName(field, doc, srcPath); err != nil {
			return err
		}
	}
	dest, err := destination(cmd.Args().Get(1), name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dest); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("output file already exists: %s", dest)
	}

	imageDir := env.cfg.Render.ImageDir
	if imageDir == "" {
		imageDir = filepath.Dir(srcPath)
	}
	opts, err := rendererOptions(env.cfg, env.log)
	if err != nil {
		return err
	}
	data, err := canvasrenderer.NewRenderer(imageDir, opts...).Render(doc)
	if err != nil {
		return fmt.Errorf("unable to render presentation: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("unable to write presentation: %w", err)
	}
	env.log.Info("Presentation generated", zap.String("file", dest), zap.Int("slides", len(doc.Pages)), zap.String("id", doc.ID))
	return nil
}

// soleDestination returns the optional DESTINATION argument of the dump
// commands, warning about anything after it.
func soleDestination(cmd *cli.Command, log *zap.Logger) string {
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	return cmd.Args().Get(0)
}

// writeArtifact puts data into dest, or onto w when dest is empty. It
// reports where the data went.
func writeArtifact(w io.Writer, dest string, data []byte) (string, error) {
	if dest == "" {
		if _, err := w.Write(data); err != nil {
			return "", err
		}
		return "STDOUT", nil
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

func outputLayout(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	dest := soleDestination(cmd, env.log)

	m, err := newLayout(env.cfg, env.log)
	if err != nil {
		return fmt.Errorf("unable to prepare layout: %w", err)
	}
	data, err := json.MarshalIndent(m.Dump(), "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode layout: %w", err)
	}
	to, err := writeArtifact(os.Stdout, dest, append(data, '\n'))
	if err != nil {
		return fmt.Errorf("unable to write layout: %w", err)
	}
	env.log.Debug("Layout written", zap.String("to", to), zap.Float64("width", m.PageWidth()), zap.Float64("height", m.PageHeight()))
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	dest := soleDestination(cmd, env.log)

	state, dump := "actual", func() ([]byte, error) { return config.Dump(env.cfg) }
	if cmd.Bool("default") {
		state, dump = "default", config.Prepare
	}
	data, err := dump()
	if err != nil {
		return fmt.Errorf("unable to get %s configuration: %w", state, err)
	}
	to, err := writeArtifact(os.Stdout, dest, data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	env.log.Debug("Configuration written", zap.String("state", state), zap.String("to", to))
	return nil
}
