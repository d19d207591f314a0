package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/elislabs/elis/internal/ner"
	"github.com/elislabs/elis/internal/ocr"
	"github.com/elislabs/elis/internal/pipeline"
	"github.com/elislabs/elis/internal/vector"
)

func runProcess(args []string) error {
	var fl commonFlags
	var paths []string
	reset := false

	for i := 0; i < len(args); i++ {
		if next, ok := fl.takeCommonFlag(args, i); ok {
			i = next
			continue
		}
		switch {
		case args[i] == "--reset":
			reset = true
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			paths = append(paths, args[i])
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("usage: elis process <path>... [--reset]")
	}

	cfg, err := resolve(fl)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := pipeline.Options{}
	if cfg.OCRCommand.Value != "" {
		src, err := ocr.NewCommandSource(cfg.OCRCommand.Value)
		if err != nil {
			return fmt.Errorf("configuring OCR command: %w", err)
		}
		opts.OCR = src
	}
	if cfg.NEREndpoint.Value != "" {
		opts.Model = ner.NewRemote(cfg.NEREndpoint.Value)
	}

	embedder, cleanup, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	if embedder != nil {
		opts.Index = vector.NewIndex(s, embedder)
	}

	ctx := context.Background()
	if reset {
		if err := s.Reset(ctx); err != nil {
			return fmt.Errorf("resetting database: %w", err)
		}
		fmt.Println("Database reset.")
	}

	inputs := make([]pipeline.Input, 0, len(paths))
	for _, path := range paths {
		inputs = append(inputs, pipeline.Input{Path: path})
	}

	runner := pipeline.NewRunner(pipeline.New(s, opts), os.Stdout)
	summary := runner.Run(ctx, inputs)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Processed)
	}
	return nil
}
