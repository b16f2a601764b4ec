package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/kolah/modelslots/internal/config"
	"github.com/kolah/modelslots/internal/generator"
	"github.com/kolah/modelslots/internal/loader"
	"github.com/kolah/modelslots/internal/scene"
	"github.com/spf13/cobra"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate model slots from the schemas of an OpenAPI document",
		RunE:  runGenerate,
	}

	config.BindFlags(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(cmd.ErrOrStderr())

	result, err := loader.LoadFile(cfg.Spec, loader.Options{Validate: cfg.Validate})
	if err != nil {
		var parseErr *loader.ParseError
		if errors.As(err, &parseErr) {
			logger.Error("document rejected", "spec", cfg.Spec, "stage", parseErr.Stage, "error", parseErr.Err)
		}
		return fmt.Errorf("loading spec: %w", err)
	}

	for _, w := range result.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}

	doc, err := loader.Transform(result)
	if err != nil {
		return fmt.Errorf("transforming spec: %w", err)
	}

	gen, err := generator.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	root := scene.NewRoot(cfg.Root)
	outcome, err := gen.Generate(root, doc)
	if err != nil {
		return fmt.Errorf("generating models: %w", err)
	}

	cmd.PrintErr(outcome.Summary)

	format := scene.Format(cfg.Output.Format)
	if cfg.DryRun || cfg.Output.File == "" {
		return scene.Encode(cmd.OutOrStdout(), root, format)
	}

	f, err := os.Create(cfg.Output.File)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := scene.Encode(f, root, format); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output.File, err)
	}
	cmd.PrintErrf("Written: %s\n", cfg.Output.File)

	return nil
}
