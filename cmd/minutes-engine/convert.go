package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/minutes-engine/internal/pipeline"
	"github.com/pdiddy/minutes-engine/internal/rules"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

const (
	defaultBatchSize = 100
	defaultTimeout   = 60 * time.Second
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.docx>",
	Short: "Convert a DOCX minutes file to LaTeX",
	Long: `Convert reads a DOCX minutes file, extracts its structure, optionally
corrects the text through the Cohere API, and writes a LaTeX document.
Embedded images are written to an images/ directory beside the output.

Correction requires a cohere-api-key secret or the --api-key flag; without
one the document passes through with its extracted text unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output .tex path (default: input name with .tex extension)")
	convertCmd.Flags().String("api-key", "", "correction service API key (default: cohere-api-key secret)")
	convertCmd.Flags().String("model", "", "correction model identifier")
	convertCmd.Flags().Int("batch-size", 0, "runs per correction request (default 100)")
	convertCmd.Flags().Duration("timeout", 0, "per-batch correction timeout (default 60s)")
	convertCmd.Flags().String("rules", "", "YAML rules file overriding the built-in abbreviations, escapes, whitelist, and layout")
	convertCmd.Flags().String("cache", "", "path to the on-disk correction cache (disabled when empty)")
	convertCmd.Flags().Bool("no-correct", false, "skip the correction stage even when an API key is available")
	convertCmd.Flags().Bool("polish", false, "capitalize and punctuate paragraph sentences")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".tex"
	}

	rulesPath, _ := cmd.Flags().GetString("rules")
	r := rules.Default()
	if rulesPath != "" {
		var err error
		r, err = rules.Load(rulesPath)
		if err != nil {
			return fmt.Errorf("loading rules: %w", err)
		}
	}
	if polish, _ := cmd.Flags().GetBool("polish"); polish {
		r.Polish = true
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKey = secretDefault("cohere-api-key", apiKey)
	if noCorrect, _ := cmd.Flags().GetBool("no-correct"); noCorrect {
		apiKey = ""
	}

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	model, _ := cmd.Flags().GetString("model")
	cachePath, _ := cmd.Flags().GetString("cache")

	cfg := types.ConvertConfig{
		InputPath:  input,
		OutputPath: output,
		Correction: types.CorrectionConfig{
			APIKey:    apiKey,
			Model:     model,
			BatchSize: batchSize,
			Timeout:   timeout,
			Whitelist: r.Whitelist,
			CachePath: cachePath,
		},
	}

	return pipeline.Convert(cmd.Context(), cfg, r, cmd.OutOrStdout())
}
