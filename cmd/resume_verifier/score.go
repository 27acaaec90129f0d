package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-verifier/internal/observability"
	"github.com/jonathan/resume-verifier/internal/risk"
	"github.com/jonathan/resume-verifier/internal/schemas"
	"github.com/jonathan/resume-verifier/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score <bundle.json>",
	Short: "Score a pre-resolved evidence bundle",
	Long: `Run the scoring engine on a JSON document containing a parsed resume and
its fully resolved evidence bundle. No network calls, no persistence: the
same input always produces the same report. This is the offline audit path.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreConfigPath string
	scoreJSON       bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the raw JSON report instead of the formatted view")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(scoreConfigPath)
	if err != nil {
		return err
	}

	doc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read score input: %w", err)
	}

	if err := schemas.ValidateScoreInput(doc); err != nil {
		var vErr *schemas.ValidationError
		if errors.As(err, &vErr) {
			for _, fieldErr := range vErr.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("score input failed validation")
		}
		return err
	}

	var input types.ScoreInput
	if err := json.Unmarshal(doc, &input); err != nil {
		return fmt.Errorf("failed to parse score input: %w", err)
	}

	engine, err := risk.NewEngine(cfg.RiskConfig())
	if err != nil {
		return fmt.Errorf("invalid risk configuration: %w", err)
	}

	report, err := engine.Analyze(&input.Resume, &input.Evidence)
	if err != nil {
		return err
	}

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	observability.NewPrinter(os.Stdout).PrintReport(report)
	return nil
}
