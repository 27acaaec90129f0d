package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-verifier/internal/ingestion"
	"github.com/jonathan/resume-verifier/internal/logging"
	"github.com/jonathan/resume-verifier/internal/observability"
	"github.com/jonathan/resume-verifier/internal/risk"
	"github.com/jonathan/resume-verifier/internal/types"
	"github.com/jonathan/resume-verifier/internal/verification"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Analyze a resume document end-to-end",
	Long: `Extract structured facts from a resume document (PDF, DOCX, RTF, ODT, or
plain text), verify them against public sources, and print the risk report.

With --offline no network calls are made: every verification resolves to an
explicit unknown, so no flags fire and the trust score stays at 100. This is
useful for checking what the parser extracted.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeConfigPath string
	analyzeJSON       bool
	analyzeOffline    bool
	analyzeUseBrowser bool
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the raw JSON report instead of the formatted view")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "Skip network verification; all evidence resolves to unknown")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for JS-heavy pages (requires Chrome)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(analyzeConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	logger, err := logging.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	parser := ingestion.NewParser(cfg.SkillVocabulary)
	parsed, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	engine, err := risk.NewEngine(cfg.RiskConfig())
	if err != nil {
		return fmt.Errorf("invalid risk configuration: %w", err)
	}

	var bundle *types.EvidenceBundle
	if analyzeOffline {
		bundle = unknownBundle(parsed)
	} else {
		verifier := verification.NewVerifier(verification.Config{
			GitHubToken: cfg.GitHubToken,
			Timeout:     time.Duration(cfg.VerifyTimeout) * time.Second,
			CacheTTL:    time.Duration(cfg.CacheTTL) * time.Second,
			UseBrowser:  cfg.UseBrowser,
			Verbose:     cfg.Verbose,
		}, logger)
		bundle = verifier.GatherEvidence(ctx, parsed)
	}

	report, err := engine.Analyze(parsed, bundle)
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"report":   report,
			"evidence": bundle,
		})
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintParsedResume(parsed)
	if !analyzeOffline {
		printer.PrintEvidence(bundle)
	}
	printer.PrintReport(report)
	return nil
}

// unknownBundle resolves every verification domain to an explicit unknown.
// The engine requires resolved evidence even when nothing was looked up.
func unknownBundle(resume *types.ParsedResume) *types.EvidenceBundle {
	bundle := &types.EvidenceBundle{}
	for _, name := range resume.CompanyNames() {
		bundle.Companies = append(bundle.Companies, types.CompanyVerification{
			CompanyName:       name,
			LegallyRegistered: types.TriUnknown,
			RegistrySource:    types.RegistryNone,
		})
	}
	if resume.GitHubURL != "" {
		bundle.Identity = &types.IdentityVerification{ProfileExists: types.TriUnknown}
	}
	if resume.LinkedInURL != "" {
		bundle.LinkedIn = &types.LinkedInVerification{ProfileReachable: types.TriUnknown}
	}
	return bundle
}
