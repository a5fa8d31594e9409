package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonathan/career-advisor/internal/analysis"
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/config"
	"github.com/jonathan/career-advisor/internal/observability"
	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/ranking"
	"github.com/jonathan/career-advisor/internal/schemas"
	embedded "github.com/jonathan/career-advisor/schemas"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze an intake JSON file offline",
	Long: `Scores a flat intake profile against the role catalog without touching any store.

The intake must match schemas/intake_profile.schema.json. The result is written as JSON to
--out or stdout.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeIntake    string
	analyzeOut       string
	analyzeStudentID string
	analyzeTopN      int
	analyzePolicy    string
	analyzeCatalog   string
	analyzeVerbose   bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeIntake, "intake", "i", "", "Path to intake profile JSON")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Output file (defaults to stdout)")
	analyzeCmd.Flags().StringVar(&analyzeStudentID, "student-id", "local", "Student ID recorded in the result")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", ranking.StudentTopN, "Number of recommendations; 0 returns every role")
	analyzeCmd.Flags().StringVar(&analyzePolicy, "policy", "", "Experience bonus policy: flat or per_record")
	analyzeCmd.Flags().StringVar(&analyzeCatalog, "catalog", "", "Role catalog JSON (defaults to the built-in catalog)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a readable summary to stderr")

	_ = analyzeCmd.MarkFlagRequired("intake")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeInput collects everything the analyze command needs after flag and config merging
type analyzeInput struct {
	IntakePath  string
	StudentID   string
	CatalogPath string
	Options     ranking.Options
	Now         func() time.Time
	Verbose     bool
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	in := analyzeInput{
		IntakePath:  analyzeIntake,
		StudentID:   analyzeStudentID,
		CatalogPath: analyzeCatalog,
		Options:     ranking.DefaultOptions(),
		Now:         time.Now,
		Verbose:     analyzeVerbose,
	}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if in.Options, err = cfg.Options(); err != nil {
			return err
		}
		if in.CatalogPath == "" {
			in.CatalogPath = cfg.CatalogPath
		}
	}
	if cmd.Flags().Changed("top-n") {
		in.Options.TopN = analyzeTopN
	}
	if analyzePolicy != "" {
		policy, err := ranking.ParseExperiencePolicy(analyzePolicy)
		if err != nil {
			return err
		}
		in.Options.ExperiencePolicy = policy
	}

	out := cmd.OutOrStdout()
	if analyzeOut != "" {
		f, err := os.Create(analyzeOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	return analyzeFile(in, out, cmd.ErrOrStderr())
}

// analyzeFile validates and scores one intake file, writing the indented result to out.
// A result that fails its output schema is reported on errOut but still written.
// Verbose mode also prints a readable summary to errOut.
func analyzeFile(in analyzeInput, out, errOut io.Writer) error {
	data, err := os.ReadFile(in.IntakePath)
	if err != nil {
		return fmt.Errorf("failed to read intake: %w", err)
	}
	if err := schemas.ValidateEmbedded(embedded.IntakeProfile, data); err != nil {
		return fmt.Errorf("intake does not match schema: %w", err)
	}

	var intake profile.FlatIntakeProfile
	if err := json.Unmarshal(data, &intake); err != nil {
		return fmt.Errorf("failed to parse intake: %w", err)
	}
	if err := intake.Validate(); err != nil {
		return err
	}

	cat, err := catalog.LoadOrDefault(in.CatalogPath)
	if err != nil {
		return err
	}

	p := profile.Normalize(in.StudentID, profile.FromFlatIntake(&intake))
	result := analysis.Evaluate(cat, &p, in.Options)
	if in.Now != nil {
		result.AnalyzedAt = in.Now().UTC()
	}

	if in.Verbose {
		printer := observability.NewPrinter(errOut)
		printer.PrintProfile(&p)
		printer.PrintResult(result)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := schemas.ValidateEmbedded(embedded.AnalysisResult, encoded); err != nil {
		fmt.Fprintf(errOut, "Warning: result does not match schema: %v\n", err)
	}

	if _, err := out.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
