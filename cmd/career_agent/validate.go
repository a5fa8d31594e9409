package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/career-advisor/internal/schemas"
	embedded "github.com/jonathan/career-advisor/schemas"
	"github.com/spf13/cobra"
)

var (
	validateSchema string
	validateKind   string
	validateJSON   string
)

// schemaKinds maps --kind values to the schemas embedded in the binary
var schemaKinds = map[string]string{
	"intake":  embedded.IntakeProfile,
	"catalog": embedded.RoleCatalog,
	"result":  embedded.AnalysisResult,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a schema",
	Long: `Validate an intake, role catalog or analysis result document. Use --kind for one of
the built-in schemas (intake, catalog, result) or --schema for a schema file on disk.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd.OutOrStdout(), validateSchema, validateKind, validateJSON)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON Schema file")
	validateCmd.Flags().StringVar(&validateKind, "kind", "", "Built-in schema: intake, catalog or result")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON document (required)")
	validateCmd.MarkFlagsMutuallyExclusive("schema", "kind")
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(out io.Writer, schemaPath, kind, jsonPath string) error {
	var err error
	switch {
	case kind != "":
		name, ok := schemaKinds[kind]
		if !ok {
			return fmt.Errorf("unknown schema kind %q (want intake, catalog or result)", kind)
		}
		data, readErr := os.ReadFile(jsonPath)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", jsonPath, readErr)
		}
		err = schemas.ValidateEmbedded(name, data)
	case schemaPath != "":
		resolved := schemas.ResolveSchemaPath(schemaPath)
		if resolved == "" {
			return fmt.Errorf("schema file not found: %s", schemaPath)
		}
		err = schemas.ValidateJSON(resolved, jsonPath)
	default:
		return fmt.Errorf("one of --schema or --kind is required")
	}

	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(out, "Validation failed for %s\n", jsonPath)
		fmt.Fprint(out, verr.Error())
		return fmt.Errorf("%s does not match the schema", jsonPath)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Validation passed: %s\n", jsonPath)
	return nil
}
