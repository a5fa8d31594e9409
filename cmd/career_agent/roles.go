package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	rolesCatalog string
	rolesJSON    bool
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Print the role catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := catalog.LoadOrDefault(rolesCatalog)
		if err != nil {
			return err
		}
		return printRoles(cmd.OutOrStdout(), cat, rolesJSON)
	},
}

func init() {
	rolesCmd.Flags().StringVar(&rolesCatalog, "catalog", "", "Role catalog JSON (defaults to the built-in catalog)")
	rolesCmd.Flags().BoolVar(&rolesJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(rolesCmd)
}

func printRoles(w io.Writer, cat *catalog.Catalog, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cat.File())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tBASE\tGROWTH\tSALARY\tREQUIRED SKILLS")
	for _, role := range cat.Roles() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			role.Title, role.BaseScore, role.Growth, role.SalaryRange, strings.Join(role.RequiredSkills, ", "))
	}
	fmt.Fprintf(tw, "\nCritical skills: %s\n", strings.Join(cat.CriticalSkills(), ", "))
	return tw.Flush()
}
