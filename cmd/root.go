package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "careerpath",
	Short: "Career path assessment",
	Long: "CareerPath runs a 35-question career assessment: interests, a knowledge check and\n" +
		"a personalised deep dive, ending in a career, certification and course recommendation.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CAREERPATH_DB env var)")
	rootCmd.PersistentFlags().Bool("offline", false, "Serve every dynamic question from the local catalog")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CAREERPATH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
