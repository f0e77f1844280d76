package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/results"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show or clear saved assessment results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.results.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(list)
		}
		if len(list) == 0 {
			fmt.Println("No results yet. Run `careerpath assess` to take the assessment.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-11s  %-9s  %s\n",
			"ID", "Completed", "Interest", "Knowledge", "Suggested role")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range list {
			fmt.Printf("%-36s  %-16s  %-11s  %-9s  %s\n",
				r.ID,
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				r.DominantInterest,
				fmt.Sprintf("%d/5", r.KnowledgeScore),
				r.Recommendation.SuggestedRole,
			)
		}
		return nil
	},
}

var resultsLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent result in full",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		r, err := e.results.Latest(cmd.Context())
		if err != nil {
			return fmt.Errorf("latest result: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(r)
		}
		if r == nil {
			fmt.Println("No results yet.")
			return nil
		}
		printResult(r)
		return nil
	},
}

var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete locally cached results",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.results.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear results: %w", err)
		}
		fmt.Println("Local results cleared.")
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(r *results.Result) {
	sep := strings.Repeat("─", 60)
	rec := r.Recommendation

	fmt.Printf("ID:          %s\n", r.ID)
	if r.Learner != "" {
		fmt.Printf("Learner:     %s\n", r.Learner)
	}
	fmt.Printf("Education:   %s\n", r.EducationLevel)
	fmt.Printf("Completed:   %s\n", r.CompletedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Interest:    %s\n", r.DominantInterest)
	fmt.Printf("Knowledge:   %d/5 (%s)\n", r.KnowledgeScore, r.KnowledgeLabel)

	fmt.Println()
	fmt.Println(sep)
	fmt.Println("INTEREST SCORES")
	fmt.Println(sep)
	for _, c := range r.TopInterests() {
		fmt.Printf("%-12s %3d\n", c, r.InterestScores[c])
	}

	fmt.Println(sep)
	fmt.Println(strings.ToUpper(rec.Title))
	fmt.Println(sep)
	fmt.Println(rec.Description)
	fmt.Printf("\nSuggested role: %s (%s)\n", rec.SuggestedRole, rec.Industry)
	if len(rec.Careers) > 0 {
		fmt.Println("\nCareers:")
		for _, c := range rec.Careers {
			fmt.Printf("  - %s\n", c)
		}
	}
	if len(rec.Certifications) > 0 {
		fmt.Println("\nCertifications:")
		for _, c := range rec.Certifications {
			fmt.Printf("  - %s (%s, %s)\n    %s\n", c.Name, c.Provider, c.Level, c.Link)
		}
	}
	if len(rec.Courses) > 0 {
		fmt.Println("\nCourses:")
		for _, c := range rec.Courses {
			fmt.Printf("  - %s (%s, %s, %s)\n", c.Name, c.Provider, c.Duration, c.Type)
		}
	}
}

func init() {
	resultsListCmd.Flags().Bool("json", false, "Print results as JSON")
	resultsLatestCmd.Flags().Bool("json", false, "Print the result as JSON")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsLatestCmd)
	resultsCmd.AddCommand(resultsClearCmd)
}
