package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/questiongen"
	"github.com/abhisek/careerpath/internal/simulate"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run complete assessments without a learner (nothing is saved)",
	Long: `Play full 35-question assessments with a fixed answering strategy and
report the outcome of each run. Useful for checking catalog coverage and
how often dynamic questions fall back to the local catalog.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntP("runs", "n", 1, "Number of assessments to run")
	simulateCmd.Flags().IntP("concurrency", "c", 4, "Assessments run at the same time")
	simulateCmd.Flags().StringP("strategy", "s", "random", "Answering strategy: first, random or a category name")
	simulateCmd.Flags().Uint64("seed", uint64(time.Now().UnixNano()), "Seed for the random strategy")
	simulateCmd.Flags().String("education", string(assessment.EducationUndergraduate), "Education level of the simulated learner")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	runs, _ := cmd.Flags().GetInt("runs")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	strategyVal, _ := cmd.Flags().GetString("strategy")
	seed, _ := cmd.Flags().GetUint64("seed")
	education, _ := cmd.Flags().GetString("education")

	strategy, err := simulate.ParseStrategy(strings.ToLower(strategyVal), seed)
	if err != nil {
		return err
	}
	level := assessment.EducationLevel(education)
	if !validEducation(level) {
		return fmt.Errorf("invalid education level %q", education)
	}

	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	runner := simulate.NewRunner(e.catalog, e.provider, e.logger)
	outcomes, err := runner.Run(cmd.Context(), simulate.Config{
		Runs:        runs,
		Concurrency: concurrency,
		Profile:     assessment.Profile{Learner: "simulated", EducationLevel: level},
		Strategy:    strategy,
		GenConfig:   questiongen.DefaultConfig(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%-4s  %-11s  %-9s  %-6s  %-8s  %-6s  %s\n",
		"Run", "Interest", "Knowledge", "Remote", "Fallback", "Unique", "Time")
	fmt.Println(strings.Repeat("─", 64))
	for _, o := range outcomes {
		fmt.Printf("%-4d  %-11s  %-9s  %-6d  %-8d  %-6d  %s\n",
			o.Run,
			o.Result.DominantInterest,
			fmt.Sprintf("%d/5", o.Result.KnowledgeScore),
			o.Remote,
			o.Fallback,
			o.Unique,
			o.Duration.Round(time.Millisecond),
		)
	}

	dist := simulate.Distribution(outcomes)
	fmt.Println()
	fmt.Printf("Strategy %s over %d runs:\n", strategy.Name(), len(outcomes))
	for _, c := range assessment.Categories {
		if dist[c] > 0 {
			fmt.Printf("  %-11s %d\n", c, dist[c])
		}
	}
	return nil
}

func validEducation(l assessment.EducationLevel) bool {
	for _, v := range assessment.EducationLevels {
		if v == l {
			return true
		}
	}
	return false
}
