package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect question and recommendation content",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate the embedded catalog, or catalog files in dir",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *catalog.Catalog
			err error
		)
		if len(args) == 1 {
			c, err = catalog.Load(os.DirFS(args[0]))
		} else {
			c, err = catalog.Default()
		}
		if err != nil {
			return fmt.Errorf("catalog invalid:\n%w", err)
		}

		banks := c.Banks()
		fmt.Printf("Catalog %s OK\n", c.Version)
		fmt.Printf("  interest questions:  %d\n", len(banks.Interest))
		fmt.Printf("  knowledge questions: %d\n", len(banks.Knowledge))
		fmt.Printf("  facets:              %d\n", len(c.Facets()))

		authored := 0
		for _, cat := range assessment.Categories {
			for _, f := range c.Facets() {
				if _, ok := c.Fallback(cat, f); ok {
					authored++
				}
			}
		}
		total := len(assessment.Categories) * len(c.Facets())
		fmt.Printf("  authored fallbacks:  %d of %d (rest use the template)\n", authored, total)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
}
