package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/careerpath/internal/questiongen"
	"github.com/abhisek/careerpath/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve assessments over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		cfg := server.ConfigFromEnv()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		srv := server.New(cfg, server.Deps{
			Catalog:   e.catalog,
			Provider:  e.provider,
			GenConfig: questiongen.DefaultConfig(),
			Compiler:  e.compiler,
			Results:   e.results,
			Logger:    e.logger,
		})
		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CAREERPATH_HTTP_ADDR)")
}
