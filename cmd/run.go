package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/app"
	"github.com/abhisek/careerpath/internal/backend"
	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/logging"
	"github.com/abhisek/careerpath/internal/notify"
	"github.com/abhisek/careerpath/internal/questiongen"
	"github.com/abhisek/careerpath/internal/results"
	"github.com/abhisek/careerpath/internal/store"
)

// env holds everything a command needs to run assessments.
type env struct {
	logger   *zap.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	provider llm.Provider
	results  *results.Store
	compiler *results.Compiler
	bus      notify.Bus
}

// openEnv opens the store and builds every collaborator. Interactive
// commands pass logToFile so log output does not corrupt the terminal.
func openEnv(cmd *cobra.Command, logToFile bool) (*env, error) {
	ctx := cmd.Context()

	opts := logging.OptionsFromEnv()
	if logToFile {
		dir, err := store.DataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		opts.File = filepath.Join(dir, "careerpath.log")
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{logger: logger, store: st, catalog: cat}

	// The LLM provider is optional: without it every dynamic question
	// comes from the local catalog.
	if offline, _ := cmd.Flags().GetBool("offline"); !offline {
		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), logger)
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			logger.Info("no LLM provider configured, using local questions")
		case err != nil:
			fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
			fmt.Fprintln(os.Stderr, "Dynamic questions will come from the local catalog.")
		default:
			e.provider = provider
		}
	}

	var be backend.Client
	be, err = backend.New(backend.ConfigFromEnv(), logger)
	switch {
	case errors.Is(err, backend.ErrDisabled):
		be = nil
	case err != nil:
		logger.Warn("results service disabled", zap.Error(err))
		be = nil
	}

	e.bus = notify.FromEnv(ctx, logger)
	e.results = results.NewStore(st.ResultCache(), be, logger)
	e.compiler = results.NewCompiler(cat, e.results, e.bus, logger)
	return e, nil
}

// Close drains pending result saves and releases resources.
func (e *env) Close() {
	e.results.Wait()
	_ = e.bus.Close()
	_ = e.store.Close()
	_ = e.logger.Sync()
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(app.Deps{
		Catalog:   e.catalog,
		Provider:  e.provider,
		GenConfig: questiongen.DefaultConfig(),
		Compiler:  e.compiler,
		Results:   e.results,
		Bus:       e.bus,
		Logger:    e.logger,
	})
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Take the assessment in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}
