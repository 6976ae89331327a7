// Package cmd holds the durazno command line.
package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/config"
	"github.com/huertalab/durazno/internal/logging"
	"github.com/huertalab/durazno/internal/store"
)

// cli carries what every subcommand shares once flags are parsed.
type cli struct {
	cfg    config.Config
	logger *slog.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{cfg: config.Default(), logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "durazno",
		Short: "Peach-tree disease diagnostic aid",
		Long: "Durazno diagnoses peach-tree diseases from observed symptoms with a weighted rule\n" +
			"catalogue and, when a model is configured, from leaf and fruit photos.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChecklist(cmd)
		},
	}

	root.PersistentFlags().String("db", "", "Database path or postgres:// DSN (overrides DURAZNO_DB)")
	root.PersistentFlags().String("catalogue", "", "Rule catalogue file, YAML or JSON (overrides DURAZNO_CATALOGUE)")

	root.AddCommand(
		c.newDiagnoseCmd(),
		c.newClassifyCmd(),
		c.newCompareCmd(),
		c.newRulesCmd(),
		c.newSymptomsCmd(),
		c.newKBCmd(),
		c.newSurveyCmd(),
		c.newServeCmd(),
		c.newChecklistCmd(),
		c.newLLMCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	def := slog.LevelWarn
	if cmd.Name() == "serve" {
		def = slog.LevelInfo
	}
	c.logger = logging.Setup(cfg.LogLevel, def)
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DURAZNO_DB, then the default XDG path.
func (c *cli) resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if c.cfg.DB != "" {
		return c.cfg.DB, store.EnsureDir(c.cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the resolved database.
func (c *cli) openStore(cmd *cobra.Command) (*store.Store, error) {
	dsn, err := c.resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(dsn)
}

// storeExists reports whether dsn names a database worth opening for reads:
// any PostgreSQL DSN, or a SQLite file already on disk.
func storeExists(dsn string) bool {
	if store.DialectFor(dsn) == store.DialectPostgres {
		return true
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.Contains(path, ":memory:") {
		return false
	}
	_, err := os.Stat(filepath.Clean(path))
	return err == nil
}
