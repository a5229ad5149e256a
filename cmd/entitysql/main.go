package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tordrt/entitysql"
	"github.com/tordrt/entitysql/internal/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "entitysql",
	Short: "Generate SQL statements from entity descriptions",
	Long: `entitysql turns entity descriptions (a YAML declaration file or Go structs
annotated with //entitysql:entity) into CREATE TABLE, INSERT, UPDATE, DELETE
and SELECT statements for MySQL, PostgreSQL or SQLite.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(generateCmd, applyCmd, initCmd, serveCmd)
}

// addGenerationFlags registers the flags shared by every command that
// generates statements. Values only override the config when set.
func addGenerationFlags(fs *pflag.FlagSet) {
	fs.String("dialect", "", "SQL dialect: mysql, postgres, or sqlite (default: mysql)")
	fs.String("placeholder", "", "Placeholder style: dollar or question (default: per dialect)")
	fs.Bool("if-not-exists", false, "Add IF NOT EXISTS to CREATE TABLE")
	fs.Bool("quote", false, "Quote table and column names")
	fs.StringP("entities", "e", "", "Specific entities or tables (comma-separated, optional)")
	fs.StringP("exclude", "x", "", "Entities or tables to skip (comma-separated, optional)")
}

// loadConfig resolves settings: defaults, config file, environment, flags.
// The config file is only required when --config was given explicitly.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}

	if len(args) > 0 {
		cfg.Source = args[0]
	}
	applyFlags(cmd.Flags(), &cfg)
	return cfg, cfg.Validate()
}

func applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	boolean := func(name string, dst *bool) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String() == "true"
		}
	}
	list := func(name string, dst *[]string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = config.SplitList(f.Value.String())
		}
	}

	str("dialect", &cfg.Dialect)
	str("placeholder", &cfg.Placeholder)
	boolean("if-not-exists", &cfg.IfNotExists)
	boolean("quote", &cfg.QuoteIdentifiers)
	list("entities", &cfg.Entities)
	list("exclude", &cfg.ExcludeEntities)
	str("format", &cfg.Format)
	str("output", &cfg.Output)
	str("output-dir", &cfg.OutputDir)
	str("go-package", &cfg.GoPackage)
	str("db-url", &cfg.DatabaseURL)
	str("addr", &cfg.Addr)
}

func options(cfg config.Config) *entitysql.Options {
	return &entitysql.Options{
		Dialect:          cfg.Dialect,
		Placeholder:      cfg.Placeholder,
		IfNotExists:      cfg.IfNotExists,
		QuoteIdentifiers: cfg.QuoteIdentifiers,
		Entities:         cfg.Entities,
		ExcludeEntities:  cfg.ExcludeEntities,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
