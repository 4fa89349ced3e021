package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"symptom-checker/internal/db"
	"symptom-checker/internal/reference"
)

var (
	flagSeedFrom string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the CSV reference datasets into Postgres",
	Long: `Reads the four CSV datasets from a directory and replaces their copies in the
database named by data.database_url (or DATABASE_URL). Running servers are
notified but keep serving the data they loaded at startup.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&flagSeedFrom, "from", "", "Directory holding the CSV datasets (default: data.dir)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if cfg.Data.DatabaseURL == "" {
		return fmt.Errorf("no database configured: set data.database_url or DATABASE_URL")
	}
	dir := flagSeedFrom
	if dir == "" {
		dir = cfg.Data.Dir
	}
	ctx := cmd.Context()

	conn, err := db.Open(ctx, cfg.Data.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	repo := db.NewRepository(conn)
	notifier := db.NewNotifier(conn, db.DefaultChannel)

	src := reference.NewDirSource(dir, dataFiles(cfg.Data.Files))
	for _, d := range reference.Datasets {
		t, err := src.ReadTable(ctx, d)
		if err != nil {
			return &reference.DataLoadError{Dataset: d, Err: err}
		}
		if err := repo.ReplaceTable(ctx, d, t); err != nil {
			return err
		}
		if err := notifier.Notify(ctx, string(d)); err != nil {
			logger.Warn("cannot notify listeners", zap.String("dataset", string(d)), zap.Error(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  ✓  [%s] %d rows from %s\n", d, t.Len(), src.Path(d))
	}
	return nil
}
