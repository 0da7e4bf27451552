package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"watchstate/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag  bool
	jsonFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and backup storage",
	Long: `Checks that the history tables carry every expected column and that the backup
bucket and prefix exist. With --fix, missing storage prefixes are created.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Migrating first would hide the schema problems this command reports.
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()

		if fixFlag {
			st, err := a.integrity.CheckStructure(ctx)
			switch {
			case errors.Is(err, integrity.ErrStorageDisabled):
			case err != nil:
				a.log.Warn("Structure check failed, creating bucket", zap.Error(err))
				if err := a.integrity.FixStructure(ctx, []string{a.backup.Prefix()}); err != nil {
					return err
				}
			case len(st.Missing) > 0:
				if err := a.integrity.FixStructure(ctx, st.Missing); err != nil {
					return err
				}
			}
		}

		report := a.integrity.Run(ctx)
		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printIntegrityReport(a.log, report)
		if !report.Healthy {
			return errors.New("integrity checks failed")
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing storage prefixes")
	integrityCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the report as JSON")
	RootCmd.AddCommand(integrityCmd)
}

func printIntegrityReport(l *zap.Logger, report *integrity.Report) {
	if report.Schema != nil {
		for table, tbl := range report.Schema.Tables {
			if len(tbl.MissingColumns) > 0 {
				l.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				continue
			}
			l.Info("Table OK", zap.String("table", table))
		}
		for _, msg := range report.Schema.Errors {
			l.Error("Schema error", zap.String("error", msg))
		}
	}

	if report.Storage != nil {
		if len(report.Storage.Missing) > 0 {
			l.Warn("Missing storage prefixes", zap.String("bucket", report.Storage.Bucket), zap.Strings("missing", report.Storage.Missing))
		} else {
			l.Info("Storage OK", zap.String("bucket", report.Storage.Bucket))
		}
	}

	for check, msg := range report.Errors {
		l.Error("Check failed", zap.String("check", check), zap.String("error", msg))
	}
	l.Info("Integrity summary", zap.Bool("healthy", report.Healthy))
}
