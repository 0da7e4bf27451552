package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	restoreMetadataOnly bool
	yesConfirm          bool
)

// backupCmd is the parent command for backups.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export and restore the history through object storage",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write every record into a new backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireBackup(); err != nil {
			return err
		}

		info, err := a.backup.Create(cmd.Context())
		if err != nil {
			return err
		}
		a.log.Info("Backup written", zap.String("key", info.Key), zap.Int("records", info.Records), zap.Int64("bytes", info.Size))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireBackup(); err != nil {
			return err
		}

		items, err := a.backup.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%d\t%s\n", item.Key, item.Size, item.LastModified.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <key>",
	Short: "Merge a backup into the history",
	Long: `Restores a backup by feeding its records through the reconciliation mapper.
Records are matched by external id; newer watch states in the backup win.

Examples:
  backup restore 20240501T120000Z-1a2b3c4d.json
  backup restore backups/20240501T120000Z-1a2b3c4d.json --metadata-only --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireBackup(); err != nil {
			return err
		}

		if !restoreMetadataOnly && !confirmDestructiveAction() {
			a.log.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		report, err := a.backup.Restore(cmd.Context(), args[0], restoreMetadataOnly)
		if err != nil {
			return err
		}
		a.log.Info("Restore report",
			zap.String("key", report.Key),
			zap.Int("records", report.Records),
			zap.Int("added", report.Added),
			zap.Int("updated", report.Updated),
			zap.Int("failed", report.Failed),
			zap.Int("skipped", report.Skipped))
		return nil
	},
}

func init() {
	backupRestoreCmd.Flags().BoolVar(&restoreMetadataOnly, "metadata-only", false, "Merge identity and metadata only")
	backupRestoreCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)
	RootCmd.AddCommand(backupCmd)
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Restoring can change watch state. Type 'yes' to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
