package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"watchstate/core/guid"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ignoreScope string

// ignoreCmd is the parent command for the ignore list.
var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Manage ignored external ids",
	Long: `Ignored external ids are dropped during identity resolution, either for every
item or, with --scope, for one backend item only.`,
}

var ignoreAddCmd = &cobra.Command{
	Use:     "add <type> <source> <id>",
	Short:   "Ignore an external id",
	Example: "  ignore add movie tmdb 278 --scope 55",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		row, err := a.ignore.Add(cmd.Context(), guid.Rule{Type: args[0], Source: args[1], ID: args[2], Scope: ignoreScope})
		if err != nil {
			return err
		}
		a.log.Info("Ignore rule added", zap.String("key", row.Key))
		return nil
	},
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ignore rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		rows, err := a.ignore.All(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tCREATED")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\n", row.Key, row.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var ignoreRemoveCmd = &cobra.Command{
	Use:     "remove <key>",
	Short:   "Remove an ignore rule",
	Example: "  ignore remove 'movie://tmdb:278?id=55'",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.ignore.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		a.log.Info("Ignore rule removed", zap.String("key", args[0]))
		return nil
	},
}

func init() {
	ignoreAddCmd.Flags().StringVar(&ignoreScope, "scope", "", "Limit the rule to one backend item by its native id")

	ignoreCmd.AddCommand(ignoreAddCmd, ignoreListCmd, ignoreRemoveCmd)
	RootCmd.AddCommand(ignoreCmd)
}
