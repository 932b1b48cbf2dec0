package cli

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

const listMaxColWidth = 50

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the builds in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.load(cmd)
			entries := ctx.Catalog.Entries()
			out := cmd.OutOrStdout()

			if len(entries) == 0 {
				fmt.Fprintln(out, "No builds found")
				return nil
			}

			table := uitable.New()
			table.MaxColWidth = listMaxColWidth
			table.AddRow("ID", "NAME", "SUMMARY", "DOWNLOAD")
			for _, entry := range entries {
				download := "yes"
				if !entry.HasDownloadURL() {
					download = "no"
				}
				table.AddRow(entry.ID, entry.DisplayName(), entry.Summary, download)
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}
}
