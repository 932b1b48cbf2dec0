package cli

import (
	"encoding/json"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/ytget/launcher/internal/acquire"
)

func newShowCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.load(cmd)
			entry, ok := ctx.Catalog.Find(args[0])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], acquire.ErrBuildNotFound)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(entry, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			table := uitable.New()
			table.Wrap = true
			table.MaxColWidth = 80
			table.AddRow("ID:", entry.ID)
			table.AddRow("Name:", entry.DisplayName())
			table.AddRow("Summary:", entry.Summary)
			table.AddRow("Download URL:", entry.DownloadURL)
			table.AddRow("Description:", entry.Description)
			fmt.Fprintln(out, table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, FlagJSON, false, DescJSON)
	return cmd
}
