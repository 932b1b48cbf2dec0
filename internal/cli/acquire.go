package cli

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ytget/launcher/internal/acquire"
	"github.com/ytget/launcher/internal/model"
)

func newAcquireCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "acquire <id>...",
		Short: "Download and extract builds",
		Long: `Download each build's archive and extract it into <instances>/<id>.
Builds are acquired concurrently. The command exits non-zero when any of
them fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.load(cmd)
			out := cmd.OutOrStdout()

			var mu sync.Mutex
			failed := 0
			ctx.Acquirer.SetUpdateCallback(func(event model.AcquisitionEvent) {
				mu.Lock()
				defer mu.Unlock()
				if event.Kind == model.EventFailed {
					failed++
				}
				fmt.Fprintln(out, event.String())
			})

			started := 0
			for _, id := range args {
				err := ctx.Acquirer.Acquire(id)
				if errors.Is(err, acquire.ErrInProgress) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: already requested, skipping\n", id)
					continue
				}
				started++
			}
			ctx.Acquirer.Wait()

			if failed > 0 {
				return fmt.Errorf("%d of %d acquisitions failed", failed, started)
			}
			return nil
		},
	}
}
