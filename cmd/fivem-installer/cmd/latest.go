package cmd

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/oshokin/fivem-installer/internal/config"
	"github.com/oshokin/fivem-installer/internal/domain/platform"
	"github.com/oshokin/fivem-installer/internal/service/locator"
)

var (
	// listAll prints every build instead of the newest one.
	listAll bool

	// latestCmd prints the newest FXServer build URL.
	latestCmd = &cobra.Command{
		Use:   "latest <platform>",
		Short: "Print the URL of the newest FXServer build",
		Long:  "Resolves the newest build for windows, ubuntu or debian from the official listing pages.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := platform.Parse(args[0])
			if err != nil {
				return err
			}

			l := locator.New(locator.WithHTTPClient(&http.Client{Timeout: config.DefaultTimeout}))

			if !listAll {
				artifactURL, resolveErr := l.ResolveLatest(cmd.Context(), tag)
				if resolveErr != nil {
					return resolveErr
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), artifactURL)

				return err
			}

			candidates, err := l.Candidates(cmd.Context(), tag)
			if err != nil {
				return err
			}

			rows := pterm.TableData{{"Build", "Name", "URL"}}
			for _, c := range candidates {
				rows = append(rows, []string{strconv.FormatInt(c.Build, 10), c.Name, c.URL})
			}

			return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(rows).Render()
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	latestCmd.Flags().BoolVarP(&listAll, "all", "a", false, "list every build, newest first")
}
