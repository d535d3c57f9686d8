package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newAccessCmd() *cobra.Command {
	var returnTo string

	cmd := &cobra.Command{
		Use:   "access <path>",
		Short: "Check whether the current session may open a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"path": {args[0]}}
			if returnTo != "" {
				query.Set("return_to", returnTo)
			}
			var result Access

			if err := client.Get("/api/v1/access?"+query.Encode(), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&returnTo, "return-to", "", "Page a signed-in user came from")

	return cmd
}
