package cli

import (
	"github.com/spf13/cobra"
)

func newModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Game mode preference commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the selected game mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameMode

			if err := client.Get("/api/v1/preferences/game-mode", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <campaign|skirmish|arena>",
		Short:     "Select a game mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"campaign", "skirmish", "arena"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameMode

			if err := client.Put("/api/v1/preferences/game-mode", map[string]string{"game_mode": args[0]}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
