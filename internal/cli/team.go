package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Team roster commands",
	}

	cmd.AddCommand(newTeamShowCmd())
	cmd.AddCommand(newTeamSetCmd())
	cmd.AddCommand(newTeamRemoveCmd())

	return cmd
}

func newTeamShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the team",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Team

			if err := client.Get("/api/v1/team", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTeamSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <slot> <hero>",
		Short: "Place a hero in a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			var result Team

			if err := client.Put(fmt.Sprintf("/api/v1/team/%d", slot), map[string]string{"hero_id": args[1]}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTeamRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <slot>",
		Short: "Empty a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			var result Team

			if err := client.Delete(fmt.Sprintf("/api/v1/team/%d", slot), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func parseSlot(s string) (int, error) {
	slot, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("slot must be a number, got %q", s)
	}
	return slot, nil
}
