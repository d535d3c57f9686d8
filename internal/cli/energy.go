package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newEnergyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Energy commands",
	}

	cmd.AddCommand(newEnergyShowCmd())
	cmd.AddCommand(newEnergyChangeCmd("consume", "Spend energy; nothing is spent when short", "/api/v1/resources/energy/consume"))
	cmd.AddCommand(newEnergyChangeCmd("add", "Restore energy up to the maximum", "/api/v1/resources/energy/add"))
	cmd.AddCommand(newEnergyWatchCmd())

	return cmd
}

func newEnergyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show energy and resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Resources

			if err := client.Get("/api/v1/resources", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newEnergyChangeCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			var result Resources

			if err := client.Post(path, map[string]int{"amount": amount}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newEnergyWatchCmd() *cobra.Command {
	var interval time.Duration
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll energy and print the countdown to the next unit",
		Long: `Poll the resources endpoint and print one line per tick. The server
recomputes regeneration on every read, so watching never changes stored state.

Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watchEnergy(ctx, cmd, interval, count)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Polling interval")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many polls (0 = until interrupted)")

	return cmd
}

func watchEnergy(ctx context.Context, cmd *cobra.Command, interval time.Duration, count int) error {
	out := output(cmd)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 0; count == 0 || polls < count; polls++ {
		if polls > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		var result Resources
		if err := client.Get("/api/v1/resources", &result); err != nil {
			return err
		}

		if cfg.Output == "json" {
			out.Print(result)
			continue
		}
		next := result.TimeToNextUnit
		if next == "" {
			next = "full"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] energy %d/%d, next %s\n",
			time.Now().Format("15:04:05"), result.Energy, result.MaxEnergy, next)
	}
	return nil
}

func newGoldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gold",
		Short: "Gold commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "spend <amount>",
		Short: "Spend gold (accounts only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			var result Resources

			if err := client.Post("/api/v1/resources/gold/spend", map[string]int{"amount": amount}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}

func parseAmount(s string) (int, error) {
	amount, err := strconv.Atoi(s)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("amount must be a positive integer, got %q", s)
	}
	return amount, nil
}
