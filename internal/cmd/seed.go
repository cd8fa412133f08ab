package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventra-io/eventra/internal/config"
	"github.com/eventra-io/eventra/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load venues, clients, vendors, and events from a YAML fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "seed")
		defer span.End()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.EnsureDataDir(); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		st, err := store.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		result, err := st.SeedFromFile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}

		fmt.Printf("Seeded %d venues, %d clients, %d vendors, %d events\n",
			len(result.Venues), len(result.Clients), len(result.Vendors), len(result.Events))
		for alias, id := range result.Venues {
			fmt.Printf("  venue  %-16s %s\n", alias, id)
		}
		for alias, id := range result.Clients {
			fmt.Printf("  client %-16s %s\n", alias, id)
		}
		for alias, id := range result.Vendors {
			fmt.Printf("  vendor %-16s %s\n", alias, id)
		}
		for alias, id := range result.Events {
			fmt.Printf("  event  %-16s %s\n", alias, id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
