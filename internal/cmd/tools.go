package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/tool"
)

var toolsRole string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalogue for a role",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, span := tracer.Start(cmd.Context(), "tools")
		defer span.End()

		role, err := identity.ParseRole(toolsRole)
		if err != nil {
			return err
		}
		catalogs := tool.BuildCatalogs()
		catalog, ok := catalogs[role]
		if !ok {
			return fmt.Errorf("no tool catalogue for role %q", role)
		}
		for _, def := range catalog.List() {
			fmt.Printf("%-28s %s\n", def.Name, def.Description)
		}
		return nil
	},
}

func init() {
	toolsCmd.Flags().StringVar(&toolsRole, "role", "client", "role (client, venue, vendor)")
	rootCmd.AddCommand(toolsCmd)
}
