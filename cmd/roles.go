package main

import (
	"fmt"
	"sort"

	"github.com/deepgram/airelay/internal/catalog"
	"github.com/deepgram/airelay/internal/config"
	"github.com/spf13/cobra"
)

func newRolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Inspect the role persona catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List visible roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := catalog.New("role", config.GetSystemRolesPath()).ListAll(cmd.Context())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(roles))
			for name := range roles {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, roles[name].Description)
			}
			return nil
		},
	})
	return cmd
}
