package main

import (
	"fmt"
	"time"

	"github.com/deepgram/airelay/internal/services"
	"github.com/deepgram/airelay/internal/threads"
	"github.com/spf13/cobra"
)

func newThreadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "Inspect and provision named assistant threads",
	}
	cmd.AddCommand(newThreadsListCmd(), newThreadsCreateCmd())
	return cmd
}

func newThreadsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored threads in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := threads.Open(cmd.Context(), threads.OptionsFromEnv())
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, `No threads stored. Create one named "default" to enable the fallback.`)
				return nil
			}
			for _, t := range list {
				desc := ""
				if t.Description != nil {
					desc = *t.Description
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", t.Name, t.ThreadID, t.CreatedAt.Format(time.RFC3339), desc)
			}
			return nil
		},
	}
}

func newThreadsCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Allocate a provider thread and store it under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := services.InitializeServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svcs.Close()

			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}

			thread, err := svcs.GetResolverService().CreateNamedThread(cmd.Context(), args[0], desc)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created thread %q with id %s\n", thread.Name, thread.ThreadID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "free-form description stored with the thread")
	return cmd
}
