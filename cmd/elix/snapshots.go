package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func snapshotsCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage stored snapshots",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List snapshot keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				store, err := openStore(cfg)
				if err != nil {
					return err
				}
				keys, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <key>",
			Short: "Print a snapshot's HTML",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				store, err := openStore(cfg)
				if err != nil {
					return err
				}
				snap, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				info("%s: %s, generation %d, %s", snap.Key, snap.Element, snap.Generation, snap.CreatedAt.Format("2006-01-02 15:04:05"))
				_, err = cmd.OutOrStdout().Write(snap.HTML)
				return err
			},
		},
		&cobra.Command{
			Use:   "rm <key>",
			Short: "Delete a snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				store, err := openStore(cfg)
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				success("Deleted %s", args[0])
				return nil
			},
		},
	)

	return cmd
}
