package main

import (
	"fmt"

	"github.com/hupe1980/results/archive"
	"github.com/hupe1980/results/resource"
	"github.com/spf13/cobra"
)

func newArchiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and fetch envelopes in the configured archive",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "push <file>...",
			Short: "Validate envelopes and archive them under their event id",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				entries := make([]archive.Entry, 0, len(args))
				for _, path := range args {
					env, data, err := a.readEnvelope(cmd, path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					entries = append(entries, archive.Entry{ID: env.ID, Envelope: data})
				}

				ar, err := a.openArchive(cmd.Context())
				if err != nil {
					return err
				}
				if err := ar.PutBatch(cmd.Context(), entries); err != nil {
					return err
				}

				for _, e := range entries {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), e.ID); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Print an archived envelope",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ar, err := a.openArchive(cmd.Context())
				if err != nil {
					return err
				}
				envelope, err := ar.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				w := resource.NewRateLimitedWriter(cmd.Context(), cmd.OutOrStdout(), a.rc)
				if _, err := w.Write(envelope); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout())
				return err
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List archived event ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ar, err := a.openArchive(cmd.Context())
				if err != nil {
					return err
				}
				ids, err := ar.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range ids {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove an archived envelope",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ar, err := a.openArchive(cmd.Context())
				if err != nil {
					return err
				}
				return ar.Delete(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "latest <id>",
			Short: "Show the latest indexed version of an envelope (requires archive.dynamodb_table)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ar, err := a.openArchive(cmd.Context())
				if err != nil {
					return err
				}
				e, err := ar.Latest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s version=%d key=%s size=%d\n", e.ID, e.Version, e.Key, e.Size)
				return err
			},
		},
	)
	return cmd
}
