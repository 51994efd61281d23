package main

import (
	"github.com/hupe1980/results/resource"
	"github.com/spf13/cobra"
)

func newCompressCmd(a *app, decompress bool) *cobra.Command {
	var coding string

	use, short := "compress <file|->", "Compress a file with the configured coding and write it to stdout"
	if decompress {
		use, short = "decompress <file|->", "Decompress a file written by compress"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.compression(coding)
			if err != nil {
				return err
			}
			data, err := a.readInput(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			var out []byte
			if decompress {
				out, err = c.Decompress(data)
			} else {
				out, err = c.Compress(data)
			}
			if err != nil {
				return err
			}

			_, err = resource.NewRateLimitedWriter(cmd.Context(), cmd.OutOrStdout(), a.rc).Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&coding, "type", "", "coding to use (default: configured compression)")
	return cmd
}
