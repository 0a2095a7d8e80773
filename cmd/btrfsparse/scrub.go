package main

import (
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"
)

func newScrubCommand(imagePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scrub",
		Short: "Walk the checksum tree and report sectors whose stored and computed CRC-32C disagree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closeFn, err := bootAndLog(ctx, *imagePath)
			if err != nil {
				return err
			}
			defer closeFn()

			dlog.Info(ctx, "scrubbing...")
			mismatches, err := p.Scrub()
			if err != nil {
				return err
			}
			fmt.Printf("%d mismatch(es)\n", mismatches)
			if mismatches > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
}
