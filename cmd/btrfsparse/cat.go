package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const catChunkSize = 1 << 20

func newCatCommand(imagePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cat PATH",
		Short: "Resolve a path and write its file contents to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closeFn, err := bootAndLog(ctx, *imagePath)
			if err != nil {
				return err
			}
			defer closeFn()

			inode, err := p.ResolvePath(args[0])
			if err != nil {
				return err
			}
			stat, err := p.Stat(inode)
			if err != nil {
				return err
			}

			buf := make([]byte, catChunkSize)
			var offset int64
			for offset < stat.Size {
				want := catChunkSize
				if remaining := stat.Size - offset; remaining < int64(want) {
					want = int(remaining)
				}
				n, err := p.ReadFile(inode, offset, want, buf)
				if err != nil {
					return err
				}
				if n == 0 {
					break
				}
				if _, err := os.Stdout.Write(buf[:n]); err != nil {
					return fmt.Errorf("write stdout: %w", err)
				}
				offset += int64(n)
			}
			return nil
		},
	}
}
