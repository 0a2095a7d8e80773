package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"git.lukeshu.com/go/lowmemjson"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// dumpTarget bundles whatever was dumped (superblock or node) so both
// the spew and JSON encoders have a single value to render.
type dumpTarget struct {
	Superblock any `json:"superblock,omitempty"`
	Node       any `json:"node,omitempty"`
}

func newDumpCommand(imagePath *string) *cobra.Command {
	var addrFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Render the parsed superblock, or a single tree node at --addr, to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closeFn, err := bootAndLog(ctx, *imagePath)
			if err != nil {
				return err
			}
			defer closeFn()

			var target dumpTarget
			if addrFlag == "" {
				target.Superblock = p.Superblock()
			} else {
				raw, err := strconv.ParseInt(addrFlag, 0, 64)
				if err != nil {
					return fmt.Errorf("btrfsparse: --addr: %w", err)
				}
				node, err := p.GetNode(btrfsvol.LogicalAddr(raw))
				if err != nil {
					return err
				}
				target.Node = node
			}

			if asJSON {
				buf := bufio.NewWriter(os.Stdout)
				defer buf.Flush()
				return lowmemjson.Encode(&lowmemjson.ReEncoder{
					Out:                   buf,
					Indent:                "\t",
					ForceTrailingNewlines: true,
				}, target)
			}

			if target.Node != nil {
				spew.Dump(target.Node)
			} else {
				spew.Dump(target.Superblock)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addrFlag, "addr", "", "logical address of a tree node to dump, instead of the superblock")
	cmd.Flags().BoolVar(&asJSON, "json", false, "render as JSON via lowmemjson instead of go-spew")
	return cmd
}
