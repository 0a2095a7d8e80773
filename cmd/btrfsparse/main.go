// Command btrfsparse opens a btrfs device image read-only and exposes
// path resolution, file reads, and checksum scrubbing over it. It's
// the external collaborator spec.md §1 describes as "the executable
// entry point that opens a device image and invokes the parser" — the
// parser itself (pkg/btrfs) never touches the filesystem directly.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }
func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}
func (lvl *logLevelFlag) String() string { return lvl.Level.String() }

var _ pflag.Value = (*logLevelFlag)(nil)

// openImage opens path read-only and wires up the callbacks the
// parser's external block I/O collaborator needs: every device id the
// parser asks for is served from this single file, since this CLI
// only ever looks at one image.
func openImage(path string) (*btrfs.Parser, func() error, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}

	p := btrfs.NewParser()
	p.SetReadHandler(func(buf []byte, _ btrfsvol.DeviceID, off btrfsvol.PhysicalAddr) (int, error) {
		return fh.ReadAt(buf, int64(off))
	})
	p.SetWriteHandler(func(buf []byte, _ btrfsvol.DeviceID, off btrfsvol.PhysicalAddr) (int, error) {
		return 0, fmt.Errorf("btrfsparse: write support is not implemented")
	})
	return p, fh.Close, nil
}

func main() {
	logLevel := logLevelFlag{Level: logrus.InfoLevel}
	var imagePath string

	root := &cobra.Command{
		Use:           "btrfsparse",
		Short:         "Read-only inspection of a btrfs filesystem image",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().Var(&logLevel, "verbosity", "set the log verbosity (panic|fatal|error|warn|info|debug|trace)")
	root.PersistentFlags().StringVar(&imagePath, "image", "", "path to the device image to read")
	_ = root.MarkPersistentFlagRequired("image")
	_ = root.MarkPersistentFlagFilename("image")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := logrus.New()
		logger.SetLevel(logLevel.Level)
		ctx := dlog.WithLogger(cmd.Context(), dlog.WrapLogrus(logger))
		cmd.SetContext(ctx)
		return nil
	}

	root.AddCommand(
		newResolveCommand(&imagePath),
		newCatCommand(&imagePath),
		newScrubCommand(&imagePath),
		newDumpCommand(&imagePath),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v: error: %v\n", root.CommandPath(), err)
		os.Exit(1)
	}
}

// bootAndLog opens the image, runs the parser's boot sequence, and
// logs progress the way the teacher's inspect subcommands do — one
// dlog.Infof before Start and one after it succeeds.
func bootAndLog(ctx context.Context, imagePath string) (*btrfs.Parser, func() error, error) {
	p, closeFn, err := openImage(imagePath)
	if err != nil {
		return nil, nil, err
	}
	dlog.Infof(ctx, "loading superblock and booting %q...", imagePath)
	if err := p.Start(); err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	dlog.Infof(ctx, "... booted: label=%q fs-tree-root=%v", p.Label(), p.FSTreeRoot())
	return p, closeFn, nil
}
