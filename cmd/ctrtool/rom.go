package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ctrkit/internal/logger"
	"github.com/joshuapare/ctrkit/pkg/printer"
	"github.com/joshuapare/ctrkit/pkg/rom"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

var (
	romExeFS  string
	romRomFS  string
	romDigest bool
)

func init() {
	rootCmd.AddCommand(newROMCmd())
}

func newROMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rom",
		Short: "Inspect extracted ExeFS and RomFS partitions",
	}
	cmd.AddCommand(newROMListCmd())
	return cmd
}

func newROMListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the files of extracted ROM partitions",
		Long: `List loads the given ExeFS and RomFS directories and prints their trees.
Partitions given as files are rejected as an unsupported format.

Example:
  ctrtool rom list --exefs title/exefs --romfs title/romfs
  ctrtool rom list --romfs title/romfs --json --digest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runROMList()
		},
	}
	cmd.Flags().StringVar(&romExeFS, "exefs", "", "Extracted ExeFS directory")
	cmd.Flags().StringVar(&romRomFS, "romfs", "", "Extracted RomFS directory")
	cmd.Flags().BoolVar(&romDigest, "digest", false, "Include a BLAKE3 digest of each file")
	return cmd
}

func runROMList() error {
	if romExeFS == "" && romRomFS == "" {
		return errors.New("at least one of --exefs or --romfs is required")
	}

	r, err := rom.Read(rom.Options{ExeFS: romExeFS, RomFS: romRomFS, Sink: sink()})
	if err != nil {
		return fmt.Errorf("failed to read rom: %w", err)
	}

	parts := make([]*vfs.Directory, 0, 2)
	for _, d := range []*vfs.Directory{r.ExeFS, r.RomFS} {
		if d != nil {
			parts = append(parts, d)
			logger.Info("loaded partition", "name", d.Name(), "files", len(d.Files()))
		}
	}

	opts := printer.DefaultOptions()
	opts.Digest = romDigest
	if jsonOut {
		out := make(map[string]printer.Entry, len(parts))
		for _, d := range parts {
			out[d.Name()] = printer.BuildEntry(d, opts)
		}
		return printJSON(out)
	}

	p := printer.New(os.Stdout, opts)
	for _, d := range parts {
		if err := p.PrintTree(d); err != nil {
			return err
		}
	}
	return nil
}
