package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ctrkit/internal/logger"
	"github.com/joshuapare/ctrkit/internal/mmfile"
	"github.com/joshuapare/ctrkit/internal/writer"
	"github.com/joshuapare/ctrkit/pkg/blz"
	"github.com/joshuapare/ctrkit/pkg/darc"
	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/printer"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

var (
	packOutput     string
	packEndianness string
	packPadding    int
	packCompress   bool
	packDryRun     bool

	unpackOutput string

	listFormat  string
	listDigest  bool
	listDepth   int
	listPadding bool
)

func init() {
	rootCmd.AddCommand(newDarcCmd())
}

func newDarcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "darc",
		Short: "Build, extract and list DARC archives",
	}
	cmd.AddCommand(newPackCmd(), newUnpackCmd(), newListCmd())
	return cmd
}

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <dir>",
		Short: "Build a DARC archive from a directory",
		Long: `Pack walks a directory and writes its files into a DARC archive.
Children are stored in directory listing order.

Example:
  ctrtool darc pack layout/ -o layout.arc
  ctrtool darc pack layout/ -o layout.arc --endianness be --padding 128
  ctrtool darc pack layout/ -o layout.arc.blz --compress
  ctrtool darc pack layout/ -o layout.arc --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(args)
		},
	}
	cmd.Flags().StringVarP(&packOutput, "output", "o", "", "Archive to write (required)")
	cmd.Flags().StringVar(&packEndianness, "endianness", "", "Byte order: le or be (default from config)")
	cmd.Flags().IntVar(&packPadding, "padding", -1, "Alignment for file data (default from config)")
	cmd.Flags().BoolVar(&packCompress, "compress", false, "BLZ-compress the archive")
	cmd.Flags().BoolVar(&packDryRun, "dry-run", false, "Build in memory and report without writing")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <archive>",
		Short: "Extract a DARC archive into a directory",
		Long: `Unpack parses a DARC archive and writes its tree to disk. BLZ-compressed
archives are decompressed first.

Example:
  ctrtool darc unpack layout.arc -o layout/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(args)
		},
	}
	cmd.Flags().StringVarP(&unpackOutput, "output", "o", "", "Directory to extract into (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <archive>",
		Short: "List the contents of a DARC archive",
		Long: `List prints the archive header and its file tree.

Example:
  ctrtool darc list layout.arc
  ctrtool darc list layout.arc --format yaml --digest`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
	cmd.Flags().StringVarP(&listFormat, "format", "f", "", "Output format: text, json, yaml or cbor (default from config)")
	cmd.Flags().BoolVar(&listDigest, "digest", false, "Include a BLAKE3 digest of each file")
	cmd.Flags().IntVar(&listDepth, "depth", 0, "Maximum depth to show (0 = unlimited)")
	cmd.Flags().BoolVar(&listPadding, "padding", true, "Show each file's padding")
	return cmd
}

// loadArchive reads and parses an archive, decompressing BLZ input.
func loadArchive(path string) (*darc.Archive, error) {
	data, err := mmfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, darc.Magic[:]) && blz.IsCompressed(data) {
		printVerbose("Decompressing %s\n", path)
		if data, err = blz.Decode(data); err != nil {
			return nil, err
		}
	}
	return darc.Parse(data, darc.WithSink(sink()))
}

func runPack(args []string) error {
	src := args[0]

	a := darc.New()
	a.Endianness = cfg.Darc.Endianness
	a.DefaultPadding = cfg.Darc.Padding
	if packEndianness != "" {
		e, err := memory.ParseEndianness(packEndianness)
		if err != nil {
			return err
		}
		a.Endianness = e
	}
	if packPadding >= 0 {
		a.DefaultPadding = packPadding
	}

	printVerbose("Reading %s\n", src)
	root, err := vfs.FromDir(src, vfs.WithSink(sink()))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	root.SetName("")
	a.Root = root

	out, err := a.Build(darc.WithSink(sink()))
	if err != nil {
		return fmt.Errorf("failed to build archive: %w", err)
	}
	built := len(out)
	if packCompress {
		if out, err = blz.Encode(out); err != nil {
			return fmt.Errorf("failed to compress archive: %w", err)
		}
	}

	var w writer.Writer = &writer.FileWriter{Path: packOutput}
	if packDryRun {
		w = &writer.MemWriter{}
	}
	if err := w.WriteAll(out); err != nil {
		return err
	}
	logger.Info("packed", "src", src, "output", packOutput, "files", len(root.Files()), "size", built, "dry_run", packDryRun)

	if jsonOut {
		return printJSON(map[string]any{
			"output":     packOutput,
			"files":      len(root.Files()),
			"size":       built,
			"written":    len(out),
			"endianness": a.Endianness,
			"compressed": packCompress,
			"dry_run":    packDryRun,
		})
	}
	if packDryRun {
		printInfo("Would pack %d file(s) into %s (%d bytes)\n", len(root.Files()), packOutput, len(out))
		return nil
	}
	printInfo("Packed %d file(s) into %s (%d bytes)\n", len(root.Files()), packOutput, len(out))
	return nil
}

func runUnpack(args []string) error {
	path := args[0]

	a, err := loadArchive(path)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if err := a.Root.WriteDir(unpackOutput, vfs.WithSink(sink())); err != nil {
		return fmt.Errorf("failed to extract archive: %w", err)
	}
	logger.Info("unpacked", "archive", path, "output", unpackOutput, "files", len(a.Root.Files()))

	if jsonOut {
		return printJSON(map[string]any{
			"archive":    path,
			"output":     unpackOutput,
			"files":      len(a.Root.Files()),
			"endianness": a.Endianness,
		})
	}
	printInfo("Extracted %d file(s) to %s\n", len(a.Root.Files()), unpackOutput)
	return nil
}

func runList(args []string) error {
	path := args[0]

	a, err := loadArchive(path)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	format := listFormat
	if format == "" {
		format = cfg.Output.Format
	}
	if jsonOut {
		format = string(printer.FormatJSON)
	}
	f, err := printer.ParseFormat(format)
	if err != nil {
		return err
	}

	opts := printer.DefaultOptions()
	opts.Format = f
	opts.Digest = listDigest
	opts.MaxDepth = listDepth
	opts.ShowPadding = listPadding
	return printer.New(os.Stdout, opts).PrintArchive(a)
}
