package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ctrkit/internal/mmfile"
	"github.com/joshuapare/ctrkit/pkg/blz"
)

// blzSuffix is appended by encode and stripped by decode.
const blzSuffix = ".blz"

var (
	blzOutDir  string
	blzWorkers int
)

func init() {
	rootCmd.AddCommand(newBLZCmd())
}

func newBLZCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blz",
		Short: "Compress and decompress BLZ streams",
	}
	cmd.AddCommand(newBLZDecodeCmd(), newBLZEncodeCmd(), newBLZInfoCmd())
	return cmd
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&blzOutDir, "output", "o", "", "Output directory (default: beside each input)")
	cmd.Flags().IntVarP(&blzWorkers, "workers", "j", 0, "Files processed in parallel (default from config)")
}

func newBLZDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <file>...",
		Short: "Decompress BLZ files",
		Long: `Decompress one or more BLZ files. A ".blz" suffix is removed from the
output name; any other name gets ".bin" appended.

Example:
  ctrtool blz decode code.bin.blz
  ctrtool blz decode -o out/ -j 4 *.blz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBLZDecode(cmd.Context(), args)
		},
	}
	addBatchFlags(cmd)
	return cmd
}

func newBLZEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <file>...",
		Short: "Compress files with BLZ",
		Long: `Compress one or more files with BLZ, writing "<name>.blz". Inputs that
do not shrink are stored with a zero footer and read back unchanged.

Example:
  ctrtool blz encode code.bin
  ctrtool blz encode -o packed/ romfs/*.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBLZEncode(cmd.Context(), args)
		},
	}
	addBatchFlags(cmd)
	return cmd
}

func newBLZInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show the BLZ footer of a file without decoding it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBLZInfo(args)
		},
	}
}

func workers() int {
	if blzWorkers > 0 {
		return blzWorkers
	}
	return cfg.Workers
}

func decodedName(name string) string {
	if base, ok := strings.CutSuffix(name, blzSuffix); ok && base != "" {
		return base
	}
	return name + ".bin"
}

func runBLZDecode(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	printVerbose("Decoding %d file(s) with %d worker(s)\n", len(args), workers())

	results, err := runBatch(ctx, args, blzOutDir, workers(), decodedName, blz.Decode)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return reportBatch("decoded", results)
}

func runBLZEncode(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	printVerbose("Encoding %d file(s) with %d worker(s)\n", len(args), workers())

	rename := func(name string) string { return name + blzSuffix }
	results, err := runBatch(ctx, args, blzOutDir, workers(), rename, blz.Encode)
	if err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}
	return reportBatch("encoded", results)
}

type blzInfo struct {
	File       string `json:"file"`
	Size       int    `json:"size"`
	Compressed bool   `json:"compressed"`
	blz.Footer
	Verbatim   int `json:"verbatim,omitempty"`
	Decoded    int `json:"decoded_size,omitempty"`
}

func runBLZInfo(args []string) error {
	path := args[0]

	data, err := mmfile.ReadFile(path)
	if err != nil {
		return err
	}

	info := blzInfo{File: path, Size: len(data)}
	f, ferr := blz.ReadFooter(data)
	if ferr == nil {
		info.Compressed = true
		info.Footer = f
		info.Verbatim = f.Verbatim(len(data))
		info.Decoded = f.DecodedSize(len(data))
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("File: %s\n", path)
	printInfo("  Size: %d bytes\n", info.Size)
	if !info.Compressed {
		printInfo("  Not a BLZ stream: %v\n", ferr)
		return nil
	}
	printInfo("  Encoded region: %d bytes\n", f.EncodedSize)
	printInfo("  Footer: %d bytes\n", f.HeaderLen)
	printInfo("  Verbatim prefix: %d bytes\n", info.Verbatim)
	printInfo("  Decoded size: %d bytes\n", info.Decoded)
	return nil
}
