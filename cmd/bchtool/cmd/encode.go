package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// encodeCmd writes a parity sidecar for a file.
var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Write a parity sidecar for a file",
	Long: `Compute BCH parity over a file and write it next to the file as
<file>.ecc.

Example:
  bchtool -t 8 -m 13 encode firmware.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		codec, err := newCodec(len(data))
		if err != nil {
			return err
		}
		ecc, err := codec.Encode(data, nil)
		if err != nil {
			return err
		}
		out := sidecarPath(path)
		if err := os.WriteFile(out, ecc, 0o644); err != nil {
			return err
		}
		logger.Infow("parity written", "file", path, "sidecar", out, "bytes", len(ecc))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d parity bytes -> %s\n", path, len(ecc), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
