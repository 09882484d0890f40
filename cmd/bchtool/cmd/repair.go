package cmd

import (
	"fmt"
	"os"

	"github.com/ericlevine/bchgo"
	"github.com/spf13/cobra"
)

// repairCmd corrects a damaged file and its sidecar in place.
var repairCmd = &cobra.Command{
	Use:   "repair <file>",
	Short: "Correct bit errors in a file using its parity sidecar",
	Long: `Decode a file against <file>.ecc, correct any located bit errors in
both the file and the sidecar, and rewrite them.

Example:
  bchtool -t 8 -m 13 repair firmware.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		ecc, err := os.ReadFile(sidecarPath(path))
		if err != nil {
			return err
		}
		codec, err := newCodec(len(data))
		if err != nil {
			return err
		}

		nerr, err := codec.Decode(bchgo.WithDataAndECC(data, ecc))
		if err != nil {
			return err
		}
		if nerr < 0 {
			return fmt.Errorf("%s: uncorrectable, more than %d bit errors", path, codec.T())
		}
		if nerr == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: clean, nothing to repair\n", path)
			return nil
		}

		logger.Infow("repairing", "file", path, "count", nerr, "bits", codec.ErrLoc())
		if err := codec.Correct(bchgo.NewBuffer(data), bchgo.NewBuffer(ecc)); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(sidecarPath(path), ecc, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: corrected %d bit error(s)\n", path, nerr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)
}
