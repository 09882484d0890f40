package cmd

import (
	"fmt"
	"os"

	"github.com/ericlevine/bchgo"
	"github.com/spf13/cobra"
)

// verifyCmd checks a file against its parity sidecar without modifying
// either.
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Check a file against its parity sidecar",
	Long: `Decode a file against <file>.ecc and report the number and positions of
bit errors. Exits nonzero when the file is damaged.

Example:
  bchtool -t 8 -m 13 verify firmware.bin`,
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
		switch {
		case nerr < 0:
			return fmt.Errorf("%s: uncorrectable, more than %d bit errors", path, codec.T())
		case nerr == 0:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: clean\n", path)
		default:
			logger.Infow("errors located", "file", path, "count", nerr, "bits", codec.ErrLoc())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d correctable bit error(s) at %v\n", path, nerr, codec.ErrLoc())
			return fmt.Errorf("%s: damaged but repairable", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
