package cmd

import (
	"fmt"
	"os"

	"github.com/ericlevine/bchgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagT       int
	flagM       int
	flagPoly    uint32
	flagSwap    bool
	flagVerbose bool

	logger *zap.SugaredLogger
)

// rootCmd is the base command; subcommands share the code parameters.
var rootCmd = &cobra.Command{
	Use:   "bchtool",
	Short: "BCH error correction for files",
	Long: `bchtool protects files with BCH error-correcting parity. encode writes
a parity sidecar for a file, verify checks a file against its sidecar and
reports error locations, and repair corrects both in place.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewDevelopmentConfig()
		if !flagVerbose {
			zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return err
		}
		logger = l.Sugar()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagT, "strength", "t", 8, "maximum correctable bit errors")
	rootCmd.PersistentFlags().IntVarP(&flagM, "order", "m", 13, "Galois field order (field is GF(2^m))")
	rootCmd.PersistentFlags().Uint32Var(&flagPoly, "poly", 0, "primitive polynomial (default: standard polynomial for m)")
	rootCmd.PersistentFlags().BoolVar(&flagSwap, "swap-bits", false, "reverse bit order within each byte")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log codec diagnostics")
}

// newCodec builds a codec from the shared flags and checks that the file
// fits in a single codeword.
func newCodec(fileLen int) (*bchgo.Codec, error) {
	cfg := bchgo.Config{T: flagT, M: flagM, Poly: flagPoly, SwapBits: flagSwap}
	codec, err := bchgo.New(cfg)
	if err != nil {
		return nil, err
	}
	if maxData := (codec.N() - codec.ECCBits()) / 8; fileLen > maxData {
		return nil, fmt.Errorf("file is %d bytes but GF(2^%d) with t=%d holds at most %d", fileLen, codec.M(), codec.T(), maxData)
	}
	logger.Debugw("codec ready",
		"t", codec.T(),
		"m", codec.M(),
		"poly", fmt.Sprintf("0x%x", codec.PrimPoly()),
		"eccBytes", codec.ECCBytes(),
	)
	return codec, nil
}

// sidecarPath returns the parity file path for a data file.
func sidecarPath(path string) string {
	return path + ".ecc"
}
