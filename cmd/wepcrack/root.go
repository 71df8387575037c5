// Command wepcrack is a thin front door onto the keycracker core: it
// wires a SampleProvider into a cracker.Handle and prints progress as it
// runs. Capturing or injecting 802.11 traffic is out of scope, so the
// only provider offered here is a simulated one that manufactures
// samples for a known key, useful for demoing and sanity-checking the
// attack end to end without a wireless adapter.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	Use:   "wepcrack",
	Short: "Recover a WEP key from keystream samples using the Klein/PTW attack",
	Long: `wepcrack demonstrates the Klein/PTW statistical key-recovery attack
against WEP. It does not capture or inject 802.11 traffic itself; the
"crack" subcommand runs against a simulated sample stream unless a real
SampleProvider is wired in by an embedder.`,
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().Bool("debug", false, "print debug-level progress messages")
	rootCmd.AddCommand(crackCmd)
}

func bindDebugFlag(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if viper.GetBool("debug") {
		logLevel.Set(slog.LevelDebug)
	}
	return nil
}
