package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Popax21/wepcrack/cracker"
	"github.com/Popax21/wepcrack/wep"
)

var crackCmd = &cobra.Command{
	Use:   "crack",
	Short: "Run the Klein/PTW attack against a simulated keystream sample stream",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindDebugFlag(cmd)
	},
	RunE: runCrack,
}

func init() {
	crackCmd.Flags().String("key", "", "hex-encoded 5 or 13 byte WEP key to simulate a capture against (required)")
	crackCmd.Flags().Int64("seed", 1, "PRNG seed for the simulated sample stream")
	crackCmd.Flags().Float64("normal-threshold", 0.5, "minimum prediction score required for key bytes classified normal")
	crackCmd.Flags().Float64("strong-threshold", 0.35, "minimum prediction score required for key bytes classified strong")
	crackCmd.Flags().Int("num-test-samples", 1024, "capacity of the held-back test sample buffer")
	crackCmd.Flags().Int("test-sample-period", 128, "admit every Nth sample into the test buffer")
	crackCmd.Flags().Float64("test-sample-threshold", 1.0, "fraction of test samples a candidate key must reproduce")
}

func runCrack(cmd *cobra.Command, args []string) error {
	keyHex := viper.GetString("key")
	if keyHex == "" {
		return fmt.Errorf("missing required flag --key")
	}
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("decode --key: %w", err)
	}
	key, err := wep.New(keyBytes)
	if err != nil {
		return err
	}

	cfg := cracker.Config{
		NormalThreshold:     viper.GetFloat64("normal-threshold"),
		StrongThreshold:     viper.GetFloat64("strong-threshold"),
		NumTestSamples:      viper.GetInt("num-test-samples"),
		TestSamplePeriod:    viper.GetInt("test-sample-period"),
		TestSampleThreshold: viper.GetFloat64("test-sample-threshold"),
	}

	provider := newSimulatedProvider(key, viper.GetInt64("seed"))

	sess := newSessions()
	handle, err := sess.getOrStart(cmd.Context(), "demo", func() (*cracker.Handle, error) {
		return cracker.Launch(cfg, provider, slog.Default())
	})
	if err != nil {
		return fmt.Errorf("launch cracker: %w", err)
	}
	defer handle.Shutdown()

	return watchUntilTerminal(cmd.Context(), handle)
}

func watchUntilTerminal(ctx context.Context, handle *cracker.Handle) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap := handle.Snapshot()
			slog.Info("wepcrack: progress",
				"phase", snap.Phase.String(),
				"num_samples", snap.NumSamples,
				"progress", fmt.Sprintf("%.1f%%", snap.Progress*100),
			)

			if !snap.Phase.Terminal() {
				continue
			}

			if snap.HasCrackedKey {
				slog.Info("wepcrack: key recovered",
					"kind", snap.CrackedKey.Kind().String(),
					"key", hex.EncodeToString(snap.CrackedKey.Bytes()),
				)
			} else {
				slog.Warn("wepcrack: exhausted the candidate key space without a match")
			}
			return nil
		}
	}
}
