package cli

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/spten-ml/spten/internal/sptensor"
)

// newSplitCommand builds the `spten split` subcommand: generate a
// random sorted tensor and enumerate its chunks.
func (c *CLI) newSplitCommand() *cobra.Command {
	var (
		dimsSpec string
		cutsSpec string
		nnz      int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a synthetic sparse tensor into chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, err := parseDims(dimsSpec)
			if err != nil {
				return err
			}
			cuts, err := parseCuts(cutsSpec, len(dims))
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(seed))
			t, err := randomTensor(dims, nnz, rng)
			if err != nil {
				return err
			}
			slog.Info("tensor generated", "dims", dimsSpec, "nnz", t.NNZ(), "seed", seed)

			start := time.Now()
			chunks, err := sptensor.SplitAll(t, cuts)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			minNNZ, maxNNZ, total := t.NNZ(), 0, 0
			for _, chunk := range chunks {
				n := chunk.NNZ()
				total += n
				minNNZ = min(minNNZ, n)
				maxNNZ = max(maxNNZ, n)
			}
			if total != t.NNZ() {
				return fmt.Errorf("chunks cover %d nonzeros, tensor has %d", total, t.NNZ())
			}
			slog.Info("split done",
				"cuts", cutsSpec,
				"chunks", len(chunks),
				"min_nnz", minNNZ,
				"max_nnz", maxNNZ,
				"elapsed", elapsed,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&dimsSpec, "dims", "256x256x256", "Tensor dimensions, e.g. 64x32x16")
	cmd.Flags().StringVar(&cutsSpec, "cuts", "4,2,1", "Target partition count per mode, e.g. 4,2,1")
	cmd.Flags().IntVar(&nnz, "nnz", 100000, "Number of stored nonzeros to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	return cmd
}
