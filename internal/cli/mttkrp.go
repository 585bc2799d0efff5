package cli

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/spten-ml/spten/internal/sptensor"
)

// newMttkrpCommand builds the `spten mttkrp` subcommand: run the MTTKRP
// kernel over a synthetic tensor, sequentially and in parallel, and
// report throughput.
func (c *CLI) newMttkrpCommand() *cobra.Command {
	var (
		dimsSpec string
		nnz      int
		rank     int
		mode     int
		workers  int
		iters    int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "mttkrp",
		Short: "Run the MTTKRP kernel over a synthetic sparse tensor",
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, err := parseDims(dimsSpec)
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed))
			t, err := randomTensor(dims, nnz, rng)
			if err != nil {
				return err
			}
			slog.Info("tensor generated", "dims", dimsSpec, "nnz", t.NNZ(), "rank", rank, "mode", mode)

			nmodes := t.NModes()
			mats := make([]*sptensor.Matrix, nmodes+1)
			maxDim := 0
			for m := 0; m < nmodes; m++ {
				if mats[m], err = sptensor.NewMatrix(int(dims[m]), rank); err != nil {
					return err
				}
				mats[m].Randomize(rng)
				maxDim = max(maxDim, int(dims[m]))
			}
			if mats[nmodes], err = sptensor.NewMatrix(maxDim, rank); err != nil {
				return err
			}
			order := sptensor.DefaultMatsOrder(nmodes, mode)

			// Sequential reference.
			scratch := sptensor.NewVector[sptensor.Value](rank, rank)
			mats[nmodes].Fill(0)
			start := time.Now()
			for it := 0; it < iters; it++ {
				if err := sptensor.Mttkrp(t, mats, order, mode, scratch); err != nil {
					return err
				}
			}
			seqTime := time.Since(start) / time.Duration(iters)
			seq := mats[nmodes].Clone()

			// Parallel run with private accumulators.
			mats[nmodes].Fill(0)
			start = time.Now()
			for it := 0; it < iters; it++ {
				if err := sptensor.MttkrpParallel(t, mats, order, mode, workers); err != nil {
					return err
				}
			}
			parTime := time.Since(start) / time.Duration(iters)

			var maxDiff float64
			for i := 0; i < int(dims[mode]); i++ {
				a, b := seq.Row(i), mats[nmodes].Row(i)
				for r := range a {
					maxDiff = math.Max(maxDiff, math.Abs(float64(a[r]-b[r])))
				}
			}

			flops := float64(nmodes) * float64(rank) * float64(t.NNZ())
			slog.Info("mttkrp done",
				"iters", iters,
				"seq", seqTime,
				"par", parTime,
				"workers", workers,
				"seq_gflops", flops/seqTime.Seconds()/1e9,
				"par_gflops", flops/parTime.Seconds()/1e9,
				"max_diff", maxDiff,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&dimsSpec, "dims", "256x256x256", "Tensor dimensions, e.g. 64x32x16")
	cmd.Flags().IntVar(&nnz, "nnz", 100000, "Number of stored nonzeros to generate")
	cmd.Flags().IntVar(&rank, "rank", 16, "Decomposition rank")
	cmd.Flags().IntVar(&mode, "mode", 0, "Target mode")
	cmd.Flags().IntVar(&workers, "workers", 4, "Parallel worker count")
	cmd.Flags().IntVar(&iters, "iters", 5, "Timed iterations")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	return cmd
}
