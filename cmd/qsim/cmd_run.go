package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qtermsim/internal/circuit"
	"qtermsim/internal/render"
	"qtermsim/internal/simulator"
	"qtermsim/internal/statevector"
)

var (
	runShots    int
	runSeed     uint64
	runState    bool
	runParallel int
)

// runCmd simulates one or more QASM files
var runCmd = &cobra.Command{
	Use:   "run FILE.qasm [FILE.qasm...]",
	Short: "Simulate circuits and print measurement histograms",
	Long: `Executes each circuit from |0...0> and samples the final state.

Several files are simulated concurrently. With --seed the histograms are
reproducible; file i is sampled with seed+i.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCircuits,
}

// drawCmd prints a circuit diagram
var drawCmd = &cobra.Command{
	Use:   "draw FILE.qasm",
	Short: "Print the circuit diagram",
	Args:  cobra.ExactArgs(1),
	RunE:  drawCircuit,
}

// qasmCmd normalizes a QASM file
var qasmCmd = &cobra.Command{
	Use:   "qasm FILE.qasm",
	Short: "Parse a QASM file and print it in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  normalizeQASM,
}

// loadCircuit parses a QASM file and checks it against the configured
// register limit.
func loadCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read circuit: %w", err)
	}
	c, err := circuit.ParseQASM(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if limit := settings().Simulation.MaxQubits; c.NumQubits() > limit {
		return nil, fmt.Errorf("%s: %w: %d qubits exceeds max_qubits %d",
			path, statevector.ErrTooManyQubits, c.NumQubits(), limit)
	}
	return c, nil
}

// shotsFor returns the --shots flag when given, otherwise the config value.
func shotsFor(cmd *cobra.Command) int {
	if f := cmd.Flags().Lookup("shots"); f != nil && f.Changed {
		return runShots
	}
	return settings().Simulation.Shots
}

// seedFor returns the sampling seed from --seed or the config.
func seedFor(cmd *cobra.Command) (uint64, bool) {
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		return runSeed, true
	}
	if s := settings().Simulation.Seed; s != nil {
		return *s, true
	}
	return 0, false
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runCircuits(cmd *cobra.Command, args []string) error {
	shots := shotsFor(cmd)
	seed, seeded := seedFor(cmd)

	sims := make([]*simulator.Simulator, 0, len(args))
	for i, path := range args {
		c, err := loadCircuit(path)
		if err != nil {
			return err
		}
		opts := []simulator.Option{
			simulator.WithName(filepath.Base(path)),
			simulator.WithBackend(settings().Backend()),
			simulator.WithCircuit(c),
			simulator.WithLogger(appLogger()),
		}
		if seeded {
			opts = append(opts, simulator.WithSeed(seed+uint64(i)))
		}
		sims = append(sims, simulator.New(opts...))
	}

	results, err := simulator.RunBatch(commandContext(cmd), sims, shots, runParallel)
	if err != nil {
		return err
	}
	appLogger().Debug("batch complete", zap.Int("circuits", len(results)), zap.Int("shots", shots))

	st := styles()
	out := cmd.OutOrStdout()
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printResult(out, sims[i].Circuit(), res, st, runState)
	}
	return nil
}

// printResult writes the diagram and histogram for one run, plus the state
// tables when withState is set.
func printResult(out io.Writer, c *circuit.Circuit, res *simulator.Result, st render.Styles, withState bool) {
	fmt.Fprintln(out, st.Title.Render(fmt.Sprintf("%s (%d qubits, %d operations)",
		res.Name, c.NumQubits(), c.NumOperations())))
	fmt.Fprintln(out, render.Diagram(c, st))
	fmt.Fprintln(out, render.Histogram(res, st))
	if withState {
		state := &statevector.StateVector{NumQubits: res.NumQubits, Amplitudes: res.FinalState}
		fmt.Fprintln(out, render.StateTable(state, st))
		fmt.Fprintln(out, render.QubitTable(state, st))
	}
}

func drawCircuit(cmd *cobra.Command, args []string) error {
	c, err := loadCircuit(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.Diagram(c, styles()))
	return nil
}

func normalizeQASM(cmd *cobra.Command, args []string) error {
	c, err := loadCircuit(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(c.ToQASM(), "\n"))
	return nil
}
