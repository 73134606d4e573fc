package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qtermsim/internal/circuit"
	"qtermsim/internal/simulator"
	"qtermsim/internal/tui"
	"qtermsim/internal/watch"
)

// viewCmd launches the interactive editor
var viewCmd = &cobra.Command{
	Use:   "view [FILE.qasm]",
	Short: "Open the interactive circuit editor",
	Long: `Opens the terminal editor on a QASM file, or on a Bell circuit when no
file is given. Ctrl+S saves to the configured save path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: viewCircuit,
}

// watchCmd re-runs a file on every save
var watchCmd = &cobra.Command{
	Use:   "watch FILE.qasm",
	Short: "Re-run a circuit whenever its file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  watchCircuit,
}

// bellCircuit is the circuit shown when view is started without a file.
func bellCircuit() *circuit.Circuit {
	c := circuit.New(2)
	_ = c.H(0)
	_ = c.CNOT(0, 1)
	_ = c.Measure(0, 0)
	_ = c.Measure(1, 1)
	return c
}

func viewCircuit(cmd *cobra.Command, args []string) error {
	c := bellCircuit()
	savePath := settings().Viewer.SavePath
	if len(args) == 1 {
		loaded, err := loadCircuit(args[0])
		if err != nil {
			return err
		}
		c, savePath = loaded, args[0]
	}

	seed, seeded := seedFor(cmd)
	return tui.Run(c, tui.Options{
		Shots:    shotsFor(cmd),
		Seed:     seed,
		Seeded:   seeded,
		SavePath: savePath,
		Logger:   appLogger(),
		Styles:   styles(),
	})
}

func watchCircuit(cmd *cobra.Command, args []string) error {
	path := args[0]
	shots := shotsFor(cmd)
	seed, seeded := seedFor(cmd)
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	rerun := func(ctx context.Context, p string) {
		c, err := loadCircuit(p)
		if err != nil {
			appLogger().Warn("reload failed", zap.String("path", p), zap.Error(err))
			fmt.Fprintln(errOut, err)
			return
		}
		opts := []simulator.Option{
			simulator.WithName(filepath.Base(p)),
			simulator.WithBackend(settings().Backend()),
			simulator.WithCircuit(c),
			simulator.WithLogger(appLogger()),
		}
		if seeded {
			opts = append(opts, simulator.WithSeed(seed))
		}
		res, err := simulator.New(opts...).Run(shots)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return
		}
		printResult(out, c, res, styles(), false)
		fmt.Fprintln(out)
	}

	w, err := watch.New(path, settings().GetDebounce(), rerun, appLogger())
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun(ctx, w.Path())
	appLogger().Info("watching", zap.String("path", w.Path()))
	return w.Run(ctx)
}
