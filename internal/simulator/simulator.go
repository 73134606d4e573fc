// Package simulator samples measurement outcomes from executed circuits.
package simulator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qtermsim/internal/circuit"
	"qtermsim/internal/gate"
	"qtermsim/internal/statevector"
)

var (
	// ErrEmptyCircuit is returned by Run when no circuit has been attached.
	ErrEmptyCircuit = errors.New("no circuit attached to simulator")

	// ErrInvalidShots is returned for a negative shot count.
	ErrInvalidShots = errors.New("shots must be non-negative")

	// ErrZeroProbability is returned when the final state has no weight to sample from.
	ErrZeroProbability = errors.New("final state has zero total probability")
)

// Backend selects the execution engine.
type Backend int

const (
	// StateVector is the exact dense amplitude engine.
	StateVector Backend = iota
)

func (b Backend) String() string {
	switch b {
	case StateVector:
		return "statevector"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend maps a backend name back to its value.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "statevector":
		return StateVector, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", s)
	}
}

// Source supplies uniform floats in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Simulator runs a circuit and samples measurement shots from its final state.
// A Simulator is not safe for concurrent use; run separate instances instead.
type Simulator struct {
	name    string
	backend Backend
	circuit *circuit.Circuit
	source  Source
	logger  *zap.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithName sets the display name carried into results.
func WithName(name string) Option {
	return func(s *Simulator) { s.name = name }
}

// WithBackend selects the execution backend.
func WithBackend(b Backend) Option {
	return func(s *Simulator) { s.backend = b }
}

// WithCircuit attaches the circuit to run.
func WithCircuit(c *circuit.Circuit) Option {
	return func(s *Simulator) { s.circuit = c }
}

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) { s.source = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithSource replaces the random source used for sampling.
func WithSource(src Source) Option {
	return func(s *Simulator) { s.source = src }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a Simulator. Without WithSeed or WithSource the sampler is seeded
// from the runtime's random state.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		name:    "simulator",
		backend: StateVector,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		s.source = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Name returns the simulator's name.
func (s *Simulator) Name() string { return s.name }

// Backend returns the selected backend.
func (s *Simulator) Backend() Backend { return s.backend }

// Circuit returns the attached circuit, or nil.
func (s *Simulator) Circuit() *circuit.Circuit { return s.circuit }

// SetName renames the simulator.
func (s *Simulator) SetName(name string) { s.name = name }

// SetCircuit attaches c, replacing any previous circuit.
func (s *Simulator) SetCircuit(c *circuit.Circuit) { s.circuit = c }

// Run executes the attached circuit from |0…0⟩ and draws shots samples from
// the final state.
func (s *Simulator) Run(shots int) (*Result, error) {
	if s.circuit == nil {
		return nil, ErrEmptyCircuit
	}
	if shots < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShots, shots)
	}

	id := uuid.New()
	log := s.logger.With(
		zap.String("run_id", id.String()),
		zap.String("name", s.name),
		zap.Stringer("backend", s.backend),
	)
	s.warnNonUnitary(log)

	state, err := s.execute()
	if err != nil {
		log.Debug("execution failed", zap.Error(err))
		return nil, err
	}

	counts, err := sample(state, shots, s.source)
	if err != nil {
		return nil, err
	}

	log.Debug("run complete",
		zap.Int("qubits", state.NumQubits),
		zap.Int("operations", s.circuit.NumOperations()),
		zap.Int("shots", shots),
		zap.Int("outcomes", len(counts)),
	)

	return &Result{
		ID:         id,
		Name:       s.name,
		NumQubits:  state.NumQubits,
		Shots:      shots,
		FinalState: state.Amplitudes,
		Counts:     counts,
	}, nil
}

func (s *Simulator) execute() (*statevector.StateVector, error) {
	switch s.backend {
	case StateVector:
		return statevector.Execute(s.circuit)
	default:
		return nil, fmt.Errorf("unsupported backend %s", s.backend)
	}
}

// warnNonUnitary logs custom gates that will not preserve the norm. They are
// still applied.
func (s *Simulator) warnNonUnitary(log *zap.Logger) {
	if !s.circuit.HasCustomGates() {
		return
	}
	for i, op := range s.circuit.Operations() {
		g := op.Gate
		if g.Kind != gate.KindCustom || g.Validate() != nil || g.Matrix().IsUnitary(1e-9) {
			continue
		}
		log.Warn("custom gate is not unitary",
			zap.Int("operation", i),
			zap.String("gate", g.Name()),
			zap.Ints("qubits", op.Qubits),
		)
	}
}
