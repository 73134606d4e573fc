package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"qtermsim/internal/circuit"
	"qtermsim/internal/gate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixedSource replays a fixed sequence of draws.
type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func bell(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New(2)
	require.NoError(t, c.H(0))
	require.NoError(t, c.CNOT(0, 1))
	require.NoError(t, c.Measure(0, 0))
	require.NoError(t, c.Measure(1, 1))
	return c
}

func TestRunBellHistogram(t *testing.T) {
	const shots = 2000
	sim := New(WithName("bell"), WithCircuit(bell(t)), WithSeed(42))

	res, err := sim.Run(shots)
	require.NoError(t, err)

	assert.Equal(t, shots, res.Shots)
	assert.Equal(t, "bell", res.Name)
	assert.Len(t, res.FinalState, 4)
	assert.Equal(t, []string{"00", "11"}, res.SortedKeys())

	total := 0
	for _, n := range res.Counts {
		total += n
	}
	assert.Equal(t, shots, total)
	assert.InDelta(t, shots/2, res.Counts["00"], 200)
	assert.InDelta(t, shots/2, res.Counts["11"], 200)
}

func TestRunWithoutCircuit(t *testing.T) {
	_, err := New().Run(100)
	assert.ErrorIs(t, err, ErrEmptyCircuit)
}

func TestRunNegativeShots(t *testing.T) {
	_, err := New(WithCircuit(circuit.New(1))).Run(-1)
	assert.ErrorIs(t, err, ErrInvalidShots)
}

func TestRunZeroShots(t *testing.T) {
	res, err := New(WithCircuit(bell(t))).Run(0)
	require.NoError(t, err)
	assert.Empty(t, res.Counts)
	assert.Equal(t, 0.0, res.Probability("00"))
}

func TestSeedIsReproducible(t *testing.T) {
	c := circuit.New(3)
	for q := range 3 {
		require.NoError(t, c.H(q))
	}

	a, err := New(WithCircuit(c), WithSeed(7)).Run(500)
	require.NoError(t, err)
	b, err := New(WithCircuit(c), WithSeed(7)).Run(500)
	require.NoError(t, err)

	assert.Equal(t, a.Counts, b.Counts)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestInjectedSource(t *testing.T) {
	tests := []struct {
		draw float64
		want string
	}{
		{0, "00"},
		{0.25, "00"},
		{0.5, "11"}, // exactly on a boundary: zero-weight 01 and 10 are skipped
		{0.75, "11"},
		{0.999999, "11"},
	}
	for _, tt := range tests {
		sim := New(WithCircuit(bell(t)), WithSource(&fixedSource{vals: []float64{tt.draw}}))
		res, err := sim.Run(10)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{tt.want: 10}, res.Counts, "draw %v", tt.draw)
	}
}

func TestBitstringOrdering(t *testing.T) {
	// Qubit 0 is the rightmost character.
	c := circuit.New(3)
	require.NoError(t, c.X(0))

	res, err := New(WithCircuit(c), WithSeed(1)).Run(10)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"001": 10}, res.Counts)

	most, n := res.MostFrequent()
	assert.Equal(t, "001", most)
	assert.Equal(t, 10, n)
}

func TestSetters(t *testing.T) {
	sim := New()
	assert.Equal(t, StateVector, sim.Backend())
	assert.Nil(t, sim.Circuit())

	sim.SetName("renamed")
	sim.SetCircuit(circuit.New(1))
	res, err := sim.Run(3)
	require.NoError(t, err)
	assert.Equal(t, "renamed", res.Name)
	assert.Equal(t, map[string]int{"0": 3}, res.Counts)
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("statevector")
	require.NoError(t, err)
	assert.Equal(t, StateVector, b)
	assert.Equal(t, "statevector", b.String())

	_, err = ParseBackend("tensor")
	assert.Error(t, err)
}

func TestNonUnitaryCustomGateWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	m, err := gate.NewMatrix(2, 2, []complex128{1, 0, 0, 0.5})
	require.NoError(t, err)
	c := circuit.New(1)
	require.NoError(t, c.X(0))
	require.NoError(t, c.AddGate(gate.Custom(m, "damp", "D"), 0))

	res, err := New(WithCircuit(c), WithLogger(zap.New(core)), WithSeed(3)).Run(5)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 5}, res.Counts)

	entries := logs.FilterMessage("custom gate is not unitary").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "damp", entries[0].ContextMap()["gate"])
}

func TestUnitaryCustomGateDoesNotWarn(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	c := circuit.New(2)
	require.NoError(t, c.AppendControlled(gate.Custom(gate.SWAP().Matrix(), "swap2", "S"), 0, 1))

	_, err := New(WithCircuit(c), WithLogger(zap.New(core))).Run(1)
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestZeroProbabilityState(t *testing.T) {
	m, err := gate.NewMatrix(2, 2, []complex128{0, 0, 0, 0})
	require.NoError(t, err)
	c := circuit.New(1)
	require.NoError(t, c.AddGate(gate.Custom(m, "null", "0"), 0))

	_, err = New(WithCircuit(c)).Run(1)
	assert.ErrorIs(t, err, ErrZeroProbability)
}

func TestRunBatch(t *testing.T) {
	sims := make([]*Simulator, 4)
	for i := range sims {
		sims[i] = New(WithName("bell"), WithCircuit(bell(t)), WithSeed(uint64(i)))
	}

	results, err := RunBatch(context.Background(), sims, 100, 2)
	require.NoError(t, err)
	require.Len(t, results, len(sims))
	for _, res := range results {
		assert.Equal(t, 100, res.Counts["00"]+res.Counts["11"])
	}
}

func TestRunBatchPropagatesErrors(t *testing.T) {
	sims := []*Simulator{
		New(WithCircuit(bell(t))),
		New(WithName("empty")),
	}
	_, err := RunBatch(context.Background(), sims, 10, 0)
	assert.ErrorIs(t, err, ErrEmptyCircuit)
	assert.Contains(t, err.Error(), "empty")
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunBatch(ctx, []*Simulator{New(WithCircuit(bell(t)))}, 10, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
