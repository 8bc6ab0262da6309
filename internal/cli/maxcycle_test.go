package cli

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxCycle_LossGolden(t *testing.T) {
	out, _, err := execute(t, "maxcycle", "--graph", "testdata/triangle.yaml")
	require.NoError(t, err)
	assertGolden(t, "maxcycle_loss", out)
}

func TestMaxCycle_MixerGolden(t *testing.T) {
	out, _, err := execute(t, "maxcycle", "--graph", "testdata/triangle.yaml", "--mixer")
	require.NoError(t, err)
	assertGolden(t, "maxcycle_mixer", out)
}

func TestMaxCycle_CompleteGraph(t *testing.T) {
	out, _, err := execute(t, "maxcycle", "--nodes", "3", "--weight", "2", "--format", "json")
	require.NoError(t, err)

	var r MaxCycleResult
	resp := decodeData(t, out, &r)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "loss", r.Hamiltonian)
	assert.Equal(t, []WireEdge{
		{0, 0, 1}, {1, 0, 2}, {2, 1, 0}, {3, 1, 2}, {4, 2, 0}, {5, 2, 1},
	}, r.Wires)
	require.Len(t, r.Terms, 6)
	for i, term := range r.Terms {
		assert.InDelta(t, math.Log(2), term.Coeff, 1e-15)
		assert.Contains(t, term.Observable, "PauliZ")
		assert.Contains(t, term.Observable, string(rune('0'+i)))
	}
}

func TestMaxCycle_CompleteGraphMixer(t *testing.T) {
	out, _, err := execute(t, "maxcycle", "--nodes", "3", "--mixer", "--format", "json")
	require.NoError(t, err)

	var r MaxCycleResult
	decodeData(t, out, &r)
	assert.Equal(t, "mixer", r.Hamiltonian)
	// One intermediate node per edge, four terms each.
	assert.Len(t, r.Terms, 24)
}

func TestMaxCycle_Errors(t *testing.T) {
	_, _, err := execute(t, "maxcycle", "--nodes", "3")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "edge does not contain weight data")

	_, _, err = execute(t, "maxcycle", "--nodes", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "maxcycle", "--graph", "testdata/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "maxcycle")
	assert.Error(t, err)

	_, _, err = execute(t, "maxcycle", "--nodes", "3", "--graph", "testdata/triangle.yaml")
	assert.Error(t, err)
}
