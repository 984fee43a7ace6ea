package gibbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborbayes/bnkit/builder"
)

func TestNewSamplerInitialisesEvidenceAndSamplesNonEvidenced(t *testing.T) {
	net, err := builder.BuildNetwork(nil, builder.BurglaryNetwork())
	require.NoError(t, err)
	require.NoError(t, net.SetEvidence("JohnCalls", "T"))
	require.NoError(t, net.SetEvidence("MaryCalls", "T"))
	require.NoError(t, net.Compile())

	s, err := NewSampler(net, 0)
	require.NoError(t, err)
	state := s.State()
	assert.Equal(t, "T", state["JohnCalls"])
	assert.Equal(t, "T", state["MaryCalls"])
	assert.Contains(t, []string{"T", "F"}, state["Burglary"])
	assert.Contains(t, []string{"T", "F"}, state["Alarm"])
}

func TestStepProducesValidDomainValues(t *testing.T) {
	net, err := builder.BuildNetwork(nil, builder.BurglaryNetwork())
	require.NoError(t, err)
	require.NoError(t, net.SetEvidence("JohnCalls", "T"))
	require.NoError(t, net.SetEvidence("MaryCalls", "T"))
	require.NoError(t, net.Compile())

	s, err := NewSampler(net, 1)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Step())
		state := s.State()
		for _, name := range []string{"Burglary", "Earthquake", "Alarm"} {
			assert.Contains(t, []string{"T", "F"}, state[name])
		}
	}
}

func TestEstimateMarginalPerQueryCountReturnsNormalisedDistribution(t *testing.T) {
	net, err := builder.BuildNetwork(nil, builder.BurglaryNetwork())
	require.NoError(t, err)
	require.NoError(t, net.SetEvidence("JohnCalls", "T"))
	require.NoError(t, net.SetEvidence("MaryCalls", "T"))
	require.NoError(t, net.Compile())

	s, err := NewSampler(net, 7)
	require.NoError(t, err)
	dist, err := s.EstimateMarginal("Burglary", ConvergenceConfig{
		Mode:        PerQueryCount,
		SampleCount: 500,
		BurnIn:      50,
	})
	require.NoError(t, err)
	require.Len(t, dist, 2)
	sum := dist[0] + dist[1]
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestEstimateMarginalPerNodeFactorConverges(t *testing.T) {
	net, err := builder.BuildNetwork(nil, builder.BurglaryNetwork())
	require.NoError(t, err)
	require.NoError(t, net.SetEvidence("JohnCalls", "T"))
	require.NoError(t, net.SetEvidence("MaryCalls", "T"))
	require.NoError(t, net.Compile())

	s, err := NewSampler(net, 3)
	require.NoError(t, err)
	dist, err := s.EstimateMarginal("Burglary", ConvergenceConfig{
		Mode:             PerNodeFactor,
		CheckpointSweeps: 50,
		Tolerance:        0.2,
		MaxSweeps:        2000,
		BurnIn:           50,
	})
	require.NoError(t, err)
	require.Len(t, dist, 2)
}

func TestNewSamplerRejectsUncompiledNetwork(t *testing.T) {
	net, err := builder.BuildNetwork(nil, builder.BurglaryNetwork())
	require.NoError(t, err)
	_, err = NewSampler(net, 0)
	require.Error(t, err)
}
