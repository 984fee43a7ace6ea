package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/factor"
)

func boolDomain(t *testing.T) *domain.Domain {
	t.Helper()
	d, err := domain.NewDomain("Bool", "T", "F")
	require.NoError(t, err)
	return d
}

func TestEliminationOrderOfNoVariablesIsEmpty(t *testing.T) {
	order := EliminationOrder(nil, nil)
	assert.Nil(t, order)
}

func TestEliminationOrderCoversEveryRequestedVariableExactlyOnce(t *testing.T) {
	d := boolDomain(t)
	a := domain.NewEnumerable("A", d)
	b := domain.NewEnumerable("B", d)
	c := domain.NewEnumerable("C", d)
	fab, err := factor.New([]*domain.Variable{a, b}, nil, false)
	require.NoError(t, err)
	fbc, err := factor.New([]*domain.Variable{b, c}, nil, false)
	require.NoError(t, err)

	order := EliminationOrder([]*domain.Variable{a, b, c}, []*factor.Factor{fab, fbc})
	require.Len(t, order, 3)
	seen := make(map[string]bool)
	for _, v := range order {
		seen[v.Name()] = true
	}
	assert.True(t, seen["A"])
	assert.True(t, seen["B"])
	assert.True(t, seen["C"])
}

// TestEliminationOrderPrefersLowFillVariable checks the min-fill heuristic
// directly: B is shared by both factors (its neighbours A and C are not
// already connected), so eliminating B first introduces one fill edge,
// while eliminating A or C first introduces none. The heuristic should
// therefore defer B.
func TestEliminationOrderPrefersLowFillVariable(t *testing.T) {
	d := boolDomain(t)
	a := domain.NewEnumerable("A", d)
	b := domain.NewEnumerable("B", d)
	c := domain.NewEnumerable("C", d)
	fab, err := factor.New([]*domain.Variable{a, b}, nil, false)
	require.NoError(t, err)
	fbc, err := factor.New([]*domain.Variable{b, c}, nil, false)
	require.NoError(t, err)

	order := EliminationOrder([]*domain.Variable{a, b, c}, []*factor.Factor{fab, fbc})
	require.Len(t, order, 3)
	assert.NotEqual(t, "B", order[0].Name())
}

func TestEliminationOrderTiesBreakByCanonicalIndex(t *testing.T) {
	domain.ResetCanonicalCounterForTest()
	d := boolDomain(t)
	a := domain.NewEnumerable("A", d)
	b := domain.NewEnumerable("B", d)
	fa, err := factor.New([]*domain.Variable{a}, nil, false)
	require.NoError(t, err)
	fb, err := factor.New([]*domain.Variable{b}, nil, false)
	require.NoError(t, err)

	order := EliminationOrder([]*domain.Variable{b, a}, []*factor.Factor{fa, fb})
	require.Len(t, order, 2)
	assert.Equal(t, "A", order[0].Name())
	assert.Equal(t, "B", order[1].Name())
}
