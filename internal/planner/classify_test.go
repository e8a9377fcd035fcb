package planner

import (
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioInitiatives() []*domain.Initiative {
	a := makeInit("A", true, on("t1", 4))
	b := makeInit("B", false, on("t1", 6))
	c := makeInit("C", false, on("t2", 3))
	return []*domain.Initiative{c, a, b}
}

func TestClassify_ProtectedFirstCutLine(t *testing.T) {
	ordered := Classify(scenarioInitiatives(), 10)

	require.Equal(t, []string{"A", "B", "C"}, ids(ordered))
	assert.Equal(t, 4.0, ordered[0].CumulativeSDE)
	assert.Equal(t, domain.ClassATL, ordered[0].Classification)
	assert.Equal(t, 10.0, ordered[1].CumulativeSDE)
	assert.Equal(t, domain.ClassATL, ordered[1].Classification, "cum equal to limit stays ATL")
	assert.Equal(t, 13.0, ordered[2].CumulativeSDE)
	assert.Equal(t, domain.ClassBTL, ordered[2].Classification)
}

func TestClassify_ProtectedCanFallBelowLine(t *testing.T) {
	ordered := Classify(scenarioInitiatives(), 3)

	require.Equal(t, []string{"A", "B", "C"}, ids(ordered))
	for _, init := range ordered {
		assert.Equal(t, domain.ClassBTL, init.Classification, init.ID)
	}
	assert.Equal(t, 4.0, ordered[0].CumulativeSDE)
	assert.Equal(t, 10.0, ordered[1].CumulativeSDE)
	assert.Equal(t, 13.0, ordered[2].CumulativeSDE)
}

func TestClassify_ZeroLimit(t *testing.T) {
	empty := makeInit("empty", false)
	paid := makeInit("paid", false, on("t1", 0.5))
	ordered := Classify([]*domain.Initiative{empty, paid}, 0)

	assert.Equal(t, domain.ClassATL, ordered[0].Classification, "zero SDE never crosses the line")
	assert.Equal(t, domain.ClassBTL, ordered[1].Classification)
}

func TestClassify_NegativeLimit(t *testing.T) {
	ordered := Classify([]*domain.Initiative{makeInit("x", false)}, -1)
	assert.Equal(t, domain.ClassBTL, ordered[0].Classification)
}

func TestClassify_ExcludesCompleted(t *testing.T) {
	done := makeInit("done", true, on("t1", 100))
	done.Status = domain.StatusCompleted
	open := makeInit("open", false, on("t1", 2))

	ordered := Classify([]*domain.Initiative{done, open}, 5)

	require.Equal(t, []string{"open"}, ids(ordered))
	assert.Equal(t, 2.0, open.CumulativeSDE)
	assert.Equal(t, domain.ClassUnset, done.Classification)
	assert.Zero(t, done.CumulativeSDE)
}

func TestOrder_StableWithinBlocks(t *testing.T) {
	list := []*domain.Initiative{
		makeInit("n1", false), makeInit("p1", true), makeInit("n2", false),
		makeInit("p2", true), makeInit("n3", false),
	}
	assert.Equal(t, []string{"p1", "p2", "n1", "n2", "n3"}, ids(Order(list)))
	assert.Equal(t, []string{"n1", "p1", "n2", "p2", "n3"}, ids(list), "input must not be reordered")
}

func TestATLAndBTLFilters(t *testing.T) {
	ordered := Classify(scenarioInitiatives(), 10)
	assert.Equal(t, []string{"A", "B"}, ids(ATL(ordered)))
	assert.Equal(t, []string{"C"}, ids(BTL(ordered)))
}
