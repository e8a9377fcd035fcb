package planner

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAssignment_InsertAndOverwrite(t *testing.T) {
	init := makeInit("x", false)

	assert.True(t, SetAssignment(init, "t1", "2.5"))
	assert.Equal(t, []domain.Assignment{{TeamID: "t1", SDEYears: 2.5}}, init.Assignments)

	assert.True(t, SetAssignment(init, "t1", " 4 "))
	assert.Equal(t, []domain.Assignment{{TeamID: "t1", SDEYears: 4}}, init.Assignments)

	assert.False(t, SetAssignment(init, "t1", "4"), "same value is not a change")
}

func TestSetAssignment_NegativeIsDelete(t *testing.T) {
	init := makeInit("x", false, on("team-x", 1))
	assert.True(t, SetAssignment(init, "team-x", "-3"))
	assert.False(t, init.HasAssignment("team-x"))

	fresh := makeInit("y", false)
	assert.False(t, SetAssignment(fresh, "team-x", "-3"))
	assert.False(t, fresh.HasAssignment("team-x"), "no entry created for negative input")
}

func TestSetAssignment_InvalidInputDeletes(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-0.1", "NaN", "Inf", "-Inf", "1e400"} {
		init := makeInit("x", false, on("t1", 1), on("t2", 2))
		SetAssignment(init, "t1", raw)
		assert.Equal(t, []domain.Assignment{{TeamID: "t2", SDEYears: 2}}, init.Assignments, "raw=%q", raw)
	}
}

func TestSetAssignment_NoUpperBound(t *testing.T) {
	init := makeInit("x", false)
	SetAssignment(init, "t1", "1000")
	assert.Equal(t, 1000.0, init.AssignmentFor("t1"))
}

// TestSetAssignment_RoundTrip checks that setting then zeroing a team's
// assignment is indistinguishable from never setting it.
func TestSetAssignment_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		var existing []domain.Assignment
		n := rng.Intn(4)
		for i := 0; i < n; i++ {
			existing = append(existing, on(fmt.Sprintf("t%d", i), float64(rng.Intn(9)+1)))
		}
		init := makeInit("x", false, existing...)
		before := init.Clone()
		team := fmt.Sprintf("new-%d", trial)

		SetAssignment(init, team, "5")
		SetAssignment(init, team, "0")

		require.Equal(t, before.Assignments, init.Assignments, "trial %d", trial)
	}
}

func TestParseSDE(t *testing.T) {
	v, ok := ParseSDE("1.25")
	assert.True(t, ok)
	assert.Equal(t, 1.25, v)

	_, ok = ParseSDE("zero")
	assert.False(t, ok)
}
