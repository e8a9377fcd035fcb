package planner

import (
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withState(id string, status domain.InitiativeStatus, class domain.Classification) *domain.Initiative {
	init := makeInit(id, false)
	init.Status = status
	init.Classification = class
	return init
}

func TestCommitPlan_Transitions(t *testing.T) {
	cases := []struct {
		status domain.InitiativeStatus
		class  domain.Classification
		want   domain.InitiativeStatus
	}{
		{domain.StatusBacklog, domain.ClassATL, domain.StatusCommitted},
		{domain.StatusDefined, domain.ClassATL, domain.StatusCommitted},
		{domain.StatusCommitted, domain.ClassATL, domain.StatusCommitted},
		{domain.StatusInProgress, domain.ClassATL, domain.StatusInProgress},
		{domain.StatusCommitted, domain.ClassBTL, domain.StatusBacklog},
		{domain.StatusInProgress, domain.ClassBTL, domain.StatusBacklog},
		{domain.StatusBacklog, domain.ClassBTL, domain.StatusBacklog},
		{domain.StatusDefined, domain.ClassBTL, domain.StatusDefined},
		{domain.StatusCompleted, domain.ClassBTL, domain.StatusCompleted},
		{domain.StatusCompleted, domain.ClassATL, domain.StatusCompleted},
		{domain.StatusBacklog, domain.ClassUnset, domain.StatusBacklog},
	}
	for _, tc := range cases {
		init := withState("x", tc.status, tc.class)
		CommitPlan([]*domain.Initiative{init}, testYear)
		assert.Equal(t, tc.want, init.Status, "status=%s class=%s", tc.status, tc.class)
	}
}

func TestCommitPlan_Idempotent(t *testing.T) {
	init := withState("x", domain.StatusBacklog, domain.ClassATL)
	list := []*domain.Initiative{init, withState("y", domain.StatusInProgress, domain.ClassBTL)}

	first := CommitPlan(list, testYear)
	require.Equal(t, 2, first.Updated())
	assert.Equal(t, domain.StatusCommitted, init.Status)
	after := domain.CloneInitiatives(list)

	second := CommitPlan(list, testYear)
	assert.Equal(t, 0, second.Updated())
	assert.Equal(t, after, list)
	assert.Equal(t, domain.StatusCommitted, init.Status)
}

func TestCommitPlan_OtherYearsUntouched(t *testing.T) {
	other := withState("x", domain.StatusBacklog, domain.ClassATL)
	other.PlanningYear = testYear + 1

	res := CommitPlan([]*domain.Initiative{other}, testYear)

	assert.Zero(t, res.Updated())
	assert.Equal(t, domain.StatusBacklog, other.Status)
}

func TestCommitPlan_RecordsChanges(t *testing.T) {
	init := withState("x", domain.StatusDefined, domain.ClassATL)
	res := CommitPlan([]*domain.Initiative{init}, testYear)

	require.Len(t, res.Changes, 1)
	assert.Equal(t, StatusChange{
		InitiativeID:   "x",
		Title:          "x",
		From:           domain.StatusDefined,
		To:             domain.StatusCommitted,
		Classification: domain.ClassATL,
	}, res.Changes[0])
}

func TestCommitPlan_RecordsCommittedClassification(t *testing.T) {
	kept := withState("x", domain.StatusCommitted, domain.ClassATL)
	demoted := withState("y", domain.StatusDefined, domain.ClassBTL)
	done := withState("z", domain.StatusCompleted, domain.ClassATL)

	CommitPlan([]*domain.Initiative{kept, demoted, done}, testYear)

	assert.Equal(t, domain.ClassATL, kept.CommittedAs)
	assert.Equal(t, domain.ClassBTL, demoted.CommittedAs)
	assert.Equal(t, domain.ClassUnset, done.CommittedAs)
}
