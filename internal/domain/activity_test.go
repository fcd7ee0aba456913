package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/planit/internal/domain"
)

func TestCategory_Valid(t *testing.T) {
	for _, c := range domain.Categories {
		assert.True(t, c.Valid(), "%s should be valid", c)
	}
	assert.False(t, domain.Category("Shopping").Valid())
	assert.False(t, domain.Category("food").Valid(), "categories are case-sensitive")
}

func TestToggleVote_AddsThenRemoves(t *testing.T) {
	user := uuid.New()
	a := domain.Activity{ID: uuid.New()}

	voted := a.ToggleVote(user)
	assert.True(t, voted.HasVoted(user))
	assert.Len(t, voted.Votes, 1)

	unvoted := voted.ToggleVote(user)
	assert.False(t, unvoted.HasVoted(user))
	assert.Empty(t, unvoted.Votes)
}

func TestToggleVote_DoesNotMutateReceiver(t *testing.T) {
	user := uuid.New()
	a := domain.Activity{Votes: []uuid.UUID{user, uuid.New()}}

	_ = a.ToggleVote(user)

	assert.True(t, a.HasVoted(user), "original vote set must be unchanged")
	assert.Len(t, a.Votes, 2)
}

func TestToggleVote_TwiceRestoresVoteSet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("toggle(toggle(a, u), u) has the same vote set as a", prop.ForAll(
		func(existing int, includeUser bool) bool {
			user := uuid.New()
			a := activityWithVotes(existing)
			if includeUser {
				a.Votes = append(a.Votes, user)
			}

			back := a.ToggleVote(user).ToggleVote(user)

			if len(back.Votes) != len(a.Votes) {
				return false
			}
			for _, v := range a.Votes {
				if !back.HasVoted(v) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
