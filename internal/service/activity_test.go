package service_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/events"
	"github.com/pkordes/planit/internal/service"
)

// ---- Add -------------------------------------------------------------------

func TestActivityService_Add(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	trip := w.createTrip(t, ana.ID)

	in := validActivityInput()
	in.Time = "9:05"
	in.Notes = "  bring sunscreen "
	got := w.addActivity(t, trip.ID, ana.ID, in)

	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, "Surf lesson", got.Title)
	assert.Equal(t, "09:05", got.Time, "time is zero-padded")
	assert.Equal(t, "bring sunscreen", got.Notes)
	assert.Equal(t, ana.ID, got.CreatedBy)
	assert.NotNil(t, got.Votes)
	assert.Empty(t, got.Votes)

	evs := w.events.events
	require.NotEmpty(t, evs)
	last := evs[len(evs)-1]
	assert.Equal(t, events.ActivityAdded, last.Type)
	assert.Equal(t, got.ID, last.ActivityID)
}

func TestActivityService_Add_DateBoundsInclusive(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	trip := w.createTrip(t, ana.ID) // June 1-7

	for _, d := range []int{1, 7} {
		in := validActivityInput()
		in.Date = date(d)
		_, err := w.activities.Add(context.Background(), trip.ID, ana.ID, in)
		assert.NoError(t, err, "June %d is inside the trip", d)
	}
	for _, d := range []int{0, 8} {
		in := validActivityInput()
		in.Date = date(d)
		_, err := w.activities.Add(context.Background(), trip.ID, ana.ID, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "day %d is outside the trip", d)
	}
}

func TestActivityService_Add_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*service.ActivityInput)
		wantMsg string
	}{
		{"blank title", func(in *service.ActivityInput) { in.Title = " " }, "title is required"},
		{"missing time", func(in *service.ActivityInput) { in.Time = "" }, "time is required"},
		{"hour out of range", func(in *service.ActivityInput) { in.Time = "24:00" }, "HH:MM"},
		{"not a time", func(in *service.ActivityInput) { in.Time = "noon" }, "HH:MM"},
		{"missing category", func(in *service.ActivityInput) { in.Category = "" }, "category is required"},
		{"unknown category", func(in *service.ActivityInput) { in.Category = "Shopping" }, "category must be one of"},
		{"negative cost", func(in *service.ActivityInput) { in.EstimatedCost = -0.01 }, "estimated_cost must be at least 0"},
		{"cost past the cap", func(in *service.ActivityInput) { in.EstimatedCost = 1e9 + 1 }, "estimated_cost must be at most 1000000000"},
		{"cost that would overflow a sum", func(in *service.ActivityInput) { in.EstimatedCost = math.MaxFloat64 }, "estimated_cost must be at most 1000000000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newWorld(t)
			ana := w.register(t, "ana")
			trip := w.createTrip(t, ana.ID)
			in := validActivityInput()
			tc.mutate(&in)

			_, err := w.activities.Add(context.Background(), trip.ID, ana.ID, in)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestActivityService_Add_Zero_Cost_Allowed(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	trip := w.createTrip(t, ana.ID)
	in := validActivityInput()
	in.EstimatedCost = 0

	_, err := w.activities.Add(context.Background(), trip.ID, ana.ID, in)

	assert.NoError(t, err)
}

func TestActivityService_Add_Access(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	stranger := w.register(t, "stranger")
	trip := w.createTrip(t, ana.ID)

	_, err := w.activities.Add(context.Background(), trip.ID, uuid.Nil, validActivityInput())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = w.activities.Add(context.Background(), uuid.New(), ana.ID, validActivityInput())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = w.activities.Add(context.Background(), trip.ID, stranger.ID, validActivityInput())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestActivityService_Add_RepoError(t *testing.T) {
	owner := uuid.New()
	boom := errors.New("timeout")
	svc := service.NewActivityService(
		&mockTripRepo{getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			return domain.Trip{ID: id, StartDate: date(1), EndDate: date(7), Participants: []uuid.UUID{owner}}, nil
		}},
		&mockActivityRepo{create: func(context.Context, domain.Activity) (domain.Activity, error) {
			return domain.Activity{}, boom
		}},
	)

	_, err := svc.Add(context.Background(), uuid.New(), owner, validActivityInput())

	assert.ErrorIs(t, err, boom)
}

// ---- ListForTrip -----------------------------------------------------------

func TestActivityService_ListForTrip(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	trip := w.createTrip(t, ana.ID)
	a := w.addActivity(t, trip.ID, ana.ID, validActivityInput())

	got, err := w.activities.ListForTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	_, err = w.activities.ListForTrip(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Standing is recomputed from the listing on every read, so a join after
// the vote raises the quorum.
func TestActivityService_ListForTrip_JoinRaisesQuorum(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	bo := w.register(t, "bo")
	cy := w.register(t, "cy")
	trip := w.createTrip(t, ana.ID)
	w.join(t, trip.ID, bo.ID)
	a := w.addActivity(t, trip.ID, ana.ID, validActivityInput())

	_, err := w.activities.ToggleVote(context.Background(), a.ID, ana.ID)
	require.NoError(t, err)

	stand := func(viewer uuid.UUID) domain.Standing {
		t.Helper()
		listed, err := w.activities.ListForTrip(context.Background(), trip.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		current, err := w.trips.GetByID(context.Background(), trip.ID)
		require.NoError(t, err)
		return domain.Stand(listed[0], current.ParticipantCount(), viewer)
	}

	got := stand(ana.ID)
	assert.Equal(t, 1, got.RequiredVotes, "ceil(2/2)")
	assert.Equal(t, domain.StatusLockedIn, got.Status)
	assert.True(t, got.VotedByViewer)

	w.join(t, trip.ID, cy.ID)

	got = stand(bo.ID)
	assert.Equal(t, 2, got.RequiredVotes, "ceil(3/2)")
	assert.Equal(t, domain.StatusProposed, got.Status, "a join can un-lock an activity")
	assert.False(t, got.VotedByViewer)
}

// ---- ToggleVote ------------------------------------------------------------

func TestActivityService_ToggleVote(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	trip := w.createTrip(t, ana.ID)
	a := w.addActivity(t, trip.ID, ana.ID, validActivityInput())

	voted, err := w.activities.ToggleVote(context.Background(), a.ID, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ana.ID}, voted.Votes)

	unvoted, err := w.activities.ToggleVote(context.Background(), a.ID, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, unvoted.Votes, "toggling twice restores the original set")

	assert.Equal(t, events.ActivityVoteToggled, w.events.types()[len(w.events.types())-1])
}

func TestActivityService_ToggleVote_Access(t *testing.T) {
	w := newWorld(t)
	ana := w.register(t, "ana")
	stranger := w.register(t, "stranger")
	trip := w.createTrip(t, ana.ID)
	a := w.addActivity(t, trip.ID, ana.ID, validActivityInput())

	_, err := w.activities.ToggleVote(context.Background(), a.ID, uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = w.activities.ToggleVote(context.Background(), uuid.New(), ana.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = w.activities.ToggleVote(context.Background(), a.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	w.join(t, trip.ID, stranger.ID)
	got, err := w.activities.ToggleVote(context.Background(), a.ID, stranger.ID)
	require.NoError(t, err)
	assert.True(t, got.HasVoted(stranger.ID), "after joining the vote counts")
}

// Every participant toggling concurrently must end with every vote recorded.
func TestActivityService_ToggleVote_Concurrent(t *testing.T) {
	w := newWorld(t)
	owner := w.register(t, "owner")
	trip := w.createTrip(t, owner.ID)
	a := w.addActivity(t, trip.ID, owner.ID, validActivityInput())

	var members []uuid.UUID
	for i := range 8 {
		u := w.register(t, "member"+string(rune('a'+i)))
		w.join(t, trip.ID, u.ID)
		members = append(members, u.ID)
	}

	var wg sync.WaitGroup
	for _, id := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.activities.ToggleVote(context.Background(), a.ID, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := w.repos.Activities.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, members, got.Votes)
}
