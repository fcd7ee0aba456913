package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planit/internal/auth"
	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/service"
)

// Activity is the API representation of an activity without its standing.
// Used where the trip's membership is not part of the view (timeline, budget).
type Activity struct {
	ID            uuid.UUID          `json:"id"`
	TripID        uuid.UUID          `json:"trip_id"`
	Title         string             `json:"title"`
	Date          openapi_types.Date `json:"date"`
	Time          string             `json:"time"`
	Category      domain.Category    `json:"category"`
	EstimatedCost float64            `json:"estimated_cost"`
	Notes         string             `json:"notes"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	Votes         []uuid.UUID        `json:"votes"`
	VoteCount     int                `json:"vote_count"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ActivityStanding is an activity evaluated against the trip's current
// participant count, as seen by the caller.
type ActivityStanding struct {
	Activity
	RequiredVotes int                     `json:"required_votes"`
	Status        domain.AcceptanceStatus `json:"status"`
	VotedByMe     bool                    `json:"voted_by_me"`
}

type createActivityRequest struct {
	Title         string             `json:"title"`
	Date          openapi_types.Date `json:"date"`
	Time          string             `json:"time"`
	Category      domain.Category    `json:"category"`
	EstimatedCost float64            `json:"estimated_cost"`
	Notes         string             `json:"notes"`
}

// ListActivities handles GET /trips/{tripId}/activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}

	activities, err := s.activities.ListForTrip(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	trip, err := s.trips.GetByID(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	viewer := auth.UserID(r.Context())
	out := make([]ActivityStanding, 0, len(activities))
	for _, a := range activities {
		out = append(out, standingToAPI(domain.Stand(a, trip.ParticipantCount(), viewer)))
	}
	s.respond(w, r, http.StatusOK, out)
}

// CreateActivity handles POST /trips/{tripId}/activities.
// Only trip participants may propose activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}
	var req createActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := auth.UserID(r.Context())
	activity, err := s.activities.Add(r.Context(), tripID, user, service.ActivityInput{
		Title:         req.Title,
		Date:          req.Date.Time,
		Time:          req.Time,
		Category:      req.Category,
		EstimatedCost: req.EstimatedCost,
		Notes:         req.Notes,
	})
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	s.writeStanding(w, r, http.StatusCreated, activity, user)
}

// ToggleVote handles POST /activities/{activityId}/votes. Voting twice
// withdraws the vote.
func (s *Server) ToggleVote(w http.ResponseWriter, r *http.Request) {
	activityID, ok := pathUUID(w, r, "activityId", "activity")
	if !ok {
		return
	}

	user := auth.UserID(r.Context())
	activity, err := s.activities.ToggleVote(r.Context(), activityID, user)
	if err != nil {
		s.fail(w, r, err, "activity")
		return
	}
	s.writeStanding(w, r, http.StatusOK, activity, user)
}

// writeStanding evaluates a freshly written activity against its trip's
// current membership and writes it.
func (s *Server) writeStanding(w http.ResponseWriter, r *http.Request, status int, a domain.Activity, viewer uuid.UUID) {
	trip, err := s.trips.GetByID(r.Context(), a.TripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	s.respond(w, r, status, standingToAPI(domain.Stand(a, trip.ParticipantCount(), viewer)))
}

func activityToAPI(a domain.Activity) Activity {
	votes := a.Votes
	if votes == nil {
		votes = []uuid.UUID{}
	}
	return Activity{
		ID:            a.ID,
		TripID:        a.TripID,
		Title:         a.Title,
		Date:          openapi_types.Date{Time: a.Date},
		Time:          a.Time,
		Category:      a.Category,
		EstimatedCost: a.EstimatedCost,
		Notes:         a.Notes,
		CreatedBy:     a.CreatedBy,
		Votes:         votes,
		VoteCount:     len(votes),
		CreatedAt:     a.CreatedAt,
	}
}

func standingToAPI(st domain.Standing) ActivityStanding {
	return ActivityStanding{
		Activity:      activityToAPI(st.Activity),
		RequiredVotes: st.RequiredVotes,
		Status:        st.Status,
		VotedByMe:     st.VotedByViewer,
	}
}
