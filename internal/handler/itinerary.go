package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planit/internal/domain"
)

// TimelineDay is one day of the timeline, activities ordered by time.
type TimelineDay struct {
	Date       openapi_types.Date `json:"date"`
	Activities []Activity         `json:"activities"`
}

// CategoryTotal is one line of the per-category breakdown.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Total    float64         `json:"total"`
	Percent  float64         `json:"percent"`
}

// Budget is the budget view of a trip. Remaining and UsedPercent are null
// when the trip has no budget; UsedPercent is also null for a zero budget.
type Budget struct {
	Budget      *float64        `json:"budget"`
	TotalCost   float64         `json:"total_cost"`
	Remaining   *float64        `json:"remaining"`
	UsedPercent *float64        `json:"used_percent"`
	OverBudget  bool            `json:"over_budget"`
	Categories  []CategoryTotal `json:"categories"`
	Activities  []Activity      `json:"activities"`
}

// GetTimeline handles GET /trips/{tripId}/timeline.
func (s *Server) GetTimeline(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}

	days, err := s.itinerary.Timeline(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	out := make([]TimelineDay, 0, len(days))
	for _, d := range days {
		out = append(out, TimelineDay{
			Date:       openapi_types.Date{Time: d.Date},
			Activities: activitiesToAPI(d.Activities),
		})
	}
	s.respond(w, r, http.StatusOK, out)
}

// GetBudget handles GET /trips/{tripId}/budget.
func (s *Server) GetBudget(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}

	report, err := s.itinerary.Budget(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	sum := report.Summary
	categories := make([]CategoryTotal, 0, len(sum.Categories))
	for _, c := range sum.Categories {
		categories = append(categories, CategoryTotal{Category: c.Category, Total: c.Total, Percent: c.Percent})
	}
	s.respond(w, r, http.StatusOK, Budget{
		Budget:      sum.Budget,
		TotalCost:   sum.TotalCost,
		Remaining:   sum.Remaining,
		UsedPercent: sum.UsedPercent,
		OverBudget:  sum.OverBudget,
		Categories:  categories,
		Activities:  activitiesToAPI(report.Activities),
	})
}

func activitiesToAPI(activities []domain.Activity) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		out = append(out, activityToAPI(a))
	}
	return out
}
