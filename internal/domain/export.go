package domain

// ExportRow is a single row of the itinerary export.
// It is a flat, denormalized view: one row per activity with the trip fields
// repeated, ordered by date and time. A trip without activities yields no rows.
type ExportRow struct {
	TripName string
	TripCode string

	Date          string // "2006-01-02"
	Time          string // "15:04"
	Title         string
	Category      Category
	EstimatedCost float64
	Notes         string

	Votes         int
	RequiredVotes int
	Status        AcceptanceStatus
}

// ItineraryRows flattens a trip's activities into export rows in
// chronological order, evaluating lock-in against the trip's current
// participant count.
func ItineraryRows(trip Trip, activities []Activity) []ExportRow {
	participants := trip.ParticipantCount()
	required := RequiredVotes(participants)

	sorted := SortChronological(activities)
	rows := make([]ExportRow, 0, len(sorted))
	for _, a := range sorted {
		rows = append(rows, ExportRow{
			TripName:      trip.Name,
			TripCode:      trip.TripCode,
			Date:          a.Date.Format("2006-01-02"),
			Time:          a.Time,
			Title:         a.Title,
			Category:      a.Category,
			EstimatedCost: a.EstimatedCost,
			Notes:         a.Notes,
			Votes:         len(a.Votes),
			RequiredVotes: required,
			Status:        Status(a, participants),
		})
	}
	return rows
}
