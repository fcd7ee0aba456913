package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/planit/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_name", "trip_code", "date", "time", "title", "category",
	"estimated_cost", "notes", "votes", "required_votes", "status",
}

// ExportRow is one row of the JSON export.
type ExportRow struct {
	TripName      string                  `json:"trip_name"`
	TripCode      string                  `json:"trip_code"`
	Date          string                  `json:"date"`
	Time          string                  `json:"time"`
	Title         string                  `json:"title"`
	Category      domain.Category         `json:"category"`
	EstimatedCost float64                 `json:"estimated_cost"`
	Notes         string                  `json:"notes"`
	Votes         int                     `json:"votes"`
	RequiredVotes int                     `json:"required_votes"`
	Status        domain.AcceptanceStatus `json:"status"`
}

// GetExport handles GET /trips/{tripId}/export?format=json|csv.
// It returns one row per activity in chronological order. JSON is the default.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil ||
		(format != nil && *format != "json" && *format != "csv") {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "format must be json or csv")
		return
	}

	trip, rows, err := s.export.Export(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, trip, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ExportRow(row))
	}
	s.respond(w, r, http.StatusOK, out)
}

// writeCSV encodes rows as an attachment named after the trip code.
func writeCSV(w http.ResponseWriter, trip domain.Trip, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(exportRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="planit-%s.csv"`, trip.TripCode))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// exportRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Costs keep two decimals so spreadsheet totals match the budget view.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TripName,
		r.TripCode,
		r.Date,
		r.Time,
		r.Title,
		string(r.Category),
		strconv.FormatFloat(r.EstimatedCost, 'f', 2, 64),
		r.Notes,
		strconv.Itoa(r.Votes),
		strconv.Itoa(r.RequiredVotes),
		string(r.Status),
	}
}
