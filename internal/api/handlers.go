package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/pbaille/voyago/internal/export"
	"github.com/pbaille/voyago/internal/planner"
	"github.com/pbaille/voyago/internal/store"
)

func (s *Server) filters(w http.ResponseWriter, r *http.Request) {
	f, err := s.planner.Filters(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) surprise(w http.ResponseWriter, r *http.Request) {
	city, err := s.planner.SurpriseDestination(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"city":    city,
		"message": fmt.Sprintf("How about %s?", city),
	})
}

func (s *Server) listPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.PlaceFilter{
		City:         q.Get("city"),
		ActivityType: q.Get("activity"),
	}

	if v := q.Get("kid_friendly"); v != "" {
		kids, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "kid_friendly must be a boolean")
			return
		}
		f.KidFriendly = &kids
	}
	if v := q.Get("max_duration"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil || hours < 0 {
			writeError(w, http.StatusBadRequest, "max_duration must be a non-negative number")
			return
		}
		f.MaxHours = hours
	}

	places, err := s.planner.Places(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, places)
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	var req planner.RecommendRequest
	if !decode(w, r, &req) {
		return
	}

	recs, err := s.planner.Recommend(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.ScoredPlace{"recommendations": recs})
}

func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var req planner.CreateTripRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := s.planner.CreateTrip(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.planner.Trips(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.planner.Trip(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteTrip(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message("Trip deleted successfully"))
}

func (s *Server) exportTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var buf bytes.Buffer
	if err := s.planner.Export(r.Context(), id, format, &buf); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=trip_%s_itinerary.%s", id, export.Extension(format)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.planner.Items(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req planner.ItemRequest
	if !decode(w, r, &req) {
		return
	}

	item, err := s.planner.AddItem(r.Context(), chi.URLParam(r, "tripID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var req planner.ItemRequest
	if !decode(w, r, &req) {
		return
	}

	item, err := s.planner.UpdateItem(r.Context(), chi.URLParam(r, "itemID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message("Item deleted successfully"))
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.planner.Expenses(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) addExpense(w http.ResponseWriter, r *http.Request) {
	var req planner.ExpenseRequest
	if !decode(w, r, &req) {
		return
	}

	x, err := s.planner.AddExpense(r.Context(), chi.URLParam(r, "tripID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, x)
}

func (s *Server) clearExpenses(w http.ResponseWriter, r *http.Request) {
	n, err := s.planner.ClearExpenses(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Cleared %d expenses", n),
		"count":   n,
	})
}

func (s *Server) actuallySpent(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.ActuallySpent(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type patchExpenseRequest struct {
	Cleared *bool `json:"cleared"`
}

func (s *Server) patchExpense(w http.ResponseWriter, r *http.Request) {
	var req patchExpenseRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Cleared == nil {
		writeError(w, http.StatusBadRequest, "no valid fields to update")
		return
	}

	id := chi.URLParam(r, "expenseID")
	if err := s.planner.SetExpenseCleared(r.Context(), id, *req.Cleared); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense updated", "id": id})
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "expenseID")
	if err := s.planner.DeleteExpense(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted", "id": id})
}
