package server

import (
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.WorkoutID == uuid.Nil {
		s.writeError(w, tracking.Errorf(tracking.InvalidArgument, "workout_id is required"))
		return
	}

	memberID := memberIDFromContext(r)
	workout, err := s.catalog.GetWorkout(r.Context(), memberID, req.WorkoutID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	view, err := s.svc.StartSession(r.Context(), memberID, tracking.StartRequest{
		SessionID: req.SessionID,
		WorkoutID: workout.ID,
		Plan:      workout.Exercises,
		Notes:     req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	f := tracking.HistoryFilter{Limit: limit}
	if v := r.URL.Query().Get("workout_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			s.writeError(w, tracking.Errorf(tracking.InvalidArgument, "invalid workout_id: %v", err))
			return
		}
		f.WorkoutID = &id
	}

	sessions, err := s.svc.ListSessions(r.Context(), memberIDFromContext(r), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.GetActiveSession(r.Context(), memberIDFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if view == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.GetSession(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"))
	s.respond(w, view, err)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.GetSession(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Stats)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.PauseSession(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"))
	s.respond(w, view, err)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.ResumeSession(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"))
	s.respond(w, view, err)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.AbandonSession(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"))
	s.respond(w, view, err)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var c tracking.Completion
	if !decodeBody(w, r, &c) {
		return
	}
	view, result, err := s.svc.CompleteSession(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracking.CompletedSession{Session: view, Result: result})
}

// --- Exercises ---

func (s *Server) handleStartExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := uuidParam(w, r, "exerciseID")
	if !ok {
		return
	}
	view, err := s.svc.StartExercise(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), exerciseID)
	s.respond(w, view, err)
}

func (s *Server) handleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := uuidParam(w, r, "exerciseID")
	if !ok {
		return
	}
	view, err := s.svc.CompleteExercise(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), exerciseID)
	s.respond(w, view, err)
}

func (s *Server) handleSkipExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := uuidParam(w, r, "exerciseID")
	if !ok {
		return
	}
	view, err := s.svc.SkipExercise(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), exerciseID)
	s.respond(w, view, err)
}

func (s *Server) handlePatchExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := uuidParam(w, r, "exerciseID")
	if !ok {
		return
	}
	var p models.ExercisePatch
	if !decodeBody(w, r, &p) {
		return
	}
	view, err := s.svc.UpdateExerciseProgress(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), exerciseID, p)
	s.respond(w, view, err)
}

// --- Sets ---

func (s *Server) handleStartSet(w http.ResponseWriter, r *http.Request) {
	exerciseID, number, ok := setParams(w, r)
	if !ok {
		return
	}
	view, err := s.svc.StartSet(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), exerciseID, number)
	s.respond(w, view, err)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	exerciseID, number, ok := setParams(w, r)
	if !ok {
		return
	}
	var d models.SetData
	if !decodeBody(w, r, &d) {
		return
	}
	view, err := s.svc.CompleteSet(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), exerciseID, number, d)
	s.respond(w, view, err)
}

func (s *Server) handlePatchSet(w http.ResponseWriter, r *http.Request) {
	exerciseID, number, ok := setParams(w, r)
	if !ok {
		return
	}
	var d models.SetData
	if !decodeBody(w, r, &d) {
		return
	}
	view, err := s.svc.UpdateSetProgress(r.Context(), memberIDFromContext(r), chi.URLParam(r, "id"), exerciseID, number, d)
	s.respond(w, view, err)
}

func (s *Server) respond(w http.ResponseWriter, view *tracking.SessionView, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func setParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	exerciseID, ok := uuidParam(w, r, "exerciseID")
	if !ok {
		return uuid.Nil, 0, false
	}
	number, err := strconv.Atoi(chi.URLParam(r, "setNumber"))
	if err != nil || number < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "set number must be a positive integer",
			"kind":  string(tracking.InvalidArgument),
		})
		return uuid.Nil, 0, false
	}
	return exerciseID, number, true
}
