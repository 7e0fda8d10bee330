package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/grade-hub/student-grade-hub/internal/application/service"
	"github.com/grade-hub/student-grade-hub/internal/domain/shared"
	"github.com/grade-hub/student-grade-hub/internal/domain/student"
	"github.com/grade-hub/student-grade-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Student Grade Hub API",
		"version":     "v1",
		"description": "REST API for managing students and their grades",
		"endpoints": map[string]string{
			"health":   "/health",
			"students": "/api/students",
			"grades":   "/api/grades",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
// A healthy response includes connection pool statistics.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	}

	if s.deps.HealthChecker != nil {
		status, err := s.deps.HealthChecker.Health(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"reason": err.Error(),
			})
			return
		}
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"reason": status.Error,
			})
			return
		}

		payload["database"] = map[string]interface{}{
			"ping_latency_ms": status.PingLatency.Milliseconds(),
			"total_conns":     status.TotalConns,
			"idle_conns":      status.IdleConns,
			"acquired_conns":  status.AcquiredConns,
			"max_conns":       status.MaxConns,
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		if err := s.deps.HealthChecker.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStudents handles GET /api/students with optional filter and sort
// query parameters.
func (s *Server) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	filter := student.Filter{
		FirstName: getQueryParam(r, "firstNameFilter", ""),
		LastName:  getQueryParam(r, "lastNameFilter", ""),
		SortBy:    getQueryParam(r, "sortBy", ""),
		SortOrder: getQueryParam(r, "sortOrder", ""),
	}

	students, err := s.deps.Students.GetAllStudents(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, students)
}

// handleGetStudent handles GET /api/students/{id}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	found, err := s.deps.Students.GetStudentByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// handleCreateStudent handles POST /api/students
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var in service.StudentInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	created, err := s.deps.Students.AddStudent(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateStudent handles PUT /api/students/{id}
// The path ID is authoritative; a body ID that disagrees is rejected.
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var in service.StudentInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	if in.ID != nil && *in.ID != id {
		writeJSONError(w, http.StatusBadRequest, "id_mismatch", "Body ID does not match path ID")
		return
	}
	in.ID = &id

	updated, err := s.deps.Students.UpdateStudent(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !updated {
		writeJSONError(w, http.StatusNotFound, "not_found", "Student not found")
		return
	}

	// Return the stored entity, re-read after the write.
	refreshed, err := s.deps.Students.GetStudentByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshed)
}

// handleDeleteStudent handles DELETE /api/students/{id}
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := s.deps.Students.DeleteStudent(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !deleted {
		writeJSONError(w, http.StatusNotFound, "not_found", "Student not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetGrades handles GET /api/grades
func (s *Server) handleGetGrades(w http.ResponseWriter, r *http.Request) {
	grades, err := s.deps.Grades.GetAllGrades(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, grades)
}

// handleGetGrade handles GET /api/grades/{id}
func (s *Server) handleGetGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	found, err := s.deps.Grades.GetGradeByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// handleGetStudentGrades handles GET /api/students/{id}/grades
// The student must exist; the grade list itself may be empty.
func (s *Server) handleGetStudentGrades(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	grades, err := s.deps.Grades.GetGradesByStudentID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, grades)
}

// handleCreateGrade handles POST /api/students/{id}/grades
// The path student ID is authoritative; a body student ID that disagrees is
// rejected.
func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var in service.GradeInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	if in.StudentID != nil && *in.StudentID != id {
		writeJSONError(w, http.StatusBadRequest, "id_mismatch", "Body student ID does not match path ID")
		return
	}
	in.StudentID = &id

	created, err := s.deps.Grades.AddGrade(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateGrade handles PUT /api/grades/{id}
func (s *Server) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var in service.GradeInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	if in.ID != nil && *in.ID != id {
		writeJSONError(w, http.StatusBadRequest, "id_mismatch", "Body ID does not match path ID")
		return
	}
	in.ID = &id

	updated, err := s.deps.Grades.UpdateGrade(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !updated {
		writeJSONError(w, http.StatusNotFound, "not_found", "Grade not found")
		return
	}

	// Return the stored entity, re-read after the write.
	refreshed, err := s.deps.Grades.GetGradeByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshed)
}

// handleDeleteGrade handles DELETE /api/grades/{id}
func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := s.deps.Grades.DeleteGrade(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !deleted {
		writeJSONError(w, http.StatusNotFound, "not_found", "Grade not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// pathID parses the {id} path segment, writing a 400 on failure.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "ID must be an integer")
		return 0, false
	}
	return id, true
}

// decodeBody decodes the JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes.
// Validation failures become 400, missing entities 404; everything else is
// logged and reported as 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
