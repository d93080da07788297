package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/export"
	"github.com/a3tai/schedify/internal/pdf"
	"github.com/a3tai/schedify/internal/schedule"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleSchedule accepts a raw PDF body or a multipart "file" field
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	result, ok := s.extractUpload(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleScheduleXLSX(w http.ResponseWriter, r *http.Request) {
	result, ok := s.extractUpload(w, r)
	if !ok {
		return
	}

	data, err := export.WriteXLSX(result.Schedule)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	name := "schedule"
	if result.Path != "" {
		name = strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name + ".xlsx"}))
	w.Header().Set("X-Parse-Id", result.ParseID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleSchema serves the JSON Schema that /api/schedule responses follow
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(schedule.SchemaJSON())
}

func (s *Server) handleScheduleText(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		respondError(w, http.StatusBadRequest, "request body is empty")
		return
	}

	result, err := s.service.ParseText(string(body))
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// extractUpload reads the uploaded PDF and runs extraction. On failure it has
// already written the response.
func (s *Server) extractUpload(w http.ResponseWriter, r *http.Request) (*pdf.ScheduleResult, bool) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		s.respondFailure(w, r, err)
		return nil, false
	}

	result, err := s.service.ExtractScheduleBytes(r.Context(), name, data)
	if err != nil {
		s.respondFailure(w, r, err)
		return nil, false
	}
	return result, true
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, err
		}
		return r.URL.Query().Get("name"), data, nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("%w: multipart field \"file\" is required", pdf.ErrNotPDF)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// respondFailure maps extraction errors onto HTTP status codes
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if errors.Is(err, pdf.ErrNotPDF) {
		message = "Please provide a valid PDF file"
	}

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"status":     status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	respondError(w, status, message)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, pdf.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pdf.ErrNotPDF), schedule.IsUnreadable(err):
		return http.StatusBadRequest
	case schedule.IsMalformed(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
