// Package api serves the registration page and its JSON endpoints.
package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"voter-registration/models"
	"voter-registration/registry"
	"voter-registration/service"
	"voter-registration/view"
)

const htmlErrorDuration = 5 * time.Second

type Server struct {
	svc    *service.RegistrationService
	worker *service.SyncWorker
	admin  ElectionAdmin
	logger *slog.Logger
	now    func() time.Time
}

func NewServer(svc *service.RegistrationService, worker *service.SyncWorker, logger *slog.Logger) *Server {
	return &Server{
		svc:    svc,
		worker: worker,
		logger: service.ResolveLogger(logger),
		now:    time.Now,
	}
}

// Handler returns the routed, logged handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /register", s.handleRegisterForm)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/form", s.handleUpdateForm)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	mux.HandleFunc("POST /api/bootstrap", s.handleBootstrap)
	mux.HandleFunc("GET /api/notifications", s.handleNotifications)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("DELETE /api/metrics", s.handleResetMetrics)

	if s.admin != nil {
		mux.HandleFunc("POST /api/admin/start", s.handleStartElection)
		mux.HandleFunc("POST /api/admin/end", s.handleEndElection)
		mux.HandleFunc("POST /api/admin/verify", s.handleVerifyVoter)
	}

	return WithLogging(s.logger, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.svc.State()
	if !state.Connected {
		JSONResponse(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "connecting"})
		return
	}
	JSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"phase":     state.Phase(),
		"synced_at": state.SyncedAt,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	page := view.Build(s.svc.State(), s.svc.Notifier().Active(now), now)

	var buf bytes.Buffer
	if err := view.Render(&buf, page); err != nil {
		s.logger.Error("failed to render page", "error", err, "request_id", RequestID(r.Context()))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, s.svc.State())
}

type formResponse struct {
	Form      models.RegistrationForm `json:"form"`
	Fields    map[string]string       `json:"fields"`
	CanSubmit bool                    `json:"can_submit"`
}

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var form models.RegistrationForm
	if err := ParseJSONBody(r, &form); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	s.svc.UpdateForm(form)
	JSONResponse(w, http.StatusOK, formResponse{
		Form:      form,
		Fields:    service.FieldErrors(form),
		CanSubmit: service.CanSubmit(form, s.svc.State().CurrentVoter),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form models.RegistrationForm
	if err := ParseJSONBody(r, &form); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	result, err := s.svc.Submit(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Added {
		status = http.StatusCreated
	}
	JSONResponse(w, status, result)
}

// handleRegisterForm serves the HTML form: it always redirects back to the
// page, where the outcome shows up as a notification.
func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := models.RegistrationForm{
		Name:           r.PostForm.Get("name"),
		Phone:          r.PostForm.Get("phone"),
		DocumentNumber: r.PostForm.Get("document_number"),
	}

	if _, err := s.svc.Submit(r.Context(), form); err != nil {
		s.logger.Warn("registration failed", "error", err, "request_id", RequestID(r.Context()))
		// Duplicates already posted their own notification.
		if !errors.Is(err, service.ErrDuplicateDocument) {
			s.svc.Notifier().Error(err.Error(), "error", htmlErrorDuration)
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReload waits for the pass unless called with wait=false, in which
// case it answers 202 as soon as the pass is scheduled.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") == "false" {
		if err := s.worker.RequestNoWait(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
		JSONResponse(w, http.StatusAccepted, map[string]interface{}{"status": "scheduled"})
		return
	}

	if err := s.worker.Request(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, s.svc.State())
}

func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Bootstrap(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, s.svc.State())
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notes := s.svc.Notifier().Drain()
	if notes == nil {
		notes = []models.Notification{}
	}
	JSONResponse(w, http.StatusOK, notes)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, s.svc.Metrics().GetMetrics())
}

func (s *Server) handleResetMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.svc.State().IsAdmin {
		errorJSON(w, http.StatusForbidden, "only the election admin can reset metrics", nil)
		return
	}
	s.svc.Metrics().Reset()
	s.logger.Info("metrics reset", "request_id", RequestID(r.Context()))
	JSONResponse(w, http.StatusOK, s.svc.Metrics().GetMetrics())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
	}

	var formErr *service.FormError
	if errors.As(err, &formErr) {
		errorJSON(w, status, err.Error(), formErr.Fields)
		return
	}
	errorJSON(w, status, err.Error(), nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidForm),
		errors.Is(err, errInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrUnknownVoter):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateDocument),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrRegistrationClosed):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotConnected),
		errors.Is(err, service.ErrWorkerStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
