package handler

import (
	"encoding/json"
	"net/http"

	"clinic_portal/internal/api/middleware"
	"clinic_portal/internal/app/service"
	"clinic_portal/internal/common"
	"clinic_portal/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (h *AppointmentHandler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Group(func(pr chi.Router) {
		pr.Use(authn)
		pr.Use(middleware.RequireRole(model.RolePatient))
		pr.Post("/book", h.book)
		pr.Get("/my-appointments", h.myAppointments)
	})

	r.Group(func(dr chi.Router) {
		dr.Use(authn)
		dr.Use(middleware.RequireRole(model.RoleDoctor))
		dr.Get("/doctor-appointments", h.doctorAppointments)
		dr.Patch("/{appointmentID}/status", h.updateStatus)
	})
}

func (h *AppointmentHandler) book(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	appointment, err := h.appointmentService.Book(r.Context(), user.ID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, appointment)
}

func (h *AppointmentHandler) myAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	appointments, err := h.appointmentService.ListForPatient(r.Context(), user.ID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) doctorAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	appointments, err := h.appointmentService.ListForDoctor(r.Context(), user.ID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	appointmentID := chi.URLParam(r, "appointmentID")

	var req struct {
		Status model.AppointmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(r.Context(), appointmentID, user.ID, req.Status)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]model.AppointmentStatus{"status": appointment.Status})
}
