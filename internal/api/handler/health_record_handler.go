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

type HealthRecordHandler struct {
	recordService *service.HealthRecordService
}

func NewHealthRecordHandler(recordService *service.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{recordService: recordService}
}

func (h *HealthRecordHandler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Group(func(dr chi.Router) {
		dr.Use(authn)
		dr.Use(middleware.RequireRole(model.RoleDoctor))
		dr.Post("/", h.add)
		dr.Get("/doctor-records", h.doctorRecords)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(authn)
		pr.Use(middleware.RequireRole(model.RolePatient))
		pr.Get("/my-records", h.myRecords)
	})
}

func (h *HealthRecordHandler) add(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.AddHealthRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	record, err := h.recordService.Add(r.Context(), user.ID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, record)
}

func (h *HealthRecordHandler) myRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	records, err := h.recordService.ListForPatient(r.Context(), user.ID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, records)
}

func (h *HealthRecordHandler) doctorRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	records, err := h.recordService.ListForDoctor(r.Context(), user.ID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, records)
}
