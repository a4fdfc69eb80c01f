package handler

import (
	"net/http"

	"clinic_portal/internal/app/service"
	"clinic_portal/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	directoryService *service.DirectoryService
}

func NewUserHandler(directoryService *service.DirectoryService) *UserHandler {
	return &UserHandler{directoryService: directoryService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Group(func(ar chi.Router) {
		ar.Use(authn)
		ar.Get("/doctors", h.listDoctors) // any authenticated user
	})
}

func (h *UserHandler) listDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.directoryService.ListDoctors(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, doctors)
}
