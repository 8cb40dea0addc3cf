package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/service"
)

// ProtectoraHandler serves shelter lookups and the admin CRUD for shelters.
type ProtectoraHandler struct {
	svc    *service.ProtectoraService
	logger *slog.Logger
}

func NewProtectoraHandler(svc *service.ProtectoraService, logger *slog.Logger) *ProtectoraHandler {
	return &ProtectoraHandler{svc: svc, logger: logger}
}

// HandleSearch godoc
// @Summary Find shelters
// @Description The first parameter present wins: nomProt, adresa, codiPostal, localitat, provincia, longitud+latitud, emailProt. nomProt, coordinates and emailProt return a single object (404 when absent); the others return an array. No parameter lists every shelter.
// @Tags protectores
// @Produce json
// @Param nomProt query string false "Exact name"
// @Param adresa query string false "Exact address"
// @Param codiPostal query string false "Postal code"
// @Param localitat query string false "Locality"
// @Param provincia query string false "Province"
// @Param longitud query number false "Longitude, exact match"
// @Param latitud query number false "Latitude, exact match"
// @Param emailProt query string false "Email"
// @Success 200 {array} model.Protectora
// @Failure 400 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/protectores [get]
func (h *ProtectoraHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := service.ProtectoraSearch{
		Name:       q.Get("nomProt"),
		Address:    q.Get("adresa"),
		PostalCode: q.Get("codiPostal"),
		Locality:   q.Get("localitat"),
		Province:   q.Get("provincia"),
		Email:      q.Get("emailProt"),
	}

	var err error
	if search.Longitude, err = floatParam(q, "longitud"); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if search.Latitude, err = floatParam(q, "latitud"); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.svc.Search(r.Context(), search)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if result.One != nil {
		writeJSON(w, http.StatusOK, result.One)
		return
	}
	writeJSON(w, http.StatusOK, result.Many)
}

// floatParam returns nil when the parameter is absent and a validation
// error when it is not a number.
func floatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.ValidationFailed(name, "must be a number")
	}
	return &v, nil
}

// HandleGet godoc
// @Summary Get one shelter
// @Tags protectores
// @Produce json
// @Param id path int true "Shelter id"
// @Success 200 {object} model.Protectora
// @Failure 400 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/protectores/{id} [get]
func (h *ProtectoraHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	p, err := h.svc.GetByID(r.Context(), &id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleList godoc
// @Summary List every shelter (admin)
// @Tags admin
// @Produce json
// @Security BasicAuth
// @Success 200 {array} model.Protectora
// @Router /api/admin/protectores [get]
func (h *ProtectoraHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// HandleCreate godoc
// @Summary Create a shelter (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param payload body model.Protectora true "Shelter"
// @Success 200 {object} model.Protectora
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/protectores [post]
func (h *ProtectoraHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var p model.Protectora
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, h.logger, err)
		return
	}
	created, err := h.svc.Create(r.Context(), &p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// HandleUpdate godoc
// @Summary Replace a shelter (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param id path int true "Shelter id"
// @Param payload body model.Protectora true "Shelter"
// @Success 200 {object} model.Protectora
// @Failure 400 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/admin/protectores/{id} [put]
func (h *ProtectoraHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var p model.Protectora
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if p.ID != 0 && p.ID != id {
		writeError(w, h.logger, idMismatch(id, p.ID))
		return
	}
	updated, err := h.svc.Update(r.Context(), id, &p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete godoc
// @Summary Delete a shelter (admin)
// @Description Animals of the deleted shelter are kept and lose their shelter.
// @Tags admin
// @Security BasicAuth
// @Param id path int true "Shelter id"
// @Success 204 "no content"
// @Failure 404 "not found"
// @Router /api/admin/protectores/{id} [delete]
func (h *ProtectoraHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
