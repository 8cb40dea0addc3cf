package handler

import (
	"log/slog"
	"net/http"

	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/service"
)

// AnimalHandler serves the public catalogue and the admin CRUD for animals.
type AnimalHandler struct {
	svc    *service.AnimalService
	logger *slog.Logger
}

func NewAnimalHandler(svc *service.AnimalService, logger *slog.Logger) *AnimalHandler {
	return &AnimalHandler{svc: svc, logger: logger}
}

// HandleList godoc
// @Summary List animals available for adoption
// @Description Filters combine as species+location, species, location or none. especie=Exòtic selects every species except Gos and Gat. localitzacio matches the shelter's province or postal code.
// @Tags animals
// @Produce json
// @Param especie query string false "Exact species, or Exòtic"
// @Param localitzacio query string false "Province or postal code of the shelter"
// @Success 200 {array} model.Animal
// @Router /api/animals [get]
func (h *AnimalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	animals, err := h.svc.Search(r.Context(), service.AnimalSearch{
		Species:  q.Get("especie"),
		Location: q.Get("localitzacio"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, animals)
}

// HandleListAdopted godoc
// @Summary List adopted animals
// @Tags animals
// @Produce json
// @Success 200 {array} model.Animal
// @Router /api/animals/adoptats [get]
func (h *AnimalHandler) HandleListAdopted(w http.ResponseWriter, r *http.Request) {
	animals, err := h.svc.ListAdopted(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, animals)
}

// HandleGet godoc
// @Summary Get one animal with its shelter
// @Tags animals
// @Produce json
// @Param id path int true "Animal id"
// @Success 200 {object} model.Animal
// @Failure 400 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/animals/{id} [get]
func (h *AnimalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	a, err := h.svc.GetByIDWithShelter(r.Context(), &id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleListAll godoc
// @Summary List every animal (admin)
// @Tags admin
// @Produce json
// @Security BasicAuth
// @Success 200 {array} model.Animal
// @Router /api/admin/animals [get]
func (h *AnimalHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	animals, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, animals)
}

// HandleCreate godoc
// @Summary Create an animal (admin)
// @Description Only protectora.codiProt is read from the nested shelter.
// @Tags admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param payload body model.Animal true "Animal"
// @Success 200 {object} model.Animal
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/animals [post]
func (h *AnimalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var a model.Animal
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, h.logger, err)
		return
	}
	created, err := h.svc.Create(r.Context(), &a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// HandleUpdate godoc
// @Summary Replace an animal (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param id path int true "Animal id"
// @Param payload body model.Animal true "Animal; numId may be omitted but must match the path when present"
// @Success 200 {object} model.Animal
// @Failure 400 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/admin/animals/{id} [put]
func (h *AnimalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var a model.Animal
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if a.ID != 0 && a.ID != id {
		writeError(w, h.logger, idMismatch(id, a.ID))
		return
	}
	updated, err := h.svc.Update(r.Context(), id, &a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete godoc
// @Summary Delete an animal (admin)
// @Tags admin
// @Security BasicAuth
// @Param id path int true "Animal id"
// @Success 204 "no content"
// @Failure 404 "not found"
// @Router /api/admin/animals/{id} [delete]
func (h *AnimalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
