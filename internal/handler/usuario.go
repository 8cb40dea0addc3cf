package handler

import (
	"log/slog"
	"net/http"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/auth"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/service"
)

// UsuarioHandler serves account registration, login, profiles and the admin
// CRUD for accounts. Bodies and responses always use model.UsuarioDTO, so a
// password hash never leaves the server.
type UsuarioHandler struct {
	svc    *service.UsuarioService
	logger *slog.Logger
}

func NewUsuarioHandler(svc *service.UsuarioService, logger *slog.Logger) *UsuarioHandler {
	return &UsuarioHandler{svc: svc, logger: logger}
}

// Response texts the front-end matches on.
const (
	registeredText         = "Usuario registrado exitosamente"
	invalidCredentialsText = "Credenciales inválidas"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister godoc
// @Summary Register an adopter account
// @Tags auth
// @Accept json
// @Produce plain
// @Param payload body model.UsuarioDTO true "nomUs, cognom1, cognom2, emailUs, clauPas"
// @Success 200 {string} string "Usuario registrado exitosamente"
// @Failure 400 {object} ErrorResponse
// @Router /api/register [post]
func (h *UsuarioHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var dto model.UsuarioDTO
	if err := decodeJSON(w, r, &dto); err != nil {
		writeError(w, h.logger, err)
		return
	}
	_, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     dto.Name,
		Surname1: dto.Surname1,
		Surname2: dto.Surname2,
		Email:    dto.Email,
		Password: dto.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeText(w, http.StatusOK, registeredText)
}

// HandleLogin godoc
// @Summary Check credentials and return the profile
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Credentials"
// @Success 200 {object} model.UsuarioDTO
// @Failure 401 {string} string "Credenciales inválidas"
// @Router /api/login [post]
func (h *UsuarioHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	profile, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if isUnauthorized(err) {
			writeText(w, http.StatusUnauthorized, invalidCredentialsText)
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleList godoc
// @Summary List accounts (admin)
// @Tags usuarios
// @Produce json
// @Security BasicAuth
// @Success 200 {array} model.UsuarioDTO
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/usuarios [get]
func (h *UsuarioHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGetProfile godoc
// @Summary Get one account
// @Description Callers may read their own account. ADMIN may read any.
// @Tags usuarios
// @Produce json
// @Security BasicAuth
// @Param id path int true "Account id"
// @Success 200 {object} model.UsuarioDTO
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/usuarios/{id} [get]
func (h *UsuarioHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := authorizeSelf(r, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.get(w, r, id)
}

// HandleGet godoc
// @Summary Get one account (admin)
// @Tags admin
// @Produce json
// @Security BasicAuth
// @Param id path int true "Account id"
// @Success 200 {object} model.UsuarioDTO
// @Failure 404 "not found"
// @Router /api/admin/usuaris/{id} [get]
func (h *UsuarioHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.get(w, r, id)
}

func (h *UsuarioHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	u, err := h.svc.GetByID(r.Context(), &id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleUpdateProfile godoc
// @Summary Edit an account profile
// @Description Names are always replaced. emailUs is only checked when it changes. An empty clauPas keeps the current password. The role is never changed here.
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param id path int true "Account id"
// @Param payload body model.UsuarioDTO true "Profile"
// @Success 200 {object} model.UsuarioDTO
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/usuarios/{id} [put]
func (h *UsuarioHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := authorizeSelf(r, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	var dto model.UsuarioDTO
	if err := decodeJSON(w, r, &dto); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if dto.ID != nil && *dto.ID != id {
		writeError(w, h.logger, idMismatch(id, *dto.ID))
		return
	}
	updated, err := h.svc.UpdateProfile(r.Context(), id, dto)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleAdminCreate godoc
// @Summary Create an account with any role (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param payload body model.UsuarioDTO true "Account; codiUs must be absent"
// @Success 201 {object} model.UsuarioDTO
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/usuaris [post]
func (h *UsuarioHandler) HandleAdminCreate(w http.ResponseWriter, r *http.Request) {
	var dto model.UsuarioDTO
	if err := decodeJSON(w, r, &dto); err != nil {
		writeError(w, h.logger, err)
		return
	}
	// A client-chosen id would turn the create into an update.
	dto.ID = nil
	created, err := h.svc.Save(r.Context(), dto)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleAdminUpdate godoc
// @Summary Replace an account (admin)
// @Description Every field is replaced, the role included. An empty clauPas keeps the current password.
// @Tags admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param id path int true "Account id"
// @Param payload body model.UsuarioDTO true "Account"
// @Success 200 {object} model.UsuarioDTO
// @Failure 400 {object} ErrorResponse
// @Failure 404 "not found"
// @Router /api/admin/usuaris/{id} [put]
func (h *UsuarioHandler) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var dto model.UsuarioDTO
	if err := decodeJSON(w, r, &dto); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if dto.ID != nil && *dto.ID != id {
		writeError(w, h.logger, idMismatch(id, *dto.ID))
		return
	}
	dto.ID = &id
	saved, err := h.svc.Save(r.Context(), dto)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleAdminDelete godoc
// @Summary Delete an account (admin)
// @Tags admin
// @Security BasicAuth
// @Param id path int true "Account id"
// @Success 204 "no content"
// @Failure 404 "not found"
// @Router /api/admin/usuaris/{id} [delete]
func (h *UsuarioHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
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

// authorizeSelf lets the authenticated caller act on account id when it is
// their own account or they are an ADMIN. Without a user in the context it
// fails closed.
func authorizeSelf(r *http.Request, id int64) error {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		return apperror.Unauthorized("valid credentials required")
	}
	if caller.Rol != model.RolAdmin && caller.ID != id {
		return apperror.Forbidden("you can only access your own account")
	}
	return nil
}
