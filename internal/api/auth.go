package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/mail"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/auth"
	"github.com/mswatii/steam-price-tracker/internal/database"
	"github.com/mswatii/steam-price-tracker/internal/models"
)

// bcrypt only accepts passwords up to 72 bytes
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *Handler) handleRegister(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentials
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		writeError(ctx, fasthttp.StatusBadRequest, "password must be between 8 and 72 bytes")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}

	user, err := h.store.CreateUser(ctx, addr.Address, hash)
	if errors.Is(err, database.ErrConflict) {
		writeError(ctx, fasthttp.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		writeStoreError(ctx, err)
		return
	}

	h.writeSession(ctx, fasthttp.StatusCreated, user)
}

func (h *Handler) handleLogin(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentials
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		writeStoreError(ctx, err)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(ctx, fasthttp.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	h.writeSession(ctx, fasthttp.StatusOK, user)
}

func (h *Handler) handleMe(ctx *fasthttp.RequestCtx) {
	id, ok := h.authenticate(ctx)
	if !ok {
		return
	}
	user, err := h.store.GetUserByID(ctx, id.UserID)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, user)
}

func (h *Handler) writeSession(ctx *fasthttp.RequestCtx, status int, user *models.User) {
	token, err := h.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		log.Printf("Error issuing token: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(ctx, status, sessionResponse{Token: token, User: user})
}

// authenticate resolves the bearer token into an identity, writing a 401
// when it is missing or invalid.
func (h *Handler) authenticate(ctx *fasthttp.RequestCtx) (auth.Identity, bool) {
	id, err := h.tokens.Authenticate(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	if err != nil {
		writeError(ctx, fasthttp.StatusUnauthorized, err.Error())
		return auth.Identity{}, false
	}
	return id, true
}
