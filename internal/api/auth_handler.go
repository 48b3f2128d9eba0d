package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const maxFormMemory = 1 << 20

type authHandler struct {
	store      store.CustomerStore
	bcryptCost int
	logger     *slog.Logger
}

// register serves POST /auth/register. It accepts url-encoded or multipart
// form data with name, email, password and an optional images field.
func (h *authHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	form := shop.RegisterForm{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Image:    r.FormValue("images"),
		// Terms are accepted in the browser before the form is sent.
		Terms: true,
	}
	if err := form.Validate(); err != nil {
		var ve *shop.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), h.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		writeError(w, http.StatusBadRequest, "Password must be at most 72 bytes")
		return
	}
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	c := &store.Customer{
		Name:         strings.TrimSpace(form.Name),
		Email:        strings.TrimSpace(form.Email),
		PasswordHash: hash,
		Image:        form.Image,
	}
	if err := h.store.CreateCustomer(r.Context(), c); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "Already have an account? Please, login")
			return
		}
		h.logger.Error("create customer", "email", c.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	writeJSON(w, http.StatusCreated, "Account created. Please verify your email.", c)
}
