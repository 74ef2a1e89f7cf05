package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindflow-health/therapyflow/internal/domain"
	"github.com/mindflow-health/therapyflow/internal/service"
)

// credentials pulls email and password out of a JSON body while rejecting
// the malformed shapes callers have historically been told apart:
// unparseable JSON, missing keys, and non-string values.
func (h *Handler) credentials(c *gin.Context) (email, password string, ok bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respond(c, http.StatusBadRequest, "Invalid JSON data supplied.", nil)
		return "", "", false
	}

	rawEmail, hasEmail := body["email"]
	rawPassword, hasPassword := body["password"]
	if !hasEmail || !hasPassword || len(body) != 2 {
		h.respond(c, http.StatusBadRequest, "email and/or password not passed with request.", nil)
		return "", "", false
	}

	email, emailOK := rawEmail.(string)
	password, passwordOK := rawPassword.(string)
	if !emailOK || !passwordOK {
		h.respond(c, http.StatusBadRequest, "Incorrect type for email and/or password.", nil)
		return "", "", false
	}

	return email, password, true
}

func (h *Handler) Register(c *gin.Context) {
	email, password, ok := h.credentials(c)
	if !ok {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			h.respond(c, http.StatusBadRequest, "User already exists.", nil)
			return
		}
		h.respond(c, http.StatusInternalServerError, "Error adding user.", nil)
		return
	}

	h.respond(c, http.StatusCreated,
		fmt.Sprintf("Successfully registered new user: %s", user.Email), nil)
}

func (h *Handler) Login(c *gin.Context) {
	email, password, ok := h.credentials(c)
	if !ok {
		return
	}

	token, expiresAt, err := h.auth.Login(c.Request.Context(), email, password, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.respond(c, http.StatusUnauthorized, "Invalid email or password. Please try again.", nil)
			return
		}
		h.respond(c, http.StatusInternalServerError, "Error retrieving token.", nil)
		return
	}

	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	h.respond(c, http.StatusOK,
		fmt.Sprintf("Token generated with %d minute expiration.", minutes),
		gin.H{"token": token},
	)
}
