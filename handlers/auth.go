package handlers

import (
	"errors"
	"net/http"

	"bookable/models"
	"bookable/services/account"
	"bookable/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes registration and signin endpoints.
type AuthHandler struct {
	Accounts account.AccountService
}

func NewAuthHandler(accounts account.AccountService) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Accounts.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailTaken):
			utils.JSONError(c, http.StatusConflict, "registration failed", err.Error())
		case errors.Is(err, account.ErrInvalidTimeZone), errors.Is(err, account.ErrInvalidRole):
			utils.JSONError(c, http.StatusBadRequest, "registration failed", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "registration failed", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Accounts.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "login failed", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "login failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
