package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/catalog/internal/auth"
)

// AccountsController manages accounts. Routes are registered behind the
// accounts.manage capability.
type AccountsController struct {
	service *auth.Service
}

func NewAccountsController(service *auth.Service) *AccountsController {
	return &AccountsController{service: service}
}

// List handles GET /admin/accounts
func (ac *AccountsController) List(c *gin.Context) {
	users, err := ac.service.ListUsers()
	if err != nil {
		respondInternalError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /admin/accounts
func (ac *AccountsController) Create(c *gin.Context) {
	var in auth.NewUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.CreateUser(in)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			fields := make(map[string]string, len(verrs))
			for field, fieldErr := range verrs {
				fields[field] = fieldErr.Error()
			}
			respondValidation(c, fields)
		case errors.Is(err, auth.ErrUserExists):
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondInternalError(c, err, "create account")
		}
		return
	}
	respondCreated(c, user)
}

// Delete handles DELETE /admin/accounts/:id. Books the account owns are
// deleted with it, books it borrowed become unassigned.
func (ac *AccountsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "account")
	if !ok {
		return
	}
	if id == auth.GetUserID(c) {
		respondBadRequest(c, "cannot delete the current account")
		return
	}

	if err := ac.service.DeleteUser(id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "account")
			return
		}
		respondInternalError(c, err, "delete account")
		return
	}
	c.Status(http.StatusNoContent)
}
