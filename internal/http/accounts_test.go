package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

func TestAccountsController_Create(t *testing.T) {
	s := setupServer(t, config.AuthModeNone)
	body := gin.H{
		"username": "reader",
		"email":    "reader@example.com",
		"password": "correct-horse-battery",
		"role":     "member",
	}

	rr := s.do(http.MethodPost, "/admin/accounts", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	user := decode[entities.User](t, rr)
	assert.Equal(t, "reader", user.Username)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = s.do(http.MethodPost, "/admin/accounts", body)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(http.MethodPost, "/admin/accounts", gin.H{"username": "x", "email": "nope", "password": "short", "role": "king"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	details := decode[ErrorResponse](t, rr).Details.(map[string]any)
	for _, field := range []string{"username", "email", "password", "role"} {
		assert.Contains(t, details, field)
	}

	rr = s.do(http.MethodGet, "/admin/accounts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]entities.User](t, rr), 2)
}

func TestAccountsController_DeleteCascades(t *testing.T) {
	s := setupServer(t, config.AuthModeNone)
	owner := s.createAccount("owner", entities.UserRoleMember)
	borrower := s.createAccount("borrower", entities.UserRoleMember)

	owned := s.createBook("Owned", owner)
	lent := s.createBook("Lent", s.defaultUser)
	require.NoError(t, s.db.DB.Model(lent).Updates(map[string]any{
		"borrower_id": borrower.ID,
		"status":      entities.LoanStatusOnLoan,
	}).Error)

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/admin/accounts/%d", owner.ID), nil).Code)
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/admin/accounts/%d", borrower.ID), nil).Code)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, catalog.BookURL(owned.ID), nil).Code)

	rr := s.do(http.MethodGet, catalog.BookURL(lent.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[BookResponse](t, rr).BorrowerID)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, fmt.Sprintf("/admin/accounts/%d", owner.ID), nil).Code)
}

func TestAccountsController_CannotDeleteSelf(t *testing.T) {
	s := setupServer(t, config.AuthModeNone)

	rr := s.do(http.MethodDelete, fmt.Sprintf("/admin/accounts/%d", s.defaultUser.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAccountsController_RequiresAccountsCapability(t *testing.T) {
	s := setupServer(t, config.AuthModeLocal)
	s.createAccount("libby", entities.UserRoleLibrarian)
	s.createAccount("boss", entities.UserRoleAdmin)

	s.login("libby")
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/admin/accounts", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/admin/catalog/books", nil).Code)

	s.cookies = nil
	s.login("boss")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/admin/accounts", nil).Code)
}
