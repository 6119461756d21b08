package handler

import (
	"errors"
	"net/http"
	"time"

	"pocketbook/internal/ledger"
	"pocketbook/internal/models"
	"pocketbook/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user out of the gin context. The
// auth middleware put it there; a miss means the route was wired without
// the middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

// storeError maps ledger store errors onto HTTP responses.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidReference),
		errors.Is(err, ledger.ErrInvalidArgument):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// parseTimestamp accepts the formats clients actually send.
func parseTimestamp(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	layouts := []string{
		time.RFC3339,          // 2025-12-03T00:00:00+08:00
		"2006-01-02T15:04:05", // 2025-12-03T00:00:00
		"2006-01-02",          // 2025-12-03
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
