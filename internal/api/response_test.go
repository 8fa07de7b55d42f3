package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shopware-backend/internal/services"
)

func TestRespondErrorMapsServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{services.ErrNotFound("order not found"), http.StatusNotFound, "order not found"},
		{services.ErrConflict("insufficient stock"), http.StatusConflict, "insufficient stock"},
		{services.ErrForbidden("account is blocked"), http.StatusForbidden, "account is blocked"},
		{services.ErrBadRequest("cart is empty"), http.StatusBadRequest, "cart is empty"},
		{errors.New("driver exploded"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		respondError(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		assert.Contains(t, w.Body.String(), tc.body)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}
