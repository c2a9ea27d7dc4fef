package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	httpHandler "tweeter/internal/handler/http"
	"tweeter/internal/service"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: title may not be blank", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrRegistrationFailed, http.StatusBadRequest},
		{service.ErrAuthenticationRequired, http.StatusUnauthorized},
		{service.ErrAuthenticationFailed, http.StatusUnauthorized},
		{fmt.Errorf("%w: not yours", service.ErrPermissionDenied), http.StatusForbidden},
		{service.ErrTweetNotFound, http.StatusNotFound},
		{service.ErrCommentNotFound, http.StatusNotFound},
		{service.ErrInternalServer, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		httpHandler.HandleServiceError(c, tt.err)

		assert.Equal(t, tt.code, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}
