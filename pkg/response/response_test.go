package response

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"station-alert-srv/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Resp {
	t.Helper()
	var r Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestErrorWithMap(t *testing.T) {
	errNotFound := stderrors.New("alert not found")
	eMap := ErrorMapping{
		errNotFound: errors.NewNotFoundHTTPError(130404, "Alert not found"),
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"mapped", errNotFound, http.StatusNotFound, 130404},
		{"wrapped mapped", fmt.Errorf("get: %w", errNotFound), http.StatusNotFound, 130404},
		{"validation", errors.NewValidationError(400, "threshold", "must be >= 0"), http.StatusBadRequest, 400},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError, InternalServerErrorCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			ErrorWithMap(c, tt.err, eMap, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w).ErrorCode)
		})
	}
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	OK(c, map[string]int{"n": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.Equal(t, MessageSuccess, r.Message)
	assert.Equal(t, 0, r.ErrorCode)
}

func TestSplitMessageForDiscord(t *testing.T) {
	msg := strings.Repeat("a", 15) + "\n" + strings.Repeat("b", 5)
	chunks := splitMessageForDiscord(msg, 10)
	assert.Equal(t, []string{"aaaaaaaaaa", "aaaaa", "bbbbb"}, chunks)
}
