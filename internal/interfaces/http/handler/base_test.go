package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, userID uuid.UUID) {
	c.Set("jwt_user_id", userID.String())
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetUserID(t *testing.T) {
	t.Run("returns user id from jwt context", func(t *testing.T) {
		c, _ := newTestContext()
		userID := uuid.New()
		setJWTContext(c, userID)

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("errors when context is unauthenticated", func(t *testing.T) {
		c, _ := newTestContext()

		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("errors on malformed user id", func(t *testing.T) {
		c, _ := newTestContext()
		c.Set("jwt_user_id", "not-a-uuid")

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation error",
			err:        shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_QUANTITY",
		},
		{
			name:       "not found error",
			err:        shared.NewDomainError(shared.KindNotFound, "REPORT_NOT_FOUND", "Report not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "REPORT_NOT_FOUND",
		},
		{
			name:       "ownership error",
			err:        shared.NewDomainError(shared.KindUnauthorized, "NOT_REPORT_OWNER", "Report belongs to another user"),
			wantStatus: http.StatusForbidden,
			wantCode:   "NOT_REPORT_OWNER",
		},
		{
			name:       "conflict error",
			err:        shared.NewConflictError("DUPLICATE_ENTRY", "An entry already exists for this day"),
			wantStatus: http.StatusConflict,
			wantCode:   "DUPLICATE_ENTRY",
		},
		{
			name:       "unknown error becomes internal",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_Responses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		c, w := newTestContext()
		h.Success(c, gin.H{"value": 1})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
	})

	t.Run("created", func(t *testing.T) {
		c, w := newTestContext()
		h.Created(c, gin.H{"value": 1})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("no content", func(t *testing.T) {
		c, w := newTestContext()
		h.NoContent(c)
		// c.Status is lazy outside a routed request
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("success with meta", func(t *testing.T) {
		c, w := newTestContext()
		h.SuccessWithMeta(c, []int{1, 2}, 42, 1, 20)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(42), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("error carries request id", func(t *testing.T) {
		c, w := newTestContext()
		c.Set("request_id", "req-abc")
		h.BadRequest(c, "nope")

		resp := decodeResponse(t, w)
		assert.Equal(t, "req-abc", resp.Error.RequestID)
	})
}
