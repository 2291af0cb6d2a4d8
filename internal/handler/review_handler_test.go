package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReviewMux(svc *MockReviewService) *http.ServeMux {
	h := NewReviewHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reviews", h.List)
	mux.HandleFunc("POST /api/reviews", h.Create)
	mux.HandleFunc("PUT /api/reviews/{id}", h.Update)
	mux.HandleFunc("DELETE /api/reviews/{id}", h.Delete)
	return mux
}

func TestReviewHandler_List(t *testing.T) {
	productID := uuid.New()

	t.Run("Missing product", func(t *testing.T) {
		svc := new(MockReviewService)
		w := httptest.NewRecorder()
		newReviewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reviews", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "product_id is required", decodeError(t, w).Error)
		svc.AssertNumberOfCalls(t, "ListByProduct", 0)
	})

	t.Run("By product", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("ListByProduct", mock.Anything, productID).Return([]model.Review{{ID: uuid.New(), ProductID: productID, Rating: 5}}, nil)

		w := httptest.NewRecorder()
		newReviewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reviews?product_id="+productID.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestReviewHandler_Writes(t *testing.T) {
	userID, reviewID := uuid.New(), uuid.New()

	t.Run("Create requires a session", func(t *testing.T) {
		svc := new(MockReviewService)
		w := httptest.NewRecorder()
		newReviewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader([]byte(`{}`))))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Duplicate review", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("Create", mock.Anything, userID, mock.Anything).Return(nil, model.ErrDuplicateReview)

		body := []byte(`{"product_id":"` + uuid.NewString() + `","rating":5}`)
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader(body)), userID)
		w := httptest.NewRecorder()
		newReviewMux(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Update by another customer", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("Update", mock.Anything, userID, reviewID, mock.Anything).Return(nil, model.ErrForbidden)

		req := asUser(httptest.NewRequest(http.MethodPut, "/api/reviews/"+reviewID.String(), bytes.NewReader([]byte(`{"rating":3}`))), userID)
		w := httptest.NewRecorder()
		newReviewMux(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("Delete", mock.Anything, userID, reviewID).Return(nil)

		req := asUser(httptest.NewRequest(http.MethodDelete, "/api/reviews/"+reviewID.String(), nil), userID)
		w := httptest.NewRecorder()
		newReviewMux(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})
}
