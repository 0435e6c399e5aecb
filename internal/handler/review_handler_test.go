package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"prolens/internal/model"
	"prolens/internal/validate"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReviewHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *model.Review
		mockError      error
		expectedStatus int
	}{
		{name: "Success", mockReturn: &model.Review{ID: 1, ProductID: 9, Rating: 5}, expectedStatus: http.StatusCreated},
		{name: "Second review", mockError: model.ErrReviewExists, expectedStatus: http.StatusConflict},
		{name: "Rating out of range", mockError: model.ErrInvalidRating, expectedStatus: http.StatusBadRequest},
		{name: "Unknown product", mockError: model.ErrProductNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReviewService)
			handler := NewReviewHandler(svc, validate.New(), zerolog.Nop())
			svc.On("Create", mock.Anything, int64(1), mock.AnythingOfType("*model.ReviewRequest")).Return(tt.mockReturn, tt.mockError)

			w := httptest.NewRecorder()
			handler.Create(w, newRequest(http.MethodPost, "/api/review/createreview", `{"product_id":9,"rating":5,"comment":"Great"}`, &testUser))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestReviewHandler_Reads(t *testing.T) {
	svc := new(MockReviewService)
	handler := NewReviewHandler(svc, validate.New(), zerolog.Nop())

	svc.On("ListByProduct", mock.Anything, int64(9)).Return([]model.Review{{ID: 1, Author: &model.Author{Username: "jane"}}}, nil)
	svc.On("GetByID", mock.Anything, int64(1)).Return(&model.Review{ID: 1}, nil)

	req := newRequest(http.MethodGet, "/api/review/getreview/9", "", nil)
	req.SetPathValue("productId", "9")
	w := httptest.NewRecorder()
	handler.ListByProduct(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"jane"`)

	req = newRequest(http.MethodGet, "/api/review/getreview-by-id/1", "", &testUser)
	req.SetPathValue("reviewId", "1")
	w = httptest.NewRecorder()
	handler.GetByID(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewHandler_UpdateAndDelete(t *testing.T) {
	svc := new(MockReviewService)
	handler := NewReviewHandler(svc, validate.New(), zerolog.Nop())

	svc.On("Update", mock.Anything, int64(1), int64(3), mock.Anything).Return(nil, model.ErrReviewNotFound)
	svc.On("Delete", mock.Anything, int64(1), int64(3)).Return(nil)

	req := newRequest(http.MethodPut, "/api/review/updatereview/3", `{"rating":4}`, &testUser)
	req.SetPathValue("id", "3")
	w := httptest.NewRecorder()
	handler.Update(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = newRequest(http.MethodDelete, "/api/review/deletereview/3", "", &testUser)
	req.SetPathValue("id", "3")
	w = httptest.NewRecorder()
	handler.Delete(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Review deleted successfully")
}
