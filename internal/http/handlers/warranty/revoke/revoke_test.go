package revoke

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/warrantywallet/warranty-wallet/internal/models"
	"github.com/warrantywallet/warranty-wallet/internal/services/warranty"
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Revoke(ctx context.Context, id, email string) (*models.Warranty, error) {
	args := m.Called(ctx, id, email)
	if w, ok := args.Get(0).(*models.Warranty); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/revokeAccess/"+id, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_Revoke(t *testing.T) {
	id := primitive.NewObjectID()
	updated := &models.Warranty{ID: id, SharedWith: []string{}}

	tests := []struct {
		name           string
		id             string
		body           string
		mockSetup      func(m *MockService)
		expectedStatus int
	}{
		{
			name: "успешный отзыв доступа",
			id:   id.Hex(),
			body: `{"email": "friend@example.com"}`,
			mockSetup: func(m *MockService) {
				m.On("Revoke", mock.Anything, id.Hex(), "friend@example.com").
					Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "некорректное тело запроса",
			id:             id.Hex(),
			body:           `{not json`,
			mockSetup:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "ошибка валидации email",
			id:             id.Hex(),
			body:           `{"email": ""}`,
			mockSetup:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "некорректный идентификатор",
			id:   "not-an-id",
			body: `{"email": "friend@example.com"}`,
			mockSetup: func(m *MockService) {
				m.On("Revoke", mock.Anything, "not-an-id", "friend@example.com").
					Return(nil, warranty.ErrInvalidID)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "запись не найдена",
			id:   id.Hex(),
			body: `{"email": "friend@example.com"}`,
			mockSetup: func(m *MockService) {
				m.On("Revoke", mock.Anything, id.Hex(), "friend@example.com").
					Return(nil, storage.ErrWarrantyNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "внутренняя ошибка сервиса",
			id:   id.Hex(),
			body: `{"email": "friend@example.com"}`,
			mockSetup: func(m *MockService) {
				m.On("Revoke", mock.Anything, id.Hex(), "friend@example.com").
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.mockSetup(mockService)
			handler := New(newNoopLogger(), mockService)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(tt.id, tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
