package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/antonyoatec/case-tecnofit/pkg/utils"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*HealthHandler, *MockPinger) {
	ctrl := gomock.NewController(t)
	pinger := NewMockPinger(ctrl)
	handler := New(pinger)
	defer ctrl.Finish()
	return handler, pinger
}

func TestCheck(t *testing.T) {
	handler, pinger := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedErr  string
	}{
		{
			name: "Database reachable",
			prepareMock: func() {
				pinger.EXPECT().Ping(gomock.Any()).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Database unreachable",
			prepareMock: func() {
				pinger.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
			},
			expectedCode: http.StatusServiceUnavailable,
			expectedErr:  "DEPENDENCY_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.Check(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)

			var envelope utils.Response
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
			if tt.expectedErr != "" {
				assert.False(t, envelope.Success)
				assert.Equal(t, tt.expectedErr, envelope.Error.Code)
			} else {
				assert.True(t, envelope.Success)
			}
		})
	}
}
