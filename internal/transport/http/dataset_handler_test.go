package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "fauxlizer/internal/errors"
	"fauxlizer/internal/exporter"
	mw "fauxlizer/internal/middleware"
	"fauxlizer/internal/shared/testutil"
	"fauxlizer/pkg/contracts/domain"
)

// MockDatasetService is a mock implementation of DatasetServiceInterface
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Validate(ctx context.Context, path string) domain.ValidationOutcome {
	args := m.Called(path)
	return args.Get(0).(domain.ValidationOutcome)
}

func (m *MockDatasetService) ValidateAll(ctx context.Context, paths []string) ([]domain.ValidationOutcome, error) {
	args := m.Called(paths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationOutcome), args.Error(1)
}

func (m *MockDatasetService) Summarize(ctx context.Context, path string) (*domain.Summary, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}

func (m *MockDatasetService) GetRow(ctx context.Context, path string, index int, format string) (*exporter.Export, error) {
	args := m.Called(path, index, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exporter.Export), args.Error(1)
}

func (m *MockDatasetService) Outcomes() []domain.ValidationOutcome {
	args := m.Called()
	return args.Get(0).([]domain.ValidationOutcome)
}

func newTestRouter(t *testing.T, service DatasetServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	handler := NewDatasetHandler(service, "data", logger, apperrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Mount("/datasets", handler.Routes())
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestDatasetHandler_Validate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockDatasetService)
		expectedStatus int
		check          func(*testing.T, map[string]interface{})
	}{
		{
			name: "valid dataset",
			body: `{"path":"a.faux"}`,
			setupMock: func(m *MockDatasetService) {
				m.On("Validate", "data/a.faux").Return(domain.Valid("data/a.faux"))
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, true, body["valid"])
				assert.Equal(t, "data/a.faux", body["path"])
			},
		},
		{
			name: "invalid dataset is still a successful request",
			body: `{"path":"b.faux"}`,
			setupMock: func(m *MockDatasetService) {
				m.On("Validate", "data/b.faux").
					Return(domain.InvalidField("data/b.faux", domain.FieldSampleID, "-5", 3))
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, false, body["valid"])
				assert.Equal(t, string(domain.ReasonSampleIDInvalid), body["reason"])
				assert.Equal(t, float64(3), body["row"])
			},
		},
		{
			name:           "missing path",
			body:           `{}`,
			setupMock:      func(*MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
			},
		},
		{
			name:           "path escaping the data directory",
			body:           `{"path":"../etc/passwd"}`,
			setupMock:      func(*MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"path":`,
			setupMock:      func(*MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDatasetService)
			tt.setupMock(service)

			req := httptest.NewRequest(http.MethodPost, "/datasets/validate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			newTestRouter(t, service).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, decodeBody(t, rec))
			}
			service.AssertExpectations(t)
		})
	}
}

func TestDatasetHandler_ValidateBatch(t *testing.T) {
	service := new(MockDatasetService)
	service.On("ValidateAll", []string{"data/a.faux", "data/b.faux"}).Return([]domain.ValidationOutcome{
		domain.Valid("data/a.faux"),
		domain.InvalidStructure("data/b.faux", apperrors.ErrStructuralRead),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/datasets/validate/batch",
		strings.NewReader(`{"paths":["a.faux","b.faux"]}`))
	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["valid"])
	assert.Equal(t, float64(1), body["invalid"])
	assert.Len(t, body["outcomes"], 2)
	service.AssertExpectations(t)
}

func TestDatasetHandler_Summary(t *testing.T) {
	summary := &domain.Summary{
		Filename:  "data/a.faux",
		TotalRows: 2,
		Fauxness: domain.FauxnessStats{
			Min:  domain.Stat(0.5),
			Max:  domain.Stat(0.9),
			Mean: domain.Stat(0.7),
			Std:  domain.Stat(0.28),
		},
		CategoryGuess: domain.CategoryCounts{Real: 1, Fake: 1},
	}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockDatasetService)
		expectedStatus int
		expectedType   string
	}{
		{
			name:  "validated dataset",
			query: "?path=a.faux",
			setupMock: func(m *MockDatasetService) {
				m.On("Summarize", "data/a.faux").Return(summary, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "not validated",
			query: "?path=a.faux",
			setupMock: func(m *MockDatasetService) {
				m.On("Summarize", "data/a.faux").Return(nil, apperrors.NewNotValidatedError("data/a.faux"))
			},
			expectedStatus: http.StatusConflict,
			expectedType:   apperrors.TypeDatasetNotValidated,
		},
		{
			name:  "file unreadable after validation",
			query: "?path=a.faux",
			setupMock: func(m *MockDatasetService) {
				m.On("Summarize", "data/a.faux").
					Return(nil, apperrors.NewStructuralError("open data/a.faux", nil))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   apperrors.TypeDatasetUnreadable,
		},
		{
			name:           "missing path parameter",
			query:          "",
			setupMock:      func(*MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apperrors.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDatasetService)
			tt.setupMock(service)

			rec := httptest.NewRecorder()
			newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/summary"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, body["type"])
			} else {
				assert.Equal(t, float64(2), body["totalRows"])
			}
			service.AssertExpectations(t)
		})
	}
}

func TestDatasetHandler_GetRow(t *testing.T) {
	row := domain.NewRow(domain.RequiredFields, []string{"exp", "1", "0.5", "real"})

	tests := []struct {
		name            string
		url             string
		setupMock       func(*MockDatasetService)
		expectedStatus  int
		expectedType    string
		expectedContent string
		expectedBody    string
	}{
		{
			name: "csv row",
			url:  "/datasets/rows/0?path=a.faux&format=csv",
			setupMock: func(m *MockDatasetService) {
				m.On("GetRow", "data/a.faux", 0, "csv").Return(&exporter.Export{
					Format:      exporter.FormatCSV,
					ContentType: "text/csv; charset=utf-8",
					Row:         row,
					Data:        []byte("experiment_name,sample_id,fauxness,category_guess\nexp,1,0.5,real\n"),
				}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedContent: "text/csv; charset=utf-8",
			expectedBody:    "exp,1,0.5,real",
		},
		{
			name: "json is the default format",
			url:  "/datasets/rows/0?path=a.faux",
			setupMock: func(m *MockDatasetService) {
				m.On("GetRow", "data/a.faux", 0, "json").Return(&exporter.Export{
					Format:      exporter.FormatJSON,
					ContentType: "application/json",
					Row:         row,
					Data:        []byte(`{"experiment_name":"exp","sample_id":"1","fauxness":"0.5","category_guess":"real"}`),
				}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedContent: "application/json",
			expectedBody:    `"experiment_name":"exp"`,
		},
		{
			name: "native row is wrapped",
			url:  "/datasets/rows/1?path=a.faux&format=native",
			setupMock: func(m *MockDatasetService) {
				m.On("GetRow", "data/a.faux", 1, "native").Return(&exporter.Export{
					Format: exporter.FormatNative,
					Row:    row,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"index":1`,
		},
		{
			name: "index out of range",
			url:  "/datasets/rows/9?path=a.faux&format=csv",
			setupMock: func(m *MockDatasetService) {
				m.On("GetRow", "data/a.faux", 9, "csv").
					Return(nil, apperrors.NewIndexOutOfRangeError("data/a.faux", 9, 2))
			},
			expectedStatus: http.StatusNotFound,
			expectedType:   apperrors.TypeRowOutOfRange,
		},
		{
			name: "unsupported format",
			url:  "/datasets/rows/0?path=a.faux&format=yaml",
			setupMock: func(m *MockDatasetService) {
				m.On("GetRow", "data/a.faux", 0, "yaml").
					Return(nil, apperrors.NewUnsupportedFormatError("yaml"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apperrors.TypeUnsupportedFormat,
		},
		{
			name: "not validated",
			url:  "/datasets/rows/0?path=a.faux&format=csv",
			setupMock: func(m *MockDatasetService) {
				m.On("GetRow", "data/a.faux", 0, "csv").
					Return(nil, apperrors.NewNotValidatedError("data/a.faux"))
			},
			expectedStatus: http.StatusConflict,
			expectedType:   apperrors.TypeDatasetNotValidated,
		},
		{
			name:           "non numeric index",
			url:            "/datasets/rows/first?path=a.faux",
			setupMock:      func(*MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apperrors.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDatasetService)
			tt.setupMock(service)

			rec := httptest.NewRecorder()
			newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedContent != "" {
				assert.Equal(t, tt.expectedContent, rec.Header().Get("Content-Type"))
			}
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, decodeBody(t, rec)["type"])
			}
			service.AssertExpectations(t)
		})
	}
}

func TestDatasetHandler_ListOutcomes(t *testing.T) {
	service := new(MockDatasetService)
	service.On("Outcomes").Return([]domain.ValidationOutcome{domain.Valid("data/a.faux")})

	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])
}
