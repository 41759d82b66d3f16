package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "kartlap/internal/errors"
	"kartlap/internal/exporter"
	"kartlap/internal/services"
	api "kartlap/pkg/contracts/api/v1"
	"kartlap/pkg/contracts/domain"
)

type MockHeatService struct {
	mock.Mock
}

func (m *MockHeatService) Import(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	args := m.Called(ctx, track, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Heat), args.Error(1)
}

func (m *MockHeatService) ImportBatch(ctx context.Context, track domain.Track, ids []string, workers int) ([]services.BatchResult, error) {
	args := m.Called(ctx, track, ids, workers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.BatchResult), args.Error(1)
}

func (m *MockHeatService) Get(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	args := m.Called(ctx, track, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Heat), args.Error(1)
}

func (m *MockHeatService) FullResults(ctx context.Context, track domain.Track, sessionID string) ([][]string, error) {
	args := m.Called(ctx, track, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

func (m *MockHeatService) List(ctx context.Context, track domain.Track) ([]domain.HeatRef, error) {
	args := m.Called(ctx, track)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HeatRef), args.Error(1)
}

func (m *MockHeatService) Delete(ctx context.Context, track domain.Track, sessionID string) error {
	return m.Called(ctx, track, sessionID).Error(0)
}

func (m *MockHeatService) Export(ctx context.Context, track domain.Track, sessionID string, format exporter.Format) (*services.ExportResult, error) {
	args := m.Called(ctx, track, sessionID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleHeat(track domain.Track, id string) *domain.Heat {
	ann := domain.NewDriver(1, "Ann", domain.KartNumber(7))
	ann.AddLapTime("40.100")
	bob := domain.NewDriver(2, "Bob", domain.KartLabel("12a"))
	bob.AddLapTime("41.330")
	bob.AddLapTime("40.870")
	return domain.NewHeat(id, track, []*domain.Driver{ann, bob}, nil, nil)
}

func newTestRouter(svc *MockHeatService) http.Handler {
	h := NewHeatHandler(svc, testLogger(), apierrors.NewErrorHandler(testLogger(), false))
	r := chi.NewRouter()
	r.Mount("/api/heats", h.Routes())
	r.Get("/api/tracks", TracksHandler)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHeatHandler_Import(t *testing.T) {
	svc := new(MockHeatService)
	svc.On("Import", mock.Anything, domain.DefaultTrack, "83557").
		Return(sampleHeat(domain.DefaultTrack, "83557"), nil)

	rec := do(t, newTestRouter(svc), http.MethodPost, "/api/heats/import", `{"session_id":"83557"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got api.HeatSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, api.HeatSummary{Track: domain.DefaultTrack, SessionID: "83557", Drivers: 2, Laps: 2}, got)
	svc.AssertExpectations(t)
}

func TestHeatHandler_ImportRejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ctype  string
		status int
	}{
		{"missing session", `{"track":"drive"}`, "application/json", http.StatusBadRequest},
		{"bad session", `{"session_id":"../etc"}`, "application/json", http.StatusBadRequest},
		{"unknown track", `{"track":"monza","session_id":"1"}`, "application/json", http.StatusBadRequest},
		{"not json", `session_id=1`, "application/json", http.StatusBadRequest},
		{"wrong content type", `{"session_id":"1"}`, "text/plain", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHeatService)
			req := httptest.NewRequest(http.MethodPost, "/api/heats/import", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.ctype)
			rec := httptest.NewRecorder()
			newTestRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHeatHandler_ImportErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"site down", apierrors.NewNetworkError("fetch heat page", fmt.Errorf("dial tcp: refused")), http.StatusBadGateway},
		{"empty page", apierrors.NewParsingError("no heat data", services.ErrNoHeatData), http.StatusBadGateway},
		{"storage", apierrors.NewStorageError("save heat", fmt.Errorf("disk full")), http.StatusInternalServerError},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHeatService)
			svc.On("Import", mock.Anything, domain.TrackDrive, "9").Return(nil, tt.err)

			rec := do(t, newTestRouter(svc), http.MethodPost, "/api/heats/import", `{"track":"drive","session_id":"9"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHeatHandler_ImportBatch(t *testing.T) {
	svc := new(MockHeatService)
	svc.On("ImportBatch", mock.Anything, domain.TrackPremium, []string{"1", "2"}, 3).Return([]services.BatchResult{
		{SessionID: "1", Heat: sampleHeat(domain.TrackPremium, "1")},
		{SessionID: "2", Err: apierrors.NewNetworkError("fetch heat page", nil)},
	}, nil)

	rec := do(t, newTestRouter(svc), http.MethodPost, "/api/heats/import/batch",
		`{"track":"premium","session_ids":["1","2"],"workers":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got api.BatchImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Imported)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Results, 2)
	assert.Equal(t, api.BatchStatusImported, got.Results[0].Status)
	require.NotNil(t, got.Results[0].Heat)
	assert.Equal(t, 2, got.Results[0].Heat.Drivers)
	assert.Equal(t, api.BatchStatusFailed, got.Results[1].Status)
	assert.NotEmpty(t, got.Results[1].Error)
}

func TestHeatHandler_ImportBatchValidation(t *testing.T) {
	svc := new(MockHeatService)
	r := newTestRouter(svc)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/heats/import/batch", `{"session_ids":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/heats/import/batch", `{"session_ids":["1","x y"]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/heats/import/batch", `{"session_ids":["1"],"workers":99}`).Code)
	svc.AssertNotCalled(t, "ImportBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHeatHandler_GetHeat(t *testing.T) {
	svc := new(MockHeatService)
	svc.On("Get", mock.Anything, domain.TrackDrive, "77").Return(sampleHeat(domain.TrackDrive, "77"), nil)
	svc.On("Get", mock.Anything, domain.TrackDrive, "78").
		Return(nil, apierrors.NewNotFoundError("heat drive/78", domain.ErrRecordNotFound))
	svc.On("Get", mock.Anything, domain.TrackDrive, "79").
		Return(nil, fmt.Errorf("decode: %w", domain.ErrMalformedRecord))
	r := newTestRouter(svc)

	rec := do(t, r, http.MethodGet, "/api/heats/drive/77", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got api.HeatDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"Kart", "7", "12a"}, got.KartNumbers)
	assert.Equal(t, []string{"2", "", "40.870"}, got.LapTable[2])

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/heats/drive/78", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, r, http.MethodGet, "/api/heats/drive/79", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/heats/monza/77", "").Code)
}

func TestHeatHandler_GetResults(t *testing.T) {
	svc := new(MockHeatService)
	rows := [][]string{{"Driver", "Ann"}, {"Kart", "7"}, {"Lap", "Ann"}, {"1", "40.100"}}
	svc.On("FullResults", mock.Anything, domain.TrackNarvskaya, "5").Return(rows, nil)

	rec := do(t, newTestRouter(svc), http.MethodGet, "/api/heats/narvskaya/5/results", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got api.ResultsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, rows, got.Rows)
}

func TestHeatHandler_Export(t *testing.T) {
	svc := new(MockHeatService)
	svc.On("Export", mock.Anything, domain.TrackPremium, "42", exporter.FormatCSV).Return(&services.ExportResult{
		Filename:    "heat_premium_42.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("Driver,Ann\n"),
	}, nil)
	r := newTestRouter(svc)

	rec := do(t, r, http.MethodGet, "/api/heats/premium/42/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="heat_premium_42.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Driver,Ann\n", rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/heats/premium/42/export/png", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNumberOfCalls(t, "Export", 1)
}

func TestHeatHandler_ListAndDelete(t *testing.T) {
	svc := new(MockHeatService)
	svc.On("List", mock.Anything, domain.TrackDrive).
		Return([]domain.HeatRef{{Track: domain.TrackDrive, SessionID: "1"}}, nil)
	svc.On("List", mock.Anything, domain.Track("")).Return(nil, nil)
	svc.On("Delete", mock.Anything, domain.TrackDrive, "1").Return(nil)
	r := newTestRouter(svc)

	rec := do(t, r, http.MethodGet, "/api/heats?track=drive", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list api.HeatListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	rec = do(t, r, http.MethodGet, "/api/heats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"heats":[],"count":0}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/heats?track=monza", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/heats/drive/1", "").Code)
	svc.AssertExpectations(t)
}

func TestTracksHandler(t *testing.T) {
	rec := do(t, newTestRouter(new(MockHeatService)), http.MethodGet, "/api/tracks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got api.TracksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Tracks, len(domain.Tracks()))
}
