package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/repository"
	"suretyledger-service/internal/interface/httpapi"
	"suretyledger-service/internal/ledger"
	"suretyledger-service/internal/usecase"
	"suretyledger-service/pkg/logger"
	"suretyledger-service/pkg/metrics"
)

const minStake = 10 * entity.UnitScale

type noopRepos struct{}

func (noopRepos) Upsert(context.Context, *entity.Airline) error { return nil }
func (noopRepos) FindByAddress(context.Context, string) (*entity.Airline, error) {
	return nil, nil
}
func (noopRepos) FindAll(context.Context) ([]entity.Airline, error) { return nil, nil }

type noopFlightRepo struct{}

func (noopFlightRepo) Upsert(context.Context, *repository.FlightSnapshot) error { return nil }
func (noopFlightRepo) FindByKey(context.Context, string) (*repository.FlightSnapshot, error) {
	return nil, nil
}
func (noopFlightRepo) FindAll(context.Context) ([]repository.FlightSnapshot, error) {
	return nil, nil
}

type noopCreditRepo struct{}

func (noopCreditRepo) Upsert(context.Context, *entity.Credit) error { return nil }
func (noopCreditRepo) FindAll(context.Context) ([]entity.Credit, error) {
	return nil, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, entity.Event) {}

type noopTreasury struct{}

func (noopTreasury) Transfer(context.Context, string, int64) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *usecase.Engine) {
	t.Helper()
	log := logger.NewNopLogger()
	engine := usecase.NewEngine(
		ledger.NewStore("owner"),
		noopRepos{},
		noopFlightRepo{},
		noopCreditRepo{},
		noopTreasury{},
		noopNotifier{},
		log,
		metrics.NewMetricsWith(prometheus.NewRegistry(), "test"),
		minStake,
		entity.UnitScale,
	)
	require.NoError(t, engine.Bootstrap(context.Background(), "A1", "First Air"))
	return httpapi.NewRouter(engine, log).Routes(), engine
}

func doRequest(t *testing.T, handler http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if caller != "" {
		req.Header.Set("X-Caller", caller)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["operational"])
}

func TestFundingFlow(t *testing.T) {
	handler, engine := newTestRouter(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/airlines/fund", "A1",
		`{"payment": 10000000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, engine.TotalActivedAirlines())

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/airlines/A1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var airline map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &airline))
	assert.Equal(t, "Actived", airline["state"])
}

func TestErrorMapping(t *testing.T) {
	handler, _ := newTestRouter(t)

	t.Run("owner-only endpoints reject strangers", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPut, "/api/v1/admin/operational", "stranger",
			`{"mode": false}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthorized status processing is forbidden", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/flights/status", "stranger",
			`{"airline": "A1", "flightId": "F", "timestamp": 1700000000, "statusCode": 20, "airlineFault": true}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("withdrawal without credit conflicts", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/withdrawals", "pax", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown airline is not found", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/v1/airlines/ghost", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-positive insurance payment is a bad request", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/insurance", "pax",
			`{"airline": "A1", "flightId": "F", "timestamp": 1700000000, "payment": -1000}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/airlines", "A1", `{"address":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInsuranceFlowOverHTTP(t *testing.T) {
	handler, engine := newTestRouter(t)
	ctx := context.Background()

	// Activate A1, register a flight, authorize the orchestrator.
	require.NoError(t, engine.SubmitFund(ctx, "A1", minStake))
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/flights", "A1",
		`{"flightId": "F", "timestamp": 1700000000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, engine.AuthorizeCaller(ctx, "owner", "orchestrator"))

	rec = doRequest(t, handler, http.MethodPost, "/api/v1/insurance", "pax",
		`{"airline": "A1", "flightId": "F", "timestamp": 1700000000, "payment": 100}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/v1/flights/status", "orchestrator",
		`{"airline": "A1", "flightId": "F", "timestamp": 1700000000, "statusCode": 20, "airlineFault": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/credits/pax", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var credit map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &credit))
	assert.Equal(t, float64(150), credit["amount"])

	rec = doRequest(t, handler, http.MethodPost, "/api/v1/withdrawals", "pax", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var payout map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payout))
	assert.Equal(t, float64(150), payout["amount"])

	// Processing the same flight twice conflicts.
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/flights/status", "orchestrator",
		`{"airline": "A1", "flightId": "F", "timestamp": 1700000000, "statusCode": 20, "airlineFault": true}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
