package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertydash/server/config"
	"propertydash/server/internal/aggregator"
	"propertydash/server/internal/cache"
	"propertydash/server/internal/geocode"
	"propertydash/server/internal/models"
	"propertydash/server/internal/providers"
)

const registryXML = `<response><body><items><item>
	<거래금액>150,000</거래금액>
	<년>2025</년><월>6</월><일>9</일>
	<아파트>아이파크삼성</아파트>
	<전용면적>84.97</전용면적>
	<층>21</층>
	<법정동>삼성동</법정동>
</item></items></body></response>`

type testServers struct {
	router   *gin.Engine
	registry *httptest.Server
}

// newTestRouter wires the full HTTP surface against deterministic backends:
// the curated speedbank adapter, a geocoder whose external tier always fails
// and a local fake registry.
func newTestRouter(t *testing.T, registryHandler http.HandlerFunc) *testServers {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.Geocode.Timeout = 1
	cfg.Providers.Timeout = 1
	cfg.Providers.MergedCap = 100
	cfg.Providers.PreciseRadius = 0.005
	cfg.Registry.ServiceKey = "key"
	cfg.Registry.Timeout = 2
	cfg.Registry.ResultCap = 50
	cfg.Cache.TTL = 300

	geocodeDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(geocodeDown.Close)

	resolver := geocode.NewResolver(cfg, logger)
	resolver.SetBaseURL(geocodeDown.URL)

	adapters := []providers.Provider{providers.NewSpeedbank(logger)}
	orchestrator := aggregator.NewOrchestrator(cfg, resolver, adapters, logger)

	registryServer := httptest.NewServer(registryHandler)
	t.Cleanup(registryServer.Close)
	registry := providers.NewMolit(cfg, logger)
	registry.SetEndpoints(providers.EndpointChain(registryServer.URL), providers.EndpointChain(registryServer.URL))

	datasetPath := filepath.Join(t.TempDir(), "properties.json")
	require.NoError(t, os.WriteFile(datasetPath, []byte(`{"properties":[
		{"id":"DS_1","platform":"네이버","title":"삼성동 아이파크","address":"서울 강남구 삼성동 87","price":420000,"type":"아파트"}
	]}`), 0o644))
	dataset := providers.NewDataset(logger)
	require.NoError(t, dataset.Load(datasetPath))

	handler := NewHandler(orchestrator, resolver, registry, dataset, cache.NewMemory(5*time.Minute), logger)

	router := gin.New()
	SetupRoutes(router, handler)
	return &testServers{router: router, registry: registryServer}
}

func serveRegistryXML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(registryXML))
}

func doRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSearchRequiresAddress(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/search")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "검색할 주소를 입력해주세요")
}

func TestSearchFromDataset(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/search?address=삼성동")
	require.Equal(t, http.StatusOK, w.Code)

	var result models.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "삼성동", result.Query)
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "DS_1", result.Properties[0].ID)
	assert.Equal(t, 1, result.Stats.ByType["아파트"])
}

func TestRealtimeSearch(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/realtime-search?address=삼성동")
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AggregateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "삼성동", result.Query)
	assert.False(t, result.Cached)
	assert.Nil(t, result.Errors)
	require.NotZero(t, result.TotalCount)
	assert.Equal(t, "speedbank", result.Properties[0].Platform)
}

func TestRealtimeSearchCaching(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	first := doRequest(ts.router, http.MethodGet, "/realtime-search?address=삼성동")
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(ts.router, http.MethodGet, "/realtime-search?address=삼성동")
	require.Equal(t, http.StatusOK, second.Code)

	var result models.AggregateResult
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &result))
	assert.True(t, result.Cached)

	// A different platform selection is a different cache key.
	third := doRequest(ts.router, http.MethodGet, "/realtime-search?address=삼성동&platforms=speedbank")
	var fresh models.AggregateResult
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &fresh))
	assert.False(t, fresh.Cached)
}

func TestGeocodeRequiresAddress(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/geocode")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "주소를 입력해주세요")
}

func TestGeocodeDegradedTier(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/geocode?address=역삼동")
	require.Equal(t, http.StatusOK, w.Code)

	var result models.GeocodeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "backup", result.Source)
	assert.Equal(t, 37.5006, result.Lat)
}

func TestRegistryTradesValidation(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/registry-trades")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(ts.router, http.MethodGet, "/registry-trades?address=삼성동&type=sale")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid type")
}

func TestRegistryTrades(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/registry-trades?address=삼성동&dealYmd=202506")
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Success    bool                     `json:"success"`
		Query      models.RegistryQuery     `json:"query"`
		TotalCount int                      `json:"totalCount"`
		Properties []models.TradeRecord     `json:"properties"`
		Stats      models.TradeStatsSummary `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.True(t, result.Success)
	assert.Equal(t, "11680", result.Query.LawdCd)
	assert.Equal(t, "202506", result.Query.DealYmd)
	assert.Equal(t, "trade", result.Query.Type)
	require.Equal(t, 1, result.TotalCount)
	assert.Equal(t, "2025-06-09", result.Properties[0].DealDate)
	assert.Equal(t, 150000, result.Stats.Average)
	assert.Equal(t, "15.0억", result.Stats.AverageString)
}

func TestRegistryTradesOutage(t *testing.T) {
	ts := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	w := doRequest(ts.router, http.MethodGet, "/registry-trades?address=삼성동")

	// Outages are reported in-band, never as a 5xx.
	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "실거래가 조회 중 오류가 발생했습니다", result["error"])
	assert.Equal(t, float64(0), result["totalCount"])
	assert.NotNil(t, result["properties"])
}

func TestRegions(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/regions/provinces")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "서울특별시")

	w = doRequest(ts.router, http.MethodGet, "/regions/districts")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(ts.router, http.MethodGet, "/regions/districts?province=서울특별시")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "강남구")

	w = doRequest(ts.router, http.MethodGet, "/regions/dongs?province=서울특별시")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(ts.router, http.MethodGet, "/regions/dongs?province=서울특별시&district=강남구")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "삼성동")
}

func TestExport(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/export?address=삼성동")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestExportRequiresAddress(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/export")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := doRequest(ts.router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestRouter(t, serveRegistryXML)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
