package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZigbangFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wydm5", r.URL.Query().Get("geohash"))
		assert.Equal(t, "zigbang", r.URL.Query().Get("domain"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"item_id":10482917,"title":"역삼동 오피스텔","address":"서울 강남구 역삼동 123","deposit":10000,"rent":120,"area":29.7,"floor":"8","building_type":"오피스텔","sales_type":0,"lat":37.5008,"lng":127.0367}
		]}`))
	}))
	defer server.Close()

	zigbang := NewZigbang(quietLogger(), 2*time.Second)
	zigbang.SetBaseURL(server.URL)

	q := Query{Address: "역삼동", Normalized: "역삼동", Lat: 37.5006, Lng: 127.0365}
	result := zigbang.Fetch(context.Background(), q)

	require.NoError(t, result.Err)
	require.Len(t, result.Properties, 1)

	rec := result.Properties[0]
	assert.Equal(t, "ZIGBANG_10482917", rec.ID)
	assert.Equal(t, "zigbang", rec.Platform)
	assert.Equal(t, 10000, rec.Price)
	assert.Equal(t, "1.0억", rec.PriceString)
	assert.Equal(t, 120, rec.MonthlyRent)
	assert.Equal(t, "월세", rec.TradeType)
	assert.Equal(t, 9, rec.AreaPyeong)
}

func TestZigbangUnknownNeighborhoodUsesDefaultGeohash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, zigbangDefaultGeohash, r.URL.Query().Get("geohash"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	zigbang := NewZigbang(quietLogger(), 2*time.Second)
	zigbang.SetBaseURL(server.URL)

	result := zigbang.Fetch(context.Background(), Query{Address: "등촌동", Normalized: "등촌동"})

	assert.NoError(t, result.Err)
	assert.Empty(t, result.Properties)
}

func TestZigbangFallbackSample(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	zigbang := NewZigbang(quietLogger(), 2*time.Second)
	zigbang.SetBaseURL(server.URL)

	result := zigbang.Fetch(context.Background(), Query{Address: "삼성동", Normalized: "삼성동"})

	assert.NoError(t, result.Err)
	require.Len(t, result.Properties, 2)
	assert.Equal(t, "ZIGBANG_SAMPLE_1", result.Properties[0].ID)
	assert.Equal(t, "월세", result.Properties[0].TradeType)
}

func TestSalesTypeName(t *testing.T) {
	assert.Equal(t, "월세", salesTypeName(0))
	assert.Equal(t, "전세", salesTypeName(1))
	assert.Equal(t, "매매", salesTypeName(2))
	assert.Equal(t, "매매", salesTypeName(99))
}
