package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDabangFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req dabangSearchRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "3.0.1", req.APIVersion)
		require.Len(t, req.Filters.Location, 2)
		// The location filter is a lng/lat box around the centroid.
		assert.InDelta(t, 127.0463, req.Filters.Location[0][0], 0.0001)
		assert.InDelta(t, 37.5182, req.Filters.Location[1][1], 0.0001)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rooms":[
			{"id":"66a1f3c2d8","title":"삼성동 오피스텔","location":{"lat":37.5089,"lng":127.0631,"address":"서울 강남구 삼성동 141-32"},"price_info":{"deposit":10000,"rent":120},"room_info":{"size":29.7,"floor_string":"8층"},"room_type_text":"오피스텔","selling_type":0}
		]}`))
	}))
	defer server.Close()

	dabang := NewDabang(quietLogger(), 2*time.Second)
	dabang.SetBaseURL(server.URL)

	q := Query{Address: "삼성동", Normalized: "삼성동", Lat: 37.5172, Lng: 127.0473, Radius: 0.001}
	result := dabang.Fetch(context.Background(), q)

	require.NoError(t, result.Err)
	require.Len(t, result.Properties, 1)

	rec := result.Properties[0]
	assert.Equal(t, "DABANG_66a1f3c2d8", rec.ID)
	assert.Equal(t, "dabang", rec.Platform)
	assert.Equal(t, 10000, rec.Price)
	assert.Equal(t, 120, rec.MonthlyRent)
	assert.Equal(t, "월세", rec.TradeType)
	assert.Equal(t, "서울 강남구 삼성동 141-32", rec.Address)
	assert.Equal(t, 9, rec.AreaPyeong)
}

func TestDabangFallbackSample(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	dabang := NewDabang(quietLogger(), 2*time.Second)
	dabang.SetBaseURL(server.URL)

	result := dabang.Fetch(context.Background(), Query{Address: "논현동"})

	assert.NoError(t, result.Err)
	require.Len(t, result.Properties, 2)
	assert.Equal(t, "DABANG_SAMPLE_1", result.Properties[0].ID)
	assert.Equal(t, "전세", result.Properties[0].TradeType)
}
