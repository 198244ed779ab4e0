package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedbankFetch(t *testing.T) {
	speedbank := NewSpeedbank(quietLogger())

	result := speedbank.Fetch(context.Background(), Query{
		Address: "서울 강남구 삼성동",
		Lat:     37.5172,
		Lng:     127.0473,
	})

	require.NoError(t, result.Err)
	// "서울" and "강남구" appear in every curated listing's address, so the
	// any-term filter keeps all three.
	require.Len(t, result.Properties, 3)

	rec := result.Properties[0]
	assert.Equal(t, "SPEEDBANK_SB001", rec.ID)
	assert.Equal(t, "speedbank", rec.Platform)
	assert.Equal(t, 150000, rec.Price)
	assert.Equal(t, "15.0억", rec.PriceString)
	// Curated listings anchor to the query centroid.
	assert.Equal(t, 37.5172, rec.Lat)
}

func TestSpeedbankFetchSingleNeighborhood(t *testing.T) {
	speedbank := NewSpeedbank(quietLogger())

	result := speedbank.Fetch(context.Background(), Query{Address: "역삼동"})

	require.Len(t, result.Properties, 1)
	assert.Equal(t, "SPEEDBANK_SB002", result.Properties[0].ID)
	assert.Equal(t, "오피스텔", result.Properties[0].Type)
}

func TestSpeedbankFetchNoMatch(t *testing.T) {
	speedbank := NewSpeedbank(quietLogger())

	result := speedbank.Fetch(context.Background(), Query{Address: "부산 해운대구"})

	assert.NoError(t, result.Err)
	assert.Empty(t, result.Properties)
}
