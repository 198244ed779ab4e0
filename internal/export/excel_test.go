package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertydash/server/internal/models"
)

func TestWorkbook(t *testing.T) {
	result := models.AggregateResult{
		Query: "삼성동",
		Properties: []models.PropertyRecord{
			{
				Platform:    "naver",
				Title:       "삼성동 아이파크",
				Address:     "서울 강남구 삼성동 87",
				Price:       150000,
				PriceString: "15.0억",
				Area:        84.97,
				AreaPyeong:  26,
				Floor:       "21/46",
				Type:        "아파트",
				TradeType:   "매매",
				URL:         "https://m.land.naver.com",
			},
			{
				Platform:    "zigbang",
				Title:       "역삼동 오피스텔",
				Address:     "서울 강남구 역삼동 123",
				Price:       10000,
				PriceString: "1.0억",
				MonthlyRent: 120,
			},
		},
	}

	f, err := Workbook(result)
	require.NoError(t, err)

	sheets := f.GetSheetList()
	require.Equal(t, []string{"매물"}, sheets)

	header, err := f.GetCellValue("매물", "A1")
	require.NoError(t, err)
	assert.Equal(t, "플랫폼", header)

	title, err := f.GetCellValue("매물", "B2")
	require.NoError(t, err)
	assert.Equal(t, "삼성동 아이파크", title)

	price, err := f.GetCellValue("매물", "E2")
	require.NoError(t, err)
	assert.Equal(t, "15.0억", price)

	rent, err := f.GetCellValue("매물", "F3")
	require.NoError(t, err)
	assert.Equal(t, "120", rent)
}

func TestWorkbookEmptyResult(t *testing.T) {
	f, err := Workbook(models.AggregateResult{Query: "삼성동"})
	require.NoError(t, err)

	rows, err := f.GetRows("매물")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 7, 3, 9, 15, 0, 0, time.UTC)

	assert.Equal(t, "서울_강남구_삼성동_매물_20250703_091500.xlsx", Filename("서울 강남구 삼성동", now))
	assert.Equal(t, "검색결과_매물_20250703_091500.xlsx", Filename("  ", now))
}
