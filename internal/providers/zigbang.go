package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"propertydash/server/internal/models"
	"propertydash/server/internal/normalize"
)

const zigbangItemsURL = "https://apis.zigbang.com/v2/items"

// zigbangGeohashes maps neighborhood keywords to the 5-character geohash
// cells the items endpoint indexes by. Ordered, first match wins.
var zigbangGeohashes = []struct {
	Keyword string
	Geohash string
}{
	{"삼성동", "wydm6"},
	{"역삼동", "wydm5"},
	{"청담동", "wydm7"},
	{"논현동", "wydm4"},
	{"대치동", "wydm3"},
}

const zigbangDefaultGeohash = "wydm6"

// Zigbang covers the one-room/officetel segment; its API is keyed on geohash
// cells rather than coordinates.
type Zigbang struct {
	logger   *logrus.Logger
	client   *resty.Client
	baseURL  string
	policy   FallbackPolicy
	maxItems int
}

type zigbangItem struct {
	ItemID       flexString `json:"item_id"`
	Title        flexString `json:"title"`
	Address      flexString `json:"address"`
	Deposit      int        `json:"deposit"`
	Rent         int        `json:"rent"`
	Area         float64    `json:"area"`
	Floor        flexString `json:"floor"`
	BuildingType flexString `json:"building_type"`
	SalesType    int        `json:"sales_type"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	Description  flexString `json:"description"`
}

type zigbangResponse struct {
	Items []zigbangItem `json:"items"`
}

func NewZigbang(logger *logrus.Logger, timeout time.Duration) *Zigbang {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeaders(map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Referer":    "https://www.zigbang.com/",
		"Accept":     "application/json",
	})

	return &Zigbang{
		logger:   logger,
		client:   client,
		baseURL:  zigbangItemsURL,
		policy:   FallbackSample,
		maxItems: 20,
	}
}

func (z *Zigbang) Name() string { return PlatformZigbang }

func (z *Zigbang) SetBaseURL(url string) { z.baseURL = url }

func (z *Zigbang) SetFallbackPolicy(p FallbackPolicy) { z.policy = p }

func (z *Zigbang) Fetch(ctx context.Context, q Query) Result {
	geohash := zigbangDefaultGeohash
	for _, entry := range zigbangGeohashes {
		if strings.Contains(q.Normalized, entry.Keyword) {
			geohash = entry.Geohash
			break
		}
	}

	var payload zigbangResponse
	resp, err := z.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"domain":  "zigbang",
			"geohash": geohash,
			"zoom":    "16",
		}).
		SetResult(&payload).
		Get(z.baseURL)

	if err != nil {
		return z.fallback(q, fmt.Errorf("request failed: %w", err))
	}
	if resp.IsError() {
		return z.fallback(q, fmt.Errorf("upstream returned %d", resp.StatusCode()))
	}

	records := make([]models.PropertyRecord, 0, len(payload.Items))
	now := time.Now()
	for _, item := range payload.Items {
		lat, lng := item.Lat, item.Lng
		if lat == 0 || lng == 0 {
			lat, lng = q.Lat, q.Lng
		}

		records = append(records, models.PropertyRecord{
			ID:          zigbangID(item.ItemID.String()),
			Platform:    PlatformZigbang,
			Title:       normalize.PickString(item.Title.String(), "직방 매물"),
			Address:     normalize.PickString(item.Address.String(), "서울 강남구 "+q.Address),
			Price:       item.Deposit,
			PriceString: normalize.FormatManwon(item.Deposit),
			MonthlyRent: item.Rent,
			Area:        item.Area,
			AreaPyeong:  normalize.Pyeong(item.Area),
			Floor:       item.Floor.String(),
			Type:        normalize.PickString(item.BuildingType.String(), "원룸"),
			TradeType:   salesTypeName(item.SalesType),
			Lat:         lat,
			Lng:         lng,
			Description: item.Description.String(),
			URL:         "https://www.zigbang.com/home/oneroom/" + item.ItemID.String(),
			CollectedAt: now,
		})
	}

	z.logger.WithFields(logrus.Fields{"platform": PlatformZigbang, "count": len(records)}).Debug("Fetched listings")
	return Result{Properties: finishRecords(records, q, z.maxItems)}
}

// salesTypeName decodes the platform's numeric contract code.
func salesTypeName(code int) string {
	switch code {
	case 0:
		return "월세"
	case 1:
		return "전세"
	default:
		return "매매"
	}
}

func (z *Zigbang) fallback(q Query, err error) Result {
	z.logger.WithError(err).WithField("platform", PlatformZigbang).Warn("Upstream failed")
	if z.policy == FallbackEmpty {
		return Result{Err: err}
	}
	return Result{Properties: zigbangSamples(q)}
}

func zigbangSamples(q Query) []models.PropertyRecord {
	now := time.Now()
	return []models.PropertyRecord{
		{
			ID:          "ZIGBANG_SAMPLE_1",
			Platform:    PlatformZigbang,
			Title:       "강남 오피스텔",
			Address:     q.Address,
			Price:       5000,
			PriceString: normalize.FormatManwon(5000),
			MonthlyRent: 80,
			Area:        33,
			AreaPyeong:  normalize.Pyeong(33),
			Floor:       "5층",
			Type:        "오피스텔",
			TradeType:   "월세",
			Lat:         37.5112,
			Lng:         127.0414,
			Description: "역세권 오피스텔",
			URL:         "https://zigbang.com",
			CollectedAt: now,
		},
		{
			ID:          "ZIGBANG_SAMPLE_2",
			Platform:    PlatformZigbang,
			Title:       "논현동 원룸",
			Address:     q.Address,
			Price:       3000,
			PriceString: normalize.FormatManwon(3000),
			MonthlyRent: 60,
			Area:        25,
			AreaPyeong:  normalize.Pyeong(25),
			Floor:       "3층",
			Type:        "원룸",
			TradeType:   "월세",
			Lat:         37.5115,
			Lng:         127.0420,
			Description: "깨끗한 원룸",
			URL:         "https://zigbang.com",
			CollectedAt: now,
		},
	}
}

func zigbangID(native string) string {
	if native == "" {
		return "ZIGBANG_" + uuid.NewString()
	}
	return "ZIGBANG_" + native
}
