package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"propertydash/server/internal/models"
	"propertydash/server/internal/normalize"
)

const kbSearchURL = "https://api.kbland.kr/land-property/property/search"

// KB searches the Liiv ON keyword endpoint. Failures resolve to an empty
// list; KB carries no sample set.
type KB struct {
	logger   *logrus.Logger
	client   *resty.Client
	baseURL  string
	policy   FallbackPolicy
	maxItems int
}

type kbItem struct {
	PropertyNo   flexString `json:"propertyNo"`
	PropertyName flexString `json:"propertyName"`
	Address      flexString `json:"address"`
	TradePrice   int        `json:"tradePrice"`
	SupplyArea   float64    `json:"supplyArea"`
	Floor        flexString `json:"floor"`
	PropertyType flexString `json:"propertyType"`
	TradeType    flexString `json:"tradeType"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Memo         flexString `json:"memo"`
}

type kbResponse struct {
	Data struct {
		List []kbItem `json:"list"`
	} `json:"data"`
}

func NewKB(logger *logrus.Logger, timeout time.Duration) *KB {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0")

	return &KB{
		logger:   logger,
		client:   client,
		baseURL:  kbSearchURL,
		policy:   FallbackEmpty,
		maxItems: 20,
	}
}

func (k *KB) Name() string { return PlatformKB }

func (k *KB) SetBaseURL(url string) { k.baseURL = url }

func (k *KB) SetFallbackPolicy(p FallbackPolicy) { k.policy = p }

func (k *KB) Fetch(ctx context.Context, q Query) Result {
	var payload kbResponse
	resp, err := k.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"searchKeyword": q.Address,
			"pageNo":        1,
			"pageSize":      20,
		}).
		SetResult(&payload).
		Post(k.baseURL)

	if err != nil {
		return k.fail(fmt.Errorf("request failed: %w", err))
	}
	if resp.IsError() {
		return k.fail(fmt.Errorf("upstream returned %d", resp.StatusCode()))
	}

	records := make([]models.PropertyRecord, 0, len(payload.Data.List))
	now := time.Now()
	for _, item := range payload.Data.List {
		lat, lng := item.Latitude, item.Longitude
		if lat == 0 || lng == 0 {
			lat, lng = q.Lat, q.Lng
		}

		records = append(records, models.PropertyRecord{
			ID:          kbID(item.PropertyNo.String()),
			Platform:    PlatformKB,
			Title:       normalize.PickString(item.PropertyName.String(), "KB 매물"),
			Address:     normalize.PickString(item.Address.String(), "서울 강남구 삼성동"),
			Price:       item.TradePrice,
			PriceString: normalize.FormatManwon(item.TradePrice),
			Area:        item.SupplyArea,
			AreaPyeong:  normalize.Pyeong(item.SupplyArea),
			Floor:       item.Floor.String(),
			Type:        normalize.PickString(item.PropertyType.String(), "아파트"),
			TradeType:   normalize.PickString(item.TradeType.String(), "매매"),
			Lat:         lat,
			Lng:         lng,
			Description: item.Memo.String(),
			URL:         "https://kbland.kr/property/" + item.PropertyNo.String(),
			CollectedAt: now,
		})
	}

	k.logger.WithFields(logrus.Fields{"platform": PlatformKB, "count": len(records)}).Debug("Fetched listings")
	return Result{Properties: finishRecords(records, q, k.maxItems)}
}

func (k *KB) fail(err error) Result {
	k.logger.WithError(err).WithField("platform", PlatformKB).Warn("Upstream failed")
	return Result{Err: err}
}

func kbID(native string) string {
	if native == "" {
		return "KB_" + uuid.NewString()
	}
	return "KB_" + native
}
