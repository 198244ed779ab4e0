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

const peterpanSearchURL = "https://api.peterpanz.com/houses/search"

// Peterpan covers the shared-house / one-room segment. Everything the
// platform lists is a monthly-rent contract.
type Peterpan struct {
	logger   *logrus.Logger
	client   *resty.Client
	baseURL  string
	policy   FallbackPolicy
	maxItems int
}

type peterpanHouse struct {
	ID          flexString `json:"id"`
	Title       flexString `json:"title"`
	Address     flexString `json:"address"`
	Deposit     int        `json:"deposit"`
	Rent        int        `json:"rent"`
	Area        float64    `json:"area"`
	Floor       flexString `json:"floor"`
	HouseType   flexString `json:"house_type"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Description flexString `json:"description"`
}

type peterpanResponse struct {
	Houses []peterpanHouse `json:"houses"`
}

func NewPeterpan(logger *logrus.Logger, timeout time.Duration) *Peterpan {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0")

	return &Peterpan{
		logger:   logger,
		client:   client,
		baseURL:  peterpanSearchURL,
		policy:   FallbackEmpty,
		maxItems: 20,
	}
}

func (p *Peterpan) Name() string { return PlatformPeterpan }

func (p *Peterpan) SetBaseURL(url string) { p.baseURL = url }

func (p *Peterpan) SetFallbackPolicy(policy FallbackPolicy) { p.policy = policy }

func (p *Peterpan) Fetch(ctx context.Context, q Query) Result {
	var payload peterpanResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     q.Address,
			"page":  "1",
			"limit": "20",
		}).
		SetResult(&payload).
		Get(p.baseURL)

	if err != nil {
		return p.fail(fmt.Errorf("request failed: %w", err))
	}
	if resp.IsError() {
		return p.fail(fmt.Errorf("upstream returned %d", resp.StatusCode()))
	}

	records := make([]models.PropertyRecord, 0, len(payload.Houses))
	now := time.Now()
	for _, house := range payload.Houses {
		lat, lng := house.Lat, house.Lng
		if lat == 0 || lng == 0 {
			lat, lng = q.Lat, q.Lng
		}

		records = append(records, models.PropertyRecord{
			ID:          peterpanID(house.ID.String()),
			Platform:    PlatformPeterpan,
			Title:       normalize.PickString(house.Title.String(), "피터팬 매물"),
			Address:     normalize.PickString(house.Address.String(), "서울 강남구 삼성동"),
			Price:       house.Deposit,
			PriceString: normalize.FormatManwon(house.Deposit),
			MonthlyRent: house.Rent,
			Area:        house.Area,
			AreaPyeong:  normalize.Pyeong(house.Area),
			Floor:       house.Floor.String(),
			Type:        normalize.PickString(house.HouseType.String(), "쉐어하우스"),
			TradeType:   "월세",
			Lat:         lat,
			Lng:         lng,
			Description: house.Description.String(),
			URL:         "https://www.peterpanz.com/house/" + house.ID.String(),
			CollectedAt: now,
		})
	}

	p.logger.WithFields(logrus.Fields{"platform": PlatformPeterpan, "count": len(records)}).Debug("Fetched listings")
	return Result{Properties: finishRecords(records, q, p.maxItems)}
}

func (p *Peterpan) fail(err error) Result {
	p.logger.WithError(err).WithField("platform", PlatformPeterpan).Warn("Upstream failed")
	return Result{Err: err}
}

func peterpanID(native string) string {
	if native == "" {
		return "PETERPAN_" + uuid.NewString()
	}
	return "PETERPAN_" + native
}
