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

const dabangSearchURL = "https://www.dabangapp.com/api/3/room/list/search"

// Dabang searches rooms via a POST filter body; the location filter is a
// lng/lat bounding box around the query centroid.
type Dabang struct {
	logger   *logrus.Logger
	client   *resty.Client
	baseURL  string
	policy   FallbackPolicy
	maxItems int
}

type dabangSearchRequest struct {
	APIVersion string       `json:"api_version"`
	CallType   string       `json:"call_type"`
	Filters    dabangFilter `json:"filters"`
	Page       int          `json:"page"`
}

type dabangFilter struct {
	DepositRange []int        `json:"deposit_range"`
	RoomSize     []int        `json:"room_size"`
	RoomType     []int        `json:"room_type"`
	SellingType  []int        `json:"selling_type"`
	Location     [][2]float64 `json:"location"`
}

type dabangRoom struct {
	ID       flexString `json:"id"`
	Title    flexString `json:"title"`
	Location struct {
		Lat     float64    `json:"lat"`
		Lng     float64    `json:"lng"`
		Address flexString `json:"address"`
	} `json:"location"`
	PriceInfo struct {
		Deposit int `json:"deposit"`
		Rent    int `json:"rent"`
	} `json:"price_info"`
	RoomInfo struct {
		Size        float64    `json:"size"`
		FloorString flexString `json:"floor_string"`
	} `json:"room_info"`
	RoomTypeText flexString `json:"room_type_text"`
	SellingType  int        `json:"selling_type"`
	Description  flexString `json:"description"`
}

type dabangResponse struct {
	Rooms []dabangRoom `json:"rooms"`
}

func NewDabang(logger *logrus.Logger, timeout time.Duration) *Dabang {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	return &Dabang{
		logger:   logger,
		client:   client,
		baseURL:  dabangSearchURL,
		policy:   FallbackSample,
		maxItems: 20,
	}
}

func (d *Dabang) Name() string { return PlatformDabang }

func (d *Dabang) SetBaseURL(url string) { d.baseURL = url }

func (d *Dabang) SetFallbackPolicy(p FallbackPolicy) { d.policy = p }

func (d *Dabang) Fetch(ctx context.Context, q Query) Result {
	body := dabangSearchRequest{
		APIVersion: "3.0.1",
		CallType:   "web",
		Filters: dabangFilter{
			DepositRange: []int{0, 999999},
			RoomSize:     []int{0, 999},
			RoomType:     []int{0, 1, 2, 3, 4, 5},
			SellingType:  []int{0, 1, 2},
			Location: [][2]float64{
				{q.Lng - q.Radius, q.Lat - q.Radius},
				{q.Lng + q.Radius, q.Lat + q.Radius},
			},
		},
		Page: 1,
	}

	var payload dabangResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&payload).
		Post(d.baseURL)

	if err != nil {
		return d.fallback(q, fmt.Errorf("request failed: %w", err))
	}
	if resp.IsError() {
		return d.fallback(q, fmt.Errorf("upstream returned %d", resp.StatusCode()))
	}

	records := make([]models.PropertyRecord, 0, len(payload.Rooms))
	now := time.Now()
	for _, room := range payload.Rooms {
		lat, lng := room.Location.Lat, room.Location.Lng
		if lat == 0 || lng == 0 {
			lat, lng = q.Lat, q.Lng
		}

		records = append(records, models.PropertyRecord{
			ID:          dabangID(room.ID.String()),
			Platform:    PlatformDabang,
			Title:       normalize.PickString(room.Title.String(), "다방 매물"),
			Address:     normalize.PickString(room.Location.Address.String(), "서울 강남구 "+q.Address),
			Price:       room.PriceInfo.Deposit,
			PriceString: normalize.FormatManwon(room.PriceInfo.Deposit),
			MonthlyRent: room.PriceInfo.Rent,
			Area:        room.RoomInfo.Size,
			AreaPyeong:  normalize.Pyeong(room.RoomInfo.Size),
			Floor:       room.RoomInfo.FloorString.String(),
			Type:        normalize.PickString(room.RoomTypeText.String(), "원룸"),
			TradeType:   salesTypeName(room.SellingType),
			Lat:         lat,
			Lng:         lng,
			Description: room.Description.String(),
			URL:         "https://www.dabangapp.com/room/" + room.ID.String(),
			CollectedAt: now,
		})
	}

	d.logger.WithFields(logrus.Fields{"platform": PlatformDabang, "count": len(records)}).Debug("Fetched listings")
	return Result{Properties: finishRecords(records, q, d.maxItems)}
}

func (d *Dabang) fallback(q Query, err error) Result {
	d.logger.WithError(err).WithField("platform", PlatformDabang).Warn("Upstream failed")
	if d.policy == FallbackEmpty {
		return Result{Err: err}
	}
	return Result{Properties: dabangSamples(q)}
}

func dabangSamples(q Query) []models.PropertyRecord {
	now := time.Now()
	return []models.PropertyRecord{
		{
			ID:          "DABANG_SAMPLE_1",
			Platform:    PlatformDabang,
			Title:       "논현동 투룸",
			Address:     q.Address,
			Price:       8000,
			PriceString: normalize.FormatManwon(8000),
			Area:        45,
			AreaPyeong:  normalize.Pyeong(45),
			Floor:       "7층",
			Type:        "투룸",
			TradeType:   "전세",
			Lat:         37.5110,
			Lng:         127.0410,
			Description: "신축 투룸",
			URL:         "https://www.dabangapp.com",
			CollectedAt: now,
		},
		{
			ID:          "DABANG_SAMPLE_2",
			Platform:    PlatformDabang,
			Title:       "강남 원룸",
			Address:     q.Address,
			Price:       2000,
			PriceString: normalize.FormatManwon(2000),
			MonthlyRent: 50,
			Area:        20,
			AreaPyeong:  normalize.Pyeong(20),
			Floor:       "2층",
			Type:        "원룸",
			TradeType:   "월세",
			Lat:         37.5108,
			Lng:         127.0418,
			Description: "깨끗한 원룸",
			URL:         "https://www.dabangapp.com",
			CollectedAt: now,
		},
	}
}

func dabangID(native string) string {
	if native == "" {
		return "DABANG_" + uuid.NewString()
	}
	return "DABANG_" + native
}
