package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"propertydash/server/internal/models"
	"propertydash/server/internal/normalize"
)

const naverArticleURL = "https://m.land.naver.com/cluster/ajax/articleList"

// Naver queries the m.land.naver.com cluster endpoint with a bounding box
// around the query centroid. The endpoint rejects requests without a browser
// User-Agent and a matching Referer.
type Naver struct {
	logger   *logrus.Logger
	client   *resty.Client
	baseURL  string
	policy   FallbackPolicy
	maxItems int
}

type naverArticle struct {
	AtclNo       flexString `json:"atclNo"`
	AtclNm       flexString `json:"atclNm"`
	BildNm       flexString `json:"bildNm"`
	Prc          flexString `json:"prc"`
	Spc1         flexString `json:"spc1"`
	Spc2         flexString `json:"spc2"`
	FlrInfo      flexString `json:"flrInfo"`
	RletTpNm     flexString `json:"rletTpNm"`
	TradTpNm     flexString `json:"tradTpNm"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	AtclFetrDesc flexString `json:"atclFetrDesc"`
	CfmYmd       flexString `json:"cfmYmd"`
}

type naverArticleResponse struct {
	Body []naverArticle `json:"body"`
}

func NewNaver(logger *logrus.Logger, timeout time.Duration) *Naver {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeaders(map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Referer":    "https://m.land.naver.com/",
		"Accept":     "application/json, text/javascript, */*; q=0.01",
	})

	return &Naver{
		logger:   logger,
		client:   client,
		baseURL:  naverArticleURL,
		policy:   FallbackSample,
		maxItems: 30,
	}
}

func (n *Naver) Name() string { return PlatformNaver }

// SetBaseURL redirects upstream calls, used by tests.
func (n *Naver) SetBaseURL(url string) { n.baseURL = url }

// SetFallbackPolicy overrides the configured failure policy.
func (n *Naver) SetFallbackPolicy(p FallbackPolicy) { n.policy = p }

func (n *Naver) Fetch(ctx context.Context, q Query) Result {
	var payload naverArticleResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"rletTpCd":     "APT:OPST:VL:DDDGG:OR:ABYG:JGC",
			"tradTpCd":     "A1:B1:B2",
			"z":            "16",
			"lat":          fmt.Sprintf("%f", q.Lat),
			"lon":          fmt.Sprintf("%f", q.Lng),
			"btm":          fmt.Sprintf("%f", q.Lat-q.Radius),
			"top":          fmt.Sprintf("%f", q.Lat+q.Radius),
			"lft":          fmt.Sprintf("%f", q.Lng-q.Radius),
			"rgt":          fmt.Sprintf("%f", q.Lng+q.Radius),
			"page":         "1",
			"articleOrder": "A02",
			"showR0":       "true",
		}).
		SetResult(&payload).
		Get(n.baseURL)

	if err != nil {
		return n.fallback(q, fmt.Errorf("request failed: %w", err))
	}
	if resp.IsError() {
		return n.fallback(q, fmt.Errorf("upstream returned %d", resp.StatusCode()))
	}

	records := make([]models.PropertyRecord, 0, len(payload.Body))
	now := time.Now()
	for _, item := range payload.Body {
		lat, lng := item.Lat, item.Lng
		if lat == 0 || lng == 0 {
			lat, lng = q.Lat, q.Lng
		}

		area := normalize.ParseFloat(item.Spc1.String())
		pyeong := normalize.Pyeong(area)
		if area == 0 {
			// Only trust the upstream pyeong field when the metric
			// area is missing entirely.
			pyeong = int(normalize.ParseFloat(item.Spc2.String()))
		}

		price := parseDigits(item.Prc.String())
		records = append(records, models.PropertyRecord{
			ID:          naverID(item.AtclNo.String()),
			Platform:    PlatformNaver,
			Title:       normalize.PickString(item.AtclNm.String(), item.BildNm.String(), "네이버 매물"),
			Building:    item.BildNm.String(),
			Address:     "서울 강남구 " + q.Address,
			Price:       price,
			PriceString: normalize.FormatManwon(price),
			Area:        area,
			AreaPyeong:  pyeong,
			Floor:       item.FlrInfo.String(),
			Type:        normalize.PickString(item.RletTpNm.String(), "아파트"),
			TradeType:   normalize.PickString(item.TradTpNm.String(), "매매"),
			Lat:         lat,
			Lng:         lng,
			Description: item.AtclFetrDesc.String(),
			ConfirmDate: item.CfmYmd.String(),
			URL:         "https://m.land.naver.com/article/info/" + item.AtclNo.String(),
			CollectedAt: now,
		})
	}

	n.logger.WithFields(logrus.Fields{"platform": PlatformNaver, "count": len(records)}).Debug("Fetched listings")
	return Result{Properties: finishRecords(records, q, n.maxItems)}
}

func (n *Naver) fallback(q Query, err error) Result {
	n.logger.WithError(err).WithField("platform", PlatformNaver).Warn("Upstream failed")
	if n.policy == FallbackEmpty {
		return Result{Err: err}
	}
	return Result{Properties: naverSamples(q)}
}

// naverSamples is the documented sample set served when the live endpoint is
// unreachable, anchored near the query centroid.
func naverSamples(q Query) []models.PropertyRecord {
	now := time.Now()
	return []models.PropertyRecord{
		{
			ID:          "NAVER_SAMPLE_1",
			Platform:    PlatformNaver,
			Title:       "삼성동 아이파크",
			Building:    "삼성동 아이파크",
			Address:     "서울 강남구 " + q.Address,
			Price:       150000,
			PriceString: normalize.FormatManwon(150000),
			Area:        84,
			AreaPyeong:  normalize.Pyeong(84),
			Floor:       "10층",
			Type:        "아파트",
			TradeType:   "매매",
			Lat:         q.Lat + 0.001,
			Lng:         q.Lng + 0.001,
			Description: "역세권, 한강조망",
			URL:         "https://m.land.naver.com",
			CollectedAt: now,
		},
		{
			ID:          "NAVER_SAMPLE_2",
			Platform:    PlatformNaver,
			Title:       "삼성동 래미안",
			Building:    "삼성동 래미안",
			Address:     "서울 강남구 " + q.Address,
			Price:       180000,
			PriceString: normalize.FormatManwon(180000),
			Area:        109,
			AreaPyeong:  normalize.Pyeong(109),
			Floor:       "15층",
			Type:        "아파트",
			TradeType:   "매매",
			Lat:         q.Lat - 0.001,
			Lng:         q.Lng + 0.002,
			Description: "학군 우수",
			URL:         "https://m.land.naver.com",
			CollectedAt: now,
		},
	}
}

func naverID(native string) string {
	if native == "" {
		return "NAVER_" + uuid.NewString()
	}
	return "NAVER_" + native
}

var digitRe = regexp.MustCompile(`\d+`)

func joinDigits(raw string) string {
	return strings.Join(digitRe.FindAllString(raw, -1), "")
}

// parseDigits converts an upstream price field to manwon. Values arrive as
// plain numbers, comma-grouped strings or in eok notation ("15억",
// "15억 5,000"); the eok component scales by 10,000 manwon.
func parseDigits(raw string) int {
	if i := strings.Index(raw, "억"); i >= 0 {
		return normalize.ParseAmount(joinDigits(raw[:i]))*10000 +
			normalize.ParseAmount(joinDigits(raw[i+len("억"):]))
	}
	return normalize.ParseAmount(joinDigits(raw))
}
