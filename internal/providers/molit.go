package providers

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"propertydash/server/config"
	"propertydash/server/internal/models"
	"propertydash/server/internal/normalize"
)

// Registry endpoints, newest first. When the current apis.data.go.kr service
// errors, the adapter retries once against the legacy openapi.molit.go.kr
// installation; there is no further retry.
var (
	molitTradeEndpoints = []registryEndpoint{
		{"https://apis.data.go.kr/1613000/RTMSDataSvcAptTradeDev/getRTMSDataSvcAptTradeDev", "v2"},
		{"http://openapi.molit.go.kr/OpenAPI_ToolInstallPackage/service/rest/RTMSOBJSvc/getRTMSDataSvcAptTradeDev", "v1"},
	}
	molitRentEndpoints = []registryEndpoint{
		{"https://apis.data.go.kr/1613000/RTMSDataSvcAptRent/getRTMSDataSvcAptRent", "v2"},
		{"http://openapi.molit.go.kr:8081/OpenAPI_ToolInstallPackage/service/rest/RTMSOBJSvc/getRTMSDataSvcAptRent", "v1"},
	}
)

type registryEndpoint struct {
	URL     string
	Version string
}

// Molit is the government real-transaction registry adapter. It resolves the
// address to a 5-digit district code, picks the target contract month and
// parses the registry's XML, tolerating the container and field-name
// variations the service has shipped over the years.
type Molit struct {
	logger         *logrus.Logger
	client         *resty.Client
	serviceKey     string
	dealYmdOffset  int
	maxItems       int
	tradeEndpoints []registryEndpoint
	rentEndpoints  []registryEndpoint
}

// RegistryFetch is the adapter's settled outcome plus the resolved request
// parameters, which the endpoint echoes back to the caller.
type RegistryFetch struct {
	Records    []models.TradeRecord
	LawdCd     string
	DealYmd    string
	APIVersion string
}

func NewMolit(cfg *config.Config, logger *logrus.Logger) *Molit {
	client := resty.New()
	client.SetTimeout(time.Duration(cfg.Registry.Timeout) * time.Second)
	client.SetHeaders(map[string]string{
		"Accept":     "application/xml",
		"User-Agent": "Mozilla/5.0",
	})

	return &Molit{
		logger:         logger,
		client:         client,
		serviceKey:     cfg.Registry.ServiceKey,
		dealYmdOffset:  cfg.Registry.DealYmdOffset,
		maxItems:       cfg.Registry.ResultCap,
		tradeEndpoints: molitTradeEndpoints,
		rentEndpoints:  molitRentEndpoints,
	}
}

func (m *Molit) Name() string { return PlatformMolit }

// SetEndpoints replaces both endpoint chains, used by tests.
func (m *Molit) SetEndpoints(trade, rent []registryEndpoint) {
	m.tradeEndpoints = trade
	m.rentEndpoints = rent
}

// EndpointChain builds an endpoint chain for SetEndpoints; the first entry is
// the current API generation, the rest legacy fallbacks.
func EndpointChain(urls ...string) []registryEndpoint {
	chain := make([]registryEndpoint, len(urls))
	for i, u := range urls {
		version := "v2"
		if i > 0 {
			version = "v1"
		}
		chain[i] = registryEndpoint{URL: u, Version: version}
	}
	return chain
}

// FetchTrades queries the registry for one district and month. dealYmd may be
// empty, in which case the configured month offset from now applies.
func (m *Molit) FetchTrades(ctx context.Context, address, kind, dealYmd string) (RegistryFetch, error) {
	lawdCd := config.FindLawdCode(address)
	if dealYmd == "" {
		dealYmd = normalize.TargetDealYmd(time.Now(), m.dealYmdOffset)
	}

	endpoints := m.tradeEndpoints
	if kind == models.TradeKindRent {
		endpoints = m.rentEndpoints
	}

	fetch := RegistryFetch{LawdCd: lawdCd, DealYmd: dealYmd}

	var lastErr error
	for _, endpoint := range endpoints {
		body, err := m.call(ctx, endpoint.URL, lawdCd, dealYmd)
		if err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"endpoint": endpoint.URL,
				"version":  endpoint.Version,
			}).Warn("Registry endpoint failed")
			lastErr = err
			continue
		}

		fetch.APIVersion = endpoint.Version
		fetch.Records = m.buildRecords(parseRegistryItems(body), kind, lawdCd)
		return fetch, nil
	}
	return fetch, fmt.Errorf("all registry endpoints failed: %w", lastErr)
}

// call issues one registry request. The service key ships pre-URL-encoded,
// so the query string is assembled by hand to keep it out of the encoder.
func (m *Molit) call(ctx context.Context, endpoint, lawdCd, dealYmd string) ([]byte, error) {
	url := fmt.Sprintf("%s?serviceKey=%s&LAWD_CD=%s&DEAL_YMD=%s&pageNo=1&numOfRows=100&type=xml",
		endpoint, m.serviceKey, lawdCd, dealYmd)

	resp, err := m.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("registry returned %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

func (m *Molit) buildRecords(items []registryItem, kind, lawdCd string) []models.TradeRecord {
	records := make([]models.TradeRecord, 0, len(items))
	for _, item := range items {
		year := normalize.PickString(item.YearKo, item.DealYear)
		month := normalize.PickString(item.MonthKo, item.DealMonth)
		day := normalize.PickString(item.DayKo, item.DealDay)
		area := normalize.PickFloat(item.AreaKo, item.ExcluUseAr, item.Area)

		rec := models.TradeRecord{
			Platform:      PlatformMolit,
			Type:          kind,
			Year:          year,
			Month:         month,
			Day:           day,
			ApartmentName: normalize.PickString(item.AptKo, item.AptNm, item.ApartmentName),
			Area:          area,
			AreaPyeong:    normalize.Pyeong(area),
			Floor:         normalize.PickString(item.FloorKo, item.Floor),
			Dong:          normalize.PickString(item.DongKo, item.UmdNm, item.Dong),
			Jibun:         normalize.PickString(item.JibunKo, item.Jibun),
			BuildYear:     normalize.PickString(item.BuildYearKo, item.BuildYear),
		}

		if kind == models.TradeKindRent {
			rec.ID = "MOLIT_RENT_" + uuid.NewString()
			rec.DepositAmount = normalize.PickAmount(item.DepositKo, item.Deposit)
			rec.DepositAmountString = normalize.FormatManwon(rec.DepositAmount)
			rec.MonthlyRent = normalize.PickAmount(item.RentKo, item.MonthlyRent)
			rec.MonthlyRentString = fmt.Sprintf("%d만원", rec.MonthlyRent)
			rec.ContractDate = normalize.DealDate(year, month, day)
			rec.ContractType = item.ContractType
			rec.ContractPeriod = item.ContractPeriod
		} else {
			rec.ID = "MOLIT_TRADE_" + uuid.NewString()
			rec.DealAmount = normalize.PickAmount(item.DealAmountKo, item.DealAmount, item.Deposit)
			rec.DealAmountString = normalize.FormatManwon(rec.DealAmount)
			rec.DealDate = normalize.DealDate(year, month, day)
			rec.RoadName = normalize.PickString(item.RoadKo, item.RoadNm)
			rec.DealType = normalize.PickString(item.DealTypeKo, item.DealingGbn)
			rec.CancelDate = item.CancelDate
			// Rescinded deals keep their flag; filtering is the
			// presentation layer's call.
			rec.CancelStatus = item.CancelStatus
			rec.RegionalCode = normalize.PickString(item.RegionCodeKo, item.SggCd, lawdCd)
		}

		records = append(records, rec)
	}

	// Newest first; the assembled dates sort lexicographically.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date() > records[j].Date()
	})

	if len(records) > m.maxItems {
		records = records[:m.maxItems]
	}
	return records
}

// registryItem lists every field name the registry has used across API
// revisions; buildRecords picks the first populated candidate per value.
type registryItem struct {
	DealAmountKo   string `xml:"거래금액"`
	DealAmount     string `xml:"dealAmount"`
	DepositKo      string `xml:"보증금액"`
	Deposit        string `xml:"deposit"`
	RentKo         string `xml:"월세금액"`
	MonthlyRent    string `xml:"monthlyRent"`
	YearKo         string `xml:"년"`
	DealYear       string `xml:"dealYear"`
	MonthKo        string `xml:"월"`
	DealMonth      string `xml:"dealMonth"`
	DayKo          string `xml:"일"`
	DealDay        string `xml:"dealDay"`
	AptKo          string `xml:"아파트"`
	AptNm          string `xml:"aptNm"`
	ApartmentName  string `xml:"apartmentName"`
	AreaKo         string `xml:"전용면적"`
	ExcluUseAr     string `xml:"excluUseAr"`
	Area           string `xml:"area"`
	FloorKo        string `xml:"층"`
	Floor          string `xml:"floor"`
	DongKo         string `xml:"법정동"`
	UmdNm          string `xml:"umdNm"`
	Dong           string `xml:"dong"`
	JibunKo        string `xml:"지번"`
	Jibun          string `xml:"jibun"`
	RoadKo         string `xml:"도로명"`
	RoadNm         string `xml:"roadNm"`
	BuildYearKo    string `xml:"건축년도"`
	BuildYear      string `xml:"buildYear"`
	DealTypeKo     string `xml:"거래유형"`
	DealingGbn     string `xml:"dealingGbn"`
	CancelDate     string `xml:"해제사유발생일"`
	CancelStatus   string `xml:"해제여부"`
	RegionCodeKo   string `xml:"지역코드"`
	SggCd          string `xml:"sggCd"`
	ContractType   string `xml:"계약구분"`
	ContractPeriod string `xml:"계약기간"`
}

// The registry's XML arrives in several container shapes depending on the
// endpoint generation and result count. parseRegistryItems tries each known
// shape in priority order; when none matches the answer is zero results,
// never a parse failure.
func parseRegistryItems(data []byte) []registryItem {
	var nested struct {
		XMLName xml.Name       `xml:"response"`
		Items   []registryItem `xml:"body>items>item"`
	}
	if err := xml.Unmarshal(data, &nested); err == nil && len(nested.Items) > 0 {
		return nested.Items
	}

	var flat struct {
		XMLName xml.Name       `xml:"response"`
		Items   []registryItem `xml:"body>item"`
	}
	if err := xml.Unmarshal(data, &flat); err == nil && len(flat.Items) > 0 {
		return flat.Items
	}

	var bare struct {
		XMLName xml.Name       `xml:"items"`
		Items   []registryItem `xml:"item"`
	}
	if err := xml.Unmarshal(data, &bare); err == nil && len(bare.Items) > 0 {
		return bare.Items
	}

	var single struct {
		XMLName xml.Name `xml:"item"`
		registryItem
	}
	if err := xml.Unmarshal(data, &single); err == nil && single.registryItem != (registryItem{}) {
		return []registryItem{single.registryItem}
	}

	return nil
}
