package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propertydash/server/config"
	"propertydash/server/internal/aggregator"
	"propertydash/server/internal/cache"
	"propertydash/server/internal/export"
	"propertydash/server/internal/geocode"
	"propertydash/server/internal/models"
	"propertydash/server/internal/observability"
	"propertydash/server/internal/providers"
	"propertydash/server/internal/stats"
)

type Handler struct {
	logger        *logrus.Logger
	orchestrator  *aggregator.Orchestrator
	resolver      *geocode.Resolver
	registry      *providers.Molit
	dataset       *providers.Dataset
	responseCache cache.Cache
}

func NewHandler(
	orchestrator *aggregator.Orchestrator,
	resolver *geocode.Resolver,
	registry *providers.Molit,
	dataset *providers.Dataset,
	responseCache cache.Cache,
	logger *logrus.Logger,
) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		logger:        logger,
		orchestrator:  orchestrator,
		resolver:      resolver,
		registry:      registry,
		dataset:       dataset,
		responseCache: responseCache,
	}
}

// Search answers from the offline listing snapshot: every listing whose
// address or title contains all query terms.
func (h *Handler) Search(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색할 주소를 입력해주세요"})
		return
	}

	properties := h.dataset.Search(address)
	c.JSON(http.StatusOK, models.SearchResult{
		Query:      address,
		TotalCount: len(properties),
		Properties: properties,
		Stats:      stats.Compute(properties),
	})
}

// RealtimeSearch fans the query out to the selected platforms. The response
// is always 200 with best-effort partial data; per-platform failures ride in
// the errors array.
func (h *Handler) RealtimeSearch(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색할 주소를 입력해주세요"})
		return
	}

	platforms := c.DefaultQuery("platforms", "all")
	lat, _ := strconv.ParseFloat(c.Query("lat"), 64)
	lng, _ := strconv.ParseFloat(c.Query("lng"), 64)

	cacheKey := fmt.Sprintf("realtime:%s:%s", address, platforms)
	if data, ok := h.responseCache.Get(c.Request.Context(), cacheKey); ok {
		var cached models.AggregateResult
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.ObserveCacheLookup(true)
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}
		// A corrupt cache entry degrades to a miss.
	}
	observability.ObserveCacheLookup(false)

	result := h.orchestrator.Search(c.Request.Context(), address, platforms, lat, lng)
	if data, err := json.Marshal(result); err == nil {
		h.responseCache.Set(c.Request.Context(), cacheKey, data)
	}

	c.JSON(http.StatusOK, result)
}

// Geocode resolves an address; degraded tiers are still successes.
func (h *Handler) Geocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "주소를 입력해주세요"})
		return
	}

	c.JSON(http.StatusOK, h.resolver.Resolve(c.Request.Context(), address))
}

// RegistryTrades queries the government transaction registry. A registry
// outage is reported in-band with success false, not as a 5xx.
func (h *Handler) RegistryTrades(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색할 주소를 입력해주세요"})
		return
	}

	kind := c.DefaultQuery("type", models.TradeKindTrade)
	if kind != models.TradeKindTrade && kind != models.TradeKindRent {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid type. Use "trade" or "rent"`})
		return
	}

	fetch, err := h.registry.FetchTrades(c.Request.Context(), address, kind, c.Query("dealYmd"))
	query := models.RegistryQuery{
		Address:    address,
		LawdCd:     fetch.LawdCd,
		DealYmd:    fetch.DealYmd,
		Type:       kind,
		APIVersion: fetch.APIVersion,
	}
	if err != nil {
		h.logger.WithError(err).Error("Registry lookup failed")
		c.JSON(http.StatusOK, gin.H{
			"success":    false,
			"error":      "실거래가 조회 중 오류가 발생했습니다",
			"details":    err.Error(),
			"query":      query,
			"totalCount": 0,
			"properties": []models.TradeRecord{},
			"timestamp":  time.Now(),
		})
		return
	}

	var summary interface{}
	if kind == models.TradeKindTrade {
		summary = stats.ComputeTradeStats(fetch.Records)
	} else {
		summary = stats.ComputeRentStats(fetch.Records)
	}

	c.JSON(http.StatusOK, models.RegistryResult{
		Success:    true,
		Query:      query,
		TotalCount: len(fetch.Records),
		Properties: fetch.Records,
		Stats:      summary,
		Timestamp:  time.Now(),
	})
}

// Provinces lists the 시/도 level of the region picker.
func (h *Handler) Provinces(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"provinces": config.ListProvinces()})
}

// Districts lists the 구/군 under a province.
func (h *Handler) Districts(c *gin.Context) {
	province := c.Query("province")
	if province == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "시/도를 선택해주세요"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"districts": config.ListDistricts(province)})
}

// Dongs lists the 동 under a district.
func (h *Handler) Dongs(c *gin.Context) {
	province := c.Query("province")
	district := c.Query("district")
	if province == "" || district == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "시/도와 구/군을 선택해주세요"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dongs": config.ListDongs(province, district)})
}

// Export streams the aggregated search result as an Excel download.
func (h *Handler) Export(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색할 주소를 입력해주세요"})
		return
	}

	result := h.orchestrator.Search(c.Request.Context(), address, c.DefaultQuery("platforms", "all"), 0, 0)
	workbook, err := export.Workbook(result)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build export workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "엑셀 파일 생성에 실패했습니다"})
		return
	}

	filename := export.Filename(address, time.Now())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to stream export workbook")
	}
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
