// Package geocode resolves free-text Korean addresses into coordinates with
// a three-tier fallback: the Naver cloud geocoding API, then the static
// neighborhood table, then the citywide default centroid. The resolver never
// fails past its boundary; lower tiers are degraded-confidence answers, not
// errors, and the Source field tells the caller which tier answered.
package geocode

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"propertydash/server/config"
	"propertydash/server/internal/models"
	"propertydash/server/internal/normalize"
)

const naverGeocodeURL = "https://naveropenapi.apigw.ntruss.com/map-geocode/v2/geocode"

// Search radii (meters) reported per tier; wider radius signals lower
// confidence in the centroid.
const (
	radiusNaver   = 500
	radiusBackup  = 1000
	radiusDefault = 1500
)

type Resolver struct {
	logger  *logrus.Logger
	client  *resty.Client
	baseURL string
}

type naverGeocodeResponse struct {
	Addresses []struct {
		X            string `json:"x"`
		Y            string `json:"y"`
		RoadAddress  string `json:"roadAddress"`
		JibunAddress string `json:"jibunAddress"`
	} `json:"addresses"`
}

func NewResolver(cfg *config.Config, logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	client := resty.New()
	client.SetTimeout(time.Duration(cfg.Geocode.Timeout) * time.Second)
	client.SetHeader("X-NCP-APIGW-API-KEY-ID", cfg.Geocode.ClientID)
	client.SetHeader("X-NCP-APIGW-API-KEY", cfg.Geocode.ClientSecret)

	return &Resolver{
		logger:  logger,
		client:  client,
		baseURL: naverGeocodeURL,
	}
}

// SetBaseURL points the tier-1 call at a different endpoint. Tests use this
// to stand in a local fake.
func (r *Resolver) SetBaseURL(url string) {
	r.baseURL = url
}

// Resolve geocodes an address. The returned result always has Success true;
// only the Source field distinguishes a precise answer from a fallback.
func (r *Resolver) Resolve(ctx context.Context, address string) models.GeocodeResult {
	result, err := r.resolveNaver(ctx, address)
	if err == nil {
		return result
	}
	r.logger.WithError(err).WithField("address", address).Warn("Geocoding API failed, falling back to static table")

	if entry := config.FindBackupCoordinate(address); entry != nil {
		return models.GeocodeResult{
			Success: true,
			Address: address,
			Lat:     entry.Lat,
			Lng:     entry.Lng,
			Radius:  radiusBackup,
			Source:  "backup",
			Note:    fmt.Sprintf("Geocoding API 실패, %s 백업 좌표 사용", entry.Keyword),
		}
	}

	return models.GeocodeResult{
		Success: true,
		Address: address,
		Lat:     config.DefaultLat,
		Lng:     config.DefaultLng,
		Radius:  radiusDefault,
		Source:  "default",
		Note:    "주소를 찾을 수 없어 강남구 중심 좌표 사용",
	}
}

func (r *Resolver) resolveNaver(ctx context.Context, address string) (models.GeocodeResult, error) {
	var payload naverGeocodeResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("query", address).
		SetResult(&payload).
		Get(r.baseURL)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	if resp.IsError() {
		return models.GeocodeResult{}, fmt.Errorf("geocoding API returned %d", resp.StatusCode())
	}
	if len(payload.Addresses) == 0 {
		return models.GeocodeResult{}, fmt.Errorf("no geocoding results for %q", address)
	}

	loc := payload.Addresses[0]
	lat := normalize.ParseFloat(loc.Y)
	lng := normalize.ParseFloat(loc.X)
	if lat == 0 || lng == 0 {
		return models.GeocodeResult{}, fmt.Errorf("geocoding returned unparseable coordinates for %q", address)
	}

	r.logger.WithFields(logrus.Fields{
		"address": address,
		"lat":     lat,
		"lng":     lng,
		"source":  "naver",
	}).Info("Geocoded address")

	return models.GeocodeResult{
		Success:      true,
		Address:      address,
		Lat:          lat,
		Lng:          lng,
		Radius:       radiusNaver,
		Source:       "naver",
		RoadAddress:  loc.RoadAddress,
		JibunAddress: loc.JibunAddress,
	}, nil
}
