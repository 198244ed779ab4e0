// Package providers contains one adapter per external listing platform plus
// the government transaction registry. Every adapter translates its
// platform's own request protocol and response shape into the canonical
// PropertyRecord and owns its failure policy; none of them ever surfaces a
// Go error to the orchestrator outside the Result value.
package providers

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"propertydash/server/internal/models"
)

// Known platform names, in default invocation order.
const (
	PlatformNaver     = "naver"
	PlatformZigbang   = "zigbang"
	PlatformDabang    = "dabang"
	PlatformKB        = "kb"
	PlatformPeterpan  = "peterpan"
	PlatformSpeedbank = "speedbank"
	PlatformMolit     = "molit"
)

// Query is the resolved search request handed to each adapter.
type Query struct {
	// Raw address text as the user typed it.
	Address string
	// Whitespace-normalized address used for table matching.
	Normalized string
	// Resolved centroid and degree radius for bounding-box providers.
	Lat    float64
	Lng    float64
	Radius float64
	// Precise marks house-number-level queries, which get the tighter
	// relevance radius.
	Precise bool
	// PreciseRadius is the degree distance beyond which candidates are
	// dropped for precise queries.
	PreciseRadius float64
}

// FallbackPolicy names what an adapter resolves to when its upstream fails.
type FallbackPolicy int

const (
	// FallbackEmpty resolves to no records and reports the failure to the
	// orchestrator's errors list.
	FallbackEmpty FallbackPolicy = iota
	// FallbackSample resolves to the adapter's documented static sample
	// set; like a degraded geocode tier this is not reported as an error.
	FallbackSample
)

// Result is an adapter's settled outcome. Err is only set when the adapter
// contributed nothing usable; a sample fallback clears it.
type Result struct {
	Properties []models.PropertyRecord
	Err        error
}

// Provider is the uniform adapter contract. Fetch must not panic and must
// honor ctx; its HTTP client carries the per-provider timeout.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) Result
}

var houseNumberRe = regexp.MustCompile(`\d+(-\d+)?`)

// IsPreciseAddress reports whether the query text is house-number-level
// (jibun or road number) rather than a whole neighborhood.
func IsPreciseAddress(address string) bool {
	return houseNumberRe.MatchString(address)
}

// NormalizeAddress collapses runs of whitespace.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

// finishRecords applies the shared post-processing every listing adapter
// runs: annotate the Euclidean degree distance from the query centroid, drop
// far candidates on precise queries, sort by ascending distance and truncate
// to the provider's cap.
func finishRecords(records []models.PropertyRecord, q Query, limit int) []models.PropertyRecord {
	center := orb.Point{q.Lng, q.Lat}

	kept := records[:0:0]
	for _, rec := range records {
		rec.Distance = planar.Distance(orb.Point{rec.Lng, rec.Lat}, center)
		if q.Precise && q.PreciseRadius > 0 && rec.Distance > q.PreciseRadius {
			continue
		}
		kept = append(kept, rec)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Distance < kept[j].Distance
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// flexString tolerates upstream fields that arrive as JSON strings, numbers
// or null depending on the API revision.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	*f = flexString(s)
	return nil
}

func (f flexString) String() string { return string(f) }
