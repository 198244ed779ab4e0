package config

import "strings"

// Static lookup tables for the Gangnam neighborhood search. All of them are
// ordered slices: match policy everywhere is first containment match, so the
// more specific entries must stay ahead of the broader ones.

// Default centroid (삼성동) used when every geocoding tier comes up empty.
const (
	DefaultLat = 37.5172
	DefaultLng = 127.0473
)

// BackupCoordinate maps a neighborhood keyword to its centroid. Tier-2
// geocoding scans this table in order when the external API fails.
type BackupCoordinate struct {
	Keyword string
	Lat     float64
	Lng     float64
}

var BackupCoordinates = []BackupCoordinate{
	{"삼성동", 37.5172, 127.0473},
	{"역삼동", 37.5006, 127.0365},
	{"청담동", 37.5197, 127.0474},
	{"논현동", 37.5112, 127.0414},
	{"대치동", 37.4941, 127.0625},
	{"강남구", 37.5172, 127.0473},
	{"서초구", 37.4837, 127.0324},
	{"송파구", 37.5145, 127.1055},
}

// FindBackupCoordinate returns the first table entry whose keyword appears in
// the address, or nil.
func FindBackupCoordinate(address string) *BackupCoordinate {
	for i := range BackupCoordinates {
		if containsKeyword(address, BackupCoordinates[i].Keyword) {
			return &BackupCoordinates[i]
		}
	}
	return nil
}

// AddressCentroid pins known jibun addresses to exact coordinates with a
// per-entry search radius (degrees). House-number entries carry a tighter
// radius than whole neighborhoods.
type AddressCentroid struct {
	Keyword string
	Lat     float64
	Lng     float64
	Radius  float64
}

var AddressCentroids = []AddressCentroid{
	{"삼성동 150-11", 37.5086, 127.0631, 0.003},
	{"삼성동150-11", 37.5086, 127.0631, 0.003},
	{"삼성동 151-7", 37.5089, 127.0635, 0.003},
	{"삼성동 159", 37.5092, 127.0628, 0.003},
	{"테헤란로 521", 37.5085, 127.0589, 0.003},
	{"봉은사로 114", 37.5131, 127.0579, 0.003},
	{"삼성동", 37.5172, 127.0473, 0.01},
	{"역삼동", 37.5006, 127.0365, 0.01},
	{"청담동", 37.5197, 127.0474, 0.01},
	{"대치동", 37.4941, 127.0625, 0.01},
}

// FindAddressCentroid resolves a normalized address against the pinned
// centroid table, falling back to the citywide default.
func FindAddressCentroid(address string) AddressCentroid {
	for _, entry := range AddressCentroids {
		if containsKeyword(address, entry.Keyword) {
			return entry
		}
	}
	return AddressCentroid{Keyword: "", Lat: DefaultLat, Lng: DefaultLng, Radius: 0.005}
}

// LawdCode maps a region name to the 5-digit administrative district code the
// registry API expects. Matching uses the last token of the name, mirroring
// how users type addresses ("서울 강남구 삼성동" matches the 삼성동 row).
type LawdCode struct {
	Region string
	Code   string
}

// DefaultLawdCode is 강남구.
const DefaultLawdCode = "11680"

var LawdCodes = []LawdCode{
	{"서울 강남구", "11680"},
	{"서울 서초구", "11650"},
	{"서울 송파구", "11710"},
	{"서울 강동구", "11740"},
	{"서울 종로구", "11110"},
	{"서울 중구", "11140"},
	{"서울 용산구", "11170"},
	{"서울 성동구", "11200"},
	{"서울 광진구", "11215"},
	{"서울 동대문구", "11230"},
	{"서울 중랑구", "11260"},
	{"서울 성북구", "11290"},
	{"서울 강북구", "11305"},
	{"서울 도봉구", "11320"},
	{"서울 노원구", "11350"},
	{"서울 은평구", "11380"},
	{"서울 서대문구", "11410"},
	{"서울 마포구", "11440"},
	{"서울 양천구", "11470"},
	{"서울 강서구", "11500"},
	{"서울 구로구", "11530"},
	{"서울 금천구", "11545"},
	{"서울 영등포구", "11560"},
	{"서울 동작구", "11590"},
	{"서울 관악구", "11620"},
	{"경기 수원시", "41110"},
	{"경기 성남시 분당구", "41135"},
	{"경기 성남시", "41130"},
	{"경기 고양시", "41280"},
	{"경기 용인시", "41460"},
	{"경기 부천시", "41190"},
	{"경기 안산시", "41270"},
	{"경기 안양시", "41170"},
	{"강남구", "11680"},
	{"삼성동", "11680"},
	{"역삼동", "11680"},
	{"논현동", "11680"},
	{"청담동", "11680"},
	{"대치동", "11680"},
	{"개포동", "11680"},
	{"도곡동", "11680"},
	{"일원동", "11680"},
	{"수서동", "11680"},
	{"세곡동", "11680"},
}

// FindLawdCode resolves an address to a registry district code, defaulting to
// 강남구 when nothing matches.
func FindLawdCode(address string) string {
	for _, entry := range LawdCodes {
		if containsKeyword(address, lastToken(entry.Region)) {
			return entry.Code
		}
	}
	return DefaultLawdCode
}

func lastToken(s string) string {
	if i := strings.LastIndex(s, " "); i >= 0 {
		return s[i+1:]
	}
	return s
}

func containsKeyword(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}
