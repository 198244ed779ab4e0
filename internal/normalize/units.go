package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// PyeongFactor converts square meters to pyeong. Every adapter must use this
// constant so derived pyeong values are comparable across platforms.
const PyeongFactor = 0.3025

// Pyeong converts square meters to whole pyeong, rounding half up.
func Pyeong(squareMeters float64) int {
	return int(math.Round(squareMeters * PyeongFactor))
}

// FormatManwon renders a manwon amount the way the dashboard displays prices:
// 10,000 manwon and above in eok with one decimal, smaller amounts in manwon.
// Zero or negative means the listing carried no price information.
func FormatManwon(amount int) string {
	if amount <= 0 {
		return "가격정보없음"
	}
	if amount >= 10000 {
		return fmt.Sprintf("%.1f억", float64(amount)/10000)
	}
	return fmt.Sprintf("%d만원", amount)
}

// DealDate assembles the registry's separate year/month/day fields into
// YYYY-MM-DD, zero-padding single-digit months and days.
func DealDate(year, month, day string) string {
	return fmt.Sprintf("%s-%s-%s", strings.TrimSpace(year), pad2(month), pad2(day))
}

func pad2(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// TargetDealYmd returns the YYYYMM query month, shifted by offsetMonths from
// now (the registry publishes with a delay, so the default is the previous
// month).
func TargetDealYmd(now time.Time, offsetMonths int) string {
	shifted := now.AddDate(0, offsetMonths, 0)
	return shifted.Format("200601")
}

// ParseAmount parses a registry money field, tolerating thousands separators
// and surrounding whitespace ("  1,25,000 " style values have been observed).
func ParseAmount(raw string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// ParseFloat parses an upstream numeric string, returning 0 on garbage.
func ParseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}
