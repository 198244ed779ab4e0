package models

import "time"

// Trade kinds accepted by the registry endpoint.
const (
	TradeKindTrade = "trade"
	TradeKindRent  = "rent"
)

// TradeRecord is a closed transaction from the government registry (MOLIT).
// Unlike PropertyRecord it describes a deal that already happened, so its
// amounts are split into sale amount vs deposit/monthly rent and its date is
// assembled from the registry's separate year/month/day fields.
// Rescinded deals keep CancelStatus "X" and are never filtered out here;
// whether to display or discount them is a presentation decision.
type TradeRecord struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Type     string `json:"type"`

	// Sale transactions.
	DealAmount       int    `json:"dealAmount,omitempty"`
	DealAmountString string `json:"dealAmountString,omitempty"`
	DealDate         string `json:"dealDate,omitempty"`

	// Jeonse / monthly-rent contracts.
	DepositAmount       int    `json:"depositAmount,omitempty"`
	DepositAmountString string `json:"depositAmountString,omitempty"`
	MonthlyRent         int    `json:"monthlyRent,omitempty"`
	MonthlyRentString   string `json:"monthlyRentString,omitempty"`
	ContractDate        string `json:"contractDate,omitempty"`

	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`

	ApartmentName  string  `json:"apartmentName"`
	Area           float64 `json:"area"`
	AreaPyeong     int     `json:"areaPyeong"`
	Floor          string  `json:"floor"`
	Dong           string  `json:"dong"`
	Jibun          string  `json:"jibun,omitempty"`
	RoadName       string  `json:"roadName,omitempty"`
	BuildYear      string  `json:"buildYear"`
	DealType       string  `json:"dealType,omitempty"`
	ContractType   string  `json:"contractType,omitempty"`
	ContractPeriod string  `json:"contractPeriod,omitempty"`
	CancelDate     string  `json:"cancelDate,omitempty"`
	CancelStatus   string  `json:"cancelStatus,omitempty"`
	RegionalCode   string  `json:"regionalCode,omitempty"`
}

// Date returns whichever of dealDate/contractDate is set.
func (t TradeRecord) Date() string {
	if t.DealDate != "" {
		return t.DealDate
	}
	return t.ContractDate
}

// TradeStatsSummary summarizes sale transactions (amounts in manwon).
type TradeStatsSummary struct {
	Average       int    `json:"average"`
	Min           int    `json:"min"`
	Max           int    `json:"max"`
	Count         int    `json:"count"`
	AverageString string `json:"averageString,omitempty"`
	MinString     string `json:"minString,omitempty"`
	MaxString     string `json:"maxString,omitempty"`
}

// RentStatsSummary summarizes jeonse/monthly-rent contracts. RentCount is the
// number of contracts with a positive monthly rent; the remainder are pure
// deposit (jeonse) contracts.
type RentStatsSummary struct {
	AverageDeposit int `json:"averageDeposit"`
	MinDeposit     int `json:"minDeposit"`
	MaxDeposit     int `json:"maxDeposit"`
	AverageRent    int `json:"averageRent"`
	Count          int `json:"count"`
	RentCount      int `json:"rentCount"`
}

// RegistryQuery echoes the resolved registry request parameters.
type RegistryQuery struct {
	Address    string `json:"address"`
	LawdCd     string `json:"lawdCd"`
	DealYmd    string `json:"dealYmd"`
	Type       string `json:"type"`
	APIVersion string `json:"apiVersion"`
}

// RegistryResult is the registry-trades endpoint response. Stats holds a
// TradeStatsSummary or RentStatsSummary depending on the query type.
type RegistryResult struct {
	Success    bool          `json:"success"`
	Query      RegistryQuery `json:"query"`
	TotalCount int           `json:"totalCount"`
	Properties []TradeRecord `json:"properties"`
	Stats      interface{}   `json:"stats"`
	Timestamp  time.Time     `json:"timestamp"`
}
