// Package export renders a search result as an Excel workbook, the download
// format agents and brokers pass around.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"propertydash/server/internal/models"
)

const sheetName = "매물"

var headers = []string{
	"플랫폼", "매물명", "주소", "가격(만원)", "가격", "월세(만원)",
	"면적(㎡)", "면적(평)", "층", "유형", "거래유형", "URL",
}

// Workbook builds a single-sheet listing workbook from an aggregate result.
func Workbook(result models.AggregateResult) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, rec := range result.Properties {
		row := i + 2
		values := []interface{}{
			rec.Platform, rec.Title, rec.Address, rec.Price, rec.PriceString,
			rec.MonthlyRent, rec.Area, rec.AreaPyeong, rec.Floor, rec.Type,
			rec.TradeType, rec.URL,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	return f, nil
}

// Filename names the download after the searched area and collection time.
func Filename(address string, now time.Time) string {
	area := strings.Join(strings.Fields(address), "_")
	if area == "" {
		area = "검색결과"
	}
	return fmt.Sprintf("%s_매물_%s.xlsx", area, now.Format("20060102_150405"))
}
