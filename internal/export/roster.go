package export

import (
	"fmt"

	"github.com/assocdesk/membership-service/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const rosterSheet = "Companies"

// RosterWriter renders the company directory as an xlsx workbook
type RosterWriter struct {
	logger *zap.Logger
}

// NewRosterWriter creates a new roster writer
func NewRosterWriter(logger *zap.Logger) *RosterWriter {
	return &RosterWriter{logger: logger}
}

// Build produces a workbook with one row per company. regionNames maps
// region ids to display names; unknown regions fall back to the raw id.
func (w *RosterWriter) Build(companies []*models.Company, regionNames map[string]string) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"Name", "Registration Number", "Region", "Website", "Member Since"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(rosterSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, company := range companies {
		region := company.RegionID
		if name, ok := regionNames[company.RegionID]; ok {
			region = name
		}

		values := []interface{}{
			company.Name,
			company.RegNumber,
			region,
			company.Website,
			company.CreatedAt.Format("2006-01-02"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(rosterSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	w.logger.Info("Company roster built", zap.Int("companies", len(companies)))
	return f, nil
}
