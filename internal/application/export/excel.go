package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Row is one flattened line of the client export: the account joined with its
// lookup names and associated parent company.
type Row struct {
	DisplayName       string    `json:"display_name"`
	RegisteredName    string    `json:"registered_name"`
	ClientCode        string    `json:"client_code"`
	Slug              string    `json:"slug"`
	LocationType      string    `json:"location_type"`
	RelationshipType  string    `json:"relationship_type"`
	IsActive          bool      `json:"is_active"`
	City              *string   `json:"city"`
	State             *string   `json:"state"`
	Country           *string   `json:"country"`
	Website           *string   `json:"website"`
	IndustryName      *string   `json:"industry_name"`
	EntityTypeName    *string   `json:"entity_type_name"`
	ParentCompanyName *string   `json:"parent_company_name"`
	CreatedAt         time.Time `json:"created_at"`
}

const sheetName = "Clients"

var headers = []string{
	"Display Name", "Registered Name", "Client Code", "Slug",
	"Location Type", "Relationship", "Status",
	"City", "State", "Country", "Website",
	"Industry", "Entity Type", "Parent Company", "Created",
}

// Workbook renders the rows as an xlsx workbook. Pure: same rows, same bytes
// modulo the zip timestamps excelize writes.
func Workbook(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		status := "Inactive"
		if row.IsActive {
			status = "Active"
		}
		values := []interface{}{
			row.DisplayName, row.RegisteredName, row.ClientCode, row.Slug,
			row.LocationType, row.RelationshipType, status,
			deref(row.City), deref(row.State), deref(row.Country), deref(row.Website),
			deref(row.IndustryName), deref(row.EntityTypeName), deref(row.ParentCompanyName),
			row.CreatedAt.Format("2006-01-02"),
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the dated attachment name for the export download.
func Filename(now time.Time) string {
	return fmt.Sprintf("client-accounts-%s.xlsx", now.Format("2006-01-02"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
