package feed

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/carenav/directory-cli/internal/model"
)

// XLSXOptions configures spreadsheet ingestion.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	Category   string // feed-category label injected into every record
}

// ReadXLSX reads a spreadsheet network export into a Document. The first row
// is the header; columns are bound to record fields by normalized header
// name (e.g. "Phone Number" → phone, "ZIP Code" → zip), and unrecognized
// columns land in each record's Extra map.
func ReadXLSX(path string, opts XLSXOptions) (*Document, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "feed: open xlsx %s", path)
	}

	sheet, err := xlsxSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return &Document{Shape: ShapeProviders}, nil
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		header[i] = headerKey(cell.String())
	}

	doc := &Document{Shape: ShapeProviders}
	for _, row := range sheet.Rows[1:] {
		rec := model.ProviderRecord{Category: opts.Category}
		empty := true
		for i, cell := range row.Cells {
			if i >= len(header) {
				break
			}
			value := strings.TrimSpace(cell.String())
			if value == "" {
				continue
			}
			empty = false
			setColumn(&rec, header[i], value)
		}
		if empty {
			continue
		}
		rec.Address = scrub(rec.Address)
		doc.Records = append(doc.Records, rec)
	}

	return doc, nil
}

func xlsxSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("feed: xlsx sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("feed: xlsx sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

// headerKey normalizes a column heading for matching: lowercased with word
// separators collapsed to underscores.
func headerKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(s)
	return s
}

func setColumn(rec *model.ProviderRecord, key, value string) {
	switch key {
	case "name", "provider_name", "provider":
		rec.Name = value
	case "specialty", "specialties":
		rec.Specialties = append(rec.Specialties, value)
	case "phone", "phone_number", "telephone":
		rec.Phone = value
	case "website", "url":
		rec.Website = value
	case "address", "street", "street_address", "address_line_1":
		rec.Address = value
	case "city":
		rec.City = value
	case "state":
		rec.State = value
	case "zip", "zip_code", "postal_code":
		rec.Zip = value
	case "county":
		rec.County = value
	case "distance_miles", "distance":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			rec.DistanceMiles = &f
		}
	case "location_name", "facility", "facility_name":
		rec.LocationName = value
	case "gender":
		rec.Gender = value
	default:
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[key] = value
	}
}
