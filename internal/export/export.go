package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/scout-api/internal/model"
)

// Format identifies an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for a format the exporter does not support.
var ErrUnknownFormat = eris.New("export: unknown format")

// ParseFormat validates a format string; the empty string defaults to JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", eris.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// ContentType returns the MIME type to serve the format with.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// columns is the fixed export column set, in order.
var columns = []string{"Name", "Website", "Industry", "Location", "Funding"}

func companyRow(c model.Company) []string {
	return []string{c.Name, c.Website, c.Industry, c.Location, c.Funding}
}

// Write encodes the companies in the given format.
func Write(w io.Writer, format Format, companies []model.Company) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, companies)
	case FormatXLSX:
		return writeXLSX(w, companies)
	case FormatJSON:
		return writeJSON(w, companies)
	default:
		return eris.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func writeJSON(w io.Writer, companies []model.Company) error {
	if companies == nil {
		companies = []model.Company{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(companies), "export: encode json")
}

func writeCSV(w io.Writer, companies []model.Company) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, c := range companies {
		if err := cw.Write(companyRow(c)); err != nil {
			return eris.Wrapf(err, "export: write csv row for %s", c.Name)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func writeXLSX(w io.Writer, companies []model.Company) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Companies")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}
	for _, c := range companies {
		row := sheet.AddRow()
		for _, cell := range companyRow(c) {
			row.AddCell().SetString(cell)
		}
	}
	return eris.Wrap(f.Write(w), "export: write xlsx")
}
