// Package ingest parses company records from CSV and XLSX files for bulk
// import.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/scout-api/internal/model"
)

// ErrMissingNameColumn is returned when the header row has no "name" column.
var ErrMissingNameColumn = eris.New("ingest: name column is required")

// columnIndex maps recognized header names to their position. Headers are
// matched case-insensitively; unknown columns are ignored.
type columnIndex map[string]int

func indexHeader(header []string) (columnIndex, error) {
	idx := columnIndex{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := idx["name"]; !ok {
		return nil, ErrMissingNameColumn
	}
	return idx, nil
}

func (idx columnIndex) get(row []string, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rowToCompany maps one data row onto a Company. Rows with an empty name
// are skipped by the callers.
func (idx columnIndex) rowToCompany(row []string) model.Company {
	c := model.Company{
		Name:     idx.get(row, "name"),
		Website:  idx.get(row, "website"),
		Industry: idx.get(row, "industry"),
		Location: idx.get(row, "location"),
		Funding:  idx.get(row, "funding"),
		Tags:     []string{},
	}
	if raw := idx.get(row, "tags"); raw != "" {
		for _, tag := range strings.Split(raw, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				c.Tags = append(c.Tags, tag)
			}
		}
	}
	return c
}

// ReadCSV parses companies from CSV data. The first row must be a header
// containing at least a "name" column.
func ReadCSV(r io.Reader) ([]model.Company, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var companies []model.Company
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return companies, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		if c := idx.rowToCompany(row); c.Name != "" {
			companies = append(companies, c)
		}
	}
}

// ReadXLSX parses companies from the first sheet of an XLSX file. The
// first row must be a header containing at least a "name" column.
func ReadXLSX(path string) ([]model.Company, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: xlsx has no sheets")
	}

	var idx columnIndex
	var companies []model.Company
	for i, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			if idx, err = indexHeader(cells); err != nil {
				return nil, err
			}
			continue
		}
		if c := idx.rowToCompany(cells); c.Name != "" {
			companies = append(companies, c)
		}
	}
	return companies, nil
}
