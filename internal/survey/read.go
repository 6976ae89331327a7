package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/huertalab/durazno/internal/inference"
)

// PlantColumn is the required first header cell.
const PlantColumn = "plant"

// ErrUnsupportedFile is returned by Read for extensions other than .xlsx and .csv.
var ErrUnsupportedFile = errors.New("unsupported survey file")

// Row is one surveyed plant.
type Row struct {
	Plant        string
	Observations inference.Observations
}

var truthy = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
	"si":   true,
	"sí":   true,
	"x":    true,
}

// Truthy reports whether a survey cell marks a symptom as present.
func Truthy(cell string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(cell))]
}

// Read loads a survey from an .xlsx (first sheet) or .csv file.
func Read(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open survey: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
}

// ReadCSV parses a CSV survey.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(records)
}

func readXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return Parse(records)
}

// Parse converts raw records (header first) into rows. Blank rows are
// skipped; a blank plant cell is named after its line number.
func Parse(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("survey is empty")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if len(header) == 0 || header[0] != PlantColumn {
		return nil, fmt.Errorf("survey header must start with %q", PlantColumn)
	}

	var rows []Row
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := Row{Plant: strings.TrimSpace(rec[0]), Observations: inference.Observations{}}
		if row.Plant == "" {
			row.Plant = fmt.Sprintf("row %d", i+2)
		}
		for j := 1; j < len(header) && j < len(rec); j++ {
			if header[j] == "" {
				continue
			}
			if Truthy(rec[j]) {
				row.Observations[header[j]] = true
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
