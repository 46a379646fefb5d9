package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"

	"github.com/fjglira/xraysync/internal/domain"
)

// utf8BOM prefixes Excel's "CSV UTF-8" exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads comma-separated exports of the test sheet.
type CSVReader struct{}

// NewCSVReader creates a new CSVReader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// SupportedExtensions returns the file extensions this reader handles.
func (r *CSVReader) SupportedExtensions() []string {
	return []string{".csv"}
}

// Read returns every record of the file. Records may have differing lengths;
// short ones are left for the row parser to reject.
func (r *CSVReader) Read(filePath string) ([]domain.RawRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, domain.NewError("read", filePath, 0, "failed to open CSV file", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domain.NewError("read", filePath, 0, "failed to read CSV file", err)
	}

	rows := make([]domain.RawRow, len(records))
	for i, rec := range records {
		rows[i] = rec
	}
	return rows, nil
}
