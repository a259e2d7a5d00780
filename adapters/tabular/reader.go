package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gocompare/domain/dataset"
	"gocompare/internal/errors"

	"github.com/xuri/excelize/v2"
)

// utf8BOM is stripped from the first header cell of CSV input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileType is the format of an uploaded table
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType picks the format from the file extension; anything that is not .xlsx reads as CSV.
func DetectFileType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	default:
		return FileTypeCSV
	}
}

// DataReader reads CSV and Excel files from disk
type DataReader struct {
	filePath string
	fileType FileType
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, fileType: DetectFileType(filePath)}
}

// ReadData opens the file and parses it into a dataset
func (r *DataReader) ReadData() (*dataset.Dataset, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(string(r.fileType)), r.filePath))
		}
		return nil, errors.Wrapf(err, "failed to open %s file", r.fileType)
	}
	defer file.Close()

	return Read(filepath.Base(r.filePath), file)
}

// Read parses an uploaded table, choosing the format from the file name.
func Read(filename string, src io.Reader) (*dataset.Dataset, error) {
	switch DetectFileType(filename) {
	case FileTypeXLSX:
		return ReadXLSX(filename, src)
	default:
		return ReadCSV(filename, src)
	}
}

// ReadCSV parses comma-separated input with a header row.
func ReadCSV(name string, src io.Reader) (*dataset.Dataset, error) {
	readStart := time.Now()
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return processRows(name, rows)
}

// ReadXLSX parses the first worksheet of an Excel workbook.
func ReadXLSX(name string, src io.Reader) (*dataset.Dataset, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return processRows(name, rows)
}

// processRows converts raw string rows into a dataset, the first row being the header.
func processRows(name string, rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("file must have a header row")
	}
	header := rows[0]
	records := rows[1:]
	for i, rec := range records {
		if len(rec) > len(header) {
			// Spreadsheet rows may carry trailing empty cells past the header.
			if strings.TrimSpace(strings.Join(rec[len(header):], "")) != "" {
				return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), len(header))
			}
			records[i] = rec[:len(header)]
		}
	}
	records = dropBlankRows(records)
	return dataset.FromRecords(name, header, records), nil
}

// dropBlankRows removes records whose every cell is empty.
func dropBlankRows(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		if strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}
