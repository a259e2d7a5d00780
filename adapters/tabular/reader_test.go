package tabular

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocompare/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeffAge,Gender,Group\n34,0,a\n51,1,b\n\n28,,a\n"
	ds, err := ReadCSV("upload.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Gender", "Group"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.RowCount())

	gender, err := ds.Column("Gender")
	require.NoError(t, err)
	assert.Equal(t, 2, gender.NonNullCount())
}

func TestReadCSVPadsShortRows(t *testing.T) {
	ds, err := ReadCSV("short.csv", strings.NewReader("a,b,c\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", ""}}, ds.Records())
}

func TestReadCSVRejectsLongRows(t *testing.T) {
	_, err := ReadCSV("long.csv", strings.NewReader("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadCSVRequiresHeader(t *testing.T) {
	_, err := ReadCSV("empty.csv", strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadXLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Trial"))
	require.NoError(t, f.SetSheetRow("Trial", "A1", &[]interface{}{"Weight", "Arm"}))
	require.NoError(t, f.SetSheetRow("Trial", "A2", &[]interface{}{61.5, "drug"}))
	require.NoError(t, f.SetSheetRow("Trial", "A3", &[]interface{}{58, "placebo"}))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	ds, err := Read("trial.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Weight", "Arm"}, ds.ColumnNames())
	assert.Equal(t, [][]string{{"61.5", "drug"}, {"58", "placebo"}}, ds.Records())
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, FileTypeXLSX, DetectFileType("Data.XLSX"))
	assert.Equal(t, FileTypeCSV, DetectFileType("data.csv"))
	assert.Equal(t, FileTypeCSV, DetectFileType("data"))
}

func TestDataReaderFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,g\n1,a\n2,b\n"), 0o644))

	ds, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	assert.Equal(t, "groups.csv", ds.Name)
	assert.Equal(t, 2, ds.RowCount())

	_, err = NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).ReadData()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(err))
}
