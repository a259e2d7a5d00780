// Package dataset loads the table an analysis runs on: an uploaded CSV or Excel file,
// or the seeded demo dataset when nothing was uploaded.
package dataset

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"gocompare/adapters/tabular"
	"gocompare/domain/dataset"
	"gocompare/internal/errors"
	"gocompare/internal/testkit"
)

// AllowedExtensions lists the upload formats the loader understands.
var AllowedExtensions = []string{".csv", ".xlsx"}

// Upload is a file received from the browser or the API
type Upload struct {
	Filename string
	Data     []byte
}

// Empty reports whether nothing was uploaded
func (u Upload) Empty() bool {
	return u.Filename == "" && len(u.Data) == 0
}

// Encode packs the upload into a form-safe string so a page can resubmit it.
func (u Upload) Encode() string {
	if u.Empty() {
		return ""
	}
	return base64.StdEncoding.EncodeToString(u.Data)
}

// DecodeUpload reverses Upload.Encode.
func DecodeUpload(filename, blob string) (Upload, error) {
	if blob == "" {
		return Upload{}, nil
	}
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return Upload{}, errors.InvalidInput("uploaded file could not be decoded")
	}
	return Upload{Filename: filename, Data: data}, nil
}

// LoaderConfig holds the upload limits and the demo dataset settings
type LoaderConfig struct {
	MaxFileSize int64
	Demo        testkit.DemoGeneratorConfig
}

// Loader turns an upload, or its absence, into a dataset
type Loader struct {
	config LoaderConfig
}

// NewLoader creates a new loader
func NewLoader(config LoaderConfig) *Loader {
	return &Loader{config: config}
}

// Load parses the upload. Without an upload it returns the demo dataset and synthetic=true.
func (l *Loader) Load(upload Upload) (ds *dataset.Dataset, synthetic bool, err error) {
	if upload.Empty() {
		log.Printf("[Loader] No upload, generating demo dataset (seed=%d, rows=%d)", l.config.Demo.Seed, l.config.Demo.Rows)
		return testkit.NewDemoDataGenerator(l.config.Demo).Generate(), true, nil
	}

	if err := l.validate(upload); err != nil {
		return nil, false, err
	}

	ds, err = tabular.Read(upload.Filename, bytes.NewReader(upload.Data))
	if err != nil {
		return nil, false, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if len(ds.Columns) == 0 {
		return nil, false, errors.InvalidInput("uploaded file has no columns")
	}
	log.Printf("[Loader] Loaded %s: %d columns, %d rows", upload.Filename, len(ds.Columns), ds.RowCount())
	return ds, false, nil
}

func (l *Loader) validate(upload Upload) error {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	allowed := false
	for _, a := range AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.InvalidInput(fmt.Sprintf("unsupported file type %q, expected one of %s", ext, strings.Join(AllowedExtensions, ", ")))
	}
	if l.config.MaxFileSize > 0 && int64(len(upload.Data)) > l.config.MaxFileSize {
		return errors.InvalidInput(fmt.Sprintf("file is larger than %d bytes", l.config.MaxFileSize))
	}
	return nil
}
