package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"

	"gocompare/adapters/export"
	"gocompare/app"
	"gocompare/domain/table"
	"gocompare/internal/dataset"
	"gocompare/internal/errors"

	"github.com/gin-gonic/gin"
)

// normalityLine is one line of the normality section
type normalityLine struct {
	Column    string
	Method    string
	Statistic float64
	PValue    float64
}

// indexPage is the data behind templates/index.html
type indexPage struct {
	Title           string
	Synthetic       bool
	Preview         *app.DatasetPreview
	DatasetName     string
	DatasetBlob     string
	Quantitative    map[string]bool
	GroupCandidates []string
	Group           string
	Normality       []normalityLine
	Table           *table.Table
	Error           string
}

// readForm extracts the upload and the column selection from a submitted form.
// A fresh file wins over the dataset carried in the hidden field.
func (s *Server) readForm(c *gin.Context) (dataset.Upload, app.Selection, error) {
	sel := app.Selection{
		Quantitative: c.PostFormArray("quantitative"),
		Group:        c.PostForm("group"),
	}

	fileHeader, err := c.FormFile("dataset")
	switch {
	case err == nil:
		f, err := fileHeader.Open()
		if err != nil {
			return dataset.Upload{}, sel, errors.InvalidInput("failed to open uploaded file")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return dataset.Upload{}, sel, errors.InvalidInput("failed to read uploaded file")
		}
		// A new file invalidates the previous column selection.
		if name := c.PostForm("dataset_name"); name != "" && name != fileHeader.Filename {
			sel = app.Selection{}
		}
		return dataset.Upload{Filename: fileHeader.Filename, Data: data}, sel, nil
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
		upload, err := dataset.DecodeUpload(c.PostForm("dataset_name"), c.PostForm("dataset_blob"))
		return upload, sel, err
	}

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return dataset.Upload{}, sel, errors.InvalidInput(fmt.Sprintf("upload exceeds the %d MB limit", s.config.Server.MaxUploadMB))
	}
	return dataset.Upload{}, sel, errors.InvalidInput("invalid dataset upload: " + err.Error())
}

// handleIndex renders the page: preview, column selection, normality checks and the table
func (s *Server) handleIndex(c *gin.Context) {
	page := &indexPage{Title: "Difference analysis", Quantitative: map[string]bool{}}

	upload, sel, err := s.readForm(c)
	if err != nil {
		page.Error = err.Error()
		s.renderTemplate(c, errors.HTTPStatus(err), "index.html", page)
		return
	}

	ds, synthetic, err := s.loader.Load(upload)
	if err != nil {
		page.Error = err.Error()
		s.renderTemplate(c, errors.HTTPStatus(err), "index.html", page)
		return
	}
	page.Synthetic = synthetic
	page.Preview = app.Preview(ds)
	if !synthetic {
		page.DatasetName = upload.Filename
		page.DatasetBlob = upload.Encode()
	}
	for _, q := range sel.Quantitative {
		page.Quantitative[q] = true
	}

	result, err := s.analysis.Run(c.Request.Context(), ds, sel)
	if prep := result.Preparation; prep != nil {
		page.GroupCandidates = prep.GroupCandidates
		for _, n := range prep.Normality {
			page.Normality = append(page.Normality, normalityLine{
				Column:    n.Column,
				Method:    n.Method.String(),
				Statistic: n.Statistic,
				PValue:    n.PValue,
			})
		}
	}
	page.Group = result.Group
	if page.Group == "" {
		page.Group = sel.Group
	}
	status := http.StatusOK
	if err != nil {
		page.Error = err.Error()
		status = errors.HTTPStatus(err)
	} else {
		page.Table = result.Table
	}
	s.renderTemplate(c, status, "index.html", page)
}

// runForm loads the submitted dataset and runs the analysis for the download handlers
func (s *Server) runForm(c *gin.Context) (*table.Table, bool) {
	tbl, err := s.analyzeForm(c)
	if err != nil {
		c.String(errors.HTTPStatus(err), err.Error())
		return nil, false
	}
	return tbl, true
}

func (s *Server) analyzeForm(c *gin.Context) (*table.Table, error) {
	upload, sel, err := s.readForm(c)
	if err != nil {
		return nil, err
	}
	ds, _, err := s.loader.Load(upload)
	if err != nil {
		return nil, err
	}
	result, err := s.analysis.Run(c.Request.Context(), ds, sel)
	if err != nil {
		return nil, err
	}
	return result.Table, nil
}

func (s *Server) handleDownloadCSV(c *gin.Context) {
	tbl, ok := s.runForm(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, tbl); err != nil {
		log.Printf("[Download] CSV export failed: %v", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.CSVFilename))
	c.Data(http.StatusOK, export.CSVContentType, buf.Bytes())
}

func (s *Server) handleDownloadXLSX(c *gin.Context) {
	tbl, ok := s.runForm(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, tbl); err != nil {
		log.Printf("[Download] XLSX export failed: %v", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.XLSXFilename))
	c.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
}

// companionPage is the data behind templates/companion.html
type companionPage struct {
	Title string
	Body  template.HTML
	URL   string
}

func (s *Server) handleCompanion(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "companion.html", companionPage{
		Title: "Companion application",
		Body:  s.companion,
		URL:   s.config.Companion.URL,
	})
}
