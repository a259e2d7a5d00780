package ui

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gocompare/adapters/export"
	"gocompare/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trialCSV = "dose,arm,sex\n1.2,a,F\n2.4,b,M\n1.9,a,M\n3.1,b,F\n2.2,a,F\n2.9,b,M\n1.5,a,F\n3.3,b,F\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, func(*config.Config) {})
}

func newTestServerWith(t *testing.T, configure func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.GinMode = "test"
	configure(cfg)
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

// bigCSV builds a CSV of roughly size bytes.
func bigCSV(size int) string {
	var b strings.Builder
	b.WriteString("dose,arm\n")
	for b.Len() < size {
		b.WriteString("1.25,a\n2.50,b\n")
	}
	return b.String()
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, target string, fields url.Values, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("dataset", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndexShowsDemoData(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No file uploaded, showing demo data.")
	assert.Contains(t, body, "<th>Age</th>")
	assert.Contains(t, body, `id="result-table"`)
	assert.Contains(t, body, "</html>")
}

func TestIndexAnalysesUpload(t *testing.T) {
	req := uploadRequest(t, "/", url.Values{"quantitative": {"dose"}, "group": {"arm"}}, "trial.csv", trialCSV)
	rec := serve(newTestServer(t), req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Using trial.csv.")
	assert.Contains(t, body, "dose: Shapiro-Wilk test")
	assert.Contains(t, body, "<td>sex (Total)</td>")
	assert.Contains(t, body, `<option value="arm" selected>arm</option>`)
	assert.Contains(t, body, `name="dataset_blob" value="ZG9zZSxhcm0s`, "the upload is carried for the next submit")
}

func TestIndexResubmitsCarriedDataset(t *testing.T) {
	form := url.Values{
		"dataset_name": {"trial.csv"},
		"dataset_blob": {"ZG9zZSxhcm0KMSxhCjIsYgozLGEKNCxi"}, // dose,arm\n1,a\n2,b\n3,a\n4,b
		"group":        {"arm"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(newTestServer(t), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>dose (Total)</td>")
}

func TestIndexQuantitativeGroupShowsError(t *testing.T) {
	req := uploadRequest(t, "/", url.Values{"quantitative": {"dose"}, "group": {"dose"}}, "trial.csv", trialCSV)
	rec := serve(newTestServer(t), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "grouping variable cannot be a quantitative variable")
	assert.NotContains(t, body, `id="result-table"`)
	assert.Contains(t, body, "dose: Shapiro-Wilk test", "normality results are still shown")
}

func TestIndexHighlightsSignificantPValues(t *testing.T) {
	var csv strings.Builder
	csv.WriteString("arm,outcome\n")
	for i := 0; i < 30; i++ {
		csv.WriteString("a,yes\nb,no\n")
	}
	req := uploadRequest(t, "/", url.Values{"group": {"arm"}}, "sig.csv", csv.String())
	rec := serve(newTestServer(t), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `style="color: red; font-weight: bold">0.0000</td>`)
}

func TestDownloadCSV(t *testing.T) {
	req := uploadRequest(t, "/download.csv", url.Values{"quantitative": {"dose"}, "group": {"arm"}}, "trial.csv", trialCSV)
	rec := serve(newTestServer(t), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.CSVContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "difference_analysis.csv")

	tbl, err := export.ReadCSV(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{"variable", "a", "b", "p-vaule", "methods"}, tbl.Header())
	assert.Equal(t, "dose", tbl.Rows[0].Variable)
}

func TestDownloadXLSX(t *testing.T) {
	req := uploadRequest(t, "/download.xlsx", url.Values{"group": {"Gender"}}, "", "")
	rec := serve(newTestServer(t), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("PK"), rec.Body.Bytes()[:2], "xlsx is a zip archive")
}

func TestDownloadRejectsInvalidGroup(t *testing.T) {
	req := uploadRequest(t, "/download.csv", url.Values{"quantitative": {"Age"}, "group": {"Age"}}, "", "")
	rec := serve(newTestServer(t), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexRejectsOversizedUpload(t *testing.T) {
	s := newTestServerWith(t, func(cfg *config.Config) { cfg.Server.MaxUploadMB = 1 })
	req := uploadRequest(t, "/", url.Values{"quantitative": {"dose"}, "group": {"arm"}}, "big.csv", bigCSV(3<<20))
	rec := serve(s, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "upload exceeds the 1 MB limit")
	assert.NotContains(t, body, "No file uploaded, showing demo data.")
	assert.NotContains(t, body, `id="result-table"`)
}

func TestDownloadRejectsOversizedUpload(t *testing.T) {
	s := newTestServerWith(t, func(cfg *config.Config) { cfg.Server.MaxUploadMB = 1 })
	for _, target := range []string{"/download.csv", "/download.xlsx"} {
		req := uploadRequest(t, target, url.Values{"quantitative": {"dose"}, "group": {"arm"}}, "big.csv", bigCSV(3<<20))
		rec := serve(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "upload exceeds the 1 MB limit", target)
	}
}

func TestIndexRejectsMalformedMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("--xyz\r\nnot a part header\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := serve(newTestServer(t), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid dataset upload")
	assert.NotContains(t, rec.Body.String(), "No file uploaded, showing demo data.")
}

func TestCompanionPage(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/companion", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, `href="https://yynsd.shinyapps.io/Xiantu/"`)
}

func TestStaticAndAPIMounted(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
