package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pccclearclinic/form-filling-template/internal/app"
	"github.com/pccclearclinic/form-filling-template/internal/config"
	"github.com/pccclearclinic/form-filling-template/internal/observability"
	"github.com/pccclearclinic/form-filling-template/internal/server"
	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
	"github.com/pccclearclinic/form-filling-template/pkg/testsupport"
)

const validIntake = `{
  "currentName": "Jordan Avery Smith",
  "changeOfName": false,
  "gender": "Female",
  "streetAddress": "123 Main St",
  "cityStateZip": "Portland, OR 97201",
  "phone": "503-555-0100",
  "snap": "100",
  "tanf": "",
  "ssi": "50"
}`

func newHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{"FORMFILL_SERVER_MODE": "test"})
	require.NoError(t, err)
	a, err := app.Build(cfg, nil,
		app.WithDryRun(true),
		app.WithMetrics(observability.NewMetrics(nil)),
		app.WithEngineOptions(engine.WithClock(testsupport.Clock())),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return server.New(a).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	_, err := uuid.Parse(rec.Header().Get(server.RequestIDHeader))
	assert.NoError(t, err)
}

func TestGenerateDocumentReturnsAttachment(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/documents/statewidePacket", validIntake)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "attachment; filename=statewidePacketFilled.pdf", rec.Header().Get("Content-Disposition"))

	values, err := pdfform.ReadValues(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "", values.Text["Petitioner current name 2"])
	assert.Equal(t, "Jordan Avery Smith", values.Text["Petitioner current name 1"])
	assert.True(t, values.Checked["Female_2"])
	assert.Equal(t, testsupport.FixedDate, values.Text["Date"])
}

func TestGenerateDocumentRejectsInvalidIntake(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/documents/feeWaiver", `{"currentName": "Jo", "gender": "Other"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error  string `json:"error"`
		Issues []struct {
			Field string `json:"field"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Issues)
}

func TestGenerateDocumentRejectsMalformedBody(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/documents/feeWaiver", `{"currentName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownDocument(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/documents/birthCertificate", validIntake)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/fields/birthCertificate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListFields(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodGet, "/v1/fields/feeWaiver", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fields []struct {
		ID      string   `json:"id"`
		Targets []string `json:"targets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	ids := make(map[string][]string, len(fields))
	for _, f := range fields {
		ids[f.ID] = f.Targets
	}
	assert.Equal(t, []string{"SNAP amount"}, ids["snap"])
	assert.NotContains(t, ids, "gender")
}

func TestListDocuments(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodGet, "/v1/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "feeWaiverFilled.pdf")
	assert.Contains(t, rec.Body.String(), "statewidePacketFilled.pdf")
}

func TestMetricsRoute(t *testing.T) {
	h := newHandler(t)
	do(t, h, http.MethodPost, "/v1/documents/feeWaiver", validIntake)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `formfill_documents_generations_total{document="feeWaiver",outcome="success"} 1`)
}
