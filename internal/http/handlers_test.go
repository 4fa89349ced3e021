package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"symptom-checker/internal/core"
	"symptom-checker/internal/reference"
	"symptom-checker/pkg"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, blocks reference.Blocks, minSymptoms int) *Server {
	t.Helper()
	store, _ := reference.Load(context.Background(), blocks, reference.LoadOptions{})
	svc := core.NewService(core.NewMatcher(store), core.Options{MinSymptoms: minSymptoms, FoldCase: true}, nil)
	return NewServer(svc, store, "", nil)
}

func scenarioBlocks() reference.Blocks {
	return reference.Blocks{
		reference.Occurrence:   "itching,skin_rash,cough,prognosis\n1,1,0,Fungal infection\n0,0,1,Common Cold\n",
		reference.Descriptions: "Disease,Description\nFungal infection,Fungal infection is a common skin condition.\n",
		reference.Precautions:  "Disease,Precaution_1,Precaution_2\nFungal infection,bath twice,keep infected area dry\n",
		reference.Medications:  "Disease,Medication\nFungal infection,Antifungal Cream\n",
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var e pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e.Error
}

func TestPredict_OK(t *testing.T) {
	srv := newTestServer(t, scenarioBlocks(), 1)

	rr := do(t, srv, http.MethodPost, "/predict", `{"symptoms": ["Itching", "skin_rash"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var res pkg.DiagnosisResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, pkg.DiagnosisResult{
		Disease:     "Fungal infection",
		Confidence:  core.Confidence,
		Description: "Fungal infection is a common skin condition.",
		Medications: []string{"Antifungal Cream"},
		Precautions: []string{"bath twice", "keep infected area dry"},
	}, res)
}

func TestPredict_ResponseShape(t *testing.T) {
	srv := newTestServer(t, scenarioBlocks(), 1)

	rr := do(t, srv, http.MethodPost, "/predict", `{"symptoms": ["cough"]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.ElementsMatch(t, []string{"disease", "confidence", "description", "medications", "precautions"}, keys(raw))
	assert.Equal(t, "Common Cold", raw["disease"])
	assert.Equal(t, []any{reference.MedicationPlaceholder}, raw["medications"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestPredict_BadRequests(t *testing.T) {
	srv := newTestServer(t, scenarioBlocks(), 2)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"empty body", "", "No data provided"},
		{"not json", "symptoms=cough", "Invalid JSON body"},
		{"wrong type", `{"symptoms": "cough"}`, "Invalid JSON body"},
		{"missing field", `{}`, "Symptoms array is required"},
		{"empty array", `{"symptoms": []}`, "Symptoms array is required"},
		{"blank entries", `{"symptoms": ["", "  "]}`, "Symptoms array is required"},
		{"below minimum", `{"symptoms": ["cough"]}`, "At least 2 symptoms are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.msg, decodeError(t, rr))
		})
	}
}

func TestPredict_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, scenarioBlocks(), 1)
	body := `{"symptoms": ["` + strings.Repeat("a", maxBodyBytes) + `"]}`

	rr := do(t, srv, http.MethodPost, "/predict", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestPredict_NoReferenceData(t *testing.T) {
	srv := newTestServer(t, reference.Blocks{}, 1)

	rr := do(t, srv, http.MethodPost, "/predict", `{"symptoms": ["cough"]}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Reference data unavailable", decodeError(t, rr))
}

type failingDiagnoser struct{}

func (failingDiagnoser) Diagnose([]string) (*pkg.DiagnosisResult, error) {
	return nil, errors.New("disk on fire at /var/lib/secret")
}

func TestPredict_UnexpectedErrorHidesDetail(t *testing.T) {
	srv := NewServer(failingDiagnoser{}, nil, "https://example.org", nil)

	rr := do(t, srv, http.MethodPost, "/predict", `{"symptoms": ["cough"]}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rr))
	assert.NotContains(t, rr.Body.String(), "secret")
	assert.Equal(t, "https://example.org", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestInformationalEndpoints(t *testing.T) {
	srv := newTestServer(t, scenarioBlocks(), 1)

	for path, msg := range map[string]string{
		"/":        "Disease Prediction API is running!",
		"/welcome": "Welcome to the Disease Prediction API!",
	} {
		rr := do(t, srv, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rr.Code, path)
		var m pkg.MessageResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
		assert.Equal(t, msg, m.Message)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t, scenarioBlocks(), 1)

	rr := do(t, srv, http.MethodGet, "/symptoms", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var symptoms pkg.SymptomsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &symptoms))
	assert.Equal(t, []string{"itching", "skin_rash", "cough"}, symptoms.Symptoms)

	rr = do(t, srv, http.MethodGet, "/conditions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var conditions pkg.ConditionsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &conditions))
	assert.Equal(t, []string{"Fungal infection", "Common Cold"}, conditions.Conditions)

	rr = do(t, srv, http.MethodPost, "/symptoms", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCatalogEndpoints_NoReferenceData(t *testing.T) {
	srv := newTestServer(t, reference.Blocks{}, 1)

	rr := do(t, srv, http.MethodGet, "/symptoms", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"symptoms":[]}`, rr.Body.String())

	rr = do(t, NewServer(failingDiagnoser{}, nil, "", nil), http.MethodGet, "/conditions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"conditions":[]}`, rr.Body.String())
}

func TestRouting(t *testing.T) {
	srv := newTestServer(t, scenarioBlocks(), 1)

	rr := do(t, srv, http.MethodOptions, "/predict", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "content-type")

	rr = do(t, srv, http.MethodGet, "/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Allow"))

	rr = do(t, srv, http.MethodDelete, "/welcome", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = do(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_OverRealListener(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, scenarioBlocks(), 1))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/predict", "application/json", strings.NewReader(`{"symptoms":["sneezing"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var res pkg.DiagnosisResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "Fungal infection", res.Disease, "all-zero pass returns the first row")
}
