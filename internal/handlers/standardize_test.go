package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"medilab-server/internal/analysis"
	"medilab-server/internal/pipeline"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	acq := pipeline.NewAcquirer(nil, zerolog.Nop())
	std := pipeline.NewStandardizer(0)
	an := analysis.NewOrchestrator(nil, 0, zerolog.Nop())
	h := NewPipelineHandler(acq, std, an, zerolog.Nop())

	r := gin.New()
	r.POST("/classify", h.Classify)
	r.POST("/standardize", h.Standardize)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClassifyEndpoint(t *testing.T) {
	r := testRouter()
	w := postJSON(t, r, "/classify", `{"fileName":"labs.txt","text":"Complete blood count: hemoglobin 14, hematocrit 42, platelets 250"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			ReportType string `json:"reportType"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.ReportType != "cbc" {
		t.Errorf("reportType = %q, want cbc", resp.Data.ReportType)
	}
}

func TestClassifyEndpoint_MissingText(t *testing.T) {
	r := testRouter()
	w := postJSON(t, r, "/classify", `{"fileName":"labs.txt"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStandardizeEndpoint(t *testing.T) {
	r := testRouter()
	w := postJSON(t, r, "/standardize", `{"fileName":"cbc.txt","text":"WBC: 12.5 x10^9/L (4.0-11.0)"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			ReportType string `json:"reportType"`
			Results    []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"results"`
			Parameters []json.RawMessage `json:"parameters"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var wbcStatus string
	for _, p := range resp.Data.Results {
		if p.Name == "White Blood Cell Count" {
			wbcStatus = p.Status
		}
	}
	if wbcStatus != "high" {
		t.Errorf("WBC status = %q, want high", wbcStatus)
	}
	if len(resp.Data.Parameters) != len(resp.Data.Results) {
		t.Errorf("parameters mirror (%d) diverged from results (%d)", len(resp.Data.Parameters), len(resp.Data.Results))
	}
}

func TestStandardizeEndpoint_SuppliedParametersShortCircuit(t *testing.T) {
	r := testRouter()
	body := `{"fileName":"x.txt","text":"irrelevant","parameters":[{"name":"Custom","value":"1","status":"normal","referenceRange":{}}]}`
	w := postJSON(t, r, "/standardize", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Results) != 1 || resp.Data.Results[0].Name != "Custom" {
		t.Errorf("supplied parameters not returned unchanged: %+v", resp.Data.Results)
	}
}
