/*
 * @module api/controllers/data_quality_controller_test
 * @description 数据质量控制器的HTTP接口测试
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 路由装配 -> 请求构造 -> 响应断言
 * @rules 规则配置错误返回400响应体，数据问题返回成功响应并体现在评分中
 * @dependencies testing, testify, net/http/httptest
 * @refs data_quality_controller.go
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dataquality-service/service/models"
	"dataquality-service/service/quality"
	"dataquality-service/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQualityTestRouter(t *testing.T) (*chi.Mux, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	engine := quality.NewQualityEngine(tdb.DB)
	controller := NewDataQualityController(engine, tdb.DB)

	router := chi.NewRouter()
	router.Post("/data-quality/assess", controller.Assess)
	router.Get("/data-quality/assessments", controller.GetAssessments)
	router.Get("/data-quality/assessments/{id}", controller.GetAssessment)
	router.Post("/data-quality/cleanse", controller.Cleanse)
	router.Post("/data-quality/synthetic", controller.GenerateSynthetic)
	router.Get("/data-quality/rules/builtin", controller.GetBuiltinRules)
	router.Post("/data-quality/rules/validate", controller.ValidateRules)
	return router, tdb
}

func TestAssessEndpoint(t *testing.T) {
	router, _ := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	body := AssessRequest{
		DatasetID: "ds-http",
		Records: []models.Record{
			testutil.MakeContractRecord("CT-0001", nil),
			testutil.MakeContractRecord("CT-0002", map[string]interface{}{"currency": "XYZ"}),
		},
	}
	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/assess", body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	report, ok := data["report"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), report["row_count"])
	assert.Equal(t, float64(1), report["violation_total"])
}

func TestAssessEndpointMissingDatasetID(t *testing.T) {
	router, _ := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/assess",
		AssessRequest{Records: []models.Record{}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 400, resp.Status)
}

func TestAssessEndpointSnapshotNotFound(t *testing.T) {
	router, _ := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/assess",
		AssessRequest{DatasetID: "no-such-dataset"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 404, resp.Status)
}

func TestAssessEndpointFromSnapshot(t *testing.T) {
	router, tdb := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	factory := testutil.NewTestDataFactory(tdb.DB)
	factory.CreateDatasetSnapshot("ds-snap", testutil.MakeContractRecords(3))

	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/assess",
		AssessRequest{DatasetID: "ds-snap"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Status)

	data := resp.Data.(map[string]interface{})
	report := data["report"].(map[string]interface{})
	assert.Equal(t, float64(3), report["row_count"])
}

func TestValidateRulesEndpoint(t *testing.T) {
	router, _ := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	valid := ValidateRulesRequest{
		Rules: []models.RuleConfig{
			{ID: "req_a", Dimension: models.DimensionCompleteness, Target: "a", Kind: models.RuleKindNotNull},
		},
	}
	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/rules/validate", valid)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Status)

	invalid := ValidateRulesRequest{
		Rules: []models.RuleConfig{
			{ID: "bad", Dimension: models.DimensionValidity, Target: "a", Kind: models.RuleKindRegex},
		},
	}
	req, err = helper.CreateJSONRequest(http.MethodPost, "/data-quality/rules/validate", invalid)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 400, resp.Status)
}

func TestBuiltinRulesEndpoint(t *testing.T) {
	router, _ := newQualityTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/data-quality/rules/builtin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Status)

	rules, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rules, len(quality.ContractRegisterRuleSet()))
}

func TestCleanseEndpoint(t *testing.T) {
	router, _ := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	body := CleanseRequest{
		Records: []models.Record{
			{"contract_id": "CT-0001", "currency": " gbp "},
			{"contract_id": "CT-0001", "currency": "EUR"},
		},
	}
	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/cleanse", body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["dropped_rows"])
	records := data["records"].([]interface{})
	require.Len(t, records, 1)
	assert.Equal(t, "GBP", records[0].(map[string]interface{})["currency"])
}

func TestSyntheticEndpoint(t *testing.T) {
	router, tdb := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	body := SyntheticRequest{
		DatasetID:    "ds-synth",
		Config:       quality.SyntheticConfig{RowCount: 20, Seed: 1},
		SaveSnapshot: true,
	}
	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/synthetic", body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Status)

	data := resp.Data.(map[string]interface{})
	records := data["records"].([]interface{})
	assert.Len(t, records, 20)

	var snapshot models.DatasetSnapshot
	require.NoError(t, tdb.DB.First(&snapshot, "id = ?", "ds-synth").Error)
	assert.Equal(t, 20, snapshot.RowCount)
}

func TestGetAssessmentsEndpoint(t *testing.T) {
	router, _ := newQualityTestRouter(t)
	helper := testutil.NewHTTPTestHelper()

	body := AssessRequest{
		DatasetID: "ds-list",
		Records:   testutil.MakeContractRecords(2),
	}
	req, err := helper.CreateJSONRequest(http.MethodPost, "/data-quality/assess", body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/data-quality/assessments?dataset_id=ds-list", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var paged PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paged))
	assert.Equal(t, 0, paged.Status)
	assert.Equal(t, int64(1), paged.Total)
}
