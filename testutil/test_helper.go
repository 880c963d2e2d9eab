/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"dataquality-service/service/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.QualityAssessment{},
		&models.DatasetSnapshot{},
		&models.ScheduledAssessment{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	// 清空所有表的数据
	tables := []string{
		"quality_assessments",
		"dataset_snapshots",
		"scheduled_assessments",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// MakeContractRecord 构造一条完整合法的合同台账记录，overrides 覆盖指定字段
func MakeContractRecord(id string, overrides map[string]interface{}) models.Record {
	record := models.Record{
		"contract_id":     id,
		"party_a":         "Acme Holdings Ltd",
		"party_b":         "Globex Services GmbH",
		"effective_date":  "2025-01-01",
		"end_date":        "2026-01-01",
		"governing_law":   "England & Wales",
		"amount":          120000.0,
		"currency":        "GBP",
		"dpa_present":     "Y",
		"contact_email":   "legal@acme.example",
		"status":          "Active",
		"review_due_date": time.Now().AddDate(0, 3, 0).Format("2006-01-02"),
	}
	for k, v := range overrides {
		record[k] = v
	}
	return record
}

// MakeContractRecords 构造 n 条合法记录，合同号按序号编排
func MakeContractRecords(n int) []models.Record {
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, MakeContractRecord(fmt.Sprintf("CT-%04d", i+1), nil))
	}
	return records
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// SnapshotOption 数据集快照选项函数类型
type SnapshotOption func(*models.DatasetSnapshot)

// CreateDatasetSnapshot 创建测试数据集快照
func (f *TestDataFactory) CreateDatasetSnapshot(id string, records []models.Record, opts ...SnapshotOption) *models.DatasetSnapshot {
	rows := make(models.JSONBArray, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]interface{}(record))
	}

	snapshot := &models.DatasetSnapshot{
		ID:        id,
		Name:      "测试数据集",
		Records:   rows,
		Tags:      []string{"test"},
		RowCount:  len(records),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(snapshot)
	}

	err := f.DB.Create(snapshot).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test dataset snapshot: %v", err))
	}

	return snapshot
}

// ScheduleOption 定时任务选项函数类型
type ScheduleOption func(*models.ScheduledAssessment)

// CreateScheduledAssessment 创建测试定时评估任务
func (f *TestDataFactory) CreateScheduledAssessment(datasetID string, opts ...ScheduleOption) *models.ScheduledAssessment {
	schedule := &models.ScheduledAssessment{
		Name:      "测试定时评估",
		DatasetID: datasetID,
		CronExpr:  "0 2 * * *",
		IsEnabled: true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(schedule)
	}

	err := f.DB.Create(schedule).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test scheduled assessment: %v", err))
	}

	return schedule
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
