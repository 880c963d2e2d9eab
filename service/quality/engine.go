/*
 * @module service/quality/engine
 * @description 数据质量引擎，串联规则注册、记录校验、维度评分和报告生成，并负责结果持久化与外发
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 规则载入 -> （可选）数据清洗 -> 校验评分 -> 报告生成 -> 持久化 -> 指标上报/事件外发
 * @rules 配置错误立即终止评估；记录级数据问题只体现在报告中；指标与事件外发失败不影响评估结果
 * @dependencies dataquality-service/service/models, gorm.io/gorm
 * @refs registry.go, validator.go, scorer.go, report.go, cleanser.go
 */

package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"dataquality-service/service/models"

	"gorm.io/gorm"
)

// ReportPublisher 质量报告事件外发接口，由通知层实现
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *models.QualityReport) error
}

// MetricsRecorder 质量指标上报接口，由监控层实现
type MetricsRecorder interface {
	RecordAssessment(report *models.QualityReport)
}

// AssessmentOptions 一次质量评估的选项
type AssessmentOptions struct {
	Rules               []models.RuleConfig                 `json:"rules,omitempty"` // 为空时使用内置合同台账规则集
	MaxSampleViolations int                                 `json:"max_sample_violations,omitempty"`
	CleanseFirst        bool                                `json:"cleanse_first,omitempty"` // 先清洗再评估，同时保留清洗前基线评分
	DimensionWeights    map[models.QualityDimension]float64 `json:"dimension_weights,omitempty"`
	TriggerType         string                              `json:"-"`
}

// AssessmentResult 一次质量评估的完整结果
type AssessmentResult struct {
	AssessmentID  string                  `json:"assessment_id,omitempty"`
	Report        *models.QualityReport   `json:"report"`
	BaselineScore float64                 `json:"baseline_score"`
	PostScore     float64                 `json:"post_score"`
	Cleansing     *models.CleansingResult `json:"cleansing,omitempty"`
	Duration      time.Duration           `json:"duration"`
}

// QualityEngine 数据质量引擎。db 为空时以纯内存模式运行，不做持久化；
// publisher 和 metrics 为可选协作方。
type QualityEngine struct {
	db        *gorm.DB
	cleanser  *Cleanser
	publisher ReportPublisher
	metrics   MetricsRecorder
}

// NewQualityEngine 创建数据质量引擎实例
func NewQualityEngine(db *gorm.DB) *QualityEngine {
	return &QualityEngine{
		db:       db,
		cleanser: NewCleanser(),
	}
}

// SetPublisher 设置报告事件外发实现
func (e *QualityEngine) SetPublisher(publisher ReportPublisher) {
	e.publisher = publisher
}

// SetMetricsRecorder 设置指标上报实现
func (e *QualityEngine) SetMetricsRecorder(metrics MetricsRecorder) {
	e.metrics = metrics
}

// Assess 对数据集执行一次完整的质量评估
func (e *QualityEngine) Assess(ctx context.Context, dataset *models.Dataset, opts AssessmentOptions) (*AssessmentResult, error) {
	startTime := time.Now()

	registry := NewRuleRegistry()
	ruleConfigs := opts.Rules
	if len(ruleConfigs) == 0 {
		ruleConfigs = ContractRegisterRuleSet()
	}
	if err := registry.RegisterConfigs(ruleConfigs); err != nil {
		return nil, fmt.Errorf("载入质量规则失败: %w", err)
	}

	validator := NewRecordValidator()
	scorer := NewQualityScorer(validator)
	for dim, weight := range opts.DimensionWeights {
		scorer.SetDimensionWeight(dim, weight)
	}

	builder := NewReportBuilder()
	builder.SetMaxSampleViolations(opts.MaxSampleViolations)

	// 基线评估
	baselineRun := scorer.Score(registry, dataset.Records)
	baselineScore := scorer.OverallScore(baselineRun)

	result := &AssessmentResult{
		BaselineScore: baselineScore,
		PostScore:     baselineScore,
	}

	finalRun := baselineRun
	if opts.CleanseFirst {
		cleansing := e.cleanser.Cleanse(dataset.Records)
		finalRun = scorer.Score(registry, cleansing.Records)
		result.Cleansing = cleansing
		result.PostScore = scorer.OverallScore(finalRun)
	}

	result.Report = builder.Build(dataset.ID, finalRun, result.PostScore)
	result.Duration = time.Since(startTime)

	if err := e.saveAssessment(result, opts.TriggerType); err != nil {
		return nil, fmt.Errorf("保存评估结果失败: %w", err)
	}

	if e.metrics != nil {
		e.metrics.RecordAssessment(result.Report)
	}
	if e.publisher != nil {
		if err := e.publisher.PublishReport(ctx, result.Report); err != nil {
			slog.Error("质量报告事件外发失败", "dataset_id", dataset.ID, "error", err)
		}
	}

	slog.Info("质量评估完成",
		"dataset_id", dataset.ID,
		"row_count", result.Report.RowCount,
		"overall_score", result.Report.OverallScore,
		"violations", result.Report.ViolationTotal,
		"duration", result.Duration)

	return result, nil
}

// saveAssessment 持久化评估执行记录，纯内存模式下跳过
func (e *QualityEngine) saveAssessment(result *AssessmentResult, triggerType string) error {
	if e.db == nil {
		return nil
	}
	if triggerType == "" {
		triggerType = "manual"
	}

	reportJSON, err := reportToJSONB(result.Report)
	if err != nil {
		return err
	}

	ruleCount := 0
	for _, count := range result.Report.RuleCountByDimension {
		ruleCount += count
	}

	record := &models.QualityAssessment{
		DatasetID:      result.Report.DatasetID,
		TriggerType:    triggerType,
		RowCount:       result.Report.RowCount,
		RuleCount:      ruleCount,
		OverallScore:   result.Report.OverallScore,
		ViolationTotal: result.Report.ViolationTotal,
		Report:         reportJSON,
		Duration:       result.Duration.Milliseconds(),
	}
	if err := e.db.Create(record).Error; err != nil {
		return err
	}
	result.AssessmentID = record.ID
	return nil
}

// reportToJSONB 报告序列化为 JSONB，保证所有字段无损保留
func reportToJSONB(report *models.QualityReport) (models.JSONB, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("报告序列化失败: %w", err)
	}
	var jsonb models.JSONB
	if err := json.Unmarshal(raw, &jsonb); err != nil {
		return nil, fmt.Errorf("报告反序列化失败: %w", err)
	}
	return jsonb, nil
}
