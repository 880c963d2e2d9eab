/*
 * @module service/quality/report
 * @description 质量报告构建器，将评分结果确定性地组装为质量报告产物
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 评分完成 -> 违规排序截断 -> 报告组装 -> 移交外部消费方
 * @rules 违规样本按 (rule_id, record_id) 排序后截断，与执行顺序无关，
 *        相同输入必须产出相同报告（generated_at 除外）
 * @dependencies dataquality-service/service/models, sort
 * @refs scorer.go, engine.go
 */

package quality

import (
	"sort"
	"time"

	"dataquality-service/service/models"
)

// DefaultMaxSampleViolations 报告中违规样本的默认上限
const DefaultMaxSampleViolations = 100

// ReportBuilder 质量报告构建器
type ReportBuilder struct {
	maxSampleViolations int
	now                 func() time.Time
}

// NewReportBuilder 创建报告构建器实例
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{
		maxSampleViolations: DefaultMaxSampleViolations,
		now:                 time.Now,
	}
}

// SetMaxSampleViolations 配置违规样本上限，非正数时回退默认值
func (b *ReportBuilder) SetMaxSampleViolations(max int) {
	if max > 0 {
		b.maxSampleViolations = max
	} else {
		b.maxSampleViolations = DefaultMaxSampleViolations
	}
}

// SetClock 注入时钟，用于测试
func (b *ReportBuilder) SetClock(now func() time.Time) {
	b.now = now
}

// Build 从完成的评分运行组装质量报告。报告一经产出即不可变，
// 所有权移交给下游消费方。
func (b *ReportBuilder) Build(datasetID string, run *ScorerRun, overallScore float64) *models.QualityReport {
	violations := make([]models.ValidationResult, len(run.Failures))
	copy(violations, run.Failures)

	// 并行化执行也不会改变可观测输出：先归一排序再截断
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].RuleID != violations[j].RuleID {
			return violations[i].RuleID < violations[j].RuleID
		}
		return violations[i].RecordID < violations[j].RecordID
	})

	violationTotal := len(violations)
	if len(violations) > b.maxSampleViolations {
		violations = violations[:b.maxSampleViolations]
	}

	return &models.QualityReport{
		DatasetID:            datasetID,
		GeneratedAt:          b.now(),
		RowCount:             run.RowCount,
		DimensionScores:      run.DimensionScores,
		OverallScore:         overallScore,
		Violations:           violations,
		ViolationTotal:       violationTotal,
		RuleCountByDimension: run.RuleCountByDimension,
		EmptyDataset:         run.RowCount == 0,
		EmptyRuleSet:         run.RuleCount == 0,
	}
}
