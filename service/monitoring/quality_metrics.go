/*
 * @module service/monitoring/quality_metrics
 * @description 质量指标收集器，将评估结果以 Prometheus 指标形式暴露
 * @architecture 分层架构 - 监控服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 评估完成 -> 指标更新 -> /metrics 端点抓取
 * @rules 指标反映每个数据集最近一次评估的状态，计数器只增不减
 * @dependencies github.com/prometheus/client_golang
 * @refs service/quality/engine.go, main.go
 */

package monitoring

import (
	"dataquality-service/service/models"

	"github.com/prometheus/client_golang/prometheus"
)

// QualityMetrics Prometheus质量指标收集器
type QualityMetrics struct {
	overallScore   *prometheus.GaugeVec
	dimensionScore *prometheus.GaugeVec
	rowCount       *prometheus.GaugeVec
	assessments    *prometheus.CounterVec
	violations     *prometheus.CounterVec
}

// NewQualityMetrics 创建质量指标收集器并注册到指定 registry，
// registry 为空时使用默认 registry
func NewQualityMetrics(registerer prometheus.Registerer) *QualityMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &QualityMetrics{
		overallScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "data_quality_overall_score",
			Help: "数据集最近一次评估的总体质量评分 (0-1)",
		}, []string{"dataset_id"}),
		dimensionScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "data_quality_dimension_score",
			Help: "数据集最近一次评估的各维度质量评分 (0-1)",
		}, []string{"dataset_id", "dimension"}),
		rowCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "data_quality_row_count",
			Help: "数据集最近一次评估的记录数",
		}, []string{"dataset_id"}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "data_quality_assessments_total",
			Help: "质量评估执行总次数",
		}, []string{"dataset_id"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "data_quality_violations_total",
			Help: "质量评估发现的违规总数",
		}, []string{"dataset_id"}),
	}

	registerer.MustRegister(m.overallScore, m.dimensionScore, m.rowCount, m.assessments, m.violations)
	return m
}

// RecordAssessment 按评估报告更新指标
func (m *QualityMetrics) RecordAssessment(report *models.QualityReport) {
	m.overallScore.WithLabelValues(report.DatasetID).Set(report.OverallScore)
	m.rowCount.WithLabelValues(report.DatasetID).Set(float64(report.RowCount))
	m.assessments.WithLabelValues(report.DatasetID).Inc()
	m.violations.WithLabelValues(report.DatasetID).Add(float64(report.ViolationTotal))

	for dim, score := range report.DimensionScores {
		m.dimensionScore.WithLabelValues(report.DatasetID, string(dim)).Set(score.Score)
	}
}
