/*
 * @module service/quality/scorer
 * @description 质量评分器，将校验结果按维度折叠为评分，并计算总体加权评分
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 逐规则执行 -> 通过率统计 -> 维度权重折叠 -> 总体评分
 * @rules 每条规则对所属维度的影响与配置权重成正比，与数据集行数无关；
 *        空数据集所有维度评分为 1.0 并显式标记，避免被误读为真实高质量
 * @dependencies dataquality-service/service/models
 * @refs validator.go, report.go
 */

package quality

import (
	"dataquality-service/service/models"
)

// ScorerRun 一次评分运行的累加结果，评分器独占其生命周期
type ScorerRun struct {
	DimensionScores      map[models.QualityDimension]*models.DimensionScore
	RuleCountByDimension map[models.QualityDimension]int
	Failures             []models.ValidationResult
	RowCount             int
	RuleCount            int
}

// QualityScorer 质量评分器。对注册表中的每条规则执行校验并聚合，
// 累加器归单次运行独占，无跨运行共享状态。
type QualityScorer struct {
	validator        *RecordValidator
	dimensionWeights map[models.QualityDimension]float64
}

// NewQualityScorer 创建质量评分器实例，默认五个维度等权
func NewQualityScorer(validator *RecordValidator) *QualityScorer {
	weights := make(map[models.QualityDimension]float64)
	for _, dim := range models.AllDimensions() {
		weights[dim] = 1.0
	}
	return &QualityScorer{
		validator:        validator,
		dimensionWeights: weights,
	}
}

// SetDimensionWeight 调整维度在总体评分中的权重
func (s *QualityScorer) SetDimensionWeight(dim models.QualityDimension, weight float64) {
	if weight >= 0 {
		s.dimensionWeights[dim] = weight
	}
}

// Score 执行整套规则并折叠为各维度评分。
// 字段级规则：每行一个判定单元，规则权重按通过率比例计入；
// 数据集级规则：同样按记录数统计通过率，权重整体只计一次。
// 即每条规则 achieved += weight × (passed/evaluated)，total += weight。
func (s *QualityScorer) Score(registry *RuleRegistry, records []models.Record) *ScorerRun {
	run := &ScorerRun{
		DimensionScores:      make(map[models.QualityDimension]*models.DimensionScore),
		RuleCountByDimension: make(map[models.QualityDimension]int),
		Failures:             make([]models.ValidationResult, 0),
		RowCount:             len(records),
		RuleCount:            registry.Len(),
	}

	for _, rule := range registry.All() {
		run.RuleCountByDimension[rule.Dimension]++

		ds, ok := run.DimensionScores[rule.Dimension]
		if !ok {
			ds = &models.DimensionScore{Dimension: rule.Dimension}
			run.DimensionScores[rule.Dimension] = ds
		}

		passRate := 1.0
		if len(records) > 0 {
			results := s.validator.EvaluateRule(rule, records)
			passed := 0
			for _, result := range results {
				if result.Passed {
					passed++
				} else {
					run.Failures = append(run.Failures, result)
				}
			}
			if len(results) > 0 {
				passRate = float64(passed) / float64(len(results))
			}
		}

		ds.TotalWeight += rule.Weight
		ds.AchievedWeight += rule.Weight * passRate
	}

	for _, ds := range run.DimensionScores {
		if ds.TotalWeight > 0 {
			ds.Score = ds.AchievedWeight / ds.TotalWeight
		} else {
			// 维度总权重为 0（规则权重全为 0）时无可度量内容，定义为空置完美
			ds.Score = 1.0
		}
	}

	return run
}

// OverallScore 按维度权重表计算总体评分。只对规则集中出现的维度求加权平均，
// 缺席的维度不参与，绝不按零分计入。
func (s *QualityScorer) OverallScore(run *ScorerRun) float64 {
	totalWeight := 0.0
	weightedSum := 0.0
	for dim, ds := range run.DimensionScores {
		w := s.dimensionWeights[dim]
		totalWeight += w
		weightedSum += w * ds.Score
	}
	if totalWeight == 0 {
		return 1.0
	}
	return weightedSum / totalWeight
}
