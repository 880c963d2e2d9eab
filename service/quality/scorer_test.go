/*
 * @module service/quality/scorer_test
 * @description 质量评分器的单元测试，验证权重折叠公式和边界情形
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 规则注册 -> 评分执行 -> 数值断言
 * @rules 每条规则 achieved += weight × 通过率，total += weight；空数据集评分为 1.0 并显式标记
 * @dependencies testing, testify
 * @refs scorer.go
 */

package quality

import (
	"testing"
	"time"

	"dataquality-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreWeightFormula(t *testing.T) {
	registry := NewRuleRegistry()
	w1 := 1.0
	w3 := 3.0
	configs := []models.RuleConfig{
		// 全部通过
		{ID: "always_pass", Dimension: models.DimensionValidity, Target: "a",
			Kind: models.RuleKindNotNull, Weight: &w1},
		// 两行中一行失败，通过率 0.5
		{ID: "half_pass", Dimension: models.DimensionValidity, Target: "b",
			Kind: models.RuleKindNotNull, Weight: &w3},
	}
	require.NoError(t, registry.RegisterConfigs(configs))

	records := []models.Record{
		{"a": "x", "b": "y"},
		{"a": "x", "b": nil},
	}

	scorer := NewQualityScorer(NewRecordValidator())
	run := scorer.Score(registry, records)

	ds := run.DimensionScores[models.DimensionValidity]
	require.NotNil(t, ds)
	// achieved = 1.0×1.0 + 3.0×0.5 = 2.5，total = 4.0
	assert.InDelta(t, 4.0, ds.TotalWeight, 1e-9)
	assert.InDelta(t, 2.5, ds.AchievedWeight, 1e-9)
	assert.InDelta(t, 0.625, ds.Score, 1e-9)
}

func TestScoreEmptyDataset(t *testing.T) {
	registry := NewRuleRegistry()
	require.NoError(t, registry.RegisterConfigs(ContractRegisterRuleSet()))

	scorer := NewQualityScorer(NewRecordValidator())
	run := scorer.Score(registry, nil)

	assert.Equal(t, 0, run.RowCount)
	assert.Empty(t, run.Failures)
	for dim, ds := range run.DimensionScores {
		assert.InDelta(t, 1.0, ds.Score, 1e-9, "空数据集的维度 %s 评分应为 1.0", dim)
	}
	assert.InDelta(t, 1.0, scorer.OverallScore(run), 1e-9)
}

func TestScoreEmptyRuleSet(t *testing.T) {
	registry := NewRuleRegistry()
	scorer := NewQualityScorer(NewRecordValidator())

	run := scorer.Score(registry, []models.Record{{"a": 1}})
	assert.Equal(t, 0, run.RuleCount)
	assert.Empty(t, run.DimensionScores)
	assert.InDelta(t, 1.0, scorer.OverallScore(run), 1e-9)
}

func TestScoreZeroWeightRules(t *testing.T) {
	registry := NewRuleRegistry()
	zero := 0.0
	configs := []models.RuleConfig{
		{ID: "weightless", Dimension: models.DimensionValidity, Target: "a",
			Kind: models.RuleKindNotNull, Weight: &zero},
	}
	require.NoError(t, registry.RegisterConfigs(configs))

	scorer := NewQualityScorer(NewRecordValidator())
	run := scorer.Score(registry, []models.Record{{"a": nil}})

	ds := run.DimensionScores[models.DimensionValidity]
	require.NotNil(t, ds)
	// 总权重为 0 时无可度量内容，定义为 1.0
	assert.InDelta(t, 1.0, ds.Score, 1e-9)
	// 失败结果仍然被收集，供报告使用
	assert.Len(t, run.Failures, 1)
}

func TestScoreBoundsAndMonotonicity(t *testing.T) {
	registry := NewRuleRegistry()
	require.NoError(t, registry.RegisterConfigs(ContractRegisterRuleSet()))
	scorer := NewQualityScorer(NewRecordValidator())

	clean := []models.Record{
		makeTestContract("CT-0001", nil),
		makeTestContract("CT-0002", nil),
		makeTestContract("CT-0003", nil),
	}
	dirty := []models.Record{
		makeTestContract("CT-0001", nil),
		makeTestContract("CT-0002", map[string]interface{}{"party_a": nil, "currency": "XYZ"}),
		makeTestContract("CT-0001", nil), // 合同号重复
	}

	cleanRun := scorer.Score(registry, clean)
	dirtyRun := scorer.Score(registry, dirty)
	cleanScore := scorer.OverallScore(cleanRun)
	dirtyScore := scorer.OverallScore(dirtyRun)

	assert.InDelta(t, 1.0, cleanScore, 1e-9)
	assert.Less(t, dirtyScore, cleanScore)
	assert.GreaterOrEqual(t, dirtyScore, 0.0)
	assert.LessOrEqual(t, dirtyScore, 1.0)
	for _, ds := range dirtyRun.DimensionScores {
		assert.GreaterOrEqual(t, ds.Score, 0.0)
		assert.LessOrEqual(t, ds.Score, 1.0)
	}
}

func TestScoreUniqueKeyCountsOnce(t *testing.T) {
	registry := NewRuleRegistry()
	configs := []models.RuleConfig{
		{ID: "uniq", Dimension: models.DimensionUniqueness, Target: models.DatasetLevelTarget,
			Kind: models.RuleKindUniqueKey,
			Params: models.RuleParams{
				UniqueKey: &models.UniqueKeyRuleParams{KeyFields: []string{"k"}},
			}},
	}
	require.NoError(t, registry.RegisterConfigs(configs))

	scorer := NewQualityScorer(NewRecordValidator())
	run := scorer.Score(registry, []models.Record{{"k": 1}, {"k": 1}, {"k": 2}})

	ds := run.DimensionScores[models.DimensionUniqueness]
	require.NotNil(t, ds)
	// 数据集级规则权重整体只计一次，通过率 2/3
	assert.InDelta(t, 1.0, ds.TotalWeight, 1e-9)
	assert.InDelta(t, 2.0/3.0, ds.Score, 1e-9)
	assert.Len(t, run.Failures, 1)
}

func TestOverallScoreDimensionWeights(t *testing.T) {
	registry := NewRuleRegistry()
	configs := []models.RuleConfig{
		{ID: "comp", Dimension: models.DimensionCompleteness, Target: "a", Kind: models.RuleKindNotNull},
		{ID: "uniq", Dimension: models.DimensionUniqueness, Target: models.DatasetLevelTarget,
			Kind: models.RuleKindUniqueKey,
			Params: models.RuleParams{
				UniqueKey: &models.UniqueKeyRuleParams{KeyFields: []string{"a"}},
			}},
	}
	require.NoError(t, registry.RegisterConfigs(configs))

	// completeness 通过率 0.5，uniqueness 全部通过
	records := []models.Record{{"a": "x"}, {"a": nil}}

	scorer := NewQualityScorer(NewRecordValidator())
	run := scorer.Score(registry, records)

	// 等权：(0.5 + 1.0) / 2
	assert.InDelta(t, 0.75, scorer.OverallScore(run), 1e-9)

	// 调高完整性权重后总体评分向完整性靠拢
	scorer.SetDimensionWeight(models.DimensionCompleteness, 3.0)
	assert.InDelta(t, (3.0*0.5+1.0*1.0)/4.0, scorer.OverallScore(run), 1e-9)
}

// makeTestContract 构造一条完整合法的合同记录，overrides 覆盖指定字段
func makeTestContract(id string, overrides map[string]interface{}) models.Record {
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
		"review_due_date": time.Now().AddDate(0, -1, 0).Format("2006-01-02"),
	}
	for k, v := range overrides {
		record[k] = v
	}
	return record
}
