/*
 * @module service/quality/validator_test
 * @description 记录校验器的单元测试，覆盖七种规则类型和空值处理语义
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 测试数据准备 -> 规则执行 -> 结果验证
 * @rules 空值在正则/范围/枚举检查中通过，在非空和时效检查中失败；坏数据转为失败结果而非异常
 * @dependencies testing, testify
 * @refs validator.go
 */

package quality

import (
	"testing"
	"time"

	"dataquality-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notNullRule(target string) *models.QualityRule {
	return &models.QualityRule{
		ID:        "test_not_null",
		Dimension: models.DimensionCompleteness,
		Target:    target,
		Kind:      models.RuleKindNotNull,
		Weight:    1.0,
	}
}

func TestCheckNotNull(t *testing.T) {
	validator := NewRecordValidator()
	rule := notNullRule("contract_id")

	testCases := []struct {
		name     string
		record   models.Record
		expected bool
	}{
		{"正常值通过", models.Record{"contract_id": "CT-0001"}, true},
		{"数值零通过", models.Record{"contract_id": 0}, true},
		{"nil值失败", models.Record{"contract_id": nil}, false},
		{"空字符串失败", models.Record{"contract_id": ""}, false},
		{"纯空白字符串失败", models.Record{"contract_id": "   "}, false},
		{"字段缺失失败", models.Record{"other": "x"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := validator.EvaluateRule(rule, []models.Record{tc.record})
			require.Len(t, results, 1)
			assert.Equal(t, tc.expected, results[0].Passed)
			if !tc.expected {
				assert.NotEmpty(t, results[0].Detail)
			}
		})
	}
}

func TestCheckRegex(t *testing.T) {
	validator := NewRecordValidator()
	rule := &models.QualityRule{
		ID:        "test_regex",
		Dimension: models.DimensionValidity,
		Target:    "code",
		Kind:      models.RuleKindRegex,
		Params: models.RuleParams{
			Regex: &models.RegexRuleParams{Pattern: `[A-Z]{2}\d{4}`},
		},
		Weight: 1.0,
	}

	testCases := []struct {
		name     string
		record   models.Record
		expected bool
	}{
		{"完整匹配通过", models.Record{"code": "AB1234"}, true},
		{"大小写不符失败", models.Record{"code": "ab1234"}, false},
		{"部分匹配失败", models.Record{"code": "AB1234X"}, false},
		{"空值通过", models.Record{"code": nil}, true},
		{"空字符串通过", models.Record{"code": ""}, true},
		{"字段缺失通过", models.Record{"other": "x"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := validator.EvaluateRule(rule, []models.Record{tc.record})
			require.Len(t, results, 1)
			assert.Equal(t, tc.expected, results[0].Passed, results[0].Detail)
		})
	}
}

func TestCheckRegexCaseInsensitive(t *testing.T) {
	validator := NewRecordValidator()
	rule := &models.QualityRule{
		ID:        "test_regex_ci",
		Dimension: models.DimensionValidity,
		Target:    "code",
		Kind:      models.RuleKindRegex,
		Params: models.RuleParams{
			Regex: &models.RegexRuleParams{Pattern: `[A-Z]{2}\d{4}`, CaseInsensitive: true},
		},
		Weight: 1.0,
	}

	results := validator.EvaluateRule(rule, []models.Record{{"code": "ab1234"}})
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestCheckRange(t *testing.T) {
	validator := NewRecordValidator()
	min := 0.0
	max := 100.0
	rule := &models.QualityRule{
		ID:        "test_range",
		Dimension: models.DimensionValidity,
		Target:    "amount",
		Kind:      models.RuleKindRange,
		Params: models.RuleParams{
			Range: &models.RangeRuleParams{Min: &min, Max: &max},
		},
		Weight: 1.0,
	}

	testCases := []struct {
		name     string
		record   models.Record
		expected bool
	}{
		{"区间内通过", models.Record{"amount": 50.0}, true},
		{"下界值通过", models.Record{"amount": 0.0}, true},
		{"上界值通过", models.Record{"amount": 100}, true},
		{"字符串数值通过", models.Record{"amount": "99.5"}, true},
		{"低于下界失败", models.Record{"amount": -1.0}, false},
		{"高于上界失败", models.Record{"amount": 100.01}, false},
		{"非数值失败而非异常", models.Record{"amount": "abc"}, false},
		{"空值通过", models.Record{"amount": nil}, true},
		{"字段缺失通过", models.Record{"other": 1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := validator.EvaluateRule(rule, []models.Record{tc.record})
			require.Len(t, results, 1)
			assert.Equal(t, tc.expected, results[0].Passed, results[0].Detail)
		})
	}
}

func TestCheckEnum(t *testing.T) {
	validator := NewRecordValidator()
	rule := &models.QualityRule{
		ID:        "test_enum",
		Dimension: models.DimensionValidity,
		Target:    "currency",
		Kind:      models.RuleKindEnum,
		Params: models.RuleParams{
			Enum: &models.EnumRuleParams{Allowed: []string{"GBP", "EUR", "USD"}},
		},
		Weight: 1.0,
	}

	testCases := []struct {
		name     string
		record   models.Record
		expected bool
	}{
		{"合法取值通过", models.Record{"currency": "GBP"}, true},
		{"非法取值失败", models.Record{"currency": "XYZ"}, false},
		{"小写取值失败", models.Record{"currency": "gbp"}, false},
		{"空值通过", models.Record{"currency": nil}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := validator.EvaluateRule(rule, []models.Record{tc.record})
			require.Len(t, results, 1)
			assert.Equal(t, tc.expected, results[0].Passed)
		})
	}

	// 忽略大小写模式
	rule.Params.Enum.CaseInsensitive = true
	results := validator.EvaluateRule(rule, []models.Record{{"currency": "gbp"}})
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestCheckCrossField(t *testing.T) {
	validator := NewRecordValidator()
	rule := &models.QualityRule{
		ID:        "test_cross_field",
		Dimension: models.DimensionConsistency,
		Target:    "end_date",
		Kind:      models.RuleKindCrossField,
		Params: models.RuleParams{
			CrossField: &models.CrossFieldRuleParams{
				ReferenceField: "effective_date",
				Operator:       "after",
			},
		},
		Weight: 1.0,
	}

	testCases := []struct {
		name     string
		record   models.Record
		expected bool
	}{
		{"日期次序正确通过", models.Record{"effective_date": "2025-01-01", "end_date": "2026-01-01"}, true},
		{"同一天通过", models.Record{"effective_date": "2025-01-01", "end_date": "2025-01-01"}, true},
		{"日期倒置失败", models.Record{"effective_date": "2026-01-01", "end_date": "2025-01-01"}, false},
		{"左侧为空通过", models.Record{"effective_date": "2025-01-01", "end_date": nil}, true},
		{"右侧缺失通过", models.Record{"end_date": "2026-01-01"}, true},
		{"无法解析的日期失败", models.Record{"effective_date": "2025-01-01", "end_date": "not-a-date"}, false},
		{"斜杠日期格式通过", models.Record{"effective_date": "2025/01/01", "end_date": "2026/06/30"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := validator.EvaluateRule(rule, []models.Record{tc.record})
			require.Len(t, results, 1)
			assert.Equal(t, tc.expected, results[0].Passed, results[0].Detail)
		})
	}
}

func TestCheckCrossFieldNumericOperators(t *testing.T) {
	validator := NewRecordValidator()

	lteRule := &models.QualityRule{
		ID:        "test_lte",
		Dimension: models.DimensionConsistency,
		Target:    "paid",
		Kind:      models.RuleKindCrossField,
		Params: models.RuleParams{
			CrossField: &models.CrossFieldRuleParams{ReferenceField: "amount", Operator: "lte"},
		},
		Weight: 1.0,
	}

	results := validator.EvaluateRule(lteRule, []models.Record{
		{"paid": 50.0, "amount": 100.0},
		{"paid": 150.0, "amount": 100.0},
	})
	require.Len(t, results, 2)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)

	eqRule := &models.QualityRule{
		ID:        "test_eq",
		Dimension: models.DimensionConsistency,
		Target:    "currency",
		Kind:      models.RuleKindCrossField,
		Params: models.RuleParams{
			CrossField: &models.CrossFieldRuleParams{ReferenceField: "invoice_currency", Operator: "eq"},
		},
		Weight: 1.0,
	}

	results = validator.EvaluateRule(eqRule, []models.Record{
		{"currency": "GBP", "invoice_currency": "GBP"},
		{"currency": "GBP", "invoice_currency": "EUR"},
	})
	require.Len(t, results, 2)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
}

func TestCheckFreshness(t *testing.T) {
	validator := NewRecordValidator()
	// 固定时钟保证判定可复现
	fixedNow := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	validator.SetClock(func() time.Time { return fixedNow })

	rule := &models.QualityRule{
		ID:        "test_freshness",
		Dimension: models.DimensionTimeliness,
		Target:    "updated_at",
		Kind:      models.RuleKindFreshness,
		Params: models.RuleParams{
			Freshness: &models.FreshnessRuleParams{MaxAgeHours: 48},
		},
		Weight: 1.0,
	}

	testCases := []struct {
		name     string
		record   models.Record
		expected bool
	}{
		{"窗口内通过", models.Record{"updated_at": "2025-05-31 12:00:00"}, true},
		{"刚好在上限通过", models.Record{"updated_at": "2025-05-30 12:00:00"}, true},
		{"超过窗口失败", models.Record{"updated_at": "2025-05-28 12:00:00"}, false},
		{"未来时间戳通过", models.Record{"updated_at": "2025-06-02 12:00:00"}, true},
		{"空时间戳按过期失败", models.Record{"updated_at": nil}, false},
		{"字段缺失按过期失败", models.Record{"other": "x"}, false},
		{"无法解析的时间戳失败", models.Record{"updated_at": "garbage"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := validator.EvaluateRule(rule, []models.Record{tc.record})
			require.Len(t, results, 1)
			assert.Equal(t, tc.expected, results[0].Passed, results[0].Detail)
		})
	}
}

func TestEvaluateUniqueKey(t *testing.T) {
	validator := NewRecordValidator()
	rule := &models.QualityRule{
		ID:        "test_unique",
		Dimension: models.DimensionUniqueness,
		Target:    models.DatasetLevelTarget,
		Kind:      models.RuleKindUniqueKey,
		Params: models.RuleParams{
			UniqueKey: &models.UniqueKeyRuleParams{KeyFields: []string{"k"}},
		},
		Weight: 1.0,
	}

	records := []models.Record{
		{"k": 1},
		{"k": 1},
		{"k": 2},
	}

	results := validator.EvaluateRule(rule, records)
	require.Len(t, results, 3)

	// 首次出现通过，之后的重复行失败
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.True(t, results[2].Passed)
	assert.Equal(t, 1, results[1].RecordID)
	assert.Contains(t, results[1].Detail, "重复")
}

func TestEvaluateUniqueKeyCompositeKey(t *testing.T) {
	validator := NewRecordValidator()
	rule := &models.QualityRule{
		ID:        "test_unique_composite",
		Dimension: models.DimensionUniqueness,
		Target:    models.DatasetLevelTarget,
		Kind:      models.RuleKindUniqueKey,
		Params: models.RuleParams{
			UniqueKey: &models.UniqueKeyRuleParams{KeyFields: []string{"a", "b"}},
		},
		Weight: 1.0,
	}

	records := []models.Record{
		{"a": "x", "b": "1"},
		{"a": "x", "b": "2"},
		{"a": "x", "b": "1"},
	}

	results := validator.EvaluateRule(rule, records)
	require.Len(t, results, 3)
	assert.True(t, results[0].Passed)
	assert.True(t, results[1].Passed)
	assert.False(t, results[2].Passed)
}

func TestEvaluateRuleUnknownKind(t *testing.T) {
	validator := NewRecordValidator()
	rule := &models.QualityRule{
		ID:        "test_unknown",
		Dimension: models.DimensionValidity,
		Target:    "x",
		Kind:      models.RuleKind("bogus"),
		Weight:    1.0,
	}

	// 未知类型兜底为失败结果，不允许崩溃
	results := validator.EvaluateRule(rule, []models.Record{{"x": 1}})
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Detail, "不受支持")
}
