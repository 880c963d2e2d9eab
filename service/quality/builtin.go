/*
 * @module service/quality/builtin
 * @description 内置合同台账质量规则集，覆盖五个质量维度的默认检查
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 内置规则集构建 -> 注册表载入 -> 评估执行
 * @rules 与合同台账数据契约保持一致：必填字段、币种、邮箱、日期次序、复核时效、合同号唯一
 * @dependencies dataquality-service/service/models
 * @refs registry.go, synthetic.go
 */

package quality

import (
	"dataquality-service/service/models"
)

// ValidCurrencies 合同台账允许的币种代码
var ValidCurrencies = []string{"GBP", "EUR", "USD", "NGN", "ZAR", "INR"}

// EmailPattern 邮箱格式
const EmailPattern = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`

// requiredContractFields 合同台账必填字段
var requiredContractFields = []string{
	"contract_id", "party_a", "party_b", "effective_date", "governing_law", "status",
}

// ContractRegisterRuleSet 构建合同台账的内置规则集。
// 复核日期的时效窗口为一年：超期一年未复核视为过期数据。
func ContractRegisterRuleSet() []models.RuleConfig {
	configs := make([]models.RuleConfig, 0, len(requiredContractFields)+6)

	for _, field := range requiredContractFields {
		configs = append(configs, models.RuleConfig{
			ID:        "required_" + field,
			Dimension: models.DimensionCompleteness,
			Target:    field,
			Kind:      models.RuleKindNotNull,
		})
	}

	amountMin := 0.0
	amountMax := 1e9
	configs = append(configs,
		models.RuleConfig{
			ID:        "valid_currency",
			Dimension: models.DimensionValidity,
			Target:    "currency",
			Kind:      models.RuleKindEnum,
			Params: models.RuleParams{
				Enum: &models.EnumRuleParams{Allowed: ValidCurrencies},
			},
		},
		models.RuleConfig{
			ID:        "valid_email",
			Dimension: models.DimensionValidity,
			Target:    "contact_email",
			Kind:      models.RuleKindRegex,
			Params: models.RuleParams{
				Regex: &models.RegexRuleParams{Pattern: EmailPattern},
			},
		},
		models.RuleConfig{
			ID:        "valid_dpa_flag",
			Dimension: models.DimensionValidity,
			Target:    "dpa_present",
			Kind:      models.RuleKindEnum,
			Params: models.RuleParams{
				Enum: &models.EnumRuleParams{Allowed: []string{"Y", "N"}},
			},
		},
		models.RuleConfig{
			ID:        "amount_range",
			Dimension: models.DimensionValidity,
			Target:    "amount",
			Kind:      models.RuleKindRange,
			Params: models.RuleParams{
				Range: &models.RangeRuleParams{Min: &amountMin, Max: &amountMax},
			},
		},
		models.RuleConfig{
			ID:        "date_order",
			Dimension: models.DimensionConsistency,
			Target:    "end_date",
			Kind:      models.RuleKindCrossField,
			Params: models.RuleParams{
				CrossField: &models.CrossFieldRuleParams{
					ReferenceField: "effective_date",
					Operator:       "after",
				},
			},
		},
		models.RuleConfig{
			ID:        "review_freshness",
			Dimension: models.DimensionTimeliness,
			Target:    "review_due_date",
			Kind:      models.RuleKindFreshness,
			Params: models.RuleParams{
				Freshness: &models.FreshnessRuleParams{MaxAgeHours: 24 * 365},
			},
		},
		models.RuleConfig{
			ID:        "unique_contract_id",
			Dimension: models.DimensionUniqueness,
			Target:    models.DatasetLevelTarget,
			Kind:      models.RuleKindUniqueKey,
			Params: models.RuleParams{
				UniqueKey: &models.UniqueKeyRuleParams{KeyFields: []string{"contract_id"}},
			},
		},
	)

	return configs
}
