/*
 * @module service/quality/registry
 * @description 质量规则注册表，负责规则的形状校验、唯一性检查和有序存储
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 规则配置载入 -> 形状校验 -> 注册 -> 按维度/目标检索
 * @rules 纯内存结构，保持插入顺序；每次评估运行显式构建，禁止包级单例
 * @dependencies dataquality-service/service/models, regexp
 * @refs validator.go, scorer.go
 */

package quality

import (
	"regexp"

	"dataquality-service/service/models"
)

// RuleRegistry 质量规则注册表。注册完成后只读，单个注册表的生命周期
// 与一次评估运行绑定，多个运行各持有独立实例互不干扰。
type RuleRegistry struct {
	rules []*models.QualityRule
	index map[string]*models.QualityRule
}

// NewRuleRegistry 创建空规则注册表
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: make([]*models.QualityRule, 0),
		index: make(map[string]*models.QualityRule),
	}
}

// Register 注册一条规则。ID冲突返回 DuplicateRuleError，
// 形状非法返回 RuleConfigurationError，两者都不会部分注册。
func (rg *RuleRegistry) Register(rule *models.QualityRule) error {
	if rule.ID == "" {
		return newConfigError("(未命名)", "id", "不能为空")
	}
	if _, exists := rg.index[rule.ID]; exists {
		return &DuplicateRuleError{RuleID: rule.ID}
	}
	if err := validateRuleShape(rule); err != nil {
		return err
	}

	rg.rules = append(rg.rules, rule)
	rg.index[rule.ID] = rule
	return nil
}

// RegisterConfigs 从声明式规则配置批量注册，weight 缺省取 1.0
func (rg *RuleRegistry) RegisterConfigs(configs []models.RuleConfig) error {
	for i := range configs {
		cfg := &configs[i]
		weight := 1.0
		if cfg.Weight != nil {
			weight = *cfg.Weight
		}
		rule := &models.QualityRule{
			ID:        cfg.ID,
			Dimension: cfg.Dimension,
			Target:    cfg.Target,
			Kind:      cfg.Kind,
			Params:    cfg.Params,
			Weight:    weight,
		}
		if err := rg.Register(rule); err != nil {
			return err
		}
	}
	return nil
}

// All 返回全部规则，保持注册顺序
func (rg *RuleRegistry) All() []*models.QualityRule {
	return rg.rules
}

// Len 已注册规则数量
func (rg *RuleRegistry) Len() int {
	return len(rg.rules)
}

// Get 按ID查找规则
func (rg *RuleRegistry) Get(id string) (*models.QualityRule, bool) {
	rule, ok := rg.index[id]
	return rule, ok
}

// RulesForDimension 按维度筛选规则，保持注册顺序
func (rg *RuleRegistry) RulesForDimension(dim models.QualityDimension) []*models.QualityRule {
	var result []*models.QualityRule
	for _, rule := range rg.rules {
		if rule.Dimension == dim {
			result = append(result, rule)
		}
	}
	return result
}

// RulesForTarget 按目标字段筛选规则，保持注册顺序
func (rg *RuleRegistry) RulesForTarget(target string) []*models.QualityRule {
	var result []*models.QualityRule
	for _, rule := range rg.rules {
		if rule.Target == target {
			result = append(result, rule)
		}
	}
	return result
}

// validateRuleShape 校验规则形状：维度、权重、目标以及各类型必需参数。
// 缺失参数在注册时立即失败，绝不静默跳过。
func validateRuleShape(rule *models.QualityRule) error {
	if !models.IsValidDimension(rule.Dimension) {
		return newConfigError(rule.ID, "dimension", "不是合法的质量维度")
	}
	if rule.Weight < 0 {
		return newConfigError(rule.ID, "weight", "不能为负数")
	}
	if rule.Target == "" {
		return newConfigError(rule.ID, "target", "不能为空")
	}

	switch rule.Kind {
	case models.RuleKindNotNull:
		// 无必需参数
	case models.RuleKindRegex:
		p := rule.Params.Regex
		if p == nil || p.Pattern == "" {
			return newConfigError(rule.ID, "regex.pattern", "缺失")
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return newConfigError(rule.ID, "regex.pattern", "不是合法的正则表达式")
		}
	case models.RuleKindRange:
		p := rule.Params.Range
		if p == nil || (p.Min == nil && p.Max == nil) {
			return newConfigError(rule.ID, "range.min/max", "至少配置一个边界")
		}
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return newConfigError(rule.ID, "range.min", "不能大于 range.max")
		}
	case models.RuleKindEnum:
		p := rule.Params.Enum
		if p == nil || len(p.Allowed) == 0 {
			return newConfigError(rule.ID, "enum.allowed", "缺失")
		}
	case models.RuleKindCrossField:
		p := rule.Params.CrossField
		if p == nil || p.ReferenceField == "" {
			return newConfigError(rule.ID, "cross_field.reference_field", "缺失")
		}
		switch p.Operator {
		case "eq", "lte", "gte", "before", "after":
		default:
			return newConfigError(rule.ID, "cross_field.operator", "必须是 eq/lte/gte/before/after 之一")
		}
	case models.RuleKindFreshness:
		p := rule.Params.Freshness
		if p == nil || p.MaxAgeHours <= 0 {
			return newConfigError(rule.ID, "freshness.max_age_hours", "必须为正数")
		}
	case models.RuleKindUniqueKey:
		p := rule.Params.UniqueKey
		if p == nil || len(p.KeyFields) == 0 {
			return newConfigError(rule.ID, "unique_key.key_fields", "缺失")
		}
		if rule.Target != models.DatasetLevelTarget {
			return newConfigError(rule.ID, "target", "唯一键规则为数据集级，target 必须为 \"*\"")
		}
	default:
		return newConfigError(rule.ID, "kind", "不是支持的规则类型")
	}

	return nil
}
