/*
 * @module service/quality/validator
 * @description 记录校验器，对单条记录或整个数据集执行一条质量规则，产出校验结果
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 规则分发 -> 值提取与类型转换 -> 判定 -> 校验结果生成
 * @rules 坏数据绝不导致评估中断，一律转为带说明的失败结果；空值处理按维度解耦
 * @dependencies dataquality-service/service/models, github.com/spf13/cast, regexp
 * @refs registry.go, scorer.go
 */

package quality

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// 时间字段支持的解析格式，与上游合同台账的取值习惯一致
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// RecordValidator 记录校验器。字段级规则逐条记录判定，
// 数据集级规则（唯一键）对整个记录序列判定一次。
type RecordValidator struct {
	regexCache map[string]*regexp.Regexp
	now        func() time.Time
}

// NewRecordValidator 创建记录校验器实例
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{
		regexCache: make(map[string]*regexp.Regexp),
		now:        time.Now,
	}
}

// SetClock 注入时钟，用于时效性检查的确定性测试
func (v *RecordValidator) SetClock(now func() time.Time) {
	v.now = now
}

// EvaluateRule 对数据集执行一条规则，返回全部校验结果（每条记录一个，
// 数据集级规则也是每条记录一个判定单元）
func (v *RecordValidator) EvaluateRule(rule *models.QualityRule, records []models.Record) []models.ValidationResult {
	if rule.IsDatasetLevel() {
		return v.evaluateUniqueKey(rule, records)
	}

	results := make([]models.ValidationResult, 0, len(records))
	for i, record := range records {
		results = append(results, v.evaluateRecord(rule, record, i))
	}
	return results
}

// evaluateRecord 对单条记录执行字段级规则，穷尽分发所有规则类型
func (v *RecordValidator) evaluateRecord(rule *models.QualityRule, record models.Record, recordID int) models.ValidationResult {
	value, exists := record[rule.Target]

	var passed bool
	var detail string

	switch rule.Kind {
	case models.RuleKindNotNull:
		passed, detail = v.checkNotNull(rule, value, exists)
	case models.RuleKindRegex:
		passed, detail = v.checkRegex(rule, value, exists)
	case models.RuleKindRange:
		passed, detail = v.checkRange(rule, value, exists)
	case models.RuleKindEnum:
		passed, detail = v.checkEnum(rule, value, exists)
	case models.RuleKindCrossField:
		passed, detail = v.checkCrossField(rule, record)
	case models.RuleKindFreshness:
		passed, detail = v.checkFreshness(rule, value, exists)
	default:
		// 注册表已拦截未知类型，此处兜底为失败而非崩溃
		passed, detail = false, fmt.Sprintf("规则 %s 类型 %s 不受支持", rule.ID, rule.Kind)
	}

	return models.ValidationResult{
		RuleID:   rule.ID,
		RecordID: recordID,
		Passed:   passed,
		Detail:   detail,
	}
}

// checkNotNull 非空检查：nil、空字符串、字段缺失均视为空
func (v *RecordValidator) checkNotNull(rule *models.QualityRule, value interface{}, exists bool) (bool, string) {
	if !exists {
		return false, fmt.Sprintf("字段 %s 缺失", rule.Target)
	}
	if isNullValue(value) {
		return false, fmt.Sprintf("字段 %s 为空", rule.Target)
	}
	return true, ""
}

// checkRegex 正则全匹配检查。空值通过：完整性由非空规则单独度量，
// 一条规则只检查一个维度。
func (v *RecordValidator) checkRegex(rule *models.QualityRule, value interface{}, exists bool) (bool, string) {
	if !exists || isNullValue(value) {
		return true, ""
	}

	p := rule.Params.Regex
	re, err := v.compiledRegex(p.Pattern, p.CaseInsensitive)
	if err != nil {
		return false, fmt.Sprintf("字段 %s 正则 %s 编译失败", rule.Target, p.Pattern)
	}

	strValue := cast.ToString(value)
	if !re.MatchString(strValue) {
		return false, fmt.Sprintf("字段 %s 值 %q 不匹配模式 %s", rule.Target, strValue, p.Pattern)
	}
	return true, ""
}

// checkRange 数值范围检查。空值通过；非空非数值是失败而不是异常。
func (v *RecordValidator) checkRange(rule *models.QualityRule, value interface{}, exists bool) (bool, string) {
	if !exists || isNullValue(value) {
		return true, ""
	}

	num, err := cast.ToFloat64E(value)
	if err != nil {
		return false, fmt.Sprintf("字段 %s 值 %v 不是数值", rule.Target, value)
	}

	p := rule.Params.Range
	if p.Min != nil && num < *p.Min {
		return false, fmt.Sprintf("字段 %s 值 %v 小于下界 %v", rule.Target, num, *p.Min)
	}
	if p.Max != nil && num > *p.Max {
		return false, fmt.Sprintf("字段 %s 值 %v 大于上界 %v", rule.Target, num, *p.Max)
	}
	return true, ""
}

// checkEnum 枚举值检查，空值通过
func (v *RecordValidator) checkEnum(rule *models.QualityRule, value interface{}, exists bool) (bool, string) {
	if !exists || isNullValue(value) {
		return true, ""
	}

	p := rule.Params.Enum
	strValue := cast.ToString(value)
	for _, allowed := range p.Allowed {
		if strValue == allowed {
			return true, ""
		}
		if p.CaseInsensitive && strings.EqualFold(strValue, allowed) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("字段 %s 值 %q 不在允许的值列表中", rule.Target, strValue)
}

// checkCrossField 跨字段一致性检查。任一侧为空视为通过（无法判定），
// 可解析则按操作符比较，解析失败转为失败结果。
func (v *RecordValidator) checkCrossField(rule *models.QualityRule, record models.Record) (bool, string) {
	p := rule.Params.CrossField

	left, leftExists := record[rule.Target]
	right, rightExists := record[p.ReferenceField]
	if !leftExists || !rightExists || isNullValue(left) || isNullValue(right) {
		return true, ""
	}

	switch p.Operator {
	case "before", "after":
		leftTime, ok := parseTimeValue(left)
		if !ok {
			return false, fmt.Sprintf("字段 %s 值 %v 无法解析为日期", rule.Target, left)
		}
		rightTime, ok := parseTimeValue(right)
		if !ok {
			return false, fmt.Sprintf("字段 %s 值 %v 无法解析为日期", p.ReferenceField, right)
		}
		if p.Operator == "before" && leftTime.After(rightTime) {
			return false, fmt.Sprintf("字段 %s (%v) 应不晚于字段 %s (%v)",
				rule.Target, left, p.ReferenceField, right)
		}
		if p.Operator == "after" && leftTime.Before(rightTime) {
			return false, fmt.Sprintf("字段 %s (%v) 应不早于字段 %s (%v)",
				rule.Target, left, p.ReferenceField, right)
		}
		return true, ""
	case "eq":
		if cast.ToString(left) != cast.ToString(right) {
			return false, fmt.Sprintf("字段 %s (%v) 应等于字段 %s (%v)",
				rule.Target, left, p.ReferenceField, right)
		}
		return true, ""
	case "lte", "gte":
		leftNum, err := cast.ToFloat64E(left)
		if err != nil {
			return false, fmt.Sprintf("字段 %s 值 %v 不是数值", rule.Target, left)
		}
		rightNum, err := cast.ToFloat64E(right)
		if err != nil {
			return false, fmt.Sprintf("字段 %s 值 %v 不是数值", p.ReferenceField, right)
		}
		if p.Operator == "lte" && leftNum > rightNum {
			return false, fmt.Sprintf("字段 %s (%v) 应小于等于字段 %s (%v)",
				rule.Target, leftNum, p.ReferenceField, rightNum)
		}
		if p.Operator == "gte" && leftNum < rightNum {
			return false, fmt.Sprintf("字段 %s (%v) 应大于等于字段 %s (%v)",
				rule.Target, leftNum, p.ReferenceField, rightNum)
		}
		return true, ""
	}

	return false, fmt.Sprintf("规则 %s 操作符 %s 不受支持", rule.ID, p.Operator)
}

// checkFreshness 时效窗口检查。缺失的时间戳无法判定新鲜度，按过期计。
func (v *RecordValidator) checkFreshness(rule *models.QualityRule, value interface{}, exists bool) (bool, string) {
	if !exists || isNullValue(value) {
		return false, fmt.Sprintf("字段 %s 时间戳缺失，按过期处理", rule.Target)
	}

	ts, ok := parseTimeValue(value)
	if !ok {
		return false, fmt.Sprintf("字段 %s 值 %v 无法解析为时间戳", rule.Target, value)
	}

	maxAge := time.Duration(rule.Params.Freshness.MaxAgeHours * float64(time.Hour))
	age := v.now().Sub(ts)
	if age > maxAge {
		return false, fmt.Sprintf("字段 %s 数据过期，已超过 %.1f 小时（上限 %.1f 小时）",
			rule.Target, age.Hours(), rule.Params.Freshness.MaxAgeHours)
	}
	return true, ""
}

// evaluateUniqueKey 唯一键检查，数据集级：按键字段值元组分组，
// 每组中首次出现之后的每条记录产生一个失败结果。
func (v *RecordValidator) evaluateUniqueKey(rule *models.QualityRule, records []models.Record) []models.ValidationResult {
	keyFields := rule.Params.UniqueKey.KeyFields
	firstSeen := make(map[string]int)
	results := make([]models.ValidationResult, 0, len(records))

	for i, record := range records {
		key := uniqueKeyOf(record, keyFields)
		if firstIdx, dup := firstSeen[key]; dup {
			results = append(results, models.ValidationResult{
				RuleID:   rule.ID,
				RecordID: i,
				Passed:   false,
				Detail: fmt.Sprintf("键 %s 重复，与第 %d 行冲突（键字段: %s）",
					key, firstIdx, strings.Join(keyFields, ",")),
			})
			continue
		}
		firstSeen[key] = i
		results = append(results, models.ValidationResult{
			RuleID:   rule.ID,
			RecordID: i,
			Passed:   true,
		})
	}
	return results
}

func (v *RecordValidator) compiledRegex(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	// 全匹配语义：锚定整个值
	anchored := `\A(?:` + pattern + `)\z`
	if caseInsensitive {
		anchored = `(?i)` + anchored
	}

	if re, ok := v.regexCache[anchored]; ok {
		return re, nil
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, err
	}
	v.regexCache[anchored] = re
	return re, nil
}

// isNullValue 空值判定：nil 或去除空白后的空字符串
func isNullValue(value interface{}) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return strings.TrimSpace(str) == ""
	}
	return false
}

// parseTimeValue 宽松的时间解析：time.Time 直接返回，字符串按支持的格式逐个尝试
func parseTimeValue(value interface{}) (time.Time, bool) {
	switch t := value.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}

	strValue := strings.TrimSpace(cast.ToString(value))
	if strValue == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, strValue); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// uniqueKeyOf 生成键字段值元组的规范化键，缺失字段记为空
func uniqueKeyOf(record models.Record, keyFields []string) string {
	parts := make([]string, len(keyFields))
	for i, field := range keyFields {
		if value, ok := record[field]; ok && value != nil {
			parts[i] = cast.ToString(value)
		}
	}
	return strings.Join(parts, "\x1f")
}
