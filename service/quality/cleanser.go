/*
 * @module service/quality/cleanser
 * @description 数据清洗器，在评估前对合同台账数据做标准化修复并统计修复量
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 原始数据 -> 逐字段标准化 -> 日期次序修复 -> 按键去重 -> 清洗结果输出
 * @rules 清洗不修改输入数据集，输出副本；修复计数供基线/清洗后评分对比使用
 * @dependencies dataquality-service/service/models, github.com/spf13/cast, strings
 * @refs engine.go, builtin.go
 */

package quality

import (
	"strings"

	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

var trimFields = []string{"party_a", "party_b", "governing_law", "status"}

// Cleanser 数据清洗器，执行合同台账的标准化修复：
// 去除首尾空白、币种大写归一、邮箱小写去空格、Y/N标志归一、
// 截止日期早于生效日期时置空、按合同号去重。
type Cleanser struct {
	validCurrencies map[string]struct{}
}

// NewCleanser 创建数据清洗器实例
func NewCleanser() *Cleanser {
	valid := make(map[string]struct{}, len(ValidCurrencies))
	for _, ccy := range ValidCurrencies {
		valid[ccy] = struct{}{}
	}
	return &Cleanser{validCurrencies: valid}
}

// Cleanse 对数据集执行清洗，返回清洗后的记录副本和修复统计
func (c *Cleanser) Cleanse(records []models.Record) *models.CleansingResult {
	result := &models.CleansingResult{
		Records:      make([]models.Record, 0, len(records)),
		OriginalRows: len(records),
	}
	fixCounts := make(map[string]*models.CleansingFix)
	fixOrder := make([]string, 0)
	countFix := func(field, kind string) {
		key := field + ":" + kind
		if fix, ok := fixCounts[key]; ok {
			fix.Count++
			return
		}
		fixCounts[key] = &models.CleansingFix{Field: field, Kind: kind, Count: 1}
		fixOrder = append(fixOrder, key)
	}

	seenKeys := make(map[string]struct{}, len(records))

	for _, record := range records {
		cleaned := make(models.Record, len(record))
		for k, v := range record {
			cleaned[k] = v
		}

		for _, field := range trimFields {
			if str, ok := cleaned[field].(string); ok {
				trimmed := strings.TrimSpace(str)
				if trimmed != str {
					cleaned[field] = trimmed
					countFix(field, "trim")
				}
			}
		}

		if ccy, ok := cleaned["currency"]; ok && !isNullValue(ccy) {
			normalized := strings.ToUpper(strings.TrimSpace(cast.ToString(ccy)))
			if _, valid := c.validCurrencies[normalized]; !valid {
				normalized = "UNKNOWN"
			}
			if normalized != cast.ToString(ccy) {
				cleaned["currency"] = normalized
				countFix("currency", "currency_normalize")
			}
		}

		if email, ok := cleaned["contact_email"]; ok && !isNullValue(email) {
			normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(cast.ToString(email))), " ", "")
			if normalized != cast.ToString(email) {
				cleaned["contact_email"] = normalized
				countFix("contact_email", "email_normalize")
			}
		}

		if flag, ok := cleaned["dpa_present"]; ok && !isNullValue(flag) {
			normalized := strings.ToUpper(strings.TrimSpace(cast.ToString(flag)))
			if normalized != "Y" && normalized != "N" {
				normalized = "N"
			}
			if normalized != cast.ToString(flag) {
				cleaned["dpa_present"] = normalized
				countFix("dpa_present", "flag_normalize")
			}
		}

		// 截止日期早于生效日期视为录入错误，置空交由完整性规则暴露
		effTime, effOK := parseTimeValue(cleaned["effective_date"])
		endTime, endOK := parseTimeValue(cleaned["end_date"])
		if effOK && endOK && endTime.Before(effTime) {
			cleaned["end_date"] = nil
			countFix("end_date", "date_order")
		}

		// 按合同号去重，保留首次出现的记录
		if key, ok := cleaned["contract_id"]; ok && !isNullValue(key) {
			keyStr := cast.ToString(key)
			if _, dup := seenKeys[keyStr]; dup {
				result.DroppedRows++
				countFix("contract_id", "dedup")
				continue
			}
			seenKeys[keyStr] = struct{}{}
		}

		result.Records = append(result.Records, cleaned)
	}

	// 修复统计按首次出现顺序输出，保证结果确定性
	for _, key := range fixOrder {
		result.Fixes = append(result.Fixes, *fixCounts[key])
	}

	return result
}
