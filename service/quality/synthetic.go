/*
 * @module service/quality/synthetic
 * @description 合成数据生成器，按配置比例注入缺陷的合同台账测试数据集
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 配置载入 -> 按行生成 -> 缺陷注入 -> 数据集输出
 * @rules 相同种子和参数必须生成完全一致的数据集，缺陷数量可复现，
 *        供校验器、评分器和报告构建器做端到端验证
 * @dependencies dataquality-service/service/models, math/rand
 * @refs builtin.go, engine.go
 */

package quality

import (
	"fmt"
	"math/rand"
	"time"

	"dataquality-service/service/models"
)

var governingLaws = []string{"England & Wales", "Scotland", "Delaware", "New York", "Nigeria"}
var contractStatuses = []string{"Active", "Expired", "Draft", "Signed"}
var invalidCurrencySamples = []string{"usd", " xyz ", "XX"}
var invalidFlagSamples = []string{"y", "n", " "}

// SyntheticConfig 合成数据生成配置，各项比例为 [0,1] 的独立注入概率
type SyntheticConfig struct {
	RowCount            int       `json:"row_count"`
	Seed                int64     `json:"seed"`
	Anchor              time.Time `json:"anchor"`                // 生成基准时间，零值取当前时间
	NullRate            float64   `json:"null_rate"`             // 必填字段置空
	OutOfRangeRate      float64   `json:"out_of_range_rate"`     // 金额越界
	InvalidEmailRate    float64   `json:"invalid_email_rate"`    // 邮箱格式破坏
	InvalidCurrencyRate float64   `json:"invalid_currency_rate"` // 非法币种
	InvalidFlagRate     float64   `json:"invalid_flag_rate"`     // DPA标志破坏
	DuplicateKeyRate    float64   `json:"duplicate_key_rate"`    // 合同号重复
	StaleReviewRate     float64   `json:"stale_review_rate"`     // 复核日期过期
	DateOrderRate       float64   `json:"date_order_rate"`       // 起止日期倒置
}

// DefaultSyntheticConfig 默认配置：500 行，各缺陷注入约一成
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		RowCount:            500,
		Seed:                42,
		NullRate:            0.1,
		OutOfRangeRate:      0.05,
		InvalidEmailRate:    0.1,
		InvalidCurrencyRate: 0.1,
		InvalidFlagRate:     0.1,
		DuplicateKeyRate:    0.05,
		StaleReviewRate:     0.1,
		DateOrderRate:       0.1,
	}
}

// SyntheticGenerator 合成数据生成器
type SyntheticGenerator struct {
	config SyntheticConfig
	rng    *rand.Rand
	anchor time.Time
}

// NewSyntheticGenerator 创建合成数据生成器实例
func NewSyntheticGenerator(config SyntheticConfig) *SyntheticGenerator {
	anchor := config.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	return &SyntheticGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		anchor: anchor,
	}
}

// Generate 生成带注入缺陷的合同台账数据集。
// 随机数的消耗顺序固定，种子一致则逐字段一致。
func (g *SyntheticGenerator) Generate(datasetID string) *models.Dataset {
	records := make([]models.Record, 0, g.config.RowCount)
	issuedIDs := make([]string, 0, g.config.RowCount)

	for i := 0; i < g.config.RowCount; i++ {
		record := g.makeRecord(i, issuedIDs)
		// 空值注入可能清掉合同号，只回收仍然有值的
		if id, ok := record["contract_id"].(string); ok {
			issuedIDs = append(issuedIDs, id)
		}
		records = append(records, record)
	}

	return &models.Dataset{ID: datasetID, Records: records}
}

func (g *SyntheticGenerator) makeRecord(i int, issuedIDs []string) models.Record {
	contractID := fmt.Sprintf("C-%d", 100000+i)
	if len(issuedIDs) > 0 && g.chance(g.config.DuplicateKeyRate) {
		contractID = issuedIDs[g.rng.Intn(len(issuedIDs))]
	}

	// 生效日期落在基准时间前两年内
	effective := g.anchor.AddDate(0, 0, -g.rng.Intn(730))
	end := effective.AddDate(0, 0, 30+g.rng.Intn(690))
	if g.chance(g.config.DateOrderRate) {
		end = effective.AddDate(0, 0, -(1 + g.rng.Intn(120)))
	}

	amount := 1000 + g.rng.Float64()*249000
	if g.chance(g.config.OutOfRangeRate) {
		amount = -amount
	}

	currency := ValidCurrencies[g.rng.Intn(len(ValidCurrencies))]
	if g.chance(g.config.InvalidCurrencyRate) {
		currency = invalidCurrencySamples[g.rng.Intn(len(invalidCurrencySamples))]
	}

	dpa := []string{"Y", "N"}[g.rng.Intn(2)]
	if g.chance(g.config.InvalidFlagRate) {
		dpa = invalidFlagSamples[g.rng.Intn(len(invalidFlagSamples))]
	}

	email := fmt.Sprintf("contact%d@example.com", i)
	if g.chance(g.config.InvalidEmailRate) {
		email = fmt.Sprintf(" user%d@bad email .com ", i)
	}

	review := g.anchor.AddDate(0, 0, -g.rng.Intn(180))
	if g.chance(g.config.StaleReviewRate) {
		review = g.anchor.AddDate(0, 0, -(400 + g.rng.Intn(400)))
	}

	record := models.Record{
		"contract_id":     contractID,
		"party_a":         fmt.Sprintf("PartyA_%d", 1+g.rng.Intn(300)),
		"party_b":         fmt.Sprintf("PartyB_%d", 1+g.rng.Intn(300)),
		"effective_date":  effective.Format("2006-01-02"),
		"end_date":        end.Format("2006-01-02"),
		"governing_law":   governingLaws[g.rng.Intn(len(governingLaws))],
		"amount":          amount,
		"currency":        currency,
		"dpa_present":     dpa,
		"contact_email":   email,
		"status":          contractStatuses[g.rng.Intn(len(contractStatuses))],
		"review_due_date": review.Format("2006-01-02"),
	}

	if g.chance(g.config.NullRate) {
		field := requiredContractFields[g.rng.Intn(len(requiredContractFields))]
		record[field] = nil
	}

	return record
}

func (g *SyntheticGenerator) chance(rate float64) bool {
	if rate <= 0 {
		return false
	}
	return g.rng.Float64() < rate
}
