/*
 * @module service/models/quality_models
 * @description 数据质量核心模型，包含质量规则、校验结果、维度评分和质量报告等模型
 * @architecture 数据模型层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 规则注册 -> 记录校验 -> 维度评分 -> 报告生成 -> 结果持久化
 * @rules 确保数据质量评估的准确性和一致性，支持五维度质量评价体系
 * @dependencies gorm.io/gorm, github.com/google/uuid, github.com/lib/pq
 * @refs service/quality/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// QualityDimension 质量维度
type QualityDimension string

const (
	DimensionCompleteness QualityDimension = "completeness" // 完整性
	DimensionValidity     QualityDimension = "validity"     // 有效性
	DimensionConsistency  QualityDimension = "consistency"  // 一致性
	DimensionTimeliness   QualityDimension = "timeliness"   // 时效性
	DimensionUniqueness   QualityDimension = "uniqueness"   // 唯一性
)

// AllDimensions 所有支持的质量维度
func AllDimensions() []QualityDimension {
	return []QualityDimension{
		DimensionCompleteness,
		DimensionValidity,
		DimensionConsistency,
		DimensionTimeliness,
		DimensionUniqueness,
	}
}

// IsValidDimension 检查维度是否合法
func IsValidDimension(d QualityDimension) bool {
	switch d {
	case DimensionCompleteness, DimensionValidity, DimensionConsistency,
		DimensionTimeliness, DimensionUniqueness:
		return true
	}
	return false
}

// RuleKind 质量规则类型
type RuleKind string

const (
	RuleKindNotNull    RuleKind = "not_null"    // 非空检查
	RuleKindRegex      RuleKind = "regex"       // 正则匹配检查
	RuleKindRange      RuleKind = "range"       // 数值范围检查
	RuleKindEnum       RuleKind = "enum"        // 枚举值检查
	RuleKindCrossField RuleKind = "cross_field" // 跨字段一致性检查
	RuleKindFreshness  RuleKind = "freshness"   // 时效窗口检查
	RuleKindUniqueKey  RuleKind = "unique_key"  // 唯一键检查（数据集级）
)

// DatasetLevelTarget 数据集级规则的目标标识
const DatasetLevelTarget = "*"

// RegexRuleParams 正则匹配规则参数
type RegexRuleParams struct {
	Pattern         string `json:"pattern"`
	CaseInsensitive bool   `json:"case_insensitive,omitempty"`
}

// RangeRuleParams 数值范围规则参数，上下界至少配置一个
type RangeRuleParams struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// EnumRuleParams 枚举值规则参数
type EnumRuleParams struct {
	Allowed         []string `json:"allowed"`
	CaseInsensitive bool     `json:"case_insensitive,omitempty"`
}

// CrossFieldRuleParams 跨字段一致性规则参数
type CrossFieldRuleParams struct {
	ReferenceField string `json:"reference_field"`
	Operator       string `json:"operator"` // eq, lte, gte, before, after
}

// FreshnessRuleParams 时效窗口规则参数
type FreshnessRuleParams struct {
	MaxAgeHours float64 `json:"max_age_hours"`
}

// UniqueKeyRuleParams 唯一键规则参数
type UniqueKeyRuleParams struct {
	KeyFields []string `json:"key_fields"`
}

// RuleParams 规则参数联合体，Kind 决定哪个参数块必须存在
type RuleParams struct {
	Regex      *RegexRuleParams      `json:"regex,omitempty"`
	Range      *RangeRuleParams      `json:"range,omitempty"`
	Enum       *EnumRuleParams       `json:"enum,omitempty"`
	CrossField *CrossFieldRuleParams `json:"cross_field,omitempty"`
	Freshness  *FreshnessRuleParams  `json:"freshness,omitempty"`
	UniqueKey  *UniqueKeyRuleParams  `json:"unique_key,omitempty"`
}

// QualityRule 声明式质量规则
type QualityRule struct {
	ID        string           `json:"id"`
	Dimension QualityDimension `json:"dimension"`
	Target    string           `json:"target"` // 字段名，数据集级规则为 "*"
	Kind      RuleKind         `json:"kind"`
	Params    RuleParams       `json:"parameters"`
	Weight    float64          `json:"weight"` // 非负，缺省为 1.0
}

// IsDatasetLevel 是否为数据集级规则
func (r *QualityRule) IsDatasetLevel() bool {
	return r.Kind == RuleKindUniqueKey
}

// RuleConfig 规则配置的外部输入形式，weight 缺省时取 1.0
type RuleConfig struct {
	ID        string           `json:"id"`
	Dimension QualityDimension `json:"dimension"`
	Target    string           `json:"target"`
	Kind      RuleKind         `json:"kind"`
	Params    RuleParams       `json:"parameters"`
	Weight    *float64         `json:"weight,omitempty"`
}

// Record 数据集中的一行记录，字段值为松散类型（字符串、数值、日期或空）
type Record map[string]interface{}

// Dataset 待评估的表格数据集
type Dataset struct {
	ID      string   `json:"id"`
	Records []Record `json:"records"`
}

// ValidationResult 单条规则对单条记录（或整个数据集）的校验结果，创建后不可变
type ValidationResult struct {
	RuleID   string `json:"rule_id"`
	RecordID int    `json:"record_id"` // 行号，数据集级失败指向具体重复行
	Passed   bool   `json:"passed"`
	Detail   string `json:"detail,omitempty"` // 失败时的违规描述
}

// DimensionScore 单个质量维度的聚合评分
type DimensionScore struct {
	Dimension      QualityDimension `json:"dimension"`
	TotalWeight    float64          `json:"total_weight"`
	AchievedWeight float64          `json:"achieved_weight"`
	Score          float64          `json:"score"` // achieved/total，total 为 0 时定义为 1.0
}

// QualityReport 质量评估最终产物，生成后不可变
type QualityReport struct {
	DatasetID            string                               `json:"dataset_id"`
	GeneratedAt          time.Time                            `json:"generated_at"`
	RowCount             int                                  `json:"row_count"`
	DimensionScores      map[QualityDimension]*DimensionScore `json:"dimension_scores"`
	OverallScore         float64                              `json:"overall_score"`
	Violations           []ValidationResult                   `json:"violations"` // 按 (rule_id, record_id) 排序并截断
	ViolationTotal       int                                  `json:"violation_total"`
	RuleCountByDimension map[QualityDimension]int             `json:"rule_count_by_dimension"`
	EmptyDataset         bool                                 `json:"empty_dataset"` // row_count == 0，评分 1.0 为空置完美
	EmptyRuleSet         bool                                 `json:"empty_rule_set"`
}

// CleansingFix 清洗修复统计
type CleansingFix struct {
	Field string `json:"field"`
	Kind  string `json:"kind"` // trim, currency_normalize, email_normalize, flag_normalize, date_order, dedup
	Count int    `json:"count"`
}

// CleansingResult 数据清洗结果
type CleansingResult struct {
	Records      []Record       `json:"records"`
	DroppedRows  int            `json:"dropped_rows"`
	Fixes        []CleansingFix `json:"fixes"`
	OriginalRows int            `json:"original_rows"`
}

// QualityAssessment 质量评估执行记录（持久化模型）
type QualityAssessment struct {
	ID             string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	DatasetID      string    `gorm:"type:varchar(100);not null;index" json:"dataset_id"`
	TriggerType    string    `gorm:"type:varchar(20);not null" json:"trigger_type"` // manual, scheduled
	RowCount       int       `json:"row_count"`
	RuleCount      int       `json:"rule_count"`
	OverallScore   float64   `json:"overall_score"`
	ViolationTotal int       `json:"violation_total"`
	Report         JSONB     `gorm:"type:jsonb" json:"report"` // 完整 QualityReport
	Duration       int64     `json:"duration"`                 // 评估耗时，毫秒
	CreatedAt      time.Time `json:"created_at"`
}

// TableName 指定表名
func (QualityAssessment) TableName() string {
	return "quality_assessments"
}

// BeforeCreate 创建前钩子
func (q *QualityAssessment) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// DatasetSnapshot 数据集快照（持久化模型），供定时评估使用
type DatasetSnapshot struct {
	ID        string         `gorm:"type:varchar(100);primaryKey" json:"id"` // 数据集ID
	Name      string         `gorm:"type:varchar(200)" json:"name"`
	Records   JSONBArray     `gorm:"type:jsonb" json:"records"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
	RowCount  int            `json:"row_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (DatasetSnapshot) TableName() string {
	return "dataset_snapshots"
}

// ScheduledAssessment 定时质量评估任务（持久化模型）
type ScheduledAssessment struct {
	ID        string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(200);not null" json:"name"`
	DatasetID string     `gorm:"type:varchar(100);not null;index" json:"dataset_id"`
	CronExpr  string     `gorm:"type:varchar(100);not null" json:"cron_expr"`
	RuleSet   JSONB      `gorm:"type:jsonb" json:"rule_set"` // {"rules": [RuleConfig...]}，空则使用内置规则集
	IsEnabled bool       `gorm:"default:true" json:"is_enabled"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastScore float64    `json:"last_score"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (ScheduledAssessment) TableName() string {
	return "scheduled_assessments"
}

// BeforeCreate 创建前钩子
func (s *ScheduledAssessment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
