/*
 * @module api/controllers/data_quality_controller
 * @description 数据质量控制器，提供质量评估、数据清洗、合成数据生成与内置规则查询功能
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式，规则配置错误返回400，数据问题不报错而体现在评分中
 * @dependencies dataquality-service/service/quality, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/models/quality_models.go, service/quality/engine.go
 */

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"dataquality-service/service/models"
	"dataquality-service/service/quality"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// DataQualityController 数据质量控制器
type DataQualityController struct {
	engine *quality.QualityEngine
	db     *gorm.DB
}

// NewDataQualityController 创建数据质量控制器实例
func NewDataQualityController(engine *quality.QualityEngine, db *gorm.DB) *DataQualityController {
	return &DataQualityController{
		engine: engine,
		db:     db,
	}
}

// AssessRequest 质量评估请求
type AssessRequest struct {
	DatasetID string                    `json:"dataset_id"`
	Records   []models.Record           `json:"records,omitempty"` // 为空时从数据集快照读取
	Options   quality.AssessmentOptions `json:"options"`
}

// === 质量评估 ===

// Assess 执行数据质量评估
// @Summary 执行数据质量评估
// @Description 对指定数据集执行规则校验并生成五维质量评分报告，可选评估前清洗
// @Tags 数据质量
// @Accept json
// @Produce json
// @Param request body AssessRequest true "评估请求"
// @Success 200 {object} APIResponse{data=quality.AssessmentResult} "评估成功"
// @Failure 400 {object} APIResponse "请求参数或规则配置错误"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /data-quality/assess [post]
func (c *DataQualityController) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if req.DatasetID == "" {
		render.JSON(w, r, BadRequestResponse("数据集ID不能为空", nil))
		return
	}

	records := req.Records
	if records == nil {
		snapshot, err := c.loadSnapshot(req.DatasetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				render.JSON(w, r, NotFoundResponse("数据集快照不存在"))
				return
			}
			render.JSON(w, r, InternalErrorResponse("读取数据集快照失败", err))
			return
		}
		records = snapshot
	}

	dataset := &models.Dataset{ID: req.DatasetID, Records: records}
	result, err := c.engine.Assess(r.Context(), dataset, req.Options)
	if err != nil {
		var configErr *quality.RuleConfigurationError
		var dupErr *quality.DuplicateRuleError
		if errors.As(err, &configErr) || errors.As(err, &dupErr) {
			render.JSON(w, r, BadRequestResponse("质量规则配置无效", err))
			return
		}
		render.JSON(w, r, InternalErrorResponse("质量评估执行失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("质量评估完成", result))
}

// GetAssessments 获取质量评估历史列表
// @Summary 获取质量评估历史
// @Description 分页获取质量评估执行记录，支持按数据集筛选
// @Tags 数据质量
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param dataset_id query string false "数据集ID"
// @Success 200 {object} PaginatedResponse{data=[]models.QualityAssessment} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /data-quality/assessments [get]
func (c *DataQualityController) GetAssessments(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}
	datasetID := r.URL.Query().Get("dataset_id")

	query := c.db.Model(&models.QualityAssessment{})
	if datasetID != "" {
		query = query.Where("dataset_id = ?", datasetID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("获取质量评估历史失败", err))
		return
	}

	var assessments []models.QualityAssessment
	offset := (page - 1) * size
	if err := query.Order("created_at DESC").Offset(offset).Limit(size).Find(&assessments).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("获取质量评估历史失败", err))
		return
	}

	render.JSON(w, r, PagedResponse("获取质量评估历史成功", assessments, total, page, size))
}

// GetAssessment 获取质量评估详情
// @Summary 获取质量评估详情
// @Description 根据评估ID获取完整的质量评估报告
// @Tags 数据质量
// @Produce json
// @Param id path string true "评估ID"
// @Success 200 {object} APIResponse{data=models.QualityAssessment} "获取成功"
// @Failure 404 {object} APIResponse "评估记录不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /data-quality/assessments/{id} [get]
func (c *DataQualityController) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var assessment models.QualityAssessment
	if err := c.db.First(&assessment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("评估记录不存在"))
			return
		}
		render.JSON(w, r, InternalErrorResponse("获取质量评估详情失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("获取质量评估详情成功", assessment))
}

// === 数据清洗 ===

// CleanseRequest 数据清洗请求
type CleanseRequest struct {
	Records []models.Record `json:"records"`
}

// Cleanse 执行数据清洗
// @Summary 执行数据清洗
// @Description 对合同台账记录执行标准化清洗，返回清洗后的记录和逐项修复统计
// @Tags 数据质量
// @Accept json
// @Produce json
// @Param request body CleanseRequest true "清洗请求"
// @Success 200 {object} APIResponse{data=models.CleansingResult} "清洗成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /data-quality/cleanse [post]
func (c *DataQualityController) Cleanse(w http.ResponseWriter, r *http.Request) {
	var req CleanseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	cleanser := quality.NewCleanser()
	result := cleanser.Cleanse(req.Records)

	render.JSON(w, r, SuccessResponse("数据清洗完成", result))
}

// === 合成数据 ===

// SyntheticRequest 合成数据生成请求
type SyntheticRequest struct {
	DatasetID    string                  `json:"dataset_id"`
	Config       quality.SyntheticConfig `json:"config"`
	SaveSnapshot bool                    `json:"save_snapshot,omitempty"` // 生成后写入数据集快照
}

// GenerateSynthetic 生成合成测试数据
// @Summary 生成合成测试数据
// @Description 基于固定随机种子生成带受控缺陷的合同台账数据集，相同配置产出完全一致
// @Tags 数据质量
// @Accept json
// @Produce json
// @Param request body SyntheticRequest true "生成请求"
// @Success 200 {object} APIResponse{data=models.Dataset} "生成成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /data-quality/synthetic [post]
func (c *DataQualityController) GenerateSynthetic(w http.ResponseWriter, r *http.Request) {
	var req SyntheticRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if req.DatasetID == "" {
		render.JSON(w, r, BadRequestResponse("数据集ID不能为空", nil))
		return
	}

	config := req.Config
	if config.RowCount <= 0 {
		config = quality.DefaultSyntheticConfig()
	}

	generator := quality.NewSyntheticGenerator(config)
	dataset := generator.Generate(req.DatasetID)

	if req.SaveSnapshot && c.db != nil {
		if err := c.saveSnapshot(dataset, "synthetic"); err != nil {
			render.JSON(w, r, InternalErrorResponse("保存数据集快照失败", err))
			return
		}
	}

	render.JSON(w, r, SuccessResponse("合成数据生成成功", dataset))
}

// === 质量规则 ===

// GetBuiltinRules 获取内置规则集
// @Summary 获取内置合同台账规则集
// @Description 返回覆盖完整性、有效性、一致性、时效性和唯一性五个维度的内置规则配置
// @Tags 数据质量
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.RuleConfig} "获取成功"
// @Router /data-quality/rules/builtin [get]
func (c *DataQualityController) GetBuiltinRules(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("获取内置规则集成功", quality.ContractRegisterRuleSet()))
}

// ValidateRulesRequest 规则校验请求
type ValidateRulesRequest struct {
	Rules []models.RuleConfig `json:"rules"`
}

// ValidateRules 校验规则配置
// @Summary 校验质量规则配置
// @Description 检查规则集能否通过注册，用于评估前预检规则配置
// @Tags 数据质量
// @Accept json
// @Produce json
// @Param request body ValidateRulesRequest true "规则校验请求"
// @Success 200 {object} APIResponse "规则配置有效"
// @Failure 400 {object} APIResponse "规则配置无效"
// @Router /data-quality/rules/validate [post]
func (c *DataQualityController) ValidateRules(w http.ResponseWriter, r *http.Request) {
	var req ValidateRulesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	registry := quality.NewRuleRegistry()
	if err := registry.RegisterConfigs(req.Rules); err != nil {
		render.JSON(w, r, BadRequestResponse("质量规则配置无效", err))
		return
	}

	render.JSON(w, r, SuccessResponse("质量规则配置有效", map[string]int{"rule_count": registry.Len()}))
}

// loadSnapshot 从数据集快照读取记录
func (c *DataQualityController) loadSnapshot(datasetID string) ([]models.Record, error) {
	var snapshot models.DatasetSnapshot
	if err := c.db.First(&snapshot, "id = ?", datasetID).Error; err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(snapshot.Records))
	for _, row := range snapshot.Records {
		records = append(records, models.Record(row))
	}
	return records, nil
}

// saveSnapshot 将数据集写入快照表，已存在则整体覆盖
func (c *DataQualityController) saveSnapshot(dataset *models.Dataset, tag string) error {
	rows := make(models.JSONBArray, 0, len(dataset.Records))
	for _, record := range dataset.Records {
		rows = append(rows, map[string]interface{}(record))
	}

	snapshot := models.DatasetSnapshot{
		ID:       dataset.ID,
		Name:     dataset.ID,
		Records:  rows,
		Tags:     []string{tag},
		RowCount: len(dataset.Records),
	}

	if err := c.db.Where("id = ?", dataset.ID).Delete(&models.DatasetSnapshot{}).Error; err != nil {
		return err
	}
	return c.db.Create(&snapshot).Error
}
