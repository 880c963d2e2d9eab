/*
 * @module api/controllers/schedule_controller
 * @description 定时质量评估控制器，管理按Cron表达式周期执行的质量评估任务
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow HTTP请求处理流程
 * @rules Cron表达式在创建时校验，非法表达式返回400；删除任务同时注销定时器
 * @dependencies dataquality-service/service/quality, github.com/go-chi/chi/v5
 * @refs service/quality/scheduler.go, service/models/quality_models.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"dataquality-service/service/models"
	"dataquality-service/service/quality"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// ScheduleController 定时质量评估控制器
type ScheduleController struct {
	scheduler *quality.AssessmentScheduler
	db        *gorm.DB
}

// NewScheduleController 创建定时评估控制器实例
func NewScheduleController(scheduler *quality.AssessmentScheduler, db *gorm.DB) *ScheduleController {
	return &ScheduleController{
		scheduler: scheduler,
		db:        db,
	}
}

// CreateScheduleRequest 定时评估任务创建请求
type CreateScheduleRequest struct {
	Name      string              `json:"name"`
	DatasetID string              `json:"dataset_id"`
	CronExpr  string              `json:"cron_expr"`
	Rules     []models.RuleConfig `json:"rules,omitempty"` // 为空时使用内置规则集
	IsEnabled *bool               `json:"is_enabled,omitempty"`
}

// CreateSchedule 创建定时评估任务
// @Summary 创建定时质量评估任务
// @Description 按标准Cron表达式周期性地对数据集快照执行质量评估
// @Tags 定时评估
// @Accept json
// @Produce json
// @Param request body CreateScheduleRequest true "定时任务信息"
// @Success 200 {object} APIResponse{data=models.ScheduledAssessment} "创建成功"
// @Failure 400 {object} APIResponse "请求参数或Cron表达式错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /schedules [post]
func (c *ScheduleController) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if req.Name == "" || req.DatasetID == "" || req.CronExpr == "" {
		render.JSON(w, r, BadRequestResponse("名称、数据集ID和Cron表达式不能为空", nil))
		return
	}

	if len(req.Rules) > 0 {
		registry := quality.NewRuleRegistry()
		if err := registry.RegisterConfigs(req.Rules); err != nil {
			render.JSON(w, r, BadRequestResponse("质量规则配置无效", err))
			return
		}
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	schedule := &models.ScheduledAssessment{
		Name:      req.Name,
		DatasetID: req.DatasetID,
		CronExpr:  req.CronExpr,
		IsEnabled: enabled,
	}
	if len(req.Rules) > 0 {
		rules := make([]interface{}, 0, len(req.Rules))
		for _, rule := range req.Rules {
			rules = append(rules, rule)
		}
		schedule.RuleSet = models.JSONB{"rules": rules}
	}

	if err := c.scheduler.AddSchedule(schedule); err != nil {
		render.JSON(w, r, BadRequestResponse("创建定时评估任务失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("定时评估任务创建成功", schedule))
}

// GetSchedules 获取定时评估任务列表
// @Summary 获取定时评估任务列表
// @Description 分页获取定时质量评估任务及其最近执行情况
// @Tags 定时评估
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.ScheduledAssessment} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /schedules [get]
func (c *ScheduleController) GetSchedules(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	var total int64
	if err := c.db.Model(&models.ScheduledAssessment{}).Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("获取定时评估任务列表失败", err))
		return
	}

	var schedules []models.ScheduledAssessment
	offset := (page - 1) * size
	if err := c.db.Order("created_at DESC").Offset(offset).Limit(size).Find(&schedules).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("获取定时评估任务列表失败", err))
		return
	}

	render.JSON(w, r, PagedResponse("获取定时评估任务列表成功", schedules, total, page, size))
}

// DeleteSchedule 删除定时评估任务
// @Summary 删除定时评估任务
// @Description 删除任务并注销对应的定时器
// @Tags 定时评估
// @Produce json
// @Param id path string true "任务ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /schedules/{id} [delete]
func (c *ScheduleController) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.scheduler.RemoveSchedule(id); err != nil {
		render.JSON(w, r, InternalErrorResponse("删除定时评估任务失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("定时评估任务删除成功", nil))
}
