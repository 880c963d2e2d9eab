/*
 * @module api/controllers/dataset_controller
 * @description 数据集快照控制器，管理用于质量评估的数据集快照的增删查
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow HTTP请求处理流程
 * @rules 快照以数据集ID为主键，重复上传整体覆盖
 * @dependencies gorm.io/gorm, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/models/quality_models.go
 */

package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dataquality-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// DatasetController 数据集快照控制器
type DatasetController struct {
	db *gorm.DB
}

// NewDatasetController 创建数据集快照控制器实例
func NewDatasetController(db *gorm.DB) *DatasetController {
	return &DatasetController{db: db}
}

// UpsertSnapshotRequest 数据集快照上传请求
type UpsertSnapshotRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name,omitempty"`
	Records []models.Record `json:"records"`
	Tags    []string        `json:"tags,omitempty"`
}

// UpsertSnapshot 上传或覆盖数据集快照
// @Summary 上传数据集快照
// @Description 保存数据集记录供手动或定时质量评估使用，相同ID整体覆盖
// @Tags 数据集
// @Accept json
// @Produce json
// @Param request body UpsertSnapshotRequest true "数据集快照"
// @Success 200 {object} APIResponse{data=models.DatasetSnapshot} "保存成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /datasets [put]
func (c *DatasetController) UpsertSnapshot(w http.ResponseWriter, r *http.Request) {
	var req UpsertSnapshotRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if req.ID == "" {
		render.JSON(w, r, BadRequestResponse("数据集ID不能为空", nil))
		return
	}

	rows := make(models.JSONBArray, 0, len(req.Records))
	for _, record := range req.Records {
		rows = append(rows, map[string]interface{}(record))
	}

	name := req.Name
	if name == "" {
		name = req.ID
	}

	snapshot := models.DatasetSnapshot{
		ID:        req.ID,
		Name:      name,
		Records:   rows,
		Tags:      req.Tags,
		RowCount:  len(req.Records),
		UpdatedAt: time.Now(),
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", req.ID).Delete(&models.DatasetSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Create(&snapshot).Error
	})
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("保存数据集快照失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("数据集快照保存成功", snapshot))
}

// GetSnapshots 获取数据集快照列表
// @Summary 获取数据集快照列表
// @Description 分页获取已保存的数据集快照，不返回记录内容
// @Tags 数据集
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.DatasetSnapshot} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /datasets [get]
func (c *DatasetController) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	var total int64
	if err := c.db.Model(&models.DatasetSnapshot{}).Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("获取数据集快照列表失败", err))
		return
	}

	var snapshots []models.DatasetSnapshot
	offset := (page - 1) * size
	err := c.db.Select("id", "name", "tags", "row_count", "created_at", "updated_at").
		Order("updated_at DESC").Offset(offset).Limit(size).Find(&snapshots).Error
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取数据集快照列表失败", err))
		return
	}

	render.JSON(w, r, PagedResponse("获取数据集快照列表成功", snapshots, total, page, size))
}

// GetSnapshot 获取数据集快照详情
// @Summary 获取数据集快照详情
// @Description 根据数据集ID获取快照及其全部记录
// @Tags 数据集
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} APIResponse{data=models.DatasetSnapshot} "获取成功"
// @Failure 404 {object} APIResponse "快照不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /datasets/{id} [get]
func (c *DatasetController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var snapshot models.DatasetSnapshot
	if err := c.db.First(&snapshot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("数据集快照不存在"))
			return
		}
		render.JSON(w, r, InternalErrorResponse("获取数据集快照失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("获取数据集快照成功", snapshot))
}

// DeleteSnapshot 删除数据集快照
// @Summary 删除数据集快照
// @Description 根据数据集ID删除快照
// @Tags 数据集
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /datasets/{id} [delete]
func (c *DatasetController) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.db.Where("id = ?", id).Delete(&models.DatasetSnapshot{}).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("删除数据集快照失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("数据集快照删除成功", nil))
}
