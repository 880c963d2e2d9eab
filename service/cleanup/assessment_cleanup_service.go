/*
 * @module service/cleanup/assessment_cleanup_service
 * @description 评估历史清理服务，负责定期清理过期的质量评估记录
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 定时触发 -> 读取保留天数 -> 执行清理 -> 记录结果
 * @rules 确保历史清理不影响评估服务正常运行
 * @dependencies gorm.io/gorm, github.com/robfig/cron/v3, github.com/spf13/cast
 * @refs service/models
 */

package cleanup

import (
	"context"
	"dataquality-service/service/models"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// DefaultAssessmentRetentionDays 评估记录默认保留天数
const DefaultAssessmentRetentionDays = 90

// AssessmentCleanupService 评估历史清理服务
type AssessmentCleanupService struct {
	db      *gorm.DB
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// NewAssessmentCleanupService 创建评估历史清理服务实例
func NewAssessmentCleanupService(db *gorm.DB) *AssessmentCleanupService {
	ctx, cancel := context.WithCancel(context.Background())

	return &AssessmentCleanupService{
		db:      db,
		cron:    cron.New(cron.WithSeconds()),
		ctx:     ctx,
		cancel:  cancel,
		started: false,
	}
}

// retentionDays 读取保留天数配置，非法值回退默认
func (s *AssessmentCleanupService) retentionDays() int {
	value := os.Getenv("ASSESSMENT_RETENTION_DAYS")
	if value == "" {
		return DefaultAssessmentRetentionDays
	}

	days := cast.ToInt(value)
	if days <= 0 {
		slog.Warn("评估记录保留天数配置非法，使用默认值", "value", value, "default", DefaultAssessmentRetentionDays)
		return DefaultAssessmentRetentionDays
	}

	return days
}

// CleanupExpiredAssessments 清理所有过期评估记录
func (s *AssessmentCleanupService) CleanupExpiredAssessments(ctx context.Context) error {
	slog.Info("开始清理过期评估记录")
	startTime := time.Now()

	retentionDays := s.retentionDays()

	deleted, err := s.CleanupAssessments(ctx, retentionDays)
	if err != nil {
		slog.Error("清理评估记录失败", "error", err)
		return err
	}

	duration := time.Since(startTime)
	slog.Info("评估记录清理完成",
		"deleted_count", deleted,
		"retention_days", retentionDays,
		"duration_ms", duration.Milliseconds())

	return nil
}

// CleanupAssessments 删除早于保留期的评估记录
func (s *AssessmentCleanupService) CleanupAssessments(ctx context.Context, retentionDays int) (int64, error) {
	// 计算截止日期
	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	slog.Debug("清理评估记录", "cutoff_date", cutoffDate.Format("2006-01-02 15:04:05"), "retention_days", retentionDays)

	// 执行删除操作
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoffDate).Delete(&models.QualityAssessment{})

	if result.Error != nil {
		return 0, fmt.Errorf("删除评估记录失败: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// StartScheduledCleanup 启动定时清理任务
func (s *AssessmentCleanupService) StartScheduledCleanup() error {
	if s.started {
		return fmt.Errorf("评估清理调度器已经启动")
	}

	slog.Info("启动评估清理调度器")

	// 每天凌晨2点执行清理任务
	// Cron表达式：秒 分 时 日 月 周
	// 0 0 2 * * * 表示每天凌晨2点
	_, err := s.cron.AddFunc("0 0 2 * * *", func() {
		slog.Info("开始执行定时评估清理任务")

		if err := s.CleanupExpiredAssessments(s.ctx); err != nil {
			slog.Error("定时评估清理任务失败", "error", err)
		}
	})

	if err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	// 启动调度器
	s.cron.Start()
	s.started = true

	slog.Info("评估清理调度器启动成功，将于每天凌晨2点执行清理任务")

	return nil
}

// StopScheduledCleanup 停止定时清理任务
func (s *AssessmentCleanupService) StopScheduledCleanup() {
	if !s.started {
		return
	}

	slog.Info("停止评估清理调度器")

	s.cancel()

	if s.cron != nil {
		s.cron.Stop()
	}

	s.started = false

	slog.Info("评估清理调度器已停止")
}
