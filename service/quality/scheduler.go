/*
 * @module service/quality/scheduler
 * @description 定时质量评估调度器，按 cron 表达式对已登记的数据集快照重复执行评估
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 启动调度器 -> 加载定时任务 -> cron 触发 -> 分布式锁防重 -> 执行评估 -> 回写运行状态
 * @rules 多实例部署时同一任务同一时刻只允许一个实例执行；单个任务失败不影响其他任务
 * @dependencies github.com/robfig/cron/v3, dataquality-service/service/distributed_lock
 * @refs engine.go, service/models/quality_models.go
 */

package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dataquality-service/service/distributed_lock"
	"dataquality-service/service/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// AssessmentScheduler 定时质量评估调度器
type AssessmentScheduler struct {
	db      *gorm.DB
	engine  *QualityEngine
	cron    *cron.Cron
	entries map[string]cron.EntryID
	lock    distributed_lock.DistributedLock
	mutex   sync.Mutex
	started bool
}

// NewAssessmentScheduler 创建定时评估调度器实例
func NewAssessmentScheduler(db *gorm.DB, engine *QualityEngine) *AssessmentScheduler {
	return &AssessmentScheduler{
		db:      db,
		engine:  engine,
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
	}
}

// SetDistributedLock 设置分布式锁，多实例部署时防止任务重复执行
func (s *AssessmentScheduler) SetDistributedLock(lock distributed_lock.DistributedLock) {
	s.lock = lock
	if lock != nil {
		slog.Info("定时质量评估调度器已启用分布式锁")
	}
}

// Start 启动调度器并加载已启用的定时任务
func (s *AssessmentScheduler) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started {
		return fmt.Errorf("调度器已经启动")
	}

	var schedules []models.ScheduledAssessment
	if err := s.db.Where("is_enabled = ?", true).Find(&schedules).Error; err != nil {
		return fmt.Errorf("加载定时评估任务失败: %w", err)
	}

	for i := range schedules {
		if err := s.register(&schedules[i]); err != nil {
			slog.Error("注册定时评估任务失败", "schedule_id", schedules[i].ID, "error", err)
		}
	}

	s.cron.Start()
	s.started = true
	slog.Info("定时质量评估调度器启动完成", "schedule_count", len(s.entries))
	return nil
}

// Stop 停止调度器
func (s *AssessmentScheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started {
		return
	}
	s.cron.Stop()
	s.started = false
	slog.Info("定时质量评估调度器已停止")
}

// AddSchedule 新增定时评估任务并立即纳入调度
func (s *AssessmentScheduler) AddSchedule(schedule *models.ScheduledAssessment) error {
	if schedule.CronExpr == "" {
		return fmt.Errorf("定时任务 %s 缺少 cron 表达式", schedule.Name)
	}
	if _, err := cron.ParseStandard(schedule.CronExpr); err != nil {
		return fmt.Errorf("定时任务 %s 的 cron 表达式非法: %w", schedule.Name, err)
	}

	if err := s.db.Create(schedule).Error; err != nil {
		return fmt.Errorf("保存定时评估任务失败: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !schedule.IsEnabled {
		return nil
	}
	return s.register(schedule)
}

// RemoveSchedule 删除定时评估任务并从调度中摘除
func (s *AssessmentScheduler) RemoveSchedule(scheduleID string) error {
	if err := s.db.Delete(&models.ScheduledAssessment{}, "id = ?", scheduleID).Error; err != nil {
		return fmt.Errorf("删除定时评估任务失败: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if entryID, ok := s.entries[scheduleID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, scheduleID)
	}
	return nil
}

// register 将任务注册到 cron，调用方需持有锁
func (s *AssessmentScheduler) register(schedule *models.ScheduledAssessment) error {
	scheduleID := schedule.ID
	entryID, err := s.cron.AddFunc(schedule.CronExpr, func() {
		s.runSchedule(scheduleID)
	})
	if err != nil {
		return err
	}
	s.entries[scheduleID] = entryID
	return nil
}

// runSchedule 执行一次定时评估，带分布式锁防重
func (s *AssessmentScheduler) runSchedule(scheduleID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if s.lock != nil {
		lockKey := "quality:schedule:" + scheduleID
		acquired, err := s.lock.TryLock(ctx, lockKey, 10*time.Minute)
		if err != nil {
			slog.Error("获取调度锁失败", "schedule_id", scheduleID, "error", err)
			return
		}
		if !acquired {
			slog.Debug("任务已被其他实例执行，跳过", "schedule_id", scheduleID)
			return
		}
		defer func() {
			if err := s.lock.Unlock(ctx, lockKey); err != nil {
				slog.Error("释放调度锁失败", "schedule_id", scheduleID, "error", err)
			}
		}()
	}

	var schedule models.ScheduledAssessment
	if err := s.db.First(&schedule, "id = ?", scheduleID).Error; err != nil {
		slog.Error("定时评估任务不存在", "schedule_id", scheduleID, "error", err)
		return
	}
	if !schedule.IsEnabled {
		return
	}

	var snapshot models.DatasetSnapshot
	if err := s.db.First(&snapshot, "id = ?", schedule.DatasetID).Error; err != nil {
		slog.Error("定时评估的数据集快照不存在", "schedule_id", scheduleID,
			"dataset_id", schedule.DatasetID, "error", err)
		return
	}

	records := make([]models.Record, len(snapshot.Records))
	for i, raw := range snapshot.Records {
		records[i] = models.Record(raw)
	}
	dataset := &models.Dataset{ID: snapshot.ID, Records: records}

	opts := AssessmentOptions{TriggerType: "scheduled"}
	if rules, err := decodeScheduleRules(schedule.RuleSet); err != nil {
		slog.Error("定时评估规则集解析失败，任务中止", "schedule_id", scheduleID, "error", err)
		return
	} else {
		opts.Rules = rules
	}

	result, err := s.engine.Assess(ctx, dataset, opts)
	if err != nil {
		slog.Error("定时质量评估执行失败", "schedule_id", scheduleID, "error", err)
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_run_at": &now,
		"last_score":  result.Report.OverallScore,
	}
	if err := s.db.Model(&models.ScheduledAssessment{}).
		Where("id = ?", scheduleID).Updates(updates).Error; err != nil {
		slog.Error("回写定时任务运行状态失败", "schedule_id", scheduleID, "error", err)
	}
}

// decodeScheduleRules 从任务的 RuleSet JSONB 中解析规则配置，空则返回 nil（使用内置规则集）
func decodeScheduleRules(ruleSet models.JSONB) ([]models.RuleConfig, error) {
	if ruleSet == nil {
		return nil, nil
	}
	rawRules, ok := ruleSet["rules"]
	if !ok {
		return nil, nil
	}

	raw, err := json.Marshal(rawRules)
	if err != nil {
		return nil, err
	}
	var configs []models.RuleConfig
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}
