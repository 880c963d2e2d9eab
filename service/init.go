/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、模型迁移和质量引擎相关服务的装配
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保数据库和质量引擎正常启动后才提供API服务；Redis与Kafka为可选依赖
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/quality/, service/models/
 */

package service

import (
	"fmt"
	"log"
	"os"

	"dataquality-service/logger"
	"dataquality-service/service/cleanup"
	"dataquality-service/service/distributed_lock"
	"dataquality-service/service/models"
	"dataquality-service/service/monitoring"
	"dataquality-service/service/notification"
	"dataquality-service/service/quality"
	"dataquality-service/service/rate_limiter"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                 *gorm.DB
	GlobalQualityEngine *quality.QualityEngine
	GlobalScheduler    *quality.AssessmentScheduler
	GlobalPublisher    *notification.ReportPublisher
	GlobalMetrics      *monitoring.QualityMetrics
	GlobalRateLimiter  *rate_limiter.RedisRateLimiter
	GlobalCleanup      *cleanup.AssessmentCleanupService
)

func init() {
	logger.InitLogger()
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// runMigrations 执行模型迁移
func runMigrations() {
	err := DB.AutoMigrate(
		&models.QualityAssessment{},
		&models.DatasetSnapshot{},
		&models.ScheduledAssessment{},
	)
	if err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库迁移完成")
}

// initServices 装配质量引擎、指标收集器、事件发布器与定时调度器
func initServices() {
	GlobalMetrics = monitoring.NewQualityMetrics(nil)
	GlobalPublisher = notification.NewReportPublisherFromEnv()

	GlobalQualityEngine = quality.NewQualityEngine(DB)
	GlobalQualityEngine.SetMetricsRecorder(GlobalMetrics)
	if GlobalPublisher.Enabled() {
		GlobalQualityEngine.SetPublisher(GlobalPublisher)
	}

	GlobalScheduler = quality.NewAssessmentScheduler(DB, GlobalQualityEngine)

	// Redis可用时启用分布式锁和接口限流，多实例部署防止定时任务重复执行
	if os.Getenv("REDIS_HOST") != "" {
		if lock, err := distributed_lock.NewRedisLock(); err != nil {
			log.Printf("Redis分布式锁初始化失败，降级为单实例调度: %v", err)
		} else {
			GlobalScheduler.SetDistributedLock(lock)
		}

		if limiter, err := rate_limiter.NewRedisRateLimiter(); err != nil {
			log.Printf("Redis限流器初始化失败，评估接口免限流运行: %v", err)
		} else {
			GlobalRateLimiter = limiter
		}
	}

	if err := GlobalScheduler.Start(); err != nil {
		log.Fatalf("定时评估调度器启动失败: %v", err)
	}

	GlobalCleanup = cleanup.NewAssessmentCleanupService(DB)
	if err := GlobalCleanup.StartScheduledCleanup(); err != nil {
		log.Printf("评估清理调度器启动失败: %v", err)
	}

	log.Println("质量引擎服务初始化完成")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
