/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers/
 */

package api

import (
	"dataquality-service/api/controllers"
	apimiddleware "dataquality-service/api/middleware"
	"dataquality-service/service"
	"dataquality-service/service/rate_limiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 数据质量评估
	r.Route("/data-quality", func(r chi.Router) {
		dataQualityController := controllers.NewDataQualityController(service.GlobalQualityEngine, service.DB)

		// 质量评估为计算密集操作，按窗口限流
		r.With(apimiddleware.AssessRateLimit(service.GlobalRateLimiter, rate_limiter.RateLimitRule{
			Scope:       "assess",
			TimeWindow:  60,
			MaxRequests: 30,
		})).Post("/assess", dataQualityController.Assess)
		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", dataQualityController.GetAssessments)
			r.Get("/{id}", dataQualityController.GetAssessment)
		})

		// 数据清洗
		r.Post("/cleanse", dataQualityController.Cleanse)

		// 合成测试数据
		r.Post("/synthetic", dataQualityController.GenerateSynthetic)

		// 质量规则
		r.Route("/rules", func(r chi.Router) {
			r.Get("/builtin", dataQualityController.GetBuiltinRules)
			r.Post("/validate", dataQualityController.ValidateRules)
		})
	})

	// 数据集快照管理
	r.Route("/datasets", func(r chi.Router) {
		datasetController := controllers.NewDatasetController(service.DB)

		r.Put("/", datasetController.UpsertSnapshot)
		r.Get("/", datasetController.GetSnapshots)
		r.Get("/{id}", datasetController.GetSnapshot)
		r.Delete("/{id}", datasetController.DeleteSnapshot)
	})

	// 定时质量评估任务管理
	r.Route("/schedules", func(r chi.Router) {
		scheduleController := controllers.NewScheduleController(service.GlobalScheduler, service.DB)

		r.Post("/", scheduleController.CreateSchedule)
		r.Get("/", scheduleController.GetSchedules)
		r.Delete("/{id}", scheduleController.DeleteSchedule)
	})
}
