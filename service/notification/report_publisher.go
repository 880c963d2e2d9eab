/*
 * @module service/notification/report_publisher
 * @description 质量报告事件发布器，将完成的评估报告发送到 Kafka 供监控与看板消费
 * @architecture 适配器模式 - 封装第三方Kafka客户端，提供统一的发布接口
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 评估完成 -> 报告序列化 -> 消息发送 -> 外部消费方接收
 * @rules 未配置 broker 时发布器处于禁用状态，发布失败不影响评估结果
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/quality/engine.go
 */

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"dataquality-service/service/models"

	"github.com/segmentio/kafka-go"
)

// ReportPublisher Kafka质量报告事件发布器
type ReportPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewReportPublisherFromEnv 从环境变量创建发布器。
// KAFKA_BROKERS 未配置时返回禁用状态的发布器。
func NewReportPublisherFromEnv() *ReportPublisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		slog.Info("未配置 KAFKA_BROKERS，质量报告事件外发已禁用")
		return &ReportPublisher{}
	}

	topic := os.Getenv("KAFKA_QUALITY_TOPIC")
	if topic == "" {
		topic = "quality-reports"
	}

	return NewReportPublisher(strings.Split(brokers, ","), topic)
}

// NewReportPublisher 创建指定 broker 和 topic 的发布器
func NewReportPublisher(brokers []string, topic string) *ReportPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}
	slog.Info("质量报告事件发布器已连接", "brokers", brokers, "topic", topic)
	return &ReportPublisher{writer: writer, topic: topic}
}

// Enabled 发布器是否可用
func (p *ReportPublisher) Enabled() bool {
	return p.writer != nil
}

// PublishReport 发布质量报告事件，消息键为数据集ID
func (p *ReportPublisher) PublishReport(ctx context.Context, report *models.QualityReport) error {
	if p.writer == nil {
		return nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("质量报告序列化失败: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(report.DatasetID),
		Value: payload,
		Time:  report.GeneratedAt,
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("发送质量报告事件失败: %w", err)
	}

	slog.Debug("质量报告事件已发送", "dataset_id", report.DatasetID, "topic", p.topic)
	return nil
}

// Close 关闭发布器
func (p *ReportPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
