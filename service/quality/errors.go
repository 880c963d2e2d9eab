/*
 * @module service/quality/errors
 * @description 质量引擎错误类型定义，包含规则配置错误和规则ID冲突错误
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 规则注册/首次执行时触发，配置错误立即终止评估
 * @rules 配置类错误必须指明规则ID和出错参数名，记录级数据问题永不作为错误抛出
 * @dependencies fmt
 * @refs registry.go, validator.go
 */

package quality

import "fmt"

// RuleConfigurationError 规则配置错误，规则定义缺失或非法参数时在注册阶段抛出。
// 配置错误是致命的，带病规则参与评分会让结果失去意义。
type RuleConfigurationError struct {
	RuleID    string
	Parameter string
	Reason    string
}

func (e *RuleConfigurationError) Error() string {
	return fmt.Sprintf("规则 %s 配置错误: 参数 %s %s", e.RuleID, e.Parameter, e.Reason)
}

func newConfigError(ruleID, parameter, reason string) *RuleConfigurationError {
	return &RuleConfigurationError{RuleID: ruleID, Parameter: parameter, Reason: reason}
}

// DuplicateRuleError 规则ID冲突错误，仅对本次注册调用致命
type DuplicateRuleError struct {
	RuleID string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("规则 %s 已存在，规则ID不允许重复", e.RuleID)
}
