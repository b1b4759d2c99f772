package layout

import "go.uber.org/zap"

// Option 配置 Manager 的依赖，例如位置表与日志。
type Option func(*Manager)

// WithTable 替换默认的内置位置表。
func WithTable(t *Table) Option {
	return func(m *Manager) {
		if t != nil {
			m.table = t
		}
	}
}

// WithLogger 设置用于缺失锚点等诊断的日志器，默认不输出。
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}
