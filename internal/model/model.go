package model

// SubmissionStatus 单次提交的归一化状态
type SubmissionStatus int

const (
	// StatusSuccess 提交成功，API确认受理
	StatusSuccess SubmissionStatus = iota
	// StatusSuccessNoTaskID 请求被接受，但响应里没有task_id，无法确认排队情况
	StatusSuccessNoTaskID
	// StatusFailed 提交失败
	StatusFailed
)

// String 返回写入结果CSV的状态文本
func (s SubmissionStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSuccessNoTaskID:
		return "success_no_task_id"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubmissionOutcome 单个URL在单个搜索引擎的提交结果
type SubmissionOutcome struct {
	Status      SubmissionStatus
	ErrorDetail string // 失败原因，成功时为空
}

// URLEntry 表示输入CSV里的一行：数据行号 + URL（已去除首尾空白，可能为空）
type URLEntry struct {
	Line int    // 数据行号，从1开始，用于日志定位
	URL  string // 待重新索引的URL
}

// ResultRow 是两个搜索引擎提交结果归一化后的输出行
type ResultRow struct {
	URL    string
	Yandex SubmissionOutcome
	Google SubmissionOutcome
}
