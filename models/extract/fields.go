// Package extract 把一句中文出行描述解析为结构化的行程字段。
// 远程大模型优先，失败时整体回退到本地规则提取。
package extract

// Source 字段来源
type Source string

const (
	SourceRemote Source = "remote" // 远程大模型
	SourceLocal  Source = "local"  // 本地规则
)

// 字段名，同时用作 JSON key 与指标标签
const (
	FieldDestination = "destination"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldHeadCount   = "head_count"
	FieldBudget      = "budget"
	FieldPreferences = "preferences"
)

// Fields 提取结果，零值/nil 表示该字段缺失。
// Budget 为 0 是合法的已给出预算。
type Fields struct {
	Destination string   `json:"destination,omitempty"`
	StartDate   string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	HeadCount   *int     `json:"head_count,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// IsEmpty 是否没有任何字段，nil 视为空。
func (f *Fields) IsEmpty() bool {
	return len(f.Present()) == 0
}

// Present 返回已给出的字段名，顺序固定。
func (f *Fields) Present() []string {
	if f == nil {
		return nil
	}
	var names []string
	if f.Destination != "" {
		names = append(names, FieldDestination)
	}
	if f.StartDate != "" {
		names = append(names, FieldStartDate)
	}
	if f.EndDate != "" {
		names = append(names, FieldEndDate)
	}
	if f.HeadCount != nil {
		names = append(names, FieldHeadCount)
	}
	if f.Budget != nil {
		names = append(names, FieldBudget)
	}
	if len(f.Preferences) > 0 {
		names = append(names, FieldPreferences)
	}
	return names
}

// Outcome 协调器返回值：字段集、来源、远程失败原因（仅日志与审计使用）。
type Outcome struct {
	Fields    Fields
	Source    Source
	RemoteErr error
}

// IntPtr 返回 v 的指针
func IntPtr(v int) *int { return &v }

// FloatPtr 返回 v 的指针
func FloatPtr(v float64) *float64 { return &v }
