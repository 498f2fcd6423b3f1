package dates

import "time"

// Shanghai 东八区，相对日期按中国日历计算
var Shanghai *time.Location

func init() {
	var err error
	Shanghai, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		// 没有 tzdata 时使用固定偏移
		Shanghai = time.FixedZone("CST", 8*3600)
	}
}

// Now 东八区当前时间，作为未指定参考时刻时的默认值
func Now() time.Time {
	return time.Now().In(Shanghai)
}

// ParseReference 解析参考时刻：RFC3339 保留原时区，YYYY-MM-DD 取东八区零点。
func ParseReference(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(Layout, s, Shanghai)
}
