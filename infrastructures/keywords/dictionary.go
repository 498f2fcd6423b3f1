package keywords

import (
	"regexp"
	"strings"
)

// PreferenceTags 偏好标签词典，按输出顺序排列，只读。
var PreferenceTags = []string{
	"美食", "亲子", "徒步", "登山", "露营", "自驾", "购物",
	"博物馆", "艺术", "海滩", "潜水", "滑雪", "文化", "夜生活",
	"摄影", "小众", "轻松", "网红", "历史", "古镇", "温泉",
}

// derivedTag 由近义短语推导出的标签
type derivedTag struct {
	tag     string
	pattern *regexp.Regexp
}

var derivedTags = []derivedTag{
	{tag: "轻松", pattern: regexp.MustCompile(`慢节奏|休闲|放松`)},
	{tag: "小众", pattern: regexp.MustCompile(`人少|小众`)},
}

// ExtractPreferences 提取偏好标签，去重并保持首次出现的顺序。
// 没有命中时返回 nil。
func ExtractPreferences(text string) []string {
	var (
		found []string
		seen  = make(map[string]bool)
	)
	add := func(tag string) {
		if seen[tag] {
			return
		}
		seen[tag] = true
		found = append(found, tag)
	}

	for _, tag := range PreferenceTags {
		if strings.Contains(text, tag) {
			add(tag)
		}
	}
	for _, d := range derivedTags {
		if d.pattern.MatchString(text) {
			add(d.tag)
		}
	}
	return found
}
