// Package dates 解析文本中的日期表达：绝对日期、日期区间、相对日期与时长。
// 所有相对计算都基于调用方传入的参考时刻，不读取系统时钟。
package dates

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/numeral"
)

// Layout 规范化日期格式。
const Layout = "2006-01-02"

// Range 日期解析结果，空字符串/0 表示未识别。
type Range struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Days  int    `json:"days,omitempty"` // 时长提示（天）
}

// IsEmpty 是否没有任何日期信息。
func (r Range) IsEmpty() bool {
	return r.Start == "" && r.End == "" && r.Days == 0
}

const (
	isoDatePattern = `\d{4}[-/年]\d{1,2}[-/月]\d{1,2}日?`
	connector      = `(?:到|至|~|～|-|—|–)`
)

var (
	reISORange = regexp.MustCompile(`(` + isoDatePattern + `)[^\d]{0,3}?` + connector + `\s*(` + isoDatePattern + `)`)
	reMDRange  = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日?\s*` + connector + `\s*(\d{1,2})月(\d{1,2})日?`)
	reISODate  = regexp.MustCompile(`(\d{4})[-/年](\d{1,2})[-/月](\d{1,2})日?`)
	reMDDate   = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日?`)
	reAbsolute = regexp.MustCompile(isoDatePattern + `|\d{1,2}月\d{1,2}日?`)

	reThreeDaysLater = regexp.MustCompile(`大后天`)
	reTwoDaysLater   = regexp.MustCompile(`后天`)
	reTomorrow       = regexp.MustCompile(`明天|明日|翌日`)
	reNextWeekend    = regexp.MustCompile(`下(?:周|星期|个?礼拜)末`)
	reWeekend        = regexp.MustCompile(`本周末|这周末|周末`)
	reNextWeekday    = regexp.MustCompile(`下(?:周|星期|个?礼拜)([一二三四五六日天])`)

	reDuration = regexp.MustCompile(`([零一二三四五六七八九十两0-9]+)\s*(?:天|日)`)
)

// weekdayIndex 周几 -> time.Weekday 序号（周日为0）。
var weekdayIndex = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6, "日": 0, "天": 0,
}

// anchorRule 单条日期规则，命中返回 ok=true。
type anchorRule func(text string, ref time.Time) (Range, bool)

// anchorRules 按优先级排列，首个命中的规则决定起止日期。
var anchorRules = []anchorRule{
	matchISORange,
	matchMonthDayRange,
	matchSingleDate,
	matchRelative,
}

// Resolve 解析文本中的日期区间。
// 起止日期取首个命中的规则；若规则未给出结束日期，再从去掉绝对日期后的文本中
// 提取 "N天" 作为时长提示。没有任何命中时返回零值，不视为错误。
func Resolve(text string, ref time.Time) Range {
	for _, rule := range anchorRules {
		r, ok := rule(text, ref)
		if !ok {
			continue
		}
		if r.End == "" && r.Days == 0 {
			r.Days = durationHint(text)
		}
		return r
	}
	return Range{Days: durationHint(text)}
}

func matchISORange(text string, _ time.Time) (Range, bool) {
	m := reISORange.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	start, end := Normalize(m[1]), Normalize(m[2])
	if !Valid(start) || !Valid(end) {
		return Range{}, false
	}
	return Range{Start: start, End: end, Days: DiffDays(start, end)}, true
}

func matchMonthDayRange(text string, ref time.Time) (Range, bool) {
	m := reMDRange.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	y := ref.Year()
	start := FormatYMD(y, atoi(m[1]), atoi(m[2]))
	end := FormatYMD(y, atoi(m[3]), atoi(m[4]))
	if !Valid(start) || !Valid(end) {
		return Range{}, false
	}
	return Range{Start: start, End: end, Days: DiffDays(start, end)}, true
}

// matchSingleDate 取第一个真实存在的日期，2月30日 这类不计入
func matchSingleDate(text string, ref time.Time) (Range, bool) {
	for _, m := range reISODate.FindAllStringSubmatch(text, -1) {
		if d := FormatYMD(atoi(m[1]), atoi(m[2]), atoi(m[3])); Valid(d) {
			return Range{Start: d}, true
		}
	}
	for _, m := range reMDDate.FindAllStringSubmatch(text, -1) {
		if d := FormatYMD(ref.Year(), atoi(m[1]), atoi(m[2])); Valid(d) {
			return Range{Start: d}, true
		}
	}
	return Range{}, false
}

func matchRelative(text string, ref time.Time) (Range, bool) {
	today := dayOf(ref)
	switch {
	case reThreeDaysLater.MatchString(text):
		return Range{Start: Format(today.AddDate(0, 0, 3))}, true
	case reTwoDaysLater.MatchString(text):
		return Range{Start: Format(today.AddDate(0, 0, 2))}, true
	case reTomorrow.MatchString(text):
		return Range{Start: Format(today.AddDate(0, 0, 1))}, true
	}

	wd := int(today.Weekday())
	toSaturday := (6 - wd + 7) % 7
	if reNextWeekend.MatchString(text) {
		sat := today.AddDate(0, 0, toSaturday+7)
		return Range{Start: Format(sat), End: Format(sat.AddDate(0, 0, 1))}, true
	}
	if reWeekend.MatchString(text) {
		sat := today.AddDate(0, 0, toSaturday)
		return Range{Start: Format(sat), End: Format(sat.AddDate(0, 0, 1))}, true
	}

	if m := reNextWeekday.FindStringSubmatch(text); m != nil {
		target := weekdayIndex[m[1]]
		delta := (7-wd)%7 + target
		return Range{Start: Format(today.AddDate(0, 0, delta))}, true
	}
	return Range{}, false
}

// durationHint 提取 "N天/N日" 时长，绝对日期中的 "D日" 不计入。
func durationHint(text string) int {
	stripped := reAbsolute.ReplaceAllString(text, " ")
	m := reDuration.FindStringSubmatch(stripped)
	if m == nil {
		return 0
	}
	v, ok := numeral.Parse(m[1])
	if !ok || v <= 0 {
		return 0
	}
	return int(math.Round(v))
}

// Normalize 将任意分隔符的绝对日期规范为 YYYY-MM-DD，无法识别时原样返回。
func Normalize(s string) string {
	m := reISODate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return FormatYMD(atoi(m[1]), atoi(m[2]), atoi(m[3]))
}

// DiffDays 计算两个规范日期相差的天数，结果不小于0，解析失败返回0。
func DiffDays(start, end string) int {
	s, err := time.Parse(Layout, start)
	if err != nil {
		return 0
	}
	e, err := time.Parse(Layout, end)
	if err != nil {
		return 0
	}
	days := math.Round(e.Sub(s).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// AddDays 在规范日期上加 n 天，解析失败返回空串。
func AddDays(date string, n int) string {
	d, err := time.Parse(Layout, date)
	if err != nil {
		return ""
	}
	return Format(d.AddDate(0, 0, n))
}

// Format 按 YYYY-MM-DD 输出。
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Valid 是否为日历上存在的 YYYY-MM-DD 日期。
func Valid(date string) bool {
	_, err := time.Parse(Layout, date)
	return err == nil
}

// FormatYMD 补零拼接年月日，不校验日期是否存在。
func FormatYMD(y, m, d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// dayOf 取参考时刻所在时区的日历日，统一换算到 UTC 零点避免夏令时偏差。
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
