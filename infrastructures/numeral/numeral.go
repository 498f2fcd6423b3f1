// Package numeral 将中文数字（含混合量级）与阿拉伯数字串转换为数值。
package numeral

import (
	"regexp"
	"strconv"
)

// digitValues 中文数字及量级字符对应的数值，只读。
var digitValues = map[rune]int64{
	'零': 0, '〇': 0,
	'一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	'十': 10, '百': 100, '千': 1000, '万': 10000,
}

const sectionUnit = 10000

// maxSection 节的上限（万万万 = 1e12），超出视为不是数字
const maxSection = 1e12

var (
	// 纯阿拉伯数字，最多一个小数点
	reArabic = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)
	// 阿拉伯数字 + 中文量级，如 30万、1.5千；可带口语尾数，如 2千5
	reMixed = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([十百千万]+)([0-9])?$`)
)

// Parse 将数字串转换为数值，ok=false 表示不是数字。
// 中文数字从右向左扫描：数字累加 val*unit，量级字符抬高 unit，
// "万" 开启新的节，其后的量级在节内相乘（一百二十万 = 1200000）。
func Parse(token string) (float64, bool) {
	if token == "" {
		return 0, false
	}
	if reArabic.MatchString(token) {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	if m := reMixed.FindStringSubmatch(token); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		var last int64
		for _, r := range m[2] {
			last = digitValues[r]
			v *= float64(last)
		}
		if v > maxSection*sectionUnit {
			return 0, false
		}
		// 2千5 = 2500，3万5 = 35000
		if m[3] != "" && last >= 10 {
			v += float64(m[3][0]-'0') * float64(last/10)
		}
		return v, true
	}
	return parseChinese([]rune(token))
}

func parseChinese(runes []rune) (float64, bool) {
	var (
		total   int64
		unit    int64 = 1
		section int64 = 1
		seen    bool
		leading bool // 最左侧的有效字符是否为量级
	)

	// 口语省略：一万五 = 一万五千，两千五 = 两千五百
	if n := len(runes); n >= 2 {
		last, lastOK := digitValues[runes[n-1]]
		prev, prevOK := digitValues[runes[n-2]]
		if lastOK && prevOK && last < 10 && prev >= 10 {
			unit = prev / 10
		}
	}

	for i := len(runes) - 1; i >= 0; i-- {
		// 其它阿拉伯数字与中文数字混写视为不是数字
		if runes[i] >= '0' && runes[i] <= '9' {
			return 0, false
		}
		val, ok := digitValues[runes[i]]
		if !ok {
			continue
		}
		seen = true
		switch {
		case val == sectionUnit:
			if section >= sectionUnit {
				if section >= maxSection {
					return 0, false
				}
				section *= sectionUnit
			} else {
				section = sectionUnit
			}
			unit = section
			leading = true
		case val >= 10:
			unit = val * section
			leading = true
		default:
			total += val * unit
			if total > maxSection*sectionUnit {
				return 0, false
			}
			leading = false
		}
	}

	if !seen {
		return 0, false
	}
	// 十 = 10，十五 = 15
	if leading {
		total += unit
	}
	return float64(total), true
}
