package keywords

import (
	"math"
	"regexp"
	"strings"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/numeral"
)

const fewToken = "几"

var (
	reFamily = regexp.MustCompile(`一家([零一二三四五六七八九十两几0-9]+)口`)
	rePeople = regexp.MustCompile(`([零一二三四五六七八九十两几0-9]+)\s*[个位名]?\s*人`)
)

// ExtractHeadCount 提取出行人数，"几" 按 few 计，非正数视为未识别。
func ExtractHeadCount(text string, few int) (int, bool) {
	if few <= 0 {
		few = DefaultFewPeople
	}
	return FirstMatch[int](text,
		func(s string) (int, bool) { return headCountByFamily(s, few) },
		func(s string) (int, bool) { return headCountByPeople(s, few) },
	)
}

func headCountByFamily(text string, few int) (int, bool) {
	m := reFamily.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return headCountToken(m[1], few)
}

func headCountByPeople(text string, few int) (int, bool) {
	for _, loc := range rePeople.FindAllStringSubmatchIndex(text, -1) {
		// "一万五人民币" 不是人数
		if strings.HasPrefix(text[loc[1]:], "民") {
			continue
		}
		return headCountToken(text[loc[2]:loc[3]], few)
	}
	return 0, false
}

func headCountToken(token string, few int) (int, bool) {
	if token == fewToken {
		return few, true
	}
	v, ok := numeral.Parse(token)
	if !ok {
		return 0, false
	}
	n := int(math.Round(v))
	if n <= 0 {
		return 0, false
	}
	return n, true
}
