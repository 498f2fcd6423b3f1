package keywords

import (
	"regexp"
	"strings"
)

var (
	// 动词触发：想去云南、目的地是大理、前往 New York
	reDestTrigger = regexp.MustCompile(`(?:想去|打算去|目的地(?:是|为|[:：])?|去往|前往|去|到)\s*([\x{4e00}-\x{9fa5}A-Za-z\s·\-]{1,20})`)
	// 地名后缀：杭州、海南岛、澳洲
	reDestSuffix = regexp.MustCompile(`([\x{4e00}-\x{9fa5}A-Za-z·\-]{1,12})(市|县|省|国|洲|州|岛|城)`)
	// 触发词之后常见的非地名尾巴
	reDestFiller = regexp.MustCompile(`玩|旅游|旅行|出差|看看|一下`)
)

// destinationRules 目的地规则，首个命中生效
var destinationRules = []Rule[string]{
	destinationByTrigger,
	destinationBySuffix,
}

// ExtractDestination 提取目的地，未识别返回 ok=false。
func ExtractDestination(text string) (string, bool) {
	return FirstMatch(text, destinationRules...)
}

// ExtractDestinationWith 在规则未命中时使用 places 兜底。
func ExtractDestinationWith(text string, places PlaceFinder) (string, bool) {
	if dest, ok := ExtractDestination(text); ok {
		return dest, true
	}
	if places == nil {
		return "", false
	}
	return places.FindPlace(text)
}

func destinationByTrigger(text string) (string, bool) {
	for _, m := range reDestTrigger.FindAllStringSubmatch(text, -1) {
		candidate := m[1]
		if loc := reDestFiller.FindStringIndex(candidate); loc != nil {
			candidate = candidate[:loc[0]]
		}
		candidate = strings.TrimSpace(candidate)
		if candidate != "" {
			return candidate, true
		}
	}
	return "", false
}

func destinationBySuffix(text string) (string, bool) {
	m := reDestSuffix.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	dest := strings.TrimSpace(m[1] + m[2])
	return dest, dest != ""
}
