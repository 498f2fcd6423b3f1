package keywords

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// DestinationPinyin 目的地转拼音 slug，如 云南 -> yunnan，New York -> new-york。
func DestinationPinyin(dest string) string {
	args := pinyin.NewArgs()
	args.Style = pinyin.NORMAL
	args.Heteronym = false

	var (
		parts []string
		latin strings.Builder
	)
	flushLatin := func() {
		if latin.Len() > 0 {
			parts = append(parts, strings.ToLower(latin.String()))
			latin.Reset()
		}
	}

	var han []rune
	flushHan := func() {
		if len(han) > 0 {
			parts = append(parts, strings.Join(pinyin.LazyConvert(string(han), &args), ""))
			han = han[:0]
		}
	}

	for _, r := range dest {
		switch {
		case unicode.Is(unicode.Han, r):
			flushLatin()
			han = append(han, r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			flushHan()
			latin.WriteRune(r)
		default:
			// 空格、·、- 等作为分隔
			flushHan()
			flushLatin()
		}
	}
	flushHan()
	flushLatin()
	return strings.Join(parts, "-")
}
