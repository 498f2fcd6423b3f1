package keywords

// Rule 单条模式规则，命中返回 ok=true。
type Rule[T any] func(text string) (T, bool)

// FirstMatch 按顺序执行规则，返回首个命中的结果。
func FirstMatch[T any](text string, rules ...Rule[T]) (T, bool) {
	for _, rule := range rules {
		if v, ok := rule(text); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// PlaceFinder 地名识别器，规则全部未命中时作为目的地兜底。
type PlaceFinder interface {
	FindPlace(text string) (string, bool)
}

// DefaultFewPeople "几" 的默认人数。
const DefaultFewPeople = 3
