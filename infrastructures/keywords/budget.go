package keywords

import (
	"math"
	"regexp"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/numeral"
)

var (
	reBudgetTrigger = regexp.MustCompile(`预算|花费|费用|经费|多少钱|钱`)
	// 阿拉伯数字或中文数字串，可选 万/千 量级、约数与货币单位
	reBudgetAmount = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?|[零〇一二两三四五六七八九十百千万]+)\s*(万|千)?\s*(?:多|左右|上下)?\s*(?:元|块|人民币)?`)
)

var budgetUnits = map[string]float64{
	"万": 10000,
	"千": 1000,
}

// ExtractBudget 提取预算金额（元，取整）。
// 只有出现预算类关键词时才会提取；优先取关键词之后的第一个数字，
// 关键词之后没有数字时退回全文第一个数字。
func ExtractBudget(text string) (float64, bool) {
	loc := reBudgetTrigger.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	m := reBudgetAmount.FindStringSubmatch(text[loc[1]:])
	if m == nil {
		m = reBudgetAmount.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	amount, ok := numeral.Parse(m[1])
	if !ok {
		return 0, false
	}
	if unit, found := budgetUnits[m[2]]; found {
		amount *= unit
	}
	if amount < 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, false
	}
	return math.Round(amount), true
}
