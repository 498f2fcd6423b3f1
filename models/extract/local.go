package extract

import (
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/dates"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/keywords"
)

// DefaultTripDays 只有出发日期且没有时长时的默认行程天数
const DefaultTripDays = 3

// LocalOptions 本地提取参数，零值使用默认值
type LocalOptions struct {
	DefaultTripDays int
	FewPeople       int
	Places          keywords.PlaceFinder
}

// LocalResolver 基于规则的本地提取器，无状态，可并发使用。
type LocalResolver struct {
	opts LocalOptions
}

// NewLocalResolver 创建本地提取器
func NewLocalResolver(opts LocalOptions) *LocalResolver {
	if opts.DefaultTripDays <= 0 {
		opts.DefaultTripDays = DefaultTripDays
	}
	if opts.FewPeople <= 0 {
		opts.FewPeople = keywords.DefaultFewPeople
	}
	return &LocalResolver{opts: opts}
}

// Resolve 对同一句话独立运行各字段提取器。
// 有出发日期没有结束日期时，结束日期 = 出发日期 + 时长（没有时长时取默认天数）。
func (r *LocalResolver) Resolve(text string, ref time.Time) Fields {
	if r == nil {
		r = NewLocalResolver(LocalOptions{})
	}

	var f Fields
	if dest, ok := keywords.ExtractDestinationWith(text, r.opts.Places); ok {
		f.Destination = dest
	}

	if rng := dates.Resolve(text, ref); rng.Start != "" {
		f.StartDate = rng.Start
		f.EndDate = rng.End
		if f.EndDate == "" {
			days := rng.Days
			if days <= 0 {
				days = r.opts.DefaultTripDays
			}
			f.EndDate = dates.AddDays(rng.Start, days)
		}
	}

	if n, ok := keywords.ExtractHeadCount(text, r.opts.FewPeople); ok {
		f.HeadCount = IntPtr(n)
	}
	if b, ok := keywords.ExtractBudget(text); ok {
		f.Budget = FloatPtr(b)
	}
	f.Preferences = keywords.ExtractPreferences(text)
	return f
}
