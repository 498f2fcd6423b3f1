package extract

import (
	"sync/atomic"
	"time"
)

// 远程推理结果标签
const (
	RemoteOK       = "ok"
	RemoteError    = "error"
	RemoteTimeout  = "timeout"
	RemoteCanceled = "canceled"
	RemoteEmpty    = "empty"
	RemotePanic    = "panic"
	RemoteDisabled = "disabled"
)

// Hooks defines optional callbacks for extraction observability.
type Hooks struct {
	OnResult        func(source string)
	OnRemoteLatency func(latency time.Duration)
	OnRemoteOutcome func(outcome string)
	OnFieldHit      func(source, field string)
	OnCache         func(result string) // hit|miss|error
}

var injectedHooks atomic.Value

func init() {
	injectedHooks.Store(Hooks{})
}

// WithHooks installs the provided callbacks globally. Passing a zero value resets to no-op.
func WithHooks(h Hooks) {
	injectedHooks.Store(h)
}

func currentHooks() Hooks {
	return injectedHooks.Load().(Hooks)
}

// ReportResult records one extraction by source.
func ReportResult(source Source) {
	if cb := currentHooks().OnResult; cb != nil {
		cb(string(source))
	}
}

// ReportRemoteLatency observes the remote inference latency.
func ReportRemoteLatency(latency time.Duration) {
	if cb := currentHooks().OnRemoteLatency; cb != nil {
		cb(latency)
	}
}

// ReportRemoteOutcome counts remote inference outcomes.
func ReportRemoteOutcome(outcome string) {
	if cb := currentHooks().OnRemoteOutcome; cb != nil {
		cb(outcome)
	}
}

// ReportFieldHits counts each present field of a result.
func ReportFieldHits(source Source, f *Fields) {
	cb := currentHooks().OnFieldHit
	if cb == nil {
		return
	}
	for _, name := range f.Present() {
		cb(string(source), name)
	}
}

// ReportCache counts remote cache lookups.
func ReportCache(result string) {
	if cb := currentHooks().OnCache; cb != nil {
		cb(result)
	}
}
