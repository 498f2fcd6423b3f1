package prom

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/extract"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/recorder"
)

func TestExtractHooks(t *testing.T) {
	MustRegisterAll()
	InstallExtractHooks()
	t.Cleanup(func() { extract.WithHooks(extract.Hooks{}) })

	before := testutil.ToFloat64(ExtractResultsTotal.WithLabelValues("local"))
	extract.ReportResult(extract.SourceLocal)
	if got := testutil.ToFloat64(ExtractResultsTotal.WithLabelValues("local")); got != before+1 {
		t.Fatalf("results_total{local}=%v want %v", got, before+1)
	}

	f := &extract.Fields{Destination: "云南", Budget: extract.FloatPtr(15000)}
	extract.ReportFieldHits(extract.SourceRemote, f)
	if got := testutil.ToFloat64(ExtractFieldHitsTotal.WithLabelValues("remote", "budget")); got < 1 {
		t.Fatalf("field_hits_total{remote,budget}=%v", got)
	}

	extract.ReportRemoteOutcome("")
	if got := testutil.ToFloat64(ExtractRemoteOutcomesTotal.WithLabelValues("unknown")); got < 1 {
		t.Fatalf("empty outcome should be labelled unknown, got %v", got)
	}
}

func TestRecorderHooks_PoolWaitDelta(t *testing.T) {
	MustRegisterAll()
	InstallRecorderHooks()
	t.Cleanup(func() { recorder.InstallHooks(&recorder.Hooks{}) })

	base := testutil.ToFloat64(RecorderDBWaitCount)
	recorder.ReportDBPoolStats(recorder.DBPoolStats{Open: 3, InUse: 1, Idle: 2, WaitCount: 10, WaitDuration: time.Second})
	recorder.ReportDBPoolStats(recorder.DBPoolStats{Open: 3, InUse: 2, Idle: 1, WaitCount: 14, WaitDuration: 3 * time.Second})

	if got := testutil.ToFloat64(RecorderDBPoolInUse); got != 2 {
		t.Fatalf("pool in use=%v", got)
	}
	if got := testutil.ToFloat64(RecorderDBWaitCount); got != base+4 {
		t.Fatalf("wait count=%v want %v", got, base+4)
	}
}
