package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"

	"github.com/pkg/errors"
)

// RemoteResolver 远程字段推理，返回 nil 或空字段集视为没有结果。
type RemoteResolver interface {
	Resolve(ctx context.Context, utterance string) (*Fields, error)
}

// RemoteResolverFunc 函数适配 RemoteResolver
type RemoteResolverFunc func(ctx context.Context, utterance string) (*Fields, error)

// Resolve 调用 f
func (f RemoteResolverFunc) Resolve(ctx context.Context, utterance string) (*Fields, error) {
	return f(ctx, utterance)
}

// Coordinator 两级提取：远程优先，任何失败整体回退本地，不做逐字段合并。
type Coordinator struct {
	remote  RemoteResolver
	local   *LocalResolver
	timeout time.Duration
}

// NewCoordinator remote 可为 nil（只走本地）；timeout<=0 时只受调用方 ctx 约束。
func NewCoordinator(remote RemoteResolver, local *LocalResolver, timeout time.Duration) *Coordinator {
	if local == nil {
		local = NewLocalResolver(LocalOptions{})
	}
	return &Coordinator{remote: remote, local: local, timeout: timeout}
}

// Local 返回本地提取器
func (c *Coordinator) Local() *LocalResolver {
	return c.local
}

// Extract 使用默认远程推理提取字段，永不返回错误。
func (c *Coordinator) Extract(ctx context.Context, utterance string, ref time.Time) Outcome {
	return c.ExtractWith(ctx, c.remote, utterance, ref)
}

// ExtractWith 使用指定的远程推理（如请求级别的模型配置）提取字段。
func (c *Coordinator) ExtractWith(ctx context.Context, remote RemoteResolver, utterance string, ref time.Time) Outcome {
	fields, err := c.tryRemote(ctx, remote, utterance, ref)
	if err == nil {
		ReportResult(SourceRemote)
		ReportFieldHits(SourceRemote, fields)
		return Outcome{Fields: *fields, Source: SourceRemote}
	}

	if !errors.Is(err, ErrRemoteDisabled) {
		log.Warnf("remote extract failed, fallback to local: %v", err)
	}
	local := c.local.Resolve(utterance, ref)
	ReportResult(SourceLocal)
	ReportFieldHits(SourceLocal, &local)
	return Outcome{Fields: local, Source: SourceLocal, RemoteErr: err}
}

type remoteResult struct {
	fields *Fields
	err    error
}

func (c *Coordinator) tryRemote(ctx context.Context, remote RemoteResolver, utterance string, ref time.Time) (*Fields, error) {
	if remote == nil {
		ReportRemoteOutcome(RemoteDisabled)
		return nil, ErrRemoteDisabled
	}

	ctx = WithReference(ctx, ref)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan remoteResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- remoteResult{err: errors.Wrap(ErrRemotePanic, fmt.Sprint(r))}
			}
		}()
		f, err := remote.Resolve(ctx, utterance)
		done <- remoteResult{fields: f, err: err}
	}()

	var res remoteResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = remoteResult{err: ctx.Err()}
	}
	ReportRemoteLatency(time.Since(start))

	switch {
	case res.err != nil:
		ReportRemoteOutcome(classifyRemoteErr(res.err))
		return nil, errors.Wrap(res.err, "remote resolve")
	case res.fields.IsEmpty():
		ReportRemoteOutcome(RemoteEmpty)
		return nil, ErrRemoteEmpty
	}
	ReportRemoteOutcome(RemoteOK)
	return res.fields, nil
}

func classifyRemoteErr(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return RemoteTimeout
	case errors.Is(err, context.Canceled):
		return RemoteCanceled
	case errors.Is(err, ErrRemotePanic):
		return RemotePanic
	}
	return RemoteError
}
