package extract

import (
	"context"
	"time"
)

type referenceKey struct{}

// WithReference 在 ctx 中携带参考时刻，远程推理据此解析相对日期。
func WithReference(ctx context.Context, ref time.Time) context.Context {
	return context.WithValue(ctx, referenceKey{}, ref)
}

// ReferenceFrom 取出 ctx 中的参考时刻
func ReferenceFrom(ctx context.Context) (time.Time, bool) {
	ref, ok := ctx.Value(referenceKey{}).(time.Time)
	return ref, ok
}
