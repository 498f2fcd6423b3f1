package extract

import "github.com/pkg/errors"

var (
	// ErrRemoteDisabled 未配置远程推理
	ErrRemoteDisabled = errors.New("remote resolver disabled")
	// ErrRemoteEmpty 远程推理没有给出任何字段
	ErrRemoteEmpty = errors.New("remote resolver returned no fields")
	// ErrRemotePanic 远程推理发生panic
	ErrRemotePanic = errors.New("remote resolver panicked")
	// ErrNoJSONObject 大模型输出中找不到JSON对象
	ErrNoJSONObject = errors.New("no json object in model output")
	// ErrSchemaMismatch 大模型输出不符合字段schema
	ErrSchemaMismatch = errors.New("model output does not match field schema")
)
