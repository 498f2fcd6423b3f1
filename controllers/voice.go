package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/common"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/dates"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/keywords"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/extract"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/recorder"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/thirdpart/minimax"
)

// 请求级别模型配置的请求头，请求体字段优先
const (
	HeaderOpenAIKey     = "X-OpenAI-API-Key"
	HeaderOpenAIBaseURL = "X-OpenAI-Base-URL"
	HeaderOpenAIModel   = "X-OpenAI-Model"
	HeaderRequestID     = "X-Request-ID"
)

// UnderstandRequest 语音文本理解请求
type UnderstandRequest struct {
	Transcript    string `json:"transcript"`
	ReferenceTime string `json:"reference_time,omitempty"` // RFC3339 或 YYYY-MM-DD
	OpenAIAPIKey  string `json:"openai_api_key,omitempty"`
	OpenAIBaseURL string `json:"openai_base_url,omitempty"`
	OpenAIModel   string `json:"openai_model,omitempty"`
}

// UnderstandResponse 语音文本理解结果
type UnderstandResponse struct {
	Fields            extract.Fields `json:"fields"`
	Source            extract.Source `json:"source"`
	RequestID         string         `json:"request_id"`
	DestinationPinyin string         `json:"destination_pinyin,omitempty"`
}

// ModelOverrides 请求级别的模型配置
type ModelOverrides struct {
	APIKey  string
	BaseURL string
	Model   string
}

// IsZero 没有任何覆盖
func (o ModelOverrides) IsZero() bool {
	return o.APIKey == "" && o.BaseURL == "" && o.Model == ""
}

// RemoteFactory 按请求级别配置构造远程推理
type RemoteFactory func(o ModelOverrides) (extract.RemoteResolver, error)

// AuditSink 审计记录去向，recorder.Writer 实现了该接口
type AuditSink interface {
	Enqueue(rec recorder.ExtractionRecord) bool
}

// ErrKeyRequired 自定义 base url 必须同时给出 key，服务端密钥不发往调用方指定的地址
var ErrKeyRequired = errors.New("openai_api_key is required with openai_base_url")

// MiniMaxRemoteFactory 用覆盖参数构造大模型客户端；
// 指定了 base url 时按 OpenAI 兼容协议访问。
func MiniMaxRemoteFactory(o ModelOverrides) (extract.RemoteResolver, error) {
	if o.BaseURL != "" && o.APIKey == "" {
		return nil, ErrKeyRequired
	}
	opts := minimax.Options{APIKey: o.APIKey, BaseURL: o.BaseURL, Model: o.Model}
	if o.BaseURL != "" {
		opts.ChatPath = minimax.OpenAIChatPath
	}
	client, err := minimax.NewClientWithOptions(opts)
	if err != nil {
		return nil, err
	}
	return extract.NewLLMResolver(client)
}

// VoiceController 语音文本理解接口
type VoiceController struct {
	coord     *extract.Coordinator
	newRemote RemoteFactory
	audit     AuditSink
	now       func() time.Time
	newID     func() string
}

// VoiceOption 可选配置
type VoiceOption func(*VoiceController)

// WithRemoteFactory 启用请求级别模型配置
func WithRemoteFactory(f RemoteFactory) VoiceOption {
	return func(vc *VoiceController) { vc.newRemote = f }
}

// WithAuditSink 启用审计记录
func WithAuditSink(s AuditSink) VoiceOption {
	return func(vc *VoiceController) { vc.audit = s }
}

// WithClock 替换服务端时钟，测试使用
func WithClock(now func() time.Time) VoiceOption {
	return func(vc *VoiceController) { vc.now = now }
}

// WithRequestIDGenerator 替换请求ID生成
func WithRequestIDGenerator(f func() string) VoiceOption {
	return func(vc *VoiceController) { vc.newID = f }
}

func NewVoiceController(coord *extract.Coordinator, opts ...VoiceOption) *VoiceController {
	vc := &VoiceController{
		coord: coord,
		now:   dates.Now,
		newID: func() string { return uuid.NewV4().String() },
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// RegisterRoutes 注册路由
func (vc *VoiceController) RegisterRoutes(r gin.IRouter) {
	r.POST("/voice/understand", vc.Understand)
}

// Understand POST /voice/understand
func (vc *VoiceController) Understand(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		log.Errorf("read request met error: %v", err)
		replyWithError(ctx, http.StatusBadRequest, common.ReadRequestErr, err.Error())
		return
	}

	req := &UnderstandRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		log.Warnf("unmarshal understand request met error: %v", err)
		replyWithError(ctx, http.StatusBadRequest, common.UnmarshalErr, err.Error())
		return
	}

	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		replyWithError(ctx, http.StatusBadRequest, common.EmptyTranscript, common.EmptyTranscriptMsg)
		return
	}

	ref, err := vc.referenceTime(req.ReferenceTime)
	if err != nil {
		replyWithError(ctx, http.StatusBadRequest, common.BadReferenceTime, common.BadReferenceTimeMsg)
		return
	}

	requestID := ctx.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = vc.newID()
	}

	var out extract.Outcome
	if remote, ok := vc.requestRemote(ctx, req); ok {
		out = vc.coord.ExtractWith(ctx.Request.Context(), remote, transcript, ref)
	} else {
		out = vc.coord.Extract(ctx.Request.Context(), transcript, ref)
	}
	log.Infof("understand request_id=%s source=%s fields=%v", requestID, out.Source, out.Fields.Present())

	if vc.audit != nil {
		vc.audit.Enqueue(recorder.NewExtractionRecord(requestID, transcript, ref, out))
	}

	resp := UnderstandResponse{
		Fields:    out.Fields,
		Source:    out.Source,
		RequestID: requestID,
	}
	if out.Fields.Destination != "" {
		resp.DestinationPinyin = keywords.DestinationPinyin(out.Fields.Destination)
	}
	ctx.Header(HeaderRequestID, requestID)
	ctx.JSON(http.StatusOK, resp)
}

// referenceTime 解析参考时刻，为空时取服务端时钟（东八区）
func (vc *VoiceController) referenceTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return vc.now(), nil
	}
	return dates.ParseReference(s)
}

// requestRemote 有请求级别模型配置时构造专用的远程推理
func (vc *VoiceController) requestRemote(ctx *gin.Context, req *UnderstandRequest) (extract.RemoteResolver, bool) {
	if vc.newRemote == nil {
		return nil, false
	}
	o := ModelOverrides{
		APIKey:  firstNonBlank(req.OpenAIAPIKey, ctx.GetHeader(HeaderOpenAIKey)),
		BaseURL: firstNonBlank(req.OpenAIBaseURL, ctx.GetHeader(HeaderOpenAIBaseURL)),
		Model:   firstNonBlank(req.OpenAIModel, ctx.GetHeader(HeaderOpenAIModel)),
	}
	if o.IsZero() {
		return nil, false
	}
	remote, err := vc.newRemote(o)
	if err != nil {
		log.Warnf("build request remote resolver failed, use default: %v", err)
		return nil, false
	}
	return remote, true
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
