package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/dates"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/numeral"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Chatter 大模型对话能力，minimax.Client 实现了该接口
type Chatter interface {
	SimpleChatWithSystem(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

const systemPrompt = "你是一个专业的旅行规划师，负责从用户的出行描述中提取结构化字段。只返回纯JSON数据。"

const userPromptTemplate = `请从下面的中文用户语音文本中提取旅行规划表单所需字段，并只以JSON返回：

文本："%s"
%s
严格返回以下JSON字段（缺失的字段不要输出，日期用YYYY-MM-DD）：
{
  "destination": "字符串，目的地",
  "start_date": "YYYY-MM-DD",
  "end_date": "YYYY-MM-DD",
  "people": 2,
  "budget": 10000,
  "preferences": ["美食", "亲子"]
}
注意：
- 不要输出除JSON以外的任何文字；
- 如果只给出时长（例如3天）和开始日期，请按开始日期+时长计算结束日期；
- 预算单位默认人民币，输出数字；
`

// fieldSchema 归一化后的大模型输出
const fieldSchema = `{
  "type": "object",
  "properties": {
    "destination": {"type": "string", "minLength": 1, "maxLength": 64},
    "start_date":  {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "end_date":    {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "head_count":  {"type": "integer", "minimum": 1, "maximum": 1000},
    "budget":      {"type": "number", "minimum": 0},
    "preferences": {"type": "array", "items": {"type": "string", "minLength": 1}, "uniqueItems": true}
  },
  "additionalProperties": false
}`

var weekdayNames = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// LLMResolver 通过大模型推理字段，实现 RemoteResolver。
type LLMResolver struct {
	chat   Chatter
	schema *gojsonschema.Schema
}

// NewLLMResolver 创建大模型推理器
func NewLLMResolver(chat Chatter) (*LLMResolver, error) {
	if chat == nil {
		return nil, errors.New("chatter is nil")
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(fieldSchema))
	if err != nil {
		return nil, errors.Wrap(err, "compile field schema")
	}
	return &LLMResolver{chat: chat, schema: schema}, nil
}

// Resolve 调用大模型并解析输出
func (r *LLMResolver) Resolve(ctx context.Context, utterance string) (*Fields, error) {
	reply, err := r.chat.SimpleChatWithSystem(ctx, systemPrompt, buildUserPrompt(ctx, utterance))
	if err != nil {
		return nil, errors.Wrap(err, "llm chat")
	}
	fields, err := r.parse(reply)
	if err != nil {
		log.Debugf("llm reply rejected: %v, raw=%q", err, reply)
		return nil, err
	}
	return fields, nil
}

func buildUserPrompt(ctx context.Context, utterance string) string {
	today := ""
	if ref, ok := ReferenceFrom(ctx); ok {
		today = fmt.Sprintf("今天是%s（%s），相对日期按今天计算。\n", dates.Format(ref), weekdayNames[ref.Weekday()])
	}
	return fmt.Sprintf(userPromptTemplate, utterance, today)
}

// parse 去掉代码块、截取首个JSON对象、宽松归一化后做schema校验。
func (r *LLMResolver) parse(reply string) (*Fields, error) {
	body := firstJSONObject(trimCodeFence(reply))
	if body == "" {
		return nil, ErrNoJSONObject
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, errors.Wrap(ErrNoJSONObject, err.Error())
	}
	doc := coerceFields(raw)

	result, err := r.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, errors.Wrap(err, "validate llm fields")
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.Wrap(ErrSchemaMismatch, strings.Join(msgs, "; "))
	}
	// schema 只校验格式，2025-02-30 这类日期在这里拒绝
	for _, key := range []string{FieldStartDate, FieldEndDate} {
		if s, ok := doc[key].(string); ok && !dates.Valid(s) {
			return nil, errors.Wrapf(ErrSchemaMismatch, "%s %q is not a calendar date", key, s)
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal llm fields")
	}
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode llm fields")
	}
	return &f, nil
}

// trimCodeFence 去掉 ```json ... ``` 包裹
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimLeft(s, "`")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// firstJSONObject 返回第一个括号配平的 {...}，忽略字符串内的括号。
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// coerceFields 宽松归一化：数字字符串转数字，空值丢弃，people 归入 head_count。
// 类型错误的值原样保留，交给schema拒绝。
func coerceFields(raw map[string]interface{}) map[string]interface{} {
	doc := make(map[string]interface{})

	if v, ok := coerceText(raw[FieldDestination]); ok {
		doc[FieldDestination] = v
	}
	for _, key := range []string{FieldStartDate, FieldEndDate} {
		if v, ok := coerceText(raw[key]); ok {
			if s, isStr := v.(string); isStr {
				v = dates.Normalize(s)
			}
			doc[key] = v
		}
	}

	people := raw["people"]
	if people == nil {
		people = raw[FieldHeadCount]
	}
	if v, ok := coerceNumber(people); ok {
		// 0 表示未知
		if n, isNum := v.(float64); !isNum || n != 0 {
			doc[FieldHeadCount] = v
		}
	}
	if v, ok := coerceNumber(raw[FieldBudget]); ok {
		doc[FieldBudget] = v
	}
	if v, ok := coercePreferences(raw[FieldPreferences]); ok {
		doc[FieldPreferences] = v
	}
	return doc
}

func coerceText(v interface{}) (interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	}
	return v, true
}

func coerceNumber(v interface{}) (interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		s := strings.TrimSpace(t)
		s = strings.NewReplacer(",", "", "，", "", "元", "", "人", "", "位", "", "个", "").Replace(s)
		if s == "" {
			return nil, false
		}
		if n, ok := numeral.Parse(s); ok {
			return n, true
		}
		return t, true
	}
	return v, true
}

func coercePreferences(v interface{}) (interface{}, bool) {
	var items []string
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		items = strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == '，' || r == '、' || r == ' '
		})
	case []interface{}:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return v, true
			}
			items = append(items, s)
		}
	default:
		return v, true
	}

	seen := make(map[string]bool, len(items))
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out, len(out) > 0
}
