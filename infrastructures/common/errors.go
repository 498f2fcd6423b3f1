package common

// 错误状态码
const (
	ReadRequestErr   = 1
	UnmarshalErr     = 1015
	EmptyTranscript  = 2001
	BadReferenceTime = 2002
)

// error msg
const (
	EmptyTranscriptMsg  = "transcript is required"
	BadReferenceTimeMsg = "reference_time must be RFC3339 or YYYY-MM-DD"
)
