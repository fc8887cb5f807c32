package errorx

import (
	"errors"
	"fmt"
)

// 业务错误定义
var (
	ErrNotFound           = errors.New("purchase request not found")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrRequestNotTerminal = errors.New("purchase request is not in a terminal state")
	ErrDuplicateRequest   = errors.New("duplicate request id")
	ErrConfiguration      = errors.New("invalid policy configuration")
	ErrUnknownDecision    = errors.New("unknown decision")
)

// ErrorDetail 错误详情（字段级）
type ErrorDetail struct {
	Path string `json:"path"`
	Info string `json:"info"`
}

// ValidationError 校验错误（可恢复，返回给调用方修正）
// Details 保持校验时的字段顺序
type ValidationError struct {
	Details []ErrorDetail
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if len(e.Details) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Details[0].Path, e.Details[0].Info)
	}
	return fmt.Sprintf("validation failed: %d issues", len(e.Details))
}

// NewValidationError 创建校验错误
func NewValidationError(details []ErrorDetail) *ValidationError {
	return &ValidationError{Details: details}
}

// AsValidationError 判断是否为校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Error 错误结构（包含可重试标记）
type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
	cause      error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Unwrap 返回原始错误
func (e *Error) Unwrap() error {
	return e.cause
}

// Retriable 创建可重试错误（外部存储故障、超时等）
func Retriable(message string, cause error) *Error {
	e := &Error{
		Code:      500,
		Message:   message,
		Retryable: true,
		cause:     cause,
	}
	if cause != nil {
		e.DevDetails = cause.Error()
	}
	return e
}

// NonRetriable 创建不可重试错误（参数错误、业务规则错误等）
func NonRetriable(message string) *Error {
	return &Error{
		Code:      400,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
