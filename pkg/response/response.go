package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      T           `json:"response,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Build returns a success envelope without writing it.
func Build[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

// Success writes a success envelope.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	res := Build(ctx, status, data, message, meta)
	ctx.JSON(res.Status, res)
}

// Error writes a failure envelope and aborts the chain.
func Error(ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	})
}

type listEnvelope[T any] struct {
	APIResponse[any]
	Items []T `json:"response"`
}

// List writes a success envelope whose response is always a JSON array,
// empty included.
func List[T any](ctx *gin.Context, status int, items []T, message string, meta interface{}) {
	if items == nil {
		items = []T{}
	}
	res := listEnvelope[T]{APIResponse: Build[any](ctx, status, nil, message, meta), Items: items}
	ctx.JSON(res.Status, res)
}
