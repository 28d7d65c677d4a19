package jsonrpc

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

const JSONRPC_VERSION = "2.0"

type BaseMessage struct {
	Jsonrpc string `json:"jsonrpc"`
}

// RequestMessage is either a request or a notification (no ID).
type RequestMessage struct {
	BaseMessage
	ID     interface{}     `json:"id,omitempty"` // may be int or string
	Method string          `json:"method"`
	Params jsoniter.RawMessage `json:"params,omitempty"`
}

func (m RequestMessage) IsNotification() bool {
	return m.ID == nil
}

type NotificationMessage struct {
	BaseMessage
	Method string          `json:"method"`
	Params jsoniter.RawMessage `json:"params"`
}

type ResponseMessage struct {
	BaseMessage
	ID     interface{}    `json:"id"` // may be int or string
	Result interface{}    `json:"result"`
	Error  *ResponseError `json:"error,omitempty"`
}

type ResponseError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (r ResponseError) Error() string {
	return fmt.Sprintf("code: %d, message: %s, data: %v", r.Code, r.Message, r.Data)
}

type BuiltInError = ResponseError

const (
	ParseErrorCode           = -32700
	InvalidRequestCode       = -32600
	MethodNotFoundCode       = -32601
	InvalidParamsCode        = -32602
	InternalErrorCode        = -32603
	ServerNotInitializedCode = -32002
	UnknownErrorCodeCode     = -32001
	ContentModifiedCode      = -32801
	RequestCancelledCode     = -32800
)

var ParseError = BuiltInError{
	Code:    ParseErrorCode,
	Message: "ParseError",
}
var InvalidRequest = BuiltInError{
	Code:    InvalidRequestCode,
	Message: "InvalidRequest",
}
var MethodNotFound = BuiltInError{
	Code:    MethodNotFoundCode,
	Message: "MethodNotFound",
}
var InvalidParams = BuiltInError{
	Code:    InvalidParamsCode,
	Message: "InvalidParams",
}
var InternalError = BuiltInError{
	Code:    InternalErrorCode,
	Message: "InternalError",
}
var ServerNotInitialized = BuiltInError{
	Code:    ServerNotInitializedCode,
	Message: "ServerNotInitialized",
}
var RequestCancelled = BuiltInError{
	Code:    RequestCancelledCode,
	Message: "RequestCancelled",
}
