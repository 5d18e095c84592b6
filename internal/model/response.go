// Package model holds the shared response envelope.
package model

// Response is the envelope every endpoint answers with:
// {status: "success", results?, data: {<resource>: ...}} on success,
// {status: "fail"|"error", message} on failure.
type Response struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// WithToken attaches a fresh access token to the envelope.
func (r *Response) WithToken(token string) *Response {
	r.Token = token
	return r
}

// Success wraps a resource in the success envelope.
func Success(data any) *Response {
	return &Response{Status: "success", Data: data}
}

// SuccessList wraps a collection and its count.
func SuccessList(count int, data any) *Response {
	return &Response{Status: "success", Results: &count, Data: data}
}

// Fail builds the failure envelope. Client errors (4xx) report status
// "fail", server errors report "error".
func Fail(statusCode int, message string) *Response {
	status := "error"
	if statusCode >= 400 && statusCode < 500 {
		status = "fail"
	}
	return &Response{Status: status, Message: message}
}
