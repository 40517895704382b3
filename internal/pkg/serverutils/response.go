package serverutils

// BaseResponse is the envelope used for errors and message-only replies.
// Resource payloads are returned bare, the way the library frontend consumes them.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Msg     string `json:"msg,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Msg:     message,
		Data:    data,
	}
}

func MessageResponse(message string) BaseResponse[any] {
	return SuccessResponse[any](message, nil)
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
		Msg:     message,
		Error:   message,
	}
}
