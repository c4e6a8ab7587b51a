package response

// Response is the JSON envelope returned by every API endpoint.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

const (
	StatusOk      = "success"
	StatusIgnored = "ignored"
	StatusError   = "error"
)

func Ok(message string) Response {
	return Response{Status: StatusOk, Message: message}
}

func Ignored(message string) Response {
	return Response{Status: StatusIgnored, Message: message}
}

func Error(message string) Response {
	return Response{Status: StatusError, Message: message}
}

// ValidationError reports field-level validation failures alongside the
// generic error message.
func ValidationError(message string, errs any) Response {
	return Response{Status: StatusError, Message: message, Errors: errs}
}
