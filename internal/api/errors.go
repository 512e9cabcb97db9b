package api

import "errors"

// Kind classifies a failed request.
type Kind int

const (
	// KindNetwork means no usable response was received (includes timeouts).
	KindNetwork Kind = iota
	// KindAuth is a 401 from the server.
	KindAuth
	// KindServer is any other non-2xx response.
	KindServer
)

// RequestError is the uniform failure returned by every API call. Message is
// taken from the server's structured error body when present, otherwise the
// transport error, otherwise a generic fallback.
type RequestError struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// IsAuth reports whether err is a 401 response.
func IsAuth(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindAuth
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindNetwork
}
