package policy

import (
	"errors"
	"fmt"
)

// Fixed messages for empty or unusable policy-server responses.
const (
	MsgNoOpenID4VCURL    = "No openid4vc url found"
	MsgInvalidSessionID  = "Invalid session id"
	MsgNoPresentationDef = "Could not read presentation definition"
)

// ErrCircuitOpen is returned without contacting the server while it is
// considered down.
var ErrCircuitOpen = errors.New("policy server circuit open")

// ServerError is a structured error payload returned by the policy server. It
// is surfaced exactly as received.
type ServerError struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"httpStatus"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("policy server error (%d): %s", e.HTTPStatus, e.Message)
}

// ProtocolError reports a response the protocol does not allow, such as an
// empty payload. It is never retried.
type ProtocolError struct {
	Action  Action
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// IsProtocolError reports whether err carries msg as a ProtocolError.
func IsProtocolError(err error, msg string) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Message == msg
}
