package common

import (
	"fmt"
)

// MergeError joins two errors with ErrMsgSplitSign, either may be nil.
func MergeError(srcError, newError error) error {
	if srcError == nil {
		return newError
	}
	if newError == nil {
		return srcError
	}
	return fmt.Errorf("%v%s%v", srcError, ErrMsgSplitSign, newError)
}

// RPCError is a logical failure reported by the remote side with a non-success code.
type RPCError struct {
	Method string
	Code   int
	Msg    string
}

func (e *RPCError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("rpc %s failed with code %d", e.Method, e.Code)
	}
	return fmt.Sprintf("rpc %s failed with code %d > %s", e.Method, e.Code, e.Msg)
}
