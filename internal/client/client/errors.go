package client

import "errors"

var (
	ErrDecode = errors.New("malformed response body")
	ErrEncode = errors.New("request body cannot be encoded")
)
