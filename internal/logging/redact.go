package logging

import "strings"

// Redacted replaces the value of sensitive attributes.
const Redacted = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"authorization":    {},
	"password":         {},
	"newpassword":      {},
	"token":            {},
	"auth_token":       {},
	"refresh_token":    {},
	"verificationcode": {},
}

// redact masks values whose key names a credential. args are key-value
// pairs; a trailing key without a value is left alone.
func redact(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if _, hit := sensitiveKeys[strings.ToLower(key)]; !hit {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		out[i+1] = Redacted
	}
	if out == nil {
		return args
	}
	return out
}
