package pipeline

import (
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/common"
)

// TokenSource yields the current bearer token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// Bearer attaches "Authorization: Bearer <token>" when a credential is
// present. Unauthenticated requests pass through untouched.
func Bearer(tokens TokenSource) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		token := tokens.Token()
		if token == "" {
			return next(req)
		}
		req = req.Clone(req.Context())
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+token)
		return next(req)
	}
}
