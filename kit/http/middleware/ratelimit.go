package middleware

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/kit/code"
	httpKit "github.com/Java-Project-IM/Url-shortener-be/kit/http"
)

// CreateRateLimitMiddleware guards an endpoint with the given admission
// decision. The key is the caller IP taken from the request context.
func CreateRateLimitMiddleware(passFunc func(ctx context.Context, key string) (pass bool, lastRequests, curExpiry int, err error)) endpoint.Middleware {
	return createRateLimitMiddleware(func(ctx context.Context) string {
		return httpKit.GetIP(ctx)
	}, passFunc)
}

func CreateGlobalRateLimitMiddleware(key string, passFunc func(ctx context.Context, key string) (pass bool, lastRequests, curExpiry int, err error)) endpoint.Middleware {
	return createRateLimitMiddleware(func(ctx context.Context) string {
		return key
	}, passFunc)
}

func createRateLimitMiddleware(getKey func(ctx context.Context) string, passFunc func(ctx context.Context, key string) (pass bool, lastRequests, curExpiry int, err error)) endpoint.Middleware {
	return func(e endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			pass, _, expiry, err := passFunc(ctx, getKey(ctx))
			if err != nil {
				return nil, errors.Wrap(err, "get rate limit failed")
			}
			if !pass {
				if expiry < 1 { // retry hints can go non-positive under clock skew
					expiry = 1
				}
				return nil, code.CreateErrorCode(http.StatusTooManyRequests).AddCode(code.RateLimit, expiry)
			}
			return e(ctx, request)
		}
	}
}
