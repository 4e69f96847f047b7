package http

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
	"github.com/Java-Project-IM/Url-shortener-be/kit/code"
)

// translateError maps domain sentinels onto transport error codes. Anything
// unmapped surfaces as an internal error with its call stack preserved.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNoData):
		return code.CreateErrorCode(http.StatusNotFound).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrExpired):
		return code.CreateErrorCode(http.StatusGone).AddCode(code.Expired).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrInvalidURL):
		return code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidURL).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrShortCodeExhausted):
		return code.CreateErrorCode(http.StatusInternalServerError).AddCode(code.CodeExhausted).AddErrorMetaData(err)
	default:
		return err
	}
}
