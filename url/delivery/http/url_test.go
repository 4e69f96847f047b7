package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
	"github.com/Java-Project-IM/Url-shortener-be/kit/code"
)

func TestTranslateError(t *testing.T) {
	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "test not found",
			fn: func(t *testing.T) {
				err := translateError(errors.Wrap(domain.ErrNoData, "short url not found"))
				assert.Equal(t, http.StatusNotFound, code.ParseErrorCode(err).GeneralCode)
			},
		},
		{
			scenario: "test expired",
			fn: func(t *testing.T) {
				err := translateError(errors.Wrap(domain.ErrExpired, "short url expired"))
				errorCode := code.ParseErrorCode(err)
				assert.Equal(t, http.StatusGone, errorCode.GeneralCode)
				assert.Equal(t, code.Expired, errorCode.Code)
			},
		},
		{
			scenario: "test invalid url",
			fn: func(t *testing.T) {
				err := translateError(errors.Wrap(domain.ErrInvalidURL, "scheme must be http or https"))
				errorCode := code.ParseErrorCode(err)
				assert.Equal(t, http.StatusBadRequest, errorCode.GeneralCode)
				assert.Equal(t, code.InvalidURL, errorCode.Code)
			},
		},
		{
			scenario: "test short code exhausted",
			fn: func(t *testing.T) {
				err := translateError(errors.Wrap(domain.ErrShortCodeExhausted, "allocate short code failed"))
				errorCode := code.ParseErrorCode(err)
				assert.Equal(t, http.StatusInternalServerError, errorCode.GeneralCode)
				assert.Equal(t, code.CodeExhausted, errorCode.Code)
			},
		},
		{
			scenario: "test unmapped error passes through",
			fn: func(t *testing.T) {
				cause := errors.New("connection reset")
				assert.Equal(t, cause, translateError(cause))
			},
		},
		{
			scenario: "test nil error",
			fn: func(t *testing.T) {
				assert.Nil(t, translateError(nil))
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}

func TestDecodeRequests(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "test decode shorten request",
			fn: func(t *testing.T) {
				r := httptest.NewRequest(http.MethodPost, "/api/v1/data/shorten", strings.NewReader(`{"longURL":"https://example.com/article"}`))

				request, err := DecodeURLShortenRequest(ctx, r)
				assert.Nil(t, err)
				assert.Equal(t, "https://example.com/article", request.(urlShortenRequest).LongURL)
			},
		},
		{
			scenario: "test decode shorten request with invalid body",
			fn: func(t *testing.T) {
				r := httptest.NewRequest(http.MethodPost, "/api/v1/data/shorten", strings.NewReader(`{`))

				_, err := DecodeURLShortenRequest(ctx, r)
				assert.Equal(t, http.StatusBadRequest, code.ParseErrorCode(err).GeneralCode)
			},
		},
		{
			scenario: "test decode get request",
			fn: func(t *testing.T) {
				r := httptest.NewRequest(http.MethodGet, "/api/v1/shortUrl/abc1234", nil)
				r = mux.SetURLVars(r, map[string]string{"shortURL": "abc1234"})

				request, err := DecodeURLGetRequest(ctx, r)
				assert.Nil(t, err)
				assert.Equal(t, "abc1234", request.(urlGetRequest).ShortURL)
			},
		},
		{
			scenario: "test decode get request without path variable",
			fn: func(t *testing.T) {
				r := httptest.NewRequest(http.MethodGet, "/api/v1/shortUrl/abc1234", nil)

				_, err := DecodeURLGetRequest(ctx, r)
				assert.NotNil(t, err)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}

func TestEncodeURLGetResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	assert.Nil(t, EncodeURLGetResponse(context.Background(), recorder, urlGetResponse{LongURL: "https://example.com/article"}))
	assert.Equal(t, http.StatusMovedPermanently, recorder.Code)
	assert.Equal(t, "https://example.com/article", recorder.Header().Get("Location"))
}
