package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
)

type urlDeleteRequest struct {
	ShortURL string `json:"shortURL"`
}

func MakeURLDeleteEndpoint(svc domain.URLService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(urlDeleteRequest)
		if err := svc.Delete(ctx, req.ShortURL); err != nil {
			return nil, translateError(err)
		}
		return nil, nil
	}
}

func DecodeURLDeleteRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	shortURL, ok := vars["shortURL"]
	if !ok {
		return nil, errors.New("get shortURL failed")
	}
	return urlDeleteRequest{ShortURL: shortURL}, nil
}

func EncodeURLDeleteResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	return nil
}
