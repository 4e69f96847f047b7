package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
)

type urlStatsRequest struct {
	ShortURL string `json:"shortURL"`
}

type urlStatsResponse struct {
	*domain.ShortURL
	ClickHistory []*domain.ClickEvent `json:"click_history"`
}

func MakeURLStatsEndpoint(svc domain.URLService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(urlStatsRequest)
		record, clickEvents, err := svc.GetStats(ctx, req.ShortURL)
		if err != nil {
			return nil, translateError(err)
		}
		return &urlStatsResponse{
			ShortURL:     record,
			ClickHistory: clickEvents,
		}, nil
	}
}

func DecodeURLStatsRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	shortURL, ok := vars["shortURL"]
	if !ok {
		return nil, errors.New("get shortURL failed")
	}
	return urlStatsRequest{ShortURL: shortURL}, nil
}

func EncodeURLStatsResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}
