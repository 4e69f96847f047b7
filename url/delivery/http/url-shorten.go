package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
	"github.com/Java-Project-IM/Url-shortener-be/kit/code"
)

type urlShortenRequest struct {
	LongURL   string     `json:"longURL"`
	Category  string     `json:"category,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type urlShortenResponse struct {
	ShortURL  string     `json:"shortURL"`
	LongURL   string     `json:"longURL"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func MakeURLShortenEndpoint(svc domain.URLService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(urlShortenRequest)
		record, err := svc.Save(ctx, domain.SaveURLRequest{
			OriginalURL: req.LongURL,
			Category:    req.Category,
			ExpiresAt:   req.ExpiresAt,
		})
		if err != nil {
			return nil, translateError(err)
		}
		return &urlShortenResponse{
			ShortURL:  record.ShortCode,
			LongURL:   record.OriginalURL,
			CreatedAt: record.CreatedAt,
			ExpiresAt: record.ExpiresAt,
		}, nil
	}
}

func DecodeURLShortenRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	var request urlShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
	}
	return request, nil
}

func EncodeURLShortenResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(response)
}
