package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	httpKit "github.com/Java-Project-IM/Url-shortener-be/kit/http"
	httpMiddlewareKit "github.com/Java-Project-IM/Url-shortener-be/kit/http/middleware"
	loggerKit "github.com/Java-Project-IM/Url-shortener-be/kit/logger"
	"github.com/Java-Project-IM/Url-shortener-be/kit/mq"
	kafkaMQKit "github.com/Java-Project-IM/Url-shortener-be/kit/mq/kafka"
	memoryMQKit "github.com/Java-Project-IM/Url-shortener-be/kit/mq/memory"
	ormKit "github.com/Java-Project-IM/Url-shortener-be/kit/orm"
	redisKit "github.com/Java-Project-IM/Url-shortener-be/kit/redis"
	traceKit "github.com/Java-Project-IM/Url-shortener-be/kit/trace"
	utilKit "github.com/Java-Project-IM/Url-shortener-be/kit/util"
	"github.com/Java-Project-IM/Url-shortener-be/domain"
	urlCache "github.com/Java-Project-IM/Url-shortener-be/url/cache"
	deliveryHTTP "github.com/Java-Project-IM/Url-shortener-be/url/delivery/http"
	"github.com/Java-Project-IM/Url-shortener-be/url/ratelimit"
	mysqlRepo "github.com/Java-Project-IM/Url-shortener-be/url/repository/mysql"
	"github.com/Java-Project-IM/Url-shortener-be/url/usecase"
)

const (
	SYSTEM_NAME  = "system"
	SERVICE_NAME = "url_shortener"
)

func main() {
	var (
		enableTracer     = utilKit.GetEnvBool("ENABLE_TRACER", false)
		enableMetric     = utilKit.GetEnvBool("ENABLE_METRIC", false)
		env              = utilKit.GetEnvString("ENV", "development")
		addr             = utilKit.GetEnvString("ADDR", ":9091")
		mysqlDSN         = utilKit.GetEnvString("MYSQL_DSN", "")
		postgresDSN      = utilKit.GetEnvString("POSTGRES_DSN", "")
		sqliteFile       = utilKit.GetEnvString("SQLITE_FILE", "./url-shortener.db")
		kafkaURL         = utilKit.GetEnvString("KAFKA_URL", "")
		rateLimitBackend = utilKit.GetEnvString("RATE_LIMIT_BACKEND", "memory")
		redisAddr        = utilKit.GetEnvString("REDIS_ADDR", "localhost:6379")
		redisPassword    = utilKit.GetEnvString("REDIS_PASSWORD", "")
		rateLimitMax     = utilKit.GetEnvInt("RATE_LIMIT_MAX_REQUESTS", 10)
		rateLimitWindow  = utilKit.GetEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)
		cacheBuckets     = utilKit.GetEnvInt("CACHE_BUCKET_COUNT", urlCache.DefaultBucketCount)
	)

	ctx := context.Background()

	logLevel := loggerKit.InfoLevel
	if env == "development" {
		logLevel = loggerKit.DebugLevel
	}
	logger, err := loggerKit.NewLogger("./go.log", logLevel, loggerKit.WithRotateLog(100, 3, 28))
	if err != nil {
		panic(err)
	}

	var dbOption ormKit.Option
	switch {
	case mysqlDSN != "":
		dbOption = ormKit.UseMySQL(mysqlDSN)
	case postgresDSN != "":
		dbOption = ormKit.UsePostgres(postgresDSN)
	default:
		dbOption = ormKit.UseSQLite(sqliteFile)
	}
	singletonDB, err := ormKit.CreateDB(dbOption)
	if err != nil {
		panic(err)
	}

	var rateLimitPass func(ctx context.Context, key string) (bool, int, int, error)
	switch rateLimitBackend {
	case "redis":
		singletonCache, err := redisKit.CreateCache(redisAddr, redisPassword, 0)
		if err != nil {
			panic(err)
		}
		rateLimitPass = ratelimit.CreateRedisRateLimit(singletonCache, rateLimitMax, rateLimitWindow).Pass
	default:
		slidingWindow := ratelimit.CreateSlidingWindowRateLimit(time.Duration(rateLimitWindow)*time.Second, rateLimitMax)
		slidingWindow.StartCleanup(ctx, time.Duration(rateLimitWindow)*time.Second)
		rateLimitPass = slidingWindow.Pass
	}

	var clickMQ mq.MQTopic
	if kafkaURL != "" {
		clickMQ = kafkaMQKit.CreateKafkaMQ(ctx, kafkaURL, domain.ClickEventTopic, SERVICE_NAME)
	} else {
		clickMQ = memoryMQKit.CreateMemoryMQ(ctx, 100)
	}

	var tracer trace.Tracer
	if enableTracer {
		tracer, err = traceKit.CreateTracer(ctx, SERVICE_NAME)
		if err != nil {
			panic(err)
		}
	} else {
		tracer = traceKit.CreateNoOpTracer()
	}

	urlService, err := usecase.CreateURLService(
		mysqlRepo.CreateURLRepo(singletonDB),
		urlCache.CreateShortURLCache(cacheBuckets),
		clickMQ,
		logger,
	)
	if err != nil {
		panic(err)
	}

	customMiddleware := endpoint.Chain(
		httpMiddlewareKit.CreateLoggingMiddleware(logger),
		httpMiddlewareKit.CreateMetrics(SYSTEM_NAME, SERVICE_NAME),
	)
	rateLimitMiddleware := httpMiddlewareKit.CreateRateLimitMiddleware(rateLimitPass)

	r := mux.NewRouter()
	options := []httptransport.ServerOption{
		httptransport.ServerBefore(httpKit.CustomBeforeCtx(tracer)),
		httptransport.ServerAfter(httpKit.CustomAfterCtx),
		httptransport.ServerErrorEncoder(httpKit.EncodeHTTPErrorResponse()),
	}
	urlShortenHandler := httptransport.NewServer(
		customMiddleware(rateLimitMiddleware(deliveryHTTP.MakeURLShortenEndpoint(urlService))),
		deliveryHTTP.DecodeURLShortenRequest,
		deliveryHTTP.EncodeURLShortenResponse,
		options...,
	)
	urlGetHandler := httptransport.NewServer(
		customMiddleware(deliveryHTTP.MakeURLGetEndpoint(urlService)),
		deliveryHTTP.DecodeURLGetRequest,
		deliveryHTTP.EncodeURLGetResponse,
		options...,
	)
	urlStatsHandler := httptransport.NewServer(
		customMiddleware(deliveryHTTP.MakeURLStatsEndpoint(urlService)),
		deliveryHTTP.DecodeURLStatsRequest,
		deliveryHTTP.EncodeURLStatsResponse,
		options...,
	)
	urlDeleteHandler := httptransport.NewServer(
		customMiddleware(rateLimitMiddleware(deliveryHTTP.MakeURLDeleteEndpoint(urlService))),
		deliveryHTTP.DecodeURLDeleteRequest,
		httpMiddlewareKit.EncodeResponseSetSuccessHTTPCode(deliveryHTTP.EncodeURLDeleteResponse),
		options...,
	)
	r.Methods("POST").Path("/api/v1/data/shorten").Handler(urlShortenHandler)
	r.Methods("GET").Path("/api/v1/shortUrl/{shortURL}").Handler(urlGetHandler)
	r.Methods("GET").Path("/api/v1/shortUrl/{shortURL}/stats").Handler(urlStatsHandler)
	r.Methods("DELETE").Path("/api/v1/shortUrl/{shortURL}").Handler(urlDeleteHandler)
	if enableMetric {
		r.Handle("/metrics", promhttp.Handler())
	}

	log.Fatal(http.ListenAndServe(addr, r))
}
