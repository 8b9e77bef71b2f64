package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/database/mongoclient"
	"github.com/rentable-xyz/goapi/base/database/redisclient"
	"github.com/rentable-xyz/goapi/base/goroutine"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/base/metrics"
	bValidator "github.com/rentable-xyz/goapi/base/validator"
	"github.com/rentable-xyz/goapi/domain"
	mmiddleware "github.com/rentable-xyz/goapi/middleware"
	"github.com/rentable-xyz/goapi/service/indexer"
	"github.com/rentable-xyz/goapi/service/query"
	"github.com/rentable-xyz/goapi/service/redis"
	"github.com/rentable-xyz/goapi/service/transaction"
	account_delivery "github.com/rentable-xyz/goapi/stores/account/delivery/http"
	account_repository "github.com/rentable-xyz/goapi/stores/account/repository"
	account_usecase "github.com/rentable-xyz/goapi/stores/account/usecase"
	auth_delivery "github.com/rentable-xyz/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/rentable-xyz/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/rentable-xyz/goapi/stores/auth/usecase"
	hc_delivery "github.com/rentable-xyz/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/rentable-xyz/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/rentable-xyz/goapi/stores/healthcheck/usecase"
	marketplace_delivery "github.com/rentable-xyz/goapi/stores/marketplace/delivery/http"
	marketplace_usecase "github.com/rentable-xyz/goapi/stores/marketplace/usecase"
	paymentmint_repository "github.com/rentable-xyz/goapi/stores/paymentmint/repository"
	project_repository "github.com/rentable-xyz/goapi/stores/project/repository"
	rental_delivery "github.com/rentable-xyz/goapi/stores/rental/delivery/http"
	rental_usecase "github.com/rentable-xyz/goapi/stores/rental/usecase"
	statistic_delivery "github.com/rentable-xyz/goapi/stores/statistic/delivery/http"
	statistic_repository "github.com/rentable-xyz/goapi/stores/statistic/repository"
	statistic_usecase "github.com/rentable-xyz/goapi/stores/statistic/usecase"
	tokenmanager_delivery "github.com/rentable-xyz/goapi/stores/tokenmanager/delivery/http"
	tokenmanager_repository "github.com/rentable-xyz/goapi/stores/tokenmanager/repository"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrive token from #/auth/post_auth_sign and apply with `bearer {token}`
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	httpTimeout := viper.GetDuration("http.timeout")
	transactionClient := transaction.NewClient(&transaction.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    httpTimeout,
		BaseUrl:    viper.GetString("transaction.baseUrl"),
		Apikey:     viper.GetString("transaction.apikey"),
	})
	indexerClient := indexer.NewClient(&indexer.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    httpTimeout,
		BaseUrl:    viper.GetString("indexer.baseUrl"),
		Apikey:     viper.GetString("indexer.apikey"),
		Retries:    viper.GetInt("indexer.retries"),
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	tokenManagerRepo := tokenmanager_repository.New(q)
	projectRepo := project_repository.New(q)
	paymentMintRepo := paymentmint_repository.New(q, redisCache)
	accountRepo := account_repository.New(q, redisCache)
	statisticRepo := statistic_repository.New(q)

	hc := hc_usecase.New(hcRepo)
	account := account_usecase.New(&account_usecase.AccountUseCaseCfg{
		Repo:         accountRepo,
		SignatureMsg: viper.GetString("auth.signatureMsg"),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), account)
	marketplace := marketplace_usecase.New(&marketplace_usecase.MarketplaceUseCaseCfg{
		TokenManagerRepo: tokenManagerRepo,
		ProjectRepo:      projectRepo,
		PaymentMintRepo:  paymentMintRepo,
		Metrics:          metrics.New("marketplace"),
	})
	rental := rental_usecase.New(&rental_usecase.RentalUseCaseCfg{
		TokenManagerRepo: tokenManagerRepo,
		TokenSource:      indexerClient,
		ProjectRepo:      projectRepo,
		PaymentMintRepo:  paymentMintRepo,
		AccountUC:        account,
		Transactions:     transactionClient,
		Metrics:          metrics.New("rental"),
	})
	statistic := statistic_usecase.New(&statistic_usecase.StatisticUseCaseCfg{
		StatisticRepo:    statisticRepo,
		TokenManagerRepo: tokenManagerRepo,
		ProjectRepo:      projectRepo,
		PaymentMintRepo:  paymentMintRepo,
	})

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, account, viper.GetString("auth.signatureMsg"))
	account_delivery.New(e, account, authMiddleware)
	tokenmanager_delivery.New(e, tokenManagerRepo)
	marketplace_delivery.New(e, marketplace)
	rental_delivery.New(e, rental, authMiddleware)
	statistic_delivery.New(e, statistic, authMiddleware)

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"address": c.Get("address").(domain.Address),
		})
	}, authMiddleware.Auth())

	// refresh project stats periodically in background
	statsRefreshInterval := viper.GetDuration("statistic.refreshInterval")
	if statsRefreshInterval > 0 {
		goroutine.RecoverableGo(func() {
			ticker := time.NewTicker(statsRefreshInterval)
			defer ticker.Stop()
			for range ticker.C {
				if err := statistic.RefreshAll(context); err != nil {
					context.WithField("err", err).Error("statistic.RefreshAll failed")
				}
			}
		})
	}

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
