package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vo-directory/config"
	"vo-directory/database"
	apiauth "vo-directory/internal/api/auth"
	routes "vo-directory/internal/app/http"
	"vo-directory/internal/auth"
	"vo-directory/internal/catalog"
	"vo-directory/internal/gateway"
	"vo-directory/internal/infra/cache"
	"vo-directory/internal/infra/queue"
	"vo-directory/internal/infra/storage"
	"vo-directory/internal/workflow"
	"vo-directory/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()
	logger.Init(config.APP_ENV)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.InitDB(config.DB_URL)

	var (
		c        cache.Cache      = cache.NewMemory()
		notifier gateway.Notifier = queue.LogNotifier{}
	)
	if config.REDIS_ADDR != "" {
		rc := cache.NewRedisCache(cache.NewRedisClient(config.REDIS_ADDR, config.REDIS_PASSWORD, config.REDIS_DB))
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		c = rc

		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.REDIS_ADDR,
			Password: config.REDIS_PASSWORD,
			DB:       config.REDIS_DB,
		})
		defer client.Close()
		notifier = queue.NewAsynqNotifier(client)
	} else {
		log.Warn().Msg("REDIS_ADDR not set: in-process cache, submissions are only logged")
	}

	files, err := storage.NewMinIOStorage(ctx, storage.Config{
		Endpoint:  config.MINIO_ENDPOINT,
		AccessKey: config.MINIO_ACCESS_KEY,
		SecretKey: config.MINIO_SECRET_KEY,
		UseSSL:    config.MINIO_USE_SSL,
		PublicURL: config.STORAGE_PUBLIC_URL,
		Buckets: map[gateway.Bucket]string{
			gateway.BucketAvatars: config.STORAGE_BUCKET_AVATAR,
			gateway.BucketDemos:   config.STORAGE_BUCKET_DEMO,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object storage init failed")
	}

	artistStore := database.NewArtistStore(db)
	languageStore := database.NewLanguageStore(db)
	userStore := database.NewUserStore(db)

	tokens := auth.NewTokens(config.JWT_SECRET, auth.DefaultTokenTTL)
	revoked := auth.NewRevocations(c)
	cat := catalog.New(artistStore, languageStore, c)

	deps := routes.Deps{
		Resolver: auth.NewResolver(tokens, revoked, userStore),
		Accounts: auth.NewService(userStore, tokens, revoked),
		Catalog:  cat,
		Artists:  artistStore,
		Workflow: workflow.New(workflow.Deps{
			Artists:   artistStore,
			Demos:     database.NewDemoStore(db),
			Languages: languageStore,
			Files:     files,
			Notifier:  notifier,
			Cache:     cat,
		}),
		Cookies:              apiauth.Cookies{Name: config.SESSION_COOKIE, Secure: config.COOKIE_SECURE},
		CORSOrigin:           config.CORS_ORIGIN,
		SubmissionRatePerMin: config.SUBMISSION_RATE_PER_MIN,
	}
	if config.GoogleEnabled() {
		deps.Google = auth.NewGoogle(auth.GoogleConfig{
			ClientID:     config.GOOGLE_CLIENT_ID,
			ClientSecret: config.GOOGLE_CLIENT_SECRET,
			RedirectURL:  config.GOOGLE_REDIRECT_URL,
		})
		deps.GoogleFrontendRedirect = config.GOOGLE_FRONTEND_REDIRECT
	}

	r, err := routes.NewRouter(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("router init failed")
	}

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
