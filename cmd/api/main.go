package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront.dev/internal/auth"
	"storefront.dev/internal/config"
	"storefront.dev/internal/httpapi"
	"storefront.dev/internal/obs"
	mongostore "storefront.dev/internal/store/mongo"
	"storefront.dev/internal/upload"
)

var version = "1.0.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("BUILD_COMMIT"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := mongostore.Open(ctx, cfg.Mongo.URL, cfg.Mongo.Database)
	if err != nil {
		cancel()
		log.Fatalf("connect mongodb: %v", err)
	}
	if err := st.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("ensure indexes: %v", err)
	}
	cancel()

	tokens, err := auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	var remote upload.Backend
	if cfg.Upload.Bucket != "" {
		remote, err = upload.NewS3(context.Background(), upload.S3Config{
			Region:          cfg.Upload.Region,
			Bucket:          cfg.Upload.Bucket,
			AccessKeyID:     cfg.Upload.AccessKeyID,
			SecretAccessKey: cfg.Upload.SecretAccessKey,
		})
		if err != nil {
			log.Fatalf("s3 backend: %v", err)
		}
	}

	api := httpapi.New(httpapi.Options{
		Version:        version,
		Tokens:         tokens,
		Orders:         st.Orders(),
		Users:          st.Users(),
		Products:       st.Products(),
		LocalUploads:   upload.NewLocal(cfg.Upload.Dir),
		RemoteUploads:  remote,
		UploadsDir:     cfg.Upload.Dir,
		PayPalClientID: cfg.PayPal.ClientID,
		Ready:          httpapi.ReadyProbe{Pinger: st},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	log.Printf("Starting storefront-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = st.Close(shutdownCtx)
	log.Println("Stopped")
}
