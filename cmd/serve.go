package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srad/channelnotify/conf"
	"github.com/srad/channelnotify/controllers"
	"github.com/srad/channelnotify/database"
	"github.com/srad/channelnotify/network"
	"github.com/srad/channelnotify/patterns"
	"github.com/srad/channelnotify/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the http api",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *conf.Cfg) error {
	log.Infof("Version: %s, Commit: %s", Version, Commit)

	if cfg.Secret == "" {
		return errors.New("JWT SECRET is not set")
	}

	db, err := database.Init(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	hub := network.NewHub(cfg.SocketQueueSize)
	go hub.Listen(ctx)

	service := services.NewChannelService(services.WithDatabase(db), services.WithHub(hub))
	service.Events().Subscribe(func(event patterns.Event[services.ChannelEvent]) {
		if err := hub.BroadCastClients(network.SocketEventName(event.Name), event.Data); err != nil {
			log.Warnf("[serve] dropping %s event: %s", event.Name, err)
		}
	})

	gin.SetMode(gin.ReleaseMode)
	endPoint := fmt.Sprintf("0.0.0.0:%d", cfg.Port)

	server := &http.Server{
		Addr:              endPoint,
		Handler:           controllers.Setup(service, hub, cfg.Secret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("[serve] start http server listening %s", endPoint)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Infoln("cleanup ...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Infoln("cleanup complete")

	return nil
}
