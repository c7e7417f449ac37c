package controllers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	v1 "github.com/srad/channelnotify/controllers/api/v1"
	"github.com/srad/channelnotify/middlewares"
	"github.com/srad/channelnotify/network"
	"github.com/srad/channelnotify/services"
)

// Setup InitRouter initialize routing information
func Setup(service *services.ChannelService, hub *network.Hub, secret string) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowWebSockets:  true,
		AllowWildcard:    true,
	}))

	channels := &v1.ChannelController{Service: service}
	auth := middlewares.CheckAuthorizationHeader(secret)

	apiV1 := router.Group("/api/v1")
	{
		// Channels
		apiV1.GET("/channels", channels.GetChannels)
		apiV1.POST("/channels", auth, channels.CreateChannel)
		apiV1.GET("/channels/:name", channels.GetChannel)
		apiV1.POST("/channels/:name/videos", auth, channels.UploadVideo)

		// Subscribers
		apiV1.POST("/channels/:name/subscribers", auth, channels.AddSubscriber)
		apiV1.PUT("/channels/:name/subscribers/:id", auth, channels.AttachSubscriber)
		apiV1.DELETE("/channels/:name/subscribers/:id", auth, channels.RemoveSubscriber)
		apiV1.GET("/subscribers/:id/inbox", auth, channels.GetInbox)

		apiV1.GET("/ws", auth, hub.WsHandler)
	}

	return router
}
