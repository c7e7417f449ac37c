package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/srad/channelnotify/app"
	"github.com/srad/channelnotify/models/requests"
	"github.com/srad/channelnotify/services"
)

type ChannelController struct {
	Service *services.ChannelService
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrChannelNotFound), errors.Is(err, services.ErrSubscriberNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrChannelExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnknownKind), errors.Is(err, services.ErrKindUnavailable), errors.Is(err, services.ErrNotAnInbox):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetChannels godoc
// @Summary     Return a list of channels
// @Tags        channels
// @Produce     json
// @Success     200 {object} []services.ChannelInfo
// @Router      /channels [get]
func (ctl *ChannelController) GetChannels(c *gin.Context) {
	appG := app.Gin{C: c}
	appG.Response(http.StatusOK, ctl.Service.Channels())
}

// GetChannel godoc
// @Summary     Return the data of one channel
// @Param       name path string true  "Channel name"
// @Tags        channels
// @Produce     json
// @Success     200 {object} services.ChannelInfo
// @Failure     404 {}  http.StatusNotFound
// @Router      /channels/{name} [get]
func (ctl *ChannelController) GetChannel(c *gin.Context) {
	appG := app.Gin{C: c}

	if response, err := ctl.Service.GetChannel(c.Param("name")); err != nil {
		appG.Error(statusOf(err), err)
	} else {
		appG.Response(http.StatusOK, response)
	}
}

// CreateChannel godoc
// @Summary     Add a new channel
// @Tags        channels
// @Param       ChannelRequest body requests.ChannelRequest true "Channel data"
// @Accept      json
// @Produce     json
// @Success     200 {object} services.ChannelInfo
// @Failure     400 {} http.StatusBadRequest
// @Failure     409 {} http.StatusConflict
// @Router      /channels [post]
func (ctl *ChannelController) CreateChannel(c *gin.Context) {
	appG := app.Gin{C: c}

	data := &requests.ChannelRequest{}
	if code := app.BindAndValid(c, data); code != http.StatusOK {
		appG.Error(code, errors.New("error parsing request"))
		return
	}

	info, err := ctl.Service.CreateChannel(data.ChannelName)
	if err != nil {
		code := statusOf(err)
		// Anything but a conflict is an invalid name.
		if code == http.StatusInternalServerError {
			code = http.StatusBadRequest
		}
		appG.Error(code, err)
		return
	}

	appG.Response(http.StatusOK, info)
}

// AddSubscriber godoc
// @Summary     Create a subscriber and subscribe it to the channel
// @Tags        subscribers
// @Param       name path string true "Channel name"
// @Param       SubscriberRequest body requests.SubscriberRequest true "Subscriber data"
// @Accept      json
// @Produce     json
// @Success     200 {object} services.SubscriberInfo
// @Router      /channels/{name}/subscribers [post]
func (ctl *ChannelController) AddSubscriber(c *gin.Context) {
	appG := app.Gin{C: c}

	data := &requests.SubscriberRequest{}
	if code := app.BindAndValid(c, data); code != http.StatusOK {
		appG.Error(code, errors.New("error parsing request"))
		return
	}

	info, err := ctl.Service.AddSubscriber(c.Param("name"), data.Name, services.SubscriberKind(data.Kind))
	if err != nil {
		appG.Error(statusOf(err), err)
		return
	}

	appG.Response(http.StatusOK, info)
}

// AttachSubscriber godoc
// @Summary     Subscribe an existing subscriber to the channel
// @Tags        subscribers
// @Param       name path string true "Channel name"
// @Param       id path string true "Subscriber id"
// @Success     200
// @Router      /channels/{name}/subscribers/{id} [put]
func (ctl *ChannelController) AttachSubscriber(c *gin.Context) {
	appG := app.Gin{C: c}

	if err := ctl.Service.AttachSubscriber(c.Param("name"), c.Param("id")); err != nil {
		appG.Error(statusOf(err), err)
		return
	}

	appG.Response(http.StatusOK, nil)
}

// RemoveSubscriber godoc
// @Summary     Unsubscribe a subscriber from the channel
// @Tags        subscribers
// @Param       name path string true "Channel name"
// @Param       id path string true "Subscriber id"
// @Success     200
// @Router      /channels/{name}/subscribers/{id} [delete]
func (ctl *ChannelController) RemoveSubscriber(c *gin.Context) {
	appG := app.Gin{C: c}

	if err := ctl.Service.RemoveSubscriber(c.Param("name"), c.Param("id")); err != nil {
		appG.Error(statusOf(err), err)
		return
	}

	appG.Response(http.StatusOK, nil)
}

// UploadVideo godoc
// @Summary     Publish a new video and notify all subscribers
// @Tags        channels
// @Param       name path string true "Channel name"
// @Param       UploadRequest body requests.UploadRequest true "Video"
// @Accept      json
// @Success     200
// @Failure     500 {} http.StatusInternalServerError
// @Router      /channels/{name}/videos [post]
func (ctl *ChannelController) UploadVideo(c *gin.Context) {
	appG := app.Gin{C: c}

	data := &requests.UploadRequest{}
	if code := app.BindAndValid(c, data); code != http.StatusOK {
		appG.Error(code, errors.New("error parsing request"))
		return
	}

	if err := ctl.Service.Upload(c.Param("name"), data.Title); err != nil {
		appG.Error(statusOf(err), err)
		return
	}

	appG.Response(http.StatusOK, nil)
}

// GetInbox godoc
// @Summary     List the notifications stored by an inbox subscriber
// @Tags        subscribers
// @Param       id path string true "Subscriber id"
// @Produce     json
// @Success     200 {object} []database.Notification
// @Router      /subscribers/{id}/inbox [get]
func (ctl *ChannelController) GetInbox(c *gin.Context) {
	appG := app.Gin{C: c}

	notifications, err := ctl.Service.Inbox(c.Param("id"))
	if err != nil {
		log.Errorf("[GetInbox] %s", err)
		appG.Error(statusOf(err), err)
		return
	}

	appG.Response(http.StatusOK, notifications)
}
