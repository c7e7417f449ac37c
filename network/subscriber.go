package network

import (
	"github.com/srad/channelnotify/patterns"
)

type VideoUpload struct {
	SubscriberId   string `json:"subscriberId"`
	SubscriberName string `json:"subscriberName"`
	Title          string `json:"title"`
}

// SocketSubscriber Forwards every received title to the websocket clients.
type SocketSubscriber struct {
	Id   string
	name string
	hub  *Hub
}

var _ patterns.Subscriber = (*SocketSubscriber)(nil)

func NewSocketSubscriber(hub *Hub, id, name string) *SocketSubscriber {
	return &SocketSubscriber{Id: id, name: name, hub: hub}
}

func (s *SocketSubscriber) Name() string {
	return s.name
}

func (s *SocketSubscriber) Receive(title string) error {
	return s.hub.BroadCastClients(VideoUploadEvent, VideoUpload{
		SubscriberId:   s.Id,
		SubscriberName: s.name,
		Title:          title,
	})
}
