package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/srad/channelnotify/database"
	"github.com/srad/channelnotify/models"
	"github.com/srad/channelnotify/network"
	"github.com/srad/channelnotify/patterns"
	"gorm.io/gorm"
)

type SubscriberKind string

const (
	KindPrint  SubscriberKind = "print"
	KindLog    SubscriberKind = "log"
	KindInbox  SubscriberKind = "inbox"
	KindSocket SubscriberKind = "socket"
)

var (
	ErrChannelNotFound    = errors.New("channel not found")
	ErrChannelExists      = errors.New("channel already exists")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrUnknownKind        = errors.New("unknown subscriber kind")
	ErrNotAnInbox         = errors.New("subscriber has no inbox")
	ErrKindUnavailable    = errors.New("subscriber kind is not available")
)

type SubscriberInfo struct {
	SubscriberId string         `json:"subscriberId" extensions:"!x-nullable"`
	Name         string         `json:"name" extensions:"!x-nullable"`
	Kind         SubscriberKind `json:"kind" extensions:"!x-nullable"`
}

type ChannelInfo struct {
	ChannelName database.ChannelName `json:"channelName" extensions:"!x-nullable"`
	DisplayName string               `json:"displayName" extensions:"!x-nullable"`
	Subscribers []SubscriberInfo     `json:"subscribers" extensions:"!x-nullable"`
}

type ChannelEvent struct {
	ChannelName  database.ChannelName `json:"channelName"`
	SubscriberId string               `json:"subscriberId,omitempty"`
	Title        string               `json:"title,omitempty"`
}

type registeredSubscriber struct {
	info       SubscriberInfo
	subscriber patterns.Subscriber
}

type ChannelServiceOption func(*ChannelService)

// WithDatabase enables inbox subscribers.
func WithDatabase(db *gorm.DB) ChannelServiceOption {
	return func(service *ChannelService) {
		service.db = db
	}
}

// WithHub enables socket subscribers.
func WithHub(hub *network.Hub) ChannelServiceOption {
	return func(service *ChannelService) {
		service.hub = hub
	}
}

// WithOutput sets the writer of print subscribers, stdout by default.
func WithOutput(out io.Writer) ChannelServiceOption {
	return func(service *ChannelService) {
		service.out = out
	}
}

// ChannelService Holds the channels and subscribers created through the API.
// Subscribers are registered independently of channels and can be attached to several of them.
type ChannelService struct {
	mu          sync.RWMutex
	channels    map[database.ChannelName]*patterns.Channel
	displayName map[database.ChannelName]string
	order       []database.ChannelName
	subscribers map[string]*registeredSubscriber

	db     *gorm.DB
	hub    *network.Hub
	out    io.Writer
	events patterns.Dispatcher[ChannelEvent]
}

func NewChannelService(opts ...ChannelServiceOption) *ChannelService {
	service := &ChannelService{
		channels:    map[database.ChannelName]*patterns.Channel{},
		displayName: map[database.ChannelName]string{},
		subscribers: map[string]*registeredSubscriber{},
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Events Lifecycle events of all channels: creation, (un)subscriptions and uploads.
func (service *ChannelService) Events() *patterns.Dispatcher[ChannelEvent] {
	return &service.events
}

func (service *ChannelService) CreateChannel(name string) (*ChannelInfo, error) {
	displayName := strings.TrimSpace(name)
	channelName := database.ChannelName(displayName)
	if err := channelName.IsValid(); err != nil {
		return nil, err
	}
	channelName = channelName.Normalize()

	service.mu.Lock()
	if _, ok := service.channels[channelName]; ok {
		service.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrChannelExists, channelName)
	}
	service.channels[channelName] = patterns.NewChannel(displayName, patterns.WithAnnouncer(service.announce(channelName)))
	service.displayName[channelName] = displayName
	service.order = append(service.order, channelName)
	info := service.info(channelName)
	service.mu.Unlock()

	log.Infof("[CreateChannel] created channel %s", channelName)
	service.events.Notify(string(network.ChannelCreateEvent), ChannelEvent{ChannelName: channelName})

	return info, nil
}

func (service *ChannelService) announce(channelName database.ChannelName) func(channel, title string) {
	return func(channel, title string) {
		log.Infof("[%s] uploaded %q", channel, title)
		service.events.Notify(string(network.ChannelUploadEvent), ChannelEvent{ChannelName: channelName, Title: title})
	}
}

func (service *ChannelService) GetChannel(name string) (*ChannelInfo, error) {
	channelName := database.ChannelName(name).Normalize()

	service.mu.RLock()
	defer service.mu.RUnlock()

	if _, ok := service.channels[channelName]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelName)
	}
	return service.info(channelName), nil
}

// Channels Lists all channels in creation order.
func (service *ChannelService) Channels() []ChannelInfo {
	service.mu.RLock()
	defer service.mu.RUnlock()

	result := make([]ChannelInfo, 0, len(service.order))
	for _, channelName := range service.order {
		result = append(result, *service.info(channelName))
	}
	return result
}

// info must be called with the lock held.
func (service *ChannelService) info(channelName database.ChannelName) *ChannelInfo {
	channel := service.channels[channelName]
	info := &ChannelInfo{
		ChannelName: channelName,
		DisplayName: service.displayName[channelName],
		Subscribers: []SubscriberInfo{},
	}
	for _, subscriber := range channel.Subscribers() {
		if registered := service.lookup(subscriber); registered != nil {
			info.Subscribers = append(info.Subscribers, registered.info)
		}
	}
	return info
}

func (service *ChannelService) lookup(subscriber patterns.Subscriber) *registeredSubscriber {
	for _, registered := range service.subscribers {
		if registered.subscriber == subscriber {
			return registered
		}
	}
	return nil
}

func (service *ChannelService) newSubscriber(id, name string, kind SubscriberKind) (patterns.Subscriber, error) {
	switch kind {
	case KindPrint:
		return models.NewPrintSubscriber(name, service.out), nil
	case KindLog:
		return models.NewLogSubscriber(name), nil
	case KindInbox:
		if service.db == nil {
			return nil, fmt.Errorf("%w: %s", ErrKindUnavailable, kind)
		}
		subscriber, err := database.NewInboxSubscriber(service.db, id, name)
		if err != nil {
			return nil, err
		}
		return subscriber, nil
	case KindSocket:
		if service.hub == nil {
			return nil, fmt.Errorf("%w: %s", ErrKindUnavailable, kind)
		}
		return network.NewSocketSubscriber(service.hub, id, name), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// CreateSubscriber Registers a subscriber without subscribing it to any channel.
func (service *ChannelService) CreateSubscriber(name string, kind SubscriberKind) (*SubscriberInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("subscriber name must not be empty")
	}

	id := uuid.NewString()
	subscriber, err := service.newSubscriber(id, name, kind)
	if err != nil {
		return nil, err
	}

	info := SubscriberInfo{SubscriberId: id, Name: name, Kind: kind}

	service.mu.Lock()
	service.subscribers[id] = &registeredSubscriber{info: info, subscriber: subscriber}
	service.mu.Unlock()

	return &info, nil
}

// AddSubscriber Creates a subscriber and subscribes it to the channel.
func (service *ChannelService) AddSubscriber(channelName, name string, kind SubscriberKind) (*SubscriberInfo, error) {
	if _, err := service.channel(channelName); err != nil {
		return nil, err
	}

	info, err := service.CreateSubscriber(name, kind)
	if err != nil {
		return nil, err
	}

	if err := service.AttachSubscriber(channelName, info.SubscriberId); err != nil {
		return nil, err
	}

	return info, nil
}

// AttachSubscriber Subscribes an existing subscriber. Attaching twice has no effect and emits no event.
func (service *ChannelService) AttachSubscriber(channelName, subscriberId string) error {
	channel, err := service.channel(channelName)
	if err != nil {
		return err
	}
	registered, err := service.subscriber(subscriberId)
	if err != nil {
		return err
	}

	if !channel.Subscribe(registered.subscriber) {
		return nil
	}
	service.events.Notify(string(network.ChannelSubscribeEvent), ChannelEvent{
		ChannelName:  database.ChannelName(channelName).Normalize(),
		SubscriberId: subscriberId,
	})

	return nil
}

// RemoveSubscriber Unsubscribes the subscriber from the channel. The subscriber stays registered.
// Removing a subscriber that is not subscribed emits no event.
func (service *ChannelService) RemoveSubscriber(channelName, subscriberId string) error {
	channel, err := service.channel(channelName)
	if err != nil {
		return err
	}
	registered, err := service.subscriber(subscriberId)
	if err != nil {
		return err
	}

	if !channel.Unsubscribe(registered.subscriber) {
		return nil
	}
	service.events.Notify(string(network.ChannelUnsubscribeEvent), ChannelEvent{
		ChannelName:  database.ChannelName(channelName).Normalize(),
		SubscriberId: subscriberId,
	})

	return nil
}

// Upload Publishes a video title on the channel.
func (service *ChannelService) Upload(channelName, title string) error {
	channel, err := service.channel(channelName)
	if err != nil {
		return err
	}

	if err := channel.Upload(title); err != nil {
		log.Errorf("[Upload] %s", err)
		return err
	}

	return nil
}

func (service *ChannelService) Inbox(subscriberId string) ([]*database.Notification, error) {
	registered, err := service.subscriber(subscriberId)
	if err != nil {
		return nil, err
	}
	if registered.info.Kind != KindInbox {
		return nil, fmt.Errorf("%w: %s", ErrNotAnInbox, subscriberId)
	}

	return database.Inbox(service.db, subscriberId)
}

func (service *ChannelService) channel(name string) (*patterns.Channel, error) {
	channelName := database.ChannelName(name).Normalize()

	service.mu.RLock()
	defer service.mu.RUnlock()

	channel, ok := service.channels[channelName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelName)
	}
	return channel, nil
}

func (service *ChannelService) subscriber(id string) (*registeredSubscriber, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	registered, ok := service.subscribers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSubscriberNotFound, id)
	}
	return registered, nil
}
