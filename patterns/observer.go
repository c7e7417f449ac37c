//go:generate mockgen -destination=../internal/mocks/subscriber.go -package=mocks github.com/srad/channelnotify/patterns Subscriber

package patterns

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNotificationFailed = errors.New("subscriber notification failed")
)

// Subscriber receives the title of every video uploaded to a channel it is subscribed to.
// Subscribers are identified with ==, usually a pointer. Values of a type that is not
// comparable are identified by deep equality instead.
type Subscriber interface {
	Receive(title string) error
	Name() string
}

// Publisher is the subject side of the channel subscription.
type Publisher interface {
	Subscribe(Subscriber) bool
	Unsubscribe(Subscriber) bool
	NotifySubscribers(title string) error
}

// NotificationError is returned when a subscriber fails to receive a title.
// Subscribers after the failing one have not been notified.
type NotificationError struct {
	Channel    string
	Subscriber string
	Title      string
	Err        error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s: channel %s, subscriber %s, title %q: %s", ErrNotificationFailed, e.Channel, e.Subscriber, e.Title, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func (e *NotificationError) Is(target error) bool {
	return target == ErrNotificationFailed
}

type ChannelOption func(*Channel)

// WithAnnouncer replaces the hook that announces an upload before subscribers are notified.
func WithAnnouncer(announce func(channel, title string)) ChannelOption {
	return func(channel *Channel) {
		channel.announce = announce
	}
}

// Channel keeps an ordered set of subscribers. The channel does not own them,
// the same subscriber can be subscribed to any number of channels.
type Channel struct {
	name        string
	mu          sync.RWMutex
	subscribers []Subscriber
	announce    func(channel, title string)
}

var _ Publisher = (*Channel)(nil)

func NewChannel(name string, opts ...ChannelOption) *Channel {
	channel := &Channel{
		name:        name,
		subscribers: []Subscriber{},
		announce:    logUpload,
	}
	for _, opt := range opts {
		opt(channel)
	}
	return channel
}

func logUpload(channel, title string) {
	log.Infof("[%s] uploaded %q", channel, title)
}

func (channel *Channel) Name() string {
	return channel.name
}

// Subscribe adds the subscriber unless it is already subscribed.
// It reports whether the subscriber was added.
func (channel *Channel) Subscribe(subscriber Subscriber) bool {
	if subscriber == nil {
		return false
	}

	channel.mu.Lock()
	defer channel.mu.Unlock()

	if channel.indexOf(subscriber) >= 0 {
		return false
	}
	channel.subscribers = append(channel.subscribers, subscriber)
	return true
}

// Unsubscribe reports whether the subscriber was removed.
func (channel *Channel) Unsubscribe(subscriber Subscriber) bool {
	channel.mu.Lock()
	defer channel.mu.Unlock()

	i := channel.indexOf(subscriber)
	if i < 0 {
		return false
	}
	channel.subscribers = append(channel.subscribers[:i], channel.subscribers[i+1:]...)
	return true
}

// IsSubscribed reports whether the subscriber is currently in the list.
func (channel *Channel) IsSubscribed(subscriber Subscriber) bool {
	channel.mu.RLock()
	defer channel.mu.RUnlock()
	return channel.indexOf(subscriber) >= 0
}

// Subscribers returns a copy of the subscriber list in notification order.
func (channel *Channel) Subscribers() []Subscriber {
	channel.mu.RLock()
	defer channel.mu.RUnlock()

	snapshot := make([]Subscriber, len(channel.subscribers))
	copy(snapshot, channel.subscribers)
	return snapshot
}

func (channel *Channel) Len() int {
	channel.mu.RLock()
	defer channel.mu.RUnlock()
	return len(channel.subscribers)
}

// NotifySubscribers calls Receive on every subscriber in subscription order.
// The list is copied before the first call, so subscribing or unsubscribing
// from within Receive only takes effect for the next notification.
// The first failing subscriber stops the loop.
func (channel *Channel) NotifySubscribers(title string) error {
	for _, subscriber := range channel.Subscribers() {
		if err := subscriber.Receive(title); err != nil {
			return &NotificationError{
				Channel:    channel.name,
				Subscriber: subscriber.Name(),
				Title:      title,
				Err:        err,
			}
		}
	}
	return nil
}

// Upload announces a new video and notifies all subscribers about it.
func (channel *Channel) Upload(title string) error {
	if channel.announce != nil {
		channel.announce(channel.name, title)
	}
	return channel.NotifySubscribers(title)
}

func (channel *Channel) indexOf(subscriber Subscriber) int {
	if subscriber == nil {
		return -1
	}
	for i, s := range channel.subscribers {
		if sameSubscriber(s, subscriber) {
			return i
		}
	}
	return -1
}

// sameSubscriber never panics: == on an interface panics when both dynamic
// types are the same type and that type, or a value held in one of its
// interface fields, is not comparable.
func sameSubscriber(a, b Subscriber) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	defer func() {
		if recover() != nil {
			same = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
