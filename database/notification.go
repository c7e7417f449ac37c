package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srad/channelnotify/patterns"
	"gorm.io/gorm"
)

// Notification One title delivered to one subscriber.
type Notification struct {
	NotificationId uint      `json:"notificationId" gorm:"autoIncrement;primaryKey;column:notification_id" extensions:"!x-nullable"`
	SubscriberId   string    `json:"subscriberId" gorm:"not null;index:idx_inbox" extensions:"!x-nullable"`
	SubscriberName string    `json:"subscriberName" gorm:"not null;default:''" extensions:"!x-nullable"`
	Title          string    `json:"title" gorm:"not null" extensions:"!x-nullable"`
	CreatedAt      time.Time `json:"createdAt" gorm:"not null;default:current_timestamp" extensions:"!x-nullable"`
}

// InboxSubscriber stores every received title. Only the delivered titles are stored,
// not the subscription itself.
type InboxSubscriber struct {
	Id   string
	name string
	db   *gorm.DB
}

var _ patterns.Subscriber = (*InboxSubscriber)(nil)

func NewInboxSubscriber(db *gorm.DB, id, name string) (*InboxSubscriber, error) {
	if db == nil {
		return nil, errors.New("inbox subscriber needs a database")
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("inbox subscriber needs an id")
	}
	return &InboxSubscriber{Id: id, name: name, db: db}, nil
}

func (s *InboxSubscriber) Name() string {
	return s.name
}

func (s *InboxSubscriber) Receive(title string) error {
	notification := Notification{
		SubscriberId:   s.Id,
		SubscriberName: s.name,
		Title:          title,
		CreatedAt:      time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("error storing notification for %s: %w", s.name, err)
	}
	return nil
}

// Inbox Lists the notifications of one subscriber, newest first.
func Inbox(db *gorm.DB, subscriberId string) ([]*Notification, error) {
	var notifications []*Notification
	err := db.Model(&Notification{}).
		Where("subscriber_id = ?", subscriberId).
		Order("created_at desc").
		Order("notification_id desc").
		Find(&notifications).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return notifications, nil
}
