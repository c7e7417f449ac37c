package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	validChannelName = regexp.MustCompile("(?i)^[a-z_0-9]+$")
)

// ChannelName Url and database friendly key of a channel. The display name is kept separately.
type ChannelName string

// Scan Restores the channel name from the database.
func (channelName *ChannelName) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*channelName = ChannelName(v)
	case []byte:
		*channelName = ChannelName(v)
	default:
		return errors.New("src value cannot cast to string")
	}
	return nil
}

// Value Stores the normalized channel name in the database.
func (channelName ChannelName) Value() (driver.Value, error) {
	if err := channelName.IsValid(); err != nil {
		return nil, err
	}
	return channelName.Normalize().String(), nil
}

func (channelName ChannelName) IsValid() error {
	str := channelName.Normalize()
	if !validChannelName.MatchString(str.String()) {
		return fmt.Errorf("invalid normalized channel name '%s'", str)
	}
	return nil
}

func (channelName ChannelName) Normalize() ChannelName {
	return ChannelName(strings.ToLower(strings.TrimSpace(string(channelName))))
}

func (channelName ChannelName) String() string {
	return string(channelName)
}
