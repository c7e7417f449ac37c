package models

import (
	"fmt"
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/srad/channelnotify/patterns"
)

// PrintSubscriber writes a greeting for each new video to its writer.
type PrintSubscriber struct {
	name string
	out  io.Writer
}

func NewPrintSubscriber(name string, out io.Writer) *PrintSubscriber {
	if out == nil {
		out = os.Stdout
	}
	return &PrintSubscriber{name: name, out: out}
}

func (s *PrintSubscriber) Name() string {
	return s.name
}

func (s *PrintSubscriber) Receive(title string) error {
	_, err := fmt.Fprintf(s.out, "Hey %s,\nCheckout our new Video : %s\n\n", s.name, title)
	return err
}

// LogSubscriber reports new videos to the application log.
type LogSubscriber struct {
	name string
}

func NewLogSubscriber(name string) *LogSubscriber {
	return &LogSubscriber{name: name}
}

func (s *LogSubscriber) Name() string {
	return s.name
}

func (s *LogSubscriber) Receive(title string) error {
	log.WithFields(log.Fields{
		"subscriber": s.name,
		"title":      title,
	}).Infoln("[LogSubscriber] new video")
	return nil
}

// RecorderSubscriber keeps every received title in memory.
type RecorderSubscriber struct {
	name   string
	mu     sync.Mutex
	titles []string
}

func NewRecorderSubscriber(name string) *RecorderSubscriber {
	return &RecorderSubscriber{name: name}
}

func (s *RecorderSubscriber) Name() string {
	return s.name
}

func (s *RecorderSubscriber) Receive(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles = append(s.titles, title)
	return nil
}

func (s *RecorderSubscriber) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, len(s.titles))
	copy(titles, s.titles)
	return titles
}

// FuncSubscriber adapts a function. It is a pointer type, funcs themselves are not comparable.
type FuncSubscriber struct {
	name string
	fn   func(title string) error
}

func NewFuncSubscriber(name string, fn func(title string) error) *FuncSubscriber {
	return &FuncSubscriber{name: name, fn: fn}
}

func (s *FuncSubscriber) Name() string {
	return s.name
}

func (s *FuncSubscriber) Receive(title string) error {
	if s.fn == nil {
		return nil
	}
	return s.fn(title)
}

var (
	_ patterns.Subscriber = (*PrintSubscriber)(nil)
	_ patterns.Subscriber = (*LogSubscriber)(nil)
	_ patterns.Subscriber = (*RecorderSubscriber)(nil)
	_ patterns.Subscriber = (*FuncSubscriber)(nil)
)
