package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/srad/channelnotify/conf"
)

func testConfig(t *testing.T, secret string) *conf.Cfg {
	return &conf.Cfg{
		DbDriver:        conf.DriverSqlite,
		DbFileName:      filepath.Join(t.TempDir(), "serve.db"),
		Port:            0,
		Secret:          secret,
		LogLevel:        "error",
		SocketQueueSize: 10,
	}
}

func TestServeRequiresSecret(t *testing.T) {
	if err := serve(context.Background(), testConfig(t, "")); err == nil {
		t.Errorf("serve() without secret should fail")
	}
}

func TestServeShutsDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, testConfig(t, "s3cret"))
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve() did not stop after the context was cancelled")
	}
}
