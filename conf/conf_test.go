package conf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Read("")
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	if cfg.DbDriver != DriverSqlite {
		t.Errorf("DbDriver is %s but should be %s", cfg.DbDriver, DriverSqlite)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port is %d but should be 3000", cfg.Port)
	}
	if cfg.SocketQueueSize != 1000 {
		t.Errorf("SocketQueueSize is %d but should be 1000", cfg.SocketQueueSize)
	}
}

func TestReadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.yml")
	content := "db:\n  filename: test.db\nhttp:\n  port: 8080\nauth:\n  secret: from-file\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SECRET", "from-env")

	cfg, err := Read(file)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	if cfg.DbFileName != "test.db" {
		t.Errorf("DbFileName is %s but should be test.db", cfg.DbFileName)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port is %d but should be 8080", cfg.Port)
	}
	if cfg.Secret != "from-env" {
		t.Errorf("Secret is %s but should be from-env", cfg.Secret)
	}
}

func TestReadMissingExplicitFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Errorf("Read() of a missing explicit file should fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Cfg{DbDriver: "oracle", Port: 3000, SocketQueueSize: 1}
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Validate() is %v but should be %v", err, ErrUnknownDriver)
	}

	cfg = &Cfg{DbDriver: DriverPostgres, Port: 3000, SocketQueueSize: 1}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingDsn) {
		t.Errorf("Validate() is %v but should be %v", err, ErrMissingDsn)
	}

	cfg = &Cfg{DbDriver: DriverSqlite, DbFileName: "x.db", Port: 0, SocketQueueSize: 1}
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate() should reject port 0")
	}
}
