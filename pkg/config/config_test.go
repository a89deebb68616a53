package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Addr      string        `split_words:"true" required:"true"`
	Timeout   time.Duration `split_words:"true" default:"10s"`
	ListLimit int           `split_words:"true" default:"50"`
}

func TestNewReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SAMPLE_ADDR=:9000\nSAMPLE_LIST_LIMIT=7\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Cleanup(func() {
		UseEnvFile("")
		os.Unsetenv("SAMPLE_ADDR")
		os.Unsetenv("SAMPLE_LIST_LIMIT")
	})

	UseEnvFile(path)
	conf, err := New[sampleConfig]("SAMPLE")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Addr != ":9000" || conf.ListLimit != 7 || conf.Timeout != 10*time.Second {
		t.Fatalf("New() = %+v", conf)
	}
}

func TestNewMissingEnvFile(t *testing.T) {
	t.Cleanup(func() { UseEnvFile("") })

	UseEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if _, err := New[sampleConfig]("SAMPLE"); err == nil {
		t.Fatal("New() expected error for missing env file")
	}
}

func TestNewRequiredField(t *testing.T) {
	t.Setenv("OTHER_TIMEOUT", "1s")

	if _, err := New[sampleConfig]("OTHER"); err == nil {
		t.Fatal("New() expected error for missing required field")
	}
}
