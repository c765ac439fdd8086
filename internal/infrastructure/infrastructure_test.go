package infrastructure_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/infrastructure"
)

func TestStartPingsRemote(t *testing.T) {
	var pings atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pings.Add(1)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Remote.AnalyzerURL = srv.URL + "/api/upload"
	cfg.Remote.ProcessorURL = srv.URL + "/process_image"
	cfg.Remote.GeneratorURL = srv.URL + "/generate_image"
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := infra.Start(); err != nil {
		t.Fatal(err)
	}

	infra.Lifecycle.WaitForStartup()
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle should be ready after startup")
	}
	if pings.Load() != 3 {
		t.Errorf("pings: got %d, want 3", pings.Load())
	}

	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Fatal(err)
	}
}

func TestUnreachableRemoteStillReady(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := &config.Config{}
	cfg.Remote.AnalyzerURL = url
	cfg.Remote.ProcessorURL = url
	cfg.Remote.GeneratorURL = url
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	infra.Start()

	infra.Lifecycle.WaitForStartup()
	if !infra.Lifecycle.Ready() {
		t.Error("an unreachable remote should only warn")
	}
	infra.Lifecycle.Shutdown(time.Second)
}
