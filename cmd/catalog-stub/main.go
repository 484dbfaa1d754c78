package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/jcmexdev/storefront/internal/catalogstub"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":9000"
	}

	stub := catalogstub.New(nil)
	slog.Info("catalog stub listening", "addr", addr)
	if err := http.ListenAndServe(addr, stub.Router()); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
