// Консьюмер топика simple: печатает конверты вместе с trace id, пришедшим в заголовках.
package main

import (
	"log/slog"
	"os"

	"github.com/nschwinning/sleuth-2/internal/app"
)

func main() {
	cfg, err := app.LoadCfg()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	if err := app.New(cfg).RunConsumer(); err != nil {
		slog.Error("consumer failed", "error", err)
		os.Exit(1)
	}
}
