package main

import (
	"log/slog"
	"os"

	"hrms/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
