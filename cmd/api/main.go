package main

import (
	"os"

	"github.com/selcuk/alumnihub/internal/pkg/logger"
	"github.com/selcuk/alumnihub/internal/server"
)

// @title AlumniHub API
// @version 1.0
// @description Alumni records portal with dual-store synchronization

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}
}
