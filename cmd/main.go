package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"roomhub/api"
	"roomhub/auth"
	"roomhub/moderation"
	"roomhub/repositories"
	"roomhub/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database close included)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories
	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db, log)
	membershipRepository := repositories.NewMembershipRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log)

	// 4. Moderation gate & services
	classifier := moderation.NewRESTClassifier(
		config.ModerationBaseURL,
		config.ModerationAPIKey,
		config.ModerationModel,
		config.ModerationTimeout,
	)
	gate := moderation.NewGate(classifier, config.ModerationThreshold, log)

	tokens := auth.NewTokenManager(config.AuthTokenSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, tokens)
	roomService := services.NewRoomService(roomRepository, userRepository, config.RoomCodeAttempts, log)
	membershipService := services.NewMembershipService(membershipRepository, roomRepository, userRepository, log)
	messageService := services.NewMessageService(messageRepository, membershipService, roomRepository, userRepository, gate, log)

	// 5. HTTP server
	var origins []string
	if config.CORSOrigins != "" {
		origins = strings.Split(config.CORSOrigins, ",")
	}
	router := api.NewRouter(log, authService, roomService, membershipService, messageService, tokens, origins)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}
