package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/config"
	httptransport "github.com/example/campus-reservations/internal/http"
	"github.com/example/campus-reservations/internal/persistence"
	"github.com/example/campus-reservations/internal/persistence/sqlite"
)

const sessionPruneInterval = time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	userRepo := newUserRepositoryAdapter(sqlite.NewUserRepository(storage))
	roomRepo := newRoomRepositoryAdapter(sqlite.NewRoomRepository(storage))
	slotRepo := newSlotRepositoryAdapter(sqlite.NewSlotRepository(storage))
	reservationRepo := newReservationRepositoryAdapter(sqlite.NewReservationRepository(storage))
	sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(storage))

	if err := seedAdminAccount(ctx, sqlite.NewUserRepository(storage), cfg, idGenerator, now, logger); err != nil {
		logger.Error("failed to seed administrator account", "error", err)
		os.Exit(1)
	}
	if cfg.SeedDefaultSlots {
		if err := seedDefaultSlots(ctx, sqlite.NewSlotRepository(storage), idGenerator, now, logger); err != nil {
			logger.Error("failed to seed slot templates", "error", err)
			os.Exit(1)
		}
	}

	reservationService := application.NewReservationServiceWithLogger(reservationRepo, roomRepo, slotRepo, idGenerator, now, logger)
	roomService := application.NewRoomServiceWithLogger(roomRepo, idGenerator, now, logger)
	slotService := application.NewSlotServiceWithLogger(slotRepo, idGenerator, now, logger)
	userService := application.NewUserServiceWithLogger(userRepo, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(userRepo, sessionRepo, idGenerator, tokenGenerator, now, logger)
	authService.SetSessionTTL(cfg.SessionTTL)

	go pruneSessions(ctx, authService, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Users:        httptransport.NewUserHandler(userService, logger),
		Rooms:        httptransport.NewRoomHandler(roomService, logger),
		Slots:        httptransport.NewSlotHandler(slotService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		SessionGuard: httptransport.RequireSession(authService, logger),
		Middleware:   []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservations API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

func pruneSessions(ctx context.Context, auth *application.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		if err := auth.PruneExpiredSessions(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("failed to prune expired sessions", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// seedAdminAccount creates the configured administrator account when no
// user holds its email yet. Existing accounts are left untouched so the
// seed stays idempotent across restarts.
func seedAdminAccount(ctx context.Context, repo persistence.UserRepository, cfg config.Config, idGenerator func() string, now func() time.Time, logger *slog.Logger) error {
	if cfg.SeedAdminEmail == "" {
		return nil
	}

	if _, err := repo.GetUserByEmail(ctx, cfg.SeedAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	hash, err := application.CreatePasswordHash(cfg.SeedAdminPassword, application.DefaultArgon2idParams)
	if err != nil {
		return err
	}

	created := now().UTC()
	admin := persistence.User{
		ID:           idGenerator(),
		Name:         "Administrator",
		Email:        cfg.SeedAdminEmail,
		Role:         booking.RoleAdministrator,
		PasswordHash: hash,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		return err
	}

	logger.Info("seeded administrator account", "email", cfg.SeedAdminEmail)
	return nil
}

// defaultSlotWindows lists the class periods seeded for each teaching day.
var defaultSlotWindows = [][2]string{
	{"09:00", "10:30"},
	{"10:45", "12:15"},
	{"13:30", "15:00"},
	{"15:15", "16:45"},
}

// seedDefaultSlots populates the weekly template with one slot per teaching
// day and class period. Seeding only runs against an empty registry so
// operator managed templates are never duplicated.
func seedDefaultSlots(ctx context.Context, repo persistence.SlotRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) error {
	existing, err := repo.ListSlots(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	created := now().UTC()
	seeded := 0
	for weekday := time.Monday; weekday <= time.Friday; weekday++ {
		for _, window := range defaultSlotWindows {
			slot := persistence.Slot{
				ID:        idGenerator(),
				Weekday:   weekday,
				StartTime: window[0],
				EndTime:   window[1],
				CreatedAt: created,
			}
			if err := repo.CreateSlot(ctx, slot); err != nil {
				return err
			}
			seeded++
		}
	}

	logger.Info("seeded slot templates", "count", seeded)
	return nil
}
