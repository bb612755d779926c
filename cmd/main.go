package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"motion_arena/internal/adapters"
	"motion_arena/internal/bootstrap"
	authDelivery "motion_arena/internal/delivery/auth"
	avatarDelivery "motion_arena/internal/delivery/avatar"
	gameDelivery "motion_arena/internal/delivery/game"
	"motion_arena/internal/gateway"
	ownMiddleware "motion_arena/internal/middleware"
	repo "motion_arena/internal/repository"
	authUC "motion_arena/internal/usecase/auth"
	avatarUC "motion_arena/internal/usecase/avatar"
	gameUC "motion_arena/internal/usecase/game"
)

type mainDeliveryHandler struct {
	auth   *authDelivery.AuthHandler
	avatar *avatarDelivery.AvatarHandler
	game   *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, *cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(ctx, *cfg, logger, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	port := ":" + cfg.ServerPort
	if cfg.ServerPort == "" {
		port = ":8080"
	}
	logger.Infof("Server is running on port %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)

	r.Post("/register", h.auth.Register)
	r.Post("/login", h.auth.Login)
	r.Delete("/logout", h.auth.Logout)
	r.Post("/resetPassword", h.auth.ResetPassword)
	r.Post("/resetPassword/confirm", h.auth.ResetPasswordConfirm)
	r.Post("/getUserById", h.auth.GetUserByID)

	r.Get("/avatars", h.avatar.HandleListAvatars)
	r.Post("/api/update_avatar", h.avatar.HandleUpdateAvatar)
	r.Post("/api/save_avatar_customization", h.avatar.HandleSaveCustomization)
	r.Get("/api/get_avatar_customization", h.avatar.HandleGetCustomization)

	r.Post("/api/create_session", h.game.HandleCreateSession)
	r.Post("/api/join_session", h.game.HandleJoinSession)
	r.Post("/api/update_score", h.game.HandleUpdateScore)
	r.Post("/api/end_session", h.game.HandleEndSession)
	r.Post("/api/cancel_session", h.game.HandleCancelSession)
	r.Post("/api/start_round", h.game.HandleStartRound)
	r.Post("/api/end_round", h.game.HandleEndRound)
	r.Post("/api/get_session", h.game.HandleGetSession)

	r.Get("/ws", h.game.HandleWS)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(&cfg)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(&cfg)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	ctx context.Context,
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	userStorage := repo.NewMongoUserStorage(databaseAdapters.mongoAdapter, log)
	sessionStorage := repo.NewSessionRedisStorage(
		databaseAdapters.redisAdapter.GetClient(),
		time.Duration(cfg.SessionTTLHours)*time.Hour,
	)
	avatarStorage := repo.NewMongoAvatarStorage(databaseAdapters.mongoAdapter, log)
	gameStorage := repo.NewGameRepository(cfg, log,
		databaseAdapters.redisAdapter.GetClient(),
		databaseAdapters.mongoAdapter.Database,
	)

	if err := avatarStorage.Seed(ctx); err != nil {
		log.Error("Failed to seed avatar catalog", zap.Error(err))
	}

	authUsecase := authUC.NewUserUsecaseHandler(userStorage, sessionStorage)
	avatarUsecase := avatarUC.NewAvatarUseCase(avatarStorage, userStorage)
	gameUsecase := gameUC.NewGameUseCase(gameStorage, cfg.RoundStartHealth)

	rooms := gateway.NewRoomRegistry(log)
	relay := gateway.NewSignalRelay(rooms, log)
	socketHandlers := gateway.NewHandlers(log, rooms, relay, cfg.LobbyRoomName)

	dispatch := gateway.Dispatch{
		"join_lobby":    socketHandlers.JoinLobby,
		"leave_lobby":   socketHandlers.LeaveLobby,
		"join_game":     socketHandlers.JoinGame,
		"leave_game":    socketHandlers.LeaveGame,
		"game_action":   socketHandlers.GameAction,
		"game_chat":     socketHandlers.GameChat,
		"call-user":     socketHandlers.CallUser,
		"make-answer":   socketHandlers.MakeAnswer,
		"ice-candidate": socketHandlers.IceCandidate,
	}

	gw := gateway.New(log, rooms, relay, authUsecase, dispatch, cfg.LobbyRoomName)

	authDeliveryHandler := authDelivery.NewAuthHandler(authUsecase, log)
	avatarDeliveryHandler := avatarDelivery.NewAvatarHandler(log, avatarUsecase, authDeliveryHandler)
	gameDeliveryHandler := gameDelivery.NewGameHandler(cfg, log, gameUsecase, authDeliveryHandler, gw)

	return &mainDeliveryHandler{
		auth:   authDeliveryHandler,
		avatar: avatarDeliveryHandler,
		game:   gameDeliveryHandler,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
	time.Sleep(1 * time.Second) // give connections time to close
}
