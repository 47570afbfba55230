package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	auth "wordduel/internal/auth"
	constants "wordduel/internal/constants"
	directory "wordduel/internal/directory"
	game "wordduel/internal/game"
	handlers "wordduel/internal/handlers"
	models "wordduel/internal/models"
	rooms "wordduel/internal/rooms"
	session "wordduel/internal/session"
	util "wordduel/internal/util"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	util.LogInfo("Starting Wordduel in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	wordList, wordSet, err := game.LoadWords(getEnv("WORDS_FILE", "data/words.json"))
	if err != nil {
		util.LogFatal("Failed to load words: %v", err)
	}
	if err := game.ValidateWordList(wordList); err != nil {
		util.LogFatal("Word list validation failed: %v", err)
	}
	total, avgVowels, _ := game.WordStatistics(wordList)
	util.LogInfo("Loaded %d words (avg vowels per word: %.2f)", total, avgVowels)

	dir, err := openDirectory()
	if err != nil {
		util.LogFatal("Failed to open user directory: %v", err)
	}
	defer dir.Close()

	app := &models.App{
		WordList:         wordList,
		WordSet:          wordSet,
		Sessions:         make(map[string]*models.MatchSession),
		Rooms:            rooms.NewRooms(),
		Directory:        dir,
		DefaultMaxRounds: util.GetEnvInt("DEFAULT_MAX_ROUNDS", constants.DefaultMaxRounds),
		SessionTTL:       util.GetEnvDuration("SESSION_TTL", 3*time.Hour),
		DirectoryTimeout: util.GetEnvDuration("DIRECTORY_TIMEOUT", 5*time.Second),
		JWTSecret:        jwtSecret(),
		JWTTTL:           util.GetEnvDuration("JWT_TTL", 24*time.Hour),
		RateLimitRPS:     util.GetEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:   util.GetEnvInt("RATE_LIMIT_BURST", 10),
		RateLimiterTTL:   util.GetEnvDuration("RATE_LIMITER_TTL", 1*time.Hour),
		LimiterMap:       make(map[string]*models.RateLimiterWithTime),
		IsProduction:     isProduction,
		StartTime:        time.Now(),
	}

	if err := game.ValidateMaxRounds(app.DefaultMaxRounds); err != nil {
		util.LogFatal("Invalid DEFAULT_MAX_ROUNDS: %d", app.DefaultMaxRounds)
	}

	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))
	router.Use(auth.AttachUserMiddleware(app))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		util.LogWarn("Failed to set trusted proxies: %v", err)
	}

	api := router.Group("/api")
	{
		api.POST("/auth/register", rateLimitMiddleware(app), wrap(app, handlers.RegisterHandler))
		api.POST("/auth/login", rateLimitMiddleware(app), wrap(app, handlers.LoginHandler))

		api.GET("/rooms", wrap(app, handlers.RoomsStatusHandler))
		api.POST("/rooms/:id/join", rateLimitMiddleware(app), wrap(app, handlers.JoinRoomHandler))
		api.POST("/rooms/:id/leave", rateLimitMiddleware(app), wrap(app, handlers.LeaveRoomHandler))

		api.POST("/new_game", rateLimitMiddleware(app), wrap(app, handlers.NewGameHandler))
		api.POST("/game/:id/guess", rateLimitMiddleware(app), wrap(app, handlers.GuessHandler))
		api.GET("/game/:id/state", wrap(app, handlers.StateHandler))
		api.GET("/game/:id/opponent", wrap(app, handlers.OpponentHandler))
		api.DELETE("/game/:id", wrap(app, handlers.DeleteGameHandler))

		api.GET("/health", wrap(app, handlers.HealthHandler))
	}

	startCleanupRoutines(app)
	startServer(router)
}

func wrap(app *models.App, h func(*models.App, *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) { h(app, c) }
}

func startServer(router *gin.Engine) {
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		util.LogInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			util.LogWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	util.LogInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		util.LogFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	util.LogInfo("Server shutdown complete")
}

func startCleanupRoutines(app *models.App) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			session.CleanupStale(app)
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cleanupStaleRateLimiters(app)
		}
	}()

	util.LogInfo("Started cleanup routines for sessions and rate limiters")
}

func openDirectory() (directory.Service, error) {
	dsn := os.Getenv("DIRECTORY_DB")
	if dsn == "" {
		util.LogWarn("DIRECTORY_DB not set, using in-memory user directory")
		return directory.NewMemory(), nil
	}
	util.LogInfo("Opening user directory at %s", dsn)
	return directory.OpenSQLite(dsn)
}

// jwtSecret reads JWT_SECRET or generates an ephemeral one. Tokens from a
// generated secret do not survive a restart; clients fall back to sending
// usernames, so this only degrades convenience.
func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		util.LogFatal("Failed to generate JWT secret: %v", err)
	}
	util.LogWarn("JWT_SECRET not set, generated ephemeral secret")
	return []byte(fmt.Sprintf("%x", b))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
