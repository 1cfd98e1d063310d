package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"notemart-api/cache"
	"notemart-api/globals"
	"notemart-api/handlers"
	"notemart-api/initializers"
	"notemart-api/middleware"
	"notemart-api/mq"
	"notemart-api/pkg/notify"
	"notemart-api/repository"
	"notemart-api/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// flushViews drains the batched Redis view counters into the notes table.
func flushViews(c *cache.Cache, notes *repository.NotesRepository) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		counts, err := c.FlushViews(context.Background())
		if err != nil {
			slog.Error("view flush failed", "err", err)
			continue
		}
		for noteID, delta := range counts {
			if err := notes.AddViews(noteID, delta); err != nil {
				slog.Error("view write failed", "err", err, "note", noteID)
			}
		}
	}
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	if err := initializers.InitDefaults(db); err != nil {
		log.Fatal("Failed to initialize default data:", err)
	}

	if err := initializers.InitMinio(); err != nil {
		log.Fatal("Failed to initialize Minio:", err)
	}

	// Redis and RabbitMQ are optional; the service degrades without them
	// (SQL trending, direct view writes, synchronous notifications).
	var redisCache *cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB := 0
		redisCache, err = cache.New(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			slog.Warn("redis unavailable, continuing without cache", "err", err)
			redisCache = nil
		}
	}

	var rabbit *mq.RabbitMQ
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbit, err = mq.New(url)
		if err != nil {
			slog.Warn("rabbitmq unavailable, continuing without broker", "err", err)
			rabbit = nil
		} else {
			defer rabbit.Close()
		}
	}

	profilesRepo := repository.NewProfilesRepository(db)
	notesRepo := repository.NewNotesRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	followsRepo := repository.NewFollowsRepository(db)
	earningsRepo := repository.NewEarningsRepository(db)
	rolesRepo := repository.NewRolesRepository(db)
	reportsRepo := repository.NewReportsRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	telegramRepo := repository.NewTelegramGroupsRepository(db)
	campaignsRepo := repository.NewCampaignsRepository(db)
	notificationsRepo := repository.NewNotificationsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	r := gin.New()
	// Structured request ID and JSON access logs
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	// Panic recovery
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	// Apply rate limiting globally after CORS but before routes
	r.Use(middleware.RateLimitMiddleware())

	// WebSocket hub, notifier, and the queue consumers
	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}
	consumer := mq.NewConsumer(notificationsRepo, campaignsRepo, rabbit, notifier)
	consumer.Start()

	if redisCache != nil {
		go flushViews(redisCache, notesRepo)
	}

	authHandler := handlers.NewAuthHandler(profilesRepo, followsRepo, redisCache, jwtSecret)
	notesHandler := handlers.NewNotesHandler(notesRepo, profilesRepo, redisCache)
	engagementHandler := handlers.NewEngagementHandler(engagementRepo, notesRepo, settingsRepo, redisCache, rabbit)
	followsHandler := handlers.NewFollowsHandler(followsRepo, profilesRepo, rabbit)
	earningsHandler := handlers.NewEarningsHandler(earningsRepo, notesRepo, settingsRepo, rabbit)
	uploadsHandler := handlers.NewUploadsHandler(profilesRepo)
	reportsHandler := handlers.NewReportsHandler(reportsRepo, notesRepo)
	rolesHandler := handlers.NewAdminRolesHandler(rolesRepo, profilesRepo)
	settingsHandler := handlers.NewAdminSettingsHandler(settingsRepo)
	telegramHandler := handlers.NewTelegramGroupsHandler(telegramRepo)
	campaignsHandler := handlers.NewCampaignsHandler(campaignsRepo, rabbit, consumer)
	notificationsHandler := handlers.NewNotificationsHandler(notificationsRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo)

	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	perm := func(p string) gin.HandlerFunc {
		return handlers.RequirePermission(profilesRepo, rolesRepo, p)
	}

	// Public endpoints
	r.GET("/health", handlers.HealthCheck)
	r.GET("/telegram-groups", telegramHandler.ListGroups)

	// Auth endpoints with a stricter per-IP rate limit
	authPublic := r.Group("/", middleware.RateLimitAuthMiddleware())
	authPublic.POST("/register", authHandler.Register)
	authPublic.POST("/login", authHandler.Login)

	// Browse endpoints work anonymously; a valid token adds per-viewer flags
	browse := r.Group("/", handlers.OptionalAuthMiddleware(jwtSecret, redisCache))
	{
		browse.GET("/notes", notesHandler.GetNotes)
		browse.GET("/notes/trending", notesHandler.GetTrending)
		browse.GET("/notes/:id", notesHandler.GetNote)
		browse.POST("/notes/:id/view", engagementHandler.RecordView)
		browse.GET("/users/:id", authHandler.GetPublicProfile)
		browse.GET("/users/:id/notes", notesHandler.GetUserNotes)
		browse.GET("/users/:id/followers", followsHandler.ListFollowers)
		browse.GET("/users/:id/following", followsHandler.ListFollowing)
		browse.GET("/users/:id/followers/count", followsHandler.GetFollowersCount)
		browse.GET("/users/:id/following/count", followsHandler.GetFollowingCount)
	}

	auth := r.Group("/", handlers.AuthMiddleware(jwtSecret, redisCache))
	{
		auth.GET("/ws", websocket.ServeWS(hub))

		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
		auth.PATCH("/me", authHandler.UpdateProfile)
		auth.PATCH("/me/email", authHandler.UpdateEmail)
		auth.PUT("/me/interests", authHandler.SetInterests)
		auth.PUT("/me/subjects", authHandler.SetSubjects)
		auth.GET("/me/notes", notesHandler.GetMyNotes)
		auth.GET("/me/bookmarks", notesHandler.GetBookmarked)
		auth.GET("/me/downloads", notesHandler.GetDownloaded)
		auth.GET("/me/recommended", notesHandler.GetRecommended)

		auth.POST("/notes", notesHandler.CreateNote)
		auth.DELETE("/notes/:id", notesHandler.DeleteNote)
		auth.POST("/notes/:id/like", engagementHandler.Like)
		auth.POST("/notes/:id/dislike", engagementHandler.Dislike)
		auth.POST("/notes/:id/bookmark", engagementHandler.Bookmark)
		auth.POST("/notes/:id/download", engagementHandler.Download)
		auth.POST("/notes/:id/ad-click", engagementHandler.RecordAdClick)
		auth.POST("/notes/:id/tip", earningsHandler.SendTip)

		auth.POST("/users/:id/follow", followsHandler.Follow)
		auth.DELETE("/users/:id/follow", followsHandler.Unfollow)
		auth.GET("/users/:id/follow", followsHandler.GetStatus)

		auth.GET("/earnings", earningsHandler.GetSummary)
		auth.GET("/earnings/history", earningsHandler.GetHistory)
		auth.POST("/earnings/withdraw", earningsHandler.RequestWithdrawal)

		auth.POST("/upload", uploadsHandler.UploadNoteFile)
		auth.POST("/upload/avatar", uploadsHandler.UploadAvatar)
		auth.GET("/files/:id", uploadsHandler.GetFileURL)

		auth.GET("/ad-settings", settingsHandler.GetAdSettings)
		auth.POST("/reports", reportsHandler.CreateReport)

		auth.GET("/notifications/unread", notificationsHandler.ListUnread)
		auth.POST("/notifications/mark-read", notificationsHandler.MarkRead)

		// One-time bootstrap; refuses once a super admin exists
		auth.POST("/admin/setup", rolesHandler.Setup)
	}

	admin := r.Group("/admin", handlers.AuthMiddleware(jwtSecret, redisCache))
	{
		admin.GET("/roles", perm(globals.PermManageRoles), rolesHandler.ListRoles)
		admin.GET("/permissions", perm(globals.PermManageRoles), rolesHandler.ListPermissions)
		admin.POST("/roles", perm(globals.PermManageRoles), rolesHandler.CreateRole)
		admin.PATCH("/roles/:id", perm(globals.PermManageRoles), rolesHandler.UpdateRole)
		admin.DELETE("/roles/:id", perm(globals.PermManageRoles), rolesHandler.DeleteRole)
		admin.PUT("/users/:id/role", perm(globals.PermManageRoles), rolesHandler.AssignRole)
		admin.PUT("/users/:id/verified", perm(globals.PermManageRoles), rolesHandler.SetVerified)

		admin.DELETE("/notes/:id", perm(globals.PermManageNotes), notesHandler.AdminDeleteNote)

		admin.GET("/reports", perm(globals.PermManageReports), reportsHandler.ListReports)
		admin.POST("/reports/:id/resolve", perm(globals.PermManageReports), reportsHandler.ResolveReport)

		admin.GET("/settings", perm(globals.PermManageSettings), settingsHandler.ListSettings)
		admin.PUT("/settings", perm(globals.PermManageSettings), settingsHandler.UpsertSetting)
		admin.DELETE("/settings/:key", perm(globals.PermManageSettings), settingsHandler.DeleteSetting)
		admin.PUT("/ad-settings", perm(globals.PermManageSettings), settingsHandler.UpdateAdSettings)

		admin.POST("/telegram-groups", perm(globals.PermManageSettings), telegramHandler.CreateGroup)
		admin.PATCH("/telegram-groups/:id", perm(globals.PermManageSettings), telegramHandler.UpdateGroup)
		admin.DELETE("/telegram-groups/:id", perm(globals.PermManageSettings), telegramHandler.DeleteGroup)

		admin.GET("/withdrawals", perm(globals.PermManageWithdrawals), earningsHandler.ListPendingWithdrawals)
		admin.POST("/withdrawals/:id/settle", perm(globals.PermManageWithdrawals), earningsHandler.SettleWithdrawal)

		admin.GET("/campaigns", perm(globals.PermSendNotifications), campaignsHandler.ListCampaigns)
		admin.POST("/campaigns", perm(globals.PermSendNotifications), campaignsHandler.CreateCampaign)
		admin.POST("/campaigns/:id/send", perm(globals.PermSendNotifications), campaignsHandler.SendCampaign)

		admin.GET("/analytics", perm(globals.PermViewAnalytics), analyticsHandler.GetOverview)
	}

	r.Run(":8080")
}
