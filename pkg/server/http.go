package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/happycrm/crm/app/api/routes"
	"github.com/happycrm/crm/pkg/config"
	"github.com/happycrm/crm/pkg/database"

	_ "github.com/happycrm/crm/docs"
	"github.com/happycrm/crm/pkg/domains/auth"
	"github.com/happycrm/crm/pkg/domains/monitor"
	"github.com/happycrm/crm/pkg/domains/webhook"
	"github.com/happycrm/crm/pkg/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func LaunchHttpServer(conf *config.Config) {
	log.Println("Starting HTTP Server...")
	if conf.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	app := gin.New()
	app.Use(gin.LoggerWithFormatter(func(log gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] - %s \"%s %s %s %d %s\"\n",
			log.TimeStamp.Format("2006-01-02 15:04:05"),
			log.ClientIP,
			log.Method,
			log.Path,
			log.Request.Proto,
			log.StatusCode,
			log.Latency,
		)
	}))
	app.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	app.Use(gin.Recovery())
	app.Use(otelgin.Middleware(conf.App.Name))
	app.Use(middleware.ClaimIp())
	app.Use(cors.New(cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Origin", "Accept"},
		AllowOrigins:     []string{"*"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	p := ginprom.New(
		ginprom.Engine(app),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/swagger/*any"),
	)
	app.Use(p.Instrument())

	db := database.DBClient()
	api := app.Group("/api/v1")

	// Auth Routes
	auth_repo := auth.NewRepo(db)
	auth_service := auth.NewService(auth_repo)
	routes.AuthRoutes(api.Group("/auth"), auth_service)

	// Webhook Routes: every collaborator is injected here, the handlers hold
	// no ambient state
	webhook_repo := webhook.NewRepo(db)
	deduplicator := webhook.NewDeduplicator(db, webhook.DefaultDedupTTL)
	verifier := webhook.NewSignatureVerifier(conf.Webhook.AppSecret, conf.App.IsProduction())
	webhook_service := webhook.NewService(webhook_repo, deduplicator, conf.Webhook.VerifyToken)
	routes.WebhookRoutes(api.Group("/webhooks"), webhook_service, verifier)

	// Monitor Routes
	monitor_service := monitor.NewService(db)
	routes.MonitorRoutes(api.Group("/monitor"), monitor_service)

	fmt.Println("Server is running on port " + conf.App.Port)
	if err := app.Run(net.JoinHostPort(conf.App.Host, conf.App.Port)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
