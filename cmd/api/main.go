package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"deudasacero/internal/config"
	"deudasacero/internal/database"
	"deudasacero/internal/middleware"
	"deudasacero/internal/modules/admin"
	"deudasacero/internal/modules/auth"
	"deudasacero/internal/modules/documento"
	"deudasacero/internal/modules/expediente"
	"deudasacero/internal/modules/facturacion"
	"deudasacero/internal/modules/firma"
	"deudasacero/internal/modules/ia"
	"deudasacero/internal/modules/mensaje"
	jwtsvc "deudasacero/internal/pkg/jwt"
	"deudasacero/internal/pkg/mailer"
	"deudasacero/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	expedienteRepo := repository.NewExpedienteRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	mensajeRepo := repository.NewMensajeRepository(db)
	facturacionRepo := repository.NewFacturacionRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	firmaRepo := repository.NewFirmaRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 7*24*time.Hour)
	m := mailer.FromEnv(cfg.ResendAPIKey, cfg.ResendFrom)

	authService := auth.NewService(userRepo, j, m)
	authHandler := auth.NewHandler(authService, j.TTL())

	expedienteService := expediente.NewService(expedienteRepo, documentoRepo, checklistRepo, mensajeRepo, userRepo, auditRepo, m)
	expedienteHandler := expediente.NewHandler(expedienteService)

	documentoService := documento.NewService(documentoRepo, checklistRepo, expedienteRepo, auditRepo)
	documentoHandler := documento.NewHandler(documentoService)

	hub := mensaje.NewHub()
	defer hub.Close()
	mensajeService := mensaje.NewService(mensajeRepo, expedienteRepo, hub)
	mensajeHandler := mensaje.NewHandler(mensajeService)
	wsHandler := mensaje.NewWSHandler(hub, j)

	facturacionService := facturacion.NewService(facturacionRepo, facturaRepo, expedienteRepo, auditRepo)
	facturacionHandler := facturacion.NewHandler(facturacionService)

	firmaService := firma.NewService(firmaRepo, expedienteRepo)
	firmaHandler := firma.NewHandler(firmaService)

	iaService := ia.NewService(ia.NewClient(cfg.PerplexityAPIKey), documentoRepo, expedienteRepo)
	iaHandler := ia.NewHandler(iaService)

	adminService := admin.NewService(userRepo, expedienteRepo, checklistRepo, auditRepo, m, cfg.JWTSecret != "")
	adminHandler := admin.NewHandler(adminService)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		adminHandler.RegisterPublicRoutes(v1)
		v1.GET("/ws", wsHandler.HandleWebSocket)

		protected := v1.Group("/")
		protected.Use(middleware.SessionAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			expedienteHandler.RegisterRoutes(protected)
			documentoHandler.RegisterRoutes(protected)
			mensajeHandler.RegisterRoutes(protected)
			facturacionHandler.RegisterRoutes(protected)
			firmaHandler.RegisterRoutes(protected)
			iaHandler.RegisterRoutes(protected)
			adminHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}
