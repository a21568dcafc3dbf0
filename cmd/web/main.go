package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"summittrek/internal/config"
	"summittrek/internal/database"
	"summittrek/internal/guard"
	"summittrek/internal/middleware"
	"summittrek/internal/modules/auth"
	"summittrek/internal/modules/booking"
	"summittrek/internal/modules/catalog"
	"summittrek/internal/modules/payment"
	"summittrek/internal/restclient"
	"summittrek/internal/session"
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

	sessions := session.NewStore(db, cfg.SessionTTL)
	if err := sessions.Migrate(); err != nil {
		log.Fatal(err)
	}

	api := restclient.New(cfg.BackendBaseURL, cfg.RequestTimeout, sessions, log.Printf)

	catalogService := catalog.NewService(api)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(catalogService, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(api, bookingService, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)

	authService := auth.NewService(api, sessions, log.Printf)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Name:   cfg.CookieName,
		MaxAge: int(cfg.SessionTTL.Seconds()),
		Secure: cfg.CookieSecure,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(session.Middleware(sessions, cfg.CookieName))

	api1 := r.Group("/api")
	{
		// public
		authHandler.RegisterRoutes(api1)
		catalogHandler.RegisterRoutes(api1)

		// protected (booking + payment endpoints)
		protected := api1.Group("/")
		protected.Use(guard.RequireSession())
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
		}
	}

	registerPages(r)

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
