package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/remontasupport/remontamarketplace-sub005/internal/app"
	"github.com/remontasupport/remontamarketplace-sub005/internal/config"
	"github.com/remontasupport/remontamarketplace-sub005/internal/constants"
	"github.com/remontasupport/remontamarketplace-sub005/internal/controllers"
	"github.com/remontasupport/remontamarketplace-sub005/internal/middleware"
	"github.com/remontasupport/remontamarketplace-sub005/internal/repositories"
	"github.com/remontasupport/remontamarketplace-sub005/internal/routes"
	"github.com/remontasupport/remontamarketplace-sub005/internal/services"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize discovery-service:", err)
	}
	defer application.Close()

	// Repositories
	profileRepo := repositories.NewWorkerProfileRepository(application.DB)
	catalogRepo := repositories.NewServiceCatalogRepository(application.DB)
	documentRepo := repositories.NewComplianceDocumentRepository(application.DB)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(context.Background(), catalogRepo, profileRepo, documentRepo); err != nil {
			utils.Logger.Fatal("Failed to seed discovery test data:", err)
		}
	}

	// Services
	var provider services.GeocodingProvider
	if cfg.LDFlag_UseGMapsGeocodingAPI {
		provider, err = services.NewGoogleGeocodingProvider(cfg.GMapsGeocodingAPIKey)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to create Google geocoding client")
		}
	} else {
		utils.Logger.Warn("Geocoding disabled by flag; all searches run in standard mode")
	}
	geocodeCache := services.NewGeocodeCache(constants.GeocodeCacheTTL, constants.GeocodeCacheCapacity)
	geocodingService := services.NewGeocodingService(provider, geocodeCache)
	searchService := services.NewSearchService(profileRepo, geocodingService)

	// Controllers
	healthController := controllers.NewHealthController(application)
	searchController := controllers.NewSearchController(searchService)

	// Router setup
	router := mux.NewRouter()

	// Public Routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Secured routes for coordinators and admins
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey, utils.CoordinatorAccountType, utils.AdminAccountType))
	secured.HandleFunc(routes.WorkersSearch, searchController.SearchWorkersHandler).Methods(http.MethodGet)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "ngrok-skip-browser-warning"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("discovery-service failed to start:", err)
	}
}
