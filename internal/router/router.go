// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/config"
	"github.com/homestead/estate-backend/internal/handlers"
	"github.com/homestead/estate-backend/internal/middleware"
	"github.com/homestead/estate-backend/internal/services"
	"github.com/homestead/estate-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	accountingService := services.NewAccountingService(db, cfg)
	paymentService := services.NewPaymentService(db, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Storage service unavailable")
	}

	authService := services.NewAuthService(db, cfg)
	propertyService := services.NewPropertyService(db, accountingService)
	offerService := services.NewOfferService(db, paymentService)
	catalogService := services.NewCatalogService(db)
	partnerService := services.NewPartnerService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, storageService)
	offerHandler := handlers.NewOfferHandler(offerService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	invoiceHandler := handlers.NewInvoiceHandler(accountingService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		properties := v1.Group("/properties")
		{
			properties.GET("", middleware.OptionalAuth(), propertyHandler.GetProperties)
			properties.GET("/garden-defaults", propertyHandler.GardenDefaults)
			properties.GET("/:id", middleware.OptionalAuth(), propertyHandler.GetProperty)
			properties.GET("/:id/offers", middleware.OptionalAuth(), offerHandler.GetPropertyOffers)

			protected := properties.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", propertyHandler.CreateProperty)
				protected.PUT("/:id", propertyHandler.UpdateProperty)
				protected.DELETE("/:id", propertyHandler.DeleteProperty)
				protected.POST("/:id/sold", propertyHandler.MarkSold)
				protected.POST("/:id/cancel", propertyHandler.CancelProperty)
				protected.POST("/:id/duplicate", propertyHandler.DuplicateProperty)
				protected.POST("/:id/photos", middleware.UploadRateLimit(), propertyHandler.UploadPhotos)
				protected.GET("/:id/invoice", invoiceHandler.GetPropertyInvoice)
			}
		}

		offers := v1.Group("/offers")
		offers.Use(middleware.AuthRequired())
		{
			offers.POST("", offerHandler.SubmitOffer)
			offers.GET("/:id", offerHandler.GetOffer)
			offers.POST("/:id/accept", offerHandler.AcceptOffer)
			offers.POST("/:id/refuse", offerHandler.RefuseOffer)
			offers.PUT("/:id/deadline", offerHandler.UpdateDeadline)
		}

		propertyTypes := v1.Group("/property-types")
		{
			propertyTypes.GET("", catalogHandler.GetPropertyTypes)

			protected := propertyTypes.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", catalogHandler.CreatePropertyType)
				protected.DELETE("/:id", middleware.AdminRequired(), catalogHandler.DeletePropertyType)
			}
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", catalogHandler.GetTags)

			protected := tags.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", catalogHandler.CreateTag)
				protected.DELETE("/:id", middleware.AdminRequired(), catalogHandler.DeleteTag)
			}
		}

		partners := v1.Group("/partners")
		partners.Use(middleware.AuthRequired())
		{
			partners.GET("", partnerHandler.GetPartners)
			partners.POST("", partnerHandler.CreatePartner)
			partners.GET("/:id", partnerHandler.GetPartner)
		}

		invoices := v1.Group("/invoices")
		invoices.Use(middleware.AuthRequired())
		{
			invoices.GET("", invoiceHandler.GetInvoices)
		}
	}

	return r
}
