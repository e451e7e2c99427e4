package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"asset-tracking-api-server/config"
	"asset-tracking-api-server/internal/api/handlers"
	"asset-tracking-api-server/internal/api/middleware"
	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/export"
	"asset-tracking-api-server/internal/models"
	"asset-tracking-api-server/internal/s3"
	"asset-tracking-api-server/internal/scan"
	"asset-tracking-api-server/internal/socket"
	"asset-tracking-api-server/internal/storage"
)

// SetupRouter wires every handler to its route group. rdb and s3Uploader may
// be nil; the features backed by them degrade gracefully.
func SetupRouter(
	cfg config.Config,
	store *storage.Directory,
	lifecycle *barcode.Lifecycle,
	encoder *barcode.Encoder,
	resolver *scan.Resolver,
	packager *export.Packager,
	wsHub *socket.Hub,
	s3Uploader *s3.Uploader,
	rdb *redis.Client,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	secret := []byte(cfg.JWT.Secret)

	authHandler := &handlers.AuthHandler{Users: store.Users, Cfg: cfg}
	dealerHandler := &handlers.DealerHandler{Dealers: store.Dealers}
	assetHandler := &handlers.AssetHandler{Store: store, Lifecycle: lifecycle, Uploader: s3Uploader, Cfg: cfg}
	barcodeHandler := &handlers.BarcodeHandler{
		Store:     store,
		Lifecycle: lifecycle,
		Resolver:  resolver,
		Packager:  packager,
		Encoder:   encoder,
		Cfg:       cfg,
	}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, JWTSecret: secret}

	// rendered barcode artifacts are served straight off disk
	router.Static("/uploads", cfg.Uploads.Dir)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// anonymous phone-camera scans, rate limited per client IP
		public := apiV1.Group("/barcodes/public")
		public.Use(middleware.RateLimit(cfg.RateLimit, rdb))
		{
			public.GET("/scan/:barcodeValue", barcodeHandler.PublicScan)
		}

		authed := apiV1.Group("/")
		authed.Use(middleware.Authenticate(secret))
		{
			barcodes := authed.Group("/barcodes")
			{
				barcodes.GET("/scan/:barcodeValue", barcodeHandler.AuthenticatedScan)
				barcodes.GET("/download/:assetId", barcodeHandler.DownloadBarcode)
				barcodes.GET("/check/:barcodeValue", barcodeHandler.CheckBarcode)

				adminBarcodes := barcodes.Group("/")
				adminBarcodes.Use(middleware.Authorize(models.RoleAdmin))
				{
					adminBarcodes.POST("/preview", barcodeHandler.Preview)
					adminBarcodes.POST("/regenerate/:assetId", barcodeHandler.RegenerateBarcode)
					adminBarcodes.GET("/dealer/:dealerId", barcodeHandler.DealerBarcodes)
					adminBarcodes.GET("/dealer/:dealerId/download-pdf", barcodeHandler.DownloadDealerPDF)
					adminBarcodes.GET("/dealer/:dealerId/download-zip", barcodeHandler.DownloadDealerZIP)
					adminBarcodes.POST("/download-pdf", barcodeHandler.DownloadSelectedPDF)
				}
			}

			assets := authed.Group("/assets")
			{
				assets.GET("/", assetHandler.GetAllAssets)
				assets.GET("/:id", assetHandler.GetAssetByID)

				adminAssets := assets.Group("/")
				adminAssets.Use(middleware.Authorize(models.RoleAdmin))
				{
					adminAssets.POST("/", assetHandler.CreateAsset)
					adminAssets.PUT("/:id", assetHandler.UpdateAsset)
					adminAssets.DELETE("/:id", assetHandler.DeleteAsset)
					adminAssets.POST("/:id/images", assetHandler.UploadImages)
				}
			}

			dealers := authed.Group("/dealers")
			{
				dealers.GET("/", dealerHandler.GetAllDealers)
				dealers.GET("/:id", dealerHandler.GetDealerByID)

				adminDealers := dealers.Group("/")
				adminDealers.Use(middleware.Authorize(models.RoleAdmin))
				{
					adminDealers.POST("/", dealerHandler.CreateDealer)
					adminDealers.PUT("/:id", dealerHandler.UpdateDealer)
					adminDealers.DELETE("/:id", dealerHandler.DeleteDealer)
				}
			}
		}
	}

	return router
}
