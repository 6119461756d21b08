package router

import (
	"net/http"

	"pocketbook/internal/config"
	"pocketbook/internal/handler"
	"pocketbook/internal/ledger"
	"pocketbook/internal/middleware"
	"pocketbook/internal/report"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	// the frontend is a separate SPA, so it talks to us cross-origin
	if len(cfg.CORS.Origins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORS.Origins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		r.Use(cors.New(corsCfg))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	store := ledger.NewStore(db)
	engine := report.NewEngine(db)

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, store, cfg.JWT, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe)

	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))
	protected.POST("/profile/delete", handler.DeleteAccount(store))

	categoryHandler := handler.NewCategoryHandler(store)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	protected.POST("/setup-default-categories", categoryHandler.SetupDefaultCategories)

	transactionHandler := handler.NewTransactionHandler(store)
	protected.POST("/transactions", transactionHandler.CreateTransaction)
	protected.GET("/transactions", transactionHandler.ListTransactions)
	protected.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	reportHandler := handler.NewReportHandler(engine)
	protected.GET("/balance", reportHandler.GetBalance)
	protected.GET("/report/month", reportHandler.GetMonthReport)
	protected.GET("/report/day", reportHandler.GetDayReport)

	exportHandler := handler.NewExportHandler(engine)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
