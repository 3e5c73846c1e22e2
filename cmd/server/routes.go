package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agrichain.backend/internal/interfaces/http/handlers"
	"agrichain.backend/internal/interfaces/http/middleware"
	"agrichain.backend/pkg/metrics"
)

const (
	serviceName    = "agrichain-backend"
	serviceVersion = "1.0.0"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	productHandler      *handlers.ProductHandler
	farmerHandler       *handlers.FarmerHandler
	verificationHandler *handlers.VerificationHandler
	sessionResolver     middleware.SessionResolver
	protectWrites       bool
}

func newRouter(d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	registerAPIRoutes(r, d)
	return r
}

// applyCORSMiddleware lets the browser frontend call the API with its
// session cookie.
func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	api.Use(middleware.SessionMiddleware(d.sessionResolver))

	// Writes on marketplace resources optionally require a signed-in user.
	write := []gin.HandlerFunc{}
	if d.protectWrites {
		write = append(write, middleware.RequireSession())
	}
	guard := func(h ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), h...)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.authHandler.Register)
		auth.POST("/login", d.authHandler.Login)
		auth.POST("/logout", d.authHandler.Logout)
		auth.GET("/user", d.authHandler.CurrentUser)
		auth.POST("/forgot-password", d.authHandler.ForgotPassword)
		auth.POST("/reset-password", d.authHandler.ResetPassword)
	}

	users := api.Group("/users")
	{
		users.POST("", d.userHandler.CreateUser)
		users.GET("/:id", d.userHandler.GetUser)
	}

	products := api.Group("/products")
	{
		products.GET("", d.productHandler.ListProducts)
		products.GET("/search", d.productHandler.SearchProducts)
		products.GET("/:id", d.productHandler.GetProduct)
		products.GET("/:id/qr", d.productHandler.ProductQRCode)
		products.POST("", guard(middleware.IdempotencyMiddleware(), d.productHandler.CreateProduct)...)
		products.PUT("/:id", guard(d.productHandler.UpdateProduct)...)
		products.DELETE("/:id", guard(d.productHandler.DeleteProduct)...)
	}

	farmers := api.Group("/farmers")
	{
		farmers.GET("", d.farmerHandler.ListFarmers)
		farmers.GET("/:id", d.farmerHandler.GetFarmer)
		farmers.POST("", guard(d.farmerHandler.CreateFarmer)...)
		farmers.PUT("/:id", guard(d.farmerHandler.UpdateFarmer)...)
	}

	verifications := api.Group("/verifications")
	{
		verifications.GET("/jwks", d.verificationHandler.JWKS)
		verifications.GET("/entity/:type/:id", d.verificationHandler.ListByEntity)
		verifications.GET("/verify/:type/:id", d.verificationHandler.Verify)
		verifications.GET("/:id", d.verificationHandler.GetVerification)
		verifications.POST("", guard(d.verificationHandler.CreateVerification)...)
		verifications.POST("/attest", guard(d.verificationHandler.Attest)...)
		verifications.POST("/scan", d.verificationHandler.Scan)
	}
}
