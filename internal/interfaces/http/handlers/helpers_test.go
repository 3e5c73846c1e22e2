package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"agrichain.backend/internal/infrastructure/blockchain"
	"agrichain.backend/internal/infrastructure/memory"
	"agrichain.backend/internal/interfaces/http/handlers"
	"agrichain.backend/internal/interfaces/http/middleware"
	"agrichain.backend/internal/usecases"
	"agrichain.backend/pkg/attest"
	"agrichain.backend/pkg/crypto"
	"agrichain.backend/pkg/jwt"
)

type nopMailer struct {
	links []string
}

func (m *nopMailer) SendPasswordReset(_ context.Context, _ string, link string) error {
	m.links = append(m.links, link)
	return nil
}

type testServer struct {
	router *gin.Engine
	mailer *nopMailer
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	crypto.SetCost(bcrypt.MinCost)
	t.Cleanup(func() { crypto.SetCost(crypto.DefaultCost) })

	s := memory.NewStore()
	users := memory.NewUserRepository(s)
	farmers := memory.NewFarmerRepository(s)
	products := memory.NewProductRepository(s)
	verifications := memory.NewVerificationRepository(s)
	uow := memory.NewUnitOfWork(s)
	mailer := &nopMailer{}

	signer, err := attest.NewSigner("")
	require.NoError(t, err)

	authUC := usecases.NewAuthUsecase(users, farmers, memory.NewPasswordResetRepository(s), memory.NewSessionStore(), uow,
		jwt.NewSessionTokenService("0123456789abcdef0123456789abcdef"), mailer,
		usecases.AuthConfig{SessionTTL: 24 * time.Hour, PublicBaseURL: "http://localhost:8080"})

	authH := handlers.NewAuthHandler(authUC, false)
	userH := handlers.NewUserHandler(usecases.NewUserUsecase(users))
	productH := handlers.NewProductHandler(usecases.NewProductUsecase(products, farmers, "http://localhost:8080"))
	farmerH := handlers.NewFarmerHandler(usecases.NewFarmerUsecase(farmers, users, uow))
	verificationH := handlers.NewVerificationHandler(usecases.NewVerificationUsecase(
		verifications, products, farmers, uow, blockchain.NewSimulatedAnchor("Ethereum"), signer))

	r := gin.New()
	r.Use(middleware.SessionMiddleware(authUC))
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.GET("/user", authH.CurrentUser)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password", authH.ResetPassword)

	api.POST("/users", userH.CreateUser)
	api.GET("/users/:id", userH.GetUser)

	api.GET("/products", productH.ListProducts)
	api.GET("/products/search", productH.SearchProducts)
	api.GET("/products/:id", productH.GetProduct)
	api.GET("/products/:id/qr", productH.ProductQRCode)
	api.POST("/products", productH.CreateProduct)
	api.PUT("/products/:id", productH.UpdateProduct)
	api.DELETE("/products/:id", productH.DeleteProduct)

	api.GET("/farmers", farmerH.ListFarmers)
	api.GET("/farmers/:id", farmerH.GetFarmer)
	api.POST("/farmers", farmerH.CreateFarmer)
	api.PUT("/farmers/:id", farmerH.UpdateFarmer)

	api.GET("/verifications/jwks", verificationH.JWKS)
	api.GET("/verifications/entity/:type/:id", verificationH.ListByEntity)
	api.GET("/verifications/verify/:type/:id", verificationH.Verify)
	api.GET("/verifications/:id", verificationH.GetVerification)
	api.POST("/verifications", verificationH.CreateVerification)
	api.POST("/verifications/attest", verificationH.Attest)
	api.POST("/verifications/scan", verificationH.Scan)

	return &testServer{router: r, mailer: mailer, store: s}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middleware.SessionCookieName)
	return nil
}
