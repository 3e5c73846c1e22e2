package usecases_test

import (
	"time"

	"agrichain.backend/internal/infrastructure/memory"
	"agrichain.backend/internal/usecases"
	"agrichain.backend/pkg/jwt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memoryFixture struct {
	store    *memory.Store
	users    *memory.UserRepository
	farmers  *memory.FarmerRepository
	products *memory.ProductRepository
	verifs   *memory.VerificationRepository
	resets   *memory.PasswordResetRepository
	sessions *memory.SessionStore
	tokens   *jwt.SessionTokenService
}

func newMemoryFixture() *memoryFixture {
	s := memory.NewStore()
	return &memoryFixture{
		store:    s,
		users:    memory.NewUserRepository(s),
		farmers:  memory.NewFarmerRepository(s),
		products: memory.NewProductRepository(s),
		verifs:   memory.NewVerificationRepository(s),
		resets:   memory.NewPasswordResetRepository(s),
		sessions: memory.NewSessionStore(),
		tokens:   jwt.NewSessionTokenService(testSecret),
	}
}

func (f *memoryFixture) auth(mailer usecases.Mailer) *usecases.AuthUsecase {
	return usecases.NewAuthUsecase(
		f.users,
		f.farmers,
		f.resets,
		f.sessions,
		memory.NewUnitOfWork(f.store),
		f.tokens,
		mailer,
		usecases.AuthConfig{
			SessionTTL:    24 * time.Hour,
			ResetTokenTTL: time.Hour,
			PublicBaseURL: "http://localhost:8080/",
		},
	)
}
