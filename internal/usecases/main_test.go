package usecases_test

import (
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"agrichain.backend/pkg/crypto"
)

func TestMain(m *testing.M) {
	crypto.SetCost(bcrypt.MinCost)
	os.Exit(m.Run())
}
