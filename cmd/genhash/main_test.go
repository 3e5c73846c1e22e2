package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"agrichain.backend/pkg/crypto"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := stdout
	buf := &bytes.Buffer{}
	stdout = buf
	t.Cleanup(func() {
		stdout = orig
		crypto.SetCost(crypto.DefaultCost)
	})
	return buf
}

func TestRun_PrintsHash(t *testing.T) {
	out := captureStdout(t)

	require.NoError(t, run([]string{"-cost", "4", "password123"}))
	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestRun_Usage(t *testing.T) {
	captureStdout(t)

	assert.ErrorIs(t, run(nil), errNoPassword)
	assert.ErrorIs(t, run([]string{"a", "b"}), errNoPassword)
	assert.Error(t, run([]string{"-cost", "x", "pw"}))
}

func TestRun_HashError(t *testing.T) {
	captureStdout(t)
	orig := generateHashFn
	t.Cleanup(func() { generateHashFn = orig })
	generateHashFn = func(string) (string, error) { return "", errors.New("hash failed") }

	assert.EqualError(t, run([]string{"pw"}), "hash failed")
}
