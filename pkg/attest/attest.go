// Package attest signs verification records as compact JWS (ES256) so they
// can be checked offline against the published key set.
package attest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	jose "github.com/go-jose/go-jose/v3"
)

var (
	ErrInvalidKey       = errors.New("attestation key must be a 32 byte P-256 scalar in hex")
	ErrInvalidSignature = errors.New("attestation signature is invalid")
)

var generateKey = func() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// Signer produces and checks attestations with a single P-256 key.
type Signer struct {
	key    *ecdsa.PrivateKey
	keyID  string
	signer jose.Signer
}

// NewSigner loads the key from hex. An empty string generates an ephemeral
// key; attestations issued with it stop verifying after a restart.
func NewSigner(keyHex string) (*Signer, error) {
	var (
		key *ecdsa.PrivateKey
		err error
	)
	if keyHex == "" {
		key, err = generateKey()
		if err != nil {
			return nil, fmt.Errorf("generate attestation key: %w", err)
		}
	} else {
		key, err = parseKey(keyHex)
		if err != nil {
			return nil, err
		}
	}
	return newSigner(key)
}

func parseKey(keyHex string) (*ecdsa.PrivateKey, error) {
	raw, err := hex.DecodeString(keyHex)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidKey
	}
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(raw)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, ErrInvalidKey
	}
	key := &ecdsa.PrivateKey{D: d}
	key.PublicKey.Curve = curve
	key.PublicKey.X, key.PublicKey.Y = curve.ScalarBaseMult(raw)
	return key, nil
}

func newSigner(key *ecdsa.PrivateKey) (*Signer, error) {
	jwk := jose.JSONWebKey{Key: &key.PublicKey, Algorithm: string(jose.ES256), Use: "sig"}
	thumb, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("thumbprint attestation key: %w", err)
	}
	kid := base64.RawURLEncoding.EncodeToString(thumb)

	opts := (&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", kid)
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.ES256, Key: key}, opts)
	if err != nil {
		return nil, fmt.Errorf("create attestation signer: %w", err)
	}
	return &Signer{key: key, keyID: kid, signer: signer}, nil
}

// KeyID returns the RFC 7638 thumbprint used as "kid".
func (s *Signer) KeyID() string {
	return s.keyID
}

// Sign marshals claims to JSON and returns the compact serialization.
func (s *Signer) Sign(claims any) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal attestation claims: %w", err)
	}
	jws, err := s.signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("sign attestation: %w", err)
	}
	return jws.CompactSerialize()
}

// Verify checks token against the signer's public key and decodes the
// payload into out.
func (s *Signer) Verify(token string, out any) error {
	jws, err := jose.ParseSigned(token)
	if err != nil {
		return ErrInvalidSignature
	}
	if len(jws.Signatures) != 1 || jws.Signatures[0].Header.Algorithm != string(jose.ES256) {
		return ErrInvalidSignature
	}
	payload, err := jws.Verify(&s.key.PublicKey)
	if err != nil {
		return ErrInvalidSignature
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode attestation payload: %w", err)
	}
	return nil
}

// JWKS returns the public key set for offline verification.
func (s *Signer) JWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &s.key.PublicKey,
		KeyID:     s.keyID,
		Algorithm: string(jose.ES256),
		Use:       "sig",
	}}}
}
