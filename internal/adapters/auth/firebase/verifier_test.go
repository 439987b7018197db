package firebase

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testKeyID   = "test-key"
	testProject = "pettrack-test"
)

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

func jwksJSON(pub *rsa.PublicKey) json.RawMessage {
	data, _ := json.Marshal(map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": testKeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
	return data
}

func newTestVerifier(t *testing.T, key *rsa.PrivateKey) *Verifier {
	t.Helper()
	kf, err := keyfunc.NewJWKSetJSON(jwksJSON(&key.PublicKey))
	if err != nil {
		t.Fatalf("keyfunc: %v", err)
	}
	return NewWithKeyfunc(kf, Config{ProjectID: testProject})
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = testKeyID
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func baseClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   "https://securetoken.google.com/" + testProject,
		"aud":   testProject,
		"sub":   "uid-123",
		"email": "ana@example.com",
		"iat":   jwt.NewNumericDate(now.Add(-time.Minute)),
		"exp":   jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestVerifier_ValidToken(t *testing.T) {
	key := generateKey(t)
	v := newTestVerifier(t, key)

	claims, err := v.Verify(context.Background(), sign(t, key, baseClaims()))
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "uid-123" || claims.Email != "ana@example.com" {
		t.Fatalf("unexpected claims %#v", claims)
	}
}

func TestVerifier_RejectsBadTokens(t *testing.T) {
	key := generateKey(t)
	v := newTestVerifier(t, key)
	other := generateKey(t)

	expired := baseClaims()
	expired["exp"] = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAud := baseClaims()
	wrongAud["aud"] = "someone-else"

	wrongIss := baseClaims()
	wrongIss["iss"] = "https://securetoken.google.com/other"

	noSub := baseClaims()
	delete(noSub, "sub")

	cases := map[string]string{
		"expired":     sign(t, key, expired),
		"wrong aud":   sign(t, key, wrongAud),
		"wrong iss":   sign(t, key, wrongIss),
		"missing sub": sign(t, key, noSub),
		"foreign key": sign(t, other, baseClaims()),
		"not a jwt":   "abc.def.ghi",
	}

	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	if _, err := v.Verify(context.Background(), "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}
