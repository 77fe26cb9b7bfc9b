package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testIdentity = "0e4dac24-dd23-4655-a471-52653a10d15f"
	testContext  = "3cd84429-64a4-4226-b868-c83feeff0f46"
	otherContext = "d6caf17a-e27b-4708-a171-8690d8f12afe"

	adminRole = "https://dtz.rocks/containers/admin/" + testContext
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyPEM  []byte
	testKeyErr  error
)

// signingKey returns the process wide test key and its PEM public key.
func signingKey(t testing.TB) (*rsa.PrivateKey, []byte) {
	t.Helper()
	testKeyOnce.Do(func() {
		testKey, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
		if testKeyErr != nil {
			return
		}
		der, err := x509.MarshalPKIXPublicKey(&testKey.PublicKey)
		if err != nil {
			testKeyErr = err
			return
		}
		testKeyPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	})
	if testKeyErr != nil {
		t.Fatalf("generate key: %v", testKeyErr)
	}
	return testKey, testKeyPEM
}

func testVerifier(t testing.TB) *Verifier {
	t.Helper()
	_, pub := signingKey(t)
	v, err := NewVerifier(VerifierConfig{PublicKeyPEM: pub})
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	return v
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":      "dtz.rocks",
		"sub":      testIdentity,
		"aud":      "dtz.rocks",
		"scope":    testContext,
		"roles":    []string{adminRole, "https://dtz.rocks/identity/assume/" + testIdentity, adminRole},
		"contexts": []string{otherContext},
		"exp":      now.Add(time.Hour).Unix(),
		"iat":      now.Unix(),
	}
}

func signToken(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	key, _ := signingKey(t)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "dtz1"
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validToken(t testing.TB) string {
	t.Helper()
	return signToken(t, validClaims())
}

func readTestdata(t testing.TB, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	return strings.TrimSpace(string(b))
}
