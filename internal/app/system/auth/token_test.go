package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "a-32-character-signing-secret-ok!"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "strataevents")

	tok, err := tm.Generate("64b7f0c2a1b2c3d4e5f60718", "admin")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := tm.Validate(tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "64b7f0c2a1b2c3d4e5f60718" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestTokenManager_Generate_RequiresSubjectAndRole(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "")

	if _, err := tm.Generate("", "admin"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty subject: err = %v, want ErrInvalidToken", err)
	}
	if _, err := tm.Generate("abc", ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty role: err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_Validate(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "strataevents")
	good, _ := tm.Generate("user-1", "user")

	other := NewTokenManager("another-32-character-signing-key!", time.Hour, "strataevents")
	wrongKey, _ := other.Generate("user-1", "user")

	foreign := NewTokenManager(testSecret, time.Hour, "someone-else")
	wrongIssuer, _ := foreign.Generate("user-1", "user")

	expiredMgr := NewTokenManager(testSecret, time.Hour, "strataevents")
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredMgr.Generate("user-1", "user")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "strataevents"},
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", good, nil},
		{"empty", "  ", ErrMissingToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"wrong key", wrongKey, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Validate(tt.token)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
