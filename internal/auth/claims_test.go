package auth

import (
	"testing"
	"time"

	"raildash/internal/constants"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", "user-1", "alice", constants.RoleEditor, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Role != constants.RoleEditor {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("test-secret", "user-1", "alice", constants.RoleViewer, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("test-secret", "user-1", "alice", constants.RoleViewer, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}
