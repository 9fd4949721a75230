package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
	"github.com/msomdec/event-registry/internal/service"
)

func TestJWTSigner_RoundTrip(t *testing.T) {
	signer := service.NewJWTSigner(testJWTSecret, time.Hour)

	caller := domain.Caller{UserID: 42, Email: "round@example.com", Role: domain.RoleAdmin}
	token, err := signer.Sign(caller)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	got, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != caller {
		t.Fatalf("expected caller %+v, got %+v", caller, got)
	}
}

func TestJWTSigner_Expired(t *testing.T) {
	// A negative TTL produces a correctly signed but already expired
	// token: expiry must be rejected independent of signature validity.
	signer := service.NewJWTSigner(testJWTSecret, -time.Hour)

	token, err := signer.Sign(domain.Caller{UserID: 1, Email: "old@example.com", Role: domain.RoleRegular})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := signer.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestJWTSigner_Tampered(t *testing.T) {
	signer := service.NewJWTSigner(testJWTSecret, time.Hour)

	token, err := signer.Sign(domain.Caller{UserID: 1, Email: "t@example.com", Role: domain.RoleRegular})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := signer.Verify(tampered); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
}

func TestJWTSigner_WrongSecret(t *testing.T) {
	signer := service.NewJWTSigner(testJWTSecret, time.Hour)
	other := service.NewJWTSigner("another-secret-entirely-1234567890", time.Hour)

	token, err := signer.Sign(domain.Caller{UserID: 1, Email: "w@example.com", Role: domain.RoleRegular})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

func TestJWTSigner_Garbage(t *testing.T) {
	signer := service.NewJWTSigner(testJWTSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := signer.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("token %q: expected ErrUnauthorized, got %v", token, err)
		}
	}
}
