package spendpermission

import (
	"errors"
	"fmt"
	"testing"
)

func TestNetworkMatch(t *testing.T) {
	tests := []struct {
		network Network
		pattern Network
		want    bool
	}{
		{"eip155:84532", "eip155:84532", true},
		{"eip155:84532", "eip155:*", true},
		{"eip155:*", "eip155:8453", true},
		{"eip155:84532", "eip155:8453", false},
		{"solana:mainnet", "eip155:*", false},
	}
	for _, tt := range tests {
		if got := tt.network.Match(tt.pattern); got != tt.want {
			t.Errorf("%s.Match(%s) = %v, want %v", tt.network, tt.pattern, got, tt.want)
		}
	}
}

func TestNetworkParse(t *testing.T) {
	ns, ref, err := Network("eip155:84532").Parse()
	if err != nil || ns != "eip155" || ref != "84532" {
		t.Fatalf("Unexpected parse result %q %q %v", ns, ref, err)
	}
	if _, _, err := Network("base-sepolia").Parse(); err == nil {
		t.Fatal("Expected error for non CAIP-2 network")
	}
}

func TestFindByNetwork(t *testing.T) {
	m := map[Network]string{
		"eip155:*":    "family",
		"eip155:8453": "exact",
	}
	if got := findByNetwork(m, "eip155:8453"); got != "exact" {
		t.Fatalf("Expected exact match, got %q", got)
	}
	if got := findByNetwork(m, "eip155:84532"); got != "family" {
		t.Fatalf("Expected pattern match, got %q", got)
	}
	if got := findByNetwork(m, "solana:mainnet"); got != "" {
		t.Fatalf("Expected no match, got %q", got)
	}
}

func TestShortAddress(t *testing.T) {
	if got := Account("0x1234567890abcdef1234567890abcdef12345678").Short(); got != "0x1234...5678" {
		t.Fatalf("Unexpected short address %s", got)
	}
	if got := ShortAddress("0x12"); got != "0x12" {
		t.Fatalf("Expected short input unchanged, got %s", got)
	}
}

func TestSaltHex(t *testing.T) {
	p := SpendPermission{Salt: "255"}
	got := p.SaltHex()
	if len(got) != 64 || got[62:] != "ff" {
		t.Fatalf("Expected 64 hex chars ending in ff, got %s", got)
	}
	if (SpendPermission{Salt: "nope"}).SaltHex() != "" {
		t.Fatal("Expected empty hex for invalid salt")
	}
}

func TestPermissionErrorCode(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("create: %w", wrapPermissionError(ErrCodeProviderRejected, "rejected", cause))

	if ErrorCode(err) != ErrCodeProviderRejected {
		t.Fatalf("Expected code through wrapping, got %q", ErrorCode(err))
	}
	if !errors.Is(err, cause) {
		t.Fatal("Expected cause to be reachable")
	}
	if ErrorCode(cause) != "" {
		t.Fatal("Expected no code for plain errors")
	}
	if !IsUserCorrectable(NewPermissionError(ErrCodeInvalidAllowance, "bad", nil)) {
		t.Fatal("Expected invalid allowance to be user correctable")
	}
	if IsUserCorrectable(err) {
		t.Fatal("Expected provider rejection not to be user correctable")
	}
}
