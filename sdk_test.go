package spendpermission

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
)

type echoWalletService struct{}

func (echoWalletService) Connect() (map[string]interface{}, error) {
	return map[string]interface{}{"accounts": []interface{}{}}, nil
}

func TestNewSDKSendsAppHeaders(t *testing.T) {
	server := rpc.NewServer()
	if err := server.RegisterName("wallet", echoWalletService{}); err != nil {
		t.Fatalf("Failed to register service: %v", err)
	}
	defer server.Stop()

	var (
		mu      sync.Mutex
		headers http.Header
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = r.Header.Clone()
		mu.Unlock()
		server.ServeHTTP(w, r)
	}))
	defer ts.Close()

	sdk, err := NewSDK(context.Background(), SDKConfig{
		AppName:     "Spend Permission Test",
		ChainIDs:    []int64{84532, 8453},
		ProviderURL: ts.URL,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer sdk.Close()

	var result map[string]interface{}
	if err := sdk.GetProvider().CallContext(context.Background(), &result, MethodWalletConnect); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got := headers.Get(HeaderAppName); got != "Spend Permission Test" {
		t.Fatalf("Expected app name header, got %q", got)
	}
	if got := headers.Get(HeaderAppChainIDs); got != "84532,8453" {
		t.Fatalf("Expected chain ids header, got %q", got)
	}
}

func TestNewSDKValidation(t *testing.T) {
	if _, err := NewSDK(context.Background(), SDKConfig{ChainIDs: []int64{84532}}); err == nil {
		t.Fatal("Expected error without provider url")
	}
	if _, err := NewSDK(context.Background(), SDKConfig{ProviderURL: "http://localhost:1"}); err == nil {
		t.Fatal("Expected error without chain ids")
	}
	if _, err := NewSDKWithProvider(SDKConfig{ChainIDs: []int64{84532}}, nil); err == nil {
		t.Fatal("Expected error without provider")
	}
}

func TestNilSDKHasNoProvider(t *testing.T) {
	var sdk *SDK
	if sdk.GetProvider() != nil {
		t.Fatal("Expected nil provider from nil SDK")
	}
	sdk.Close()
}
