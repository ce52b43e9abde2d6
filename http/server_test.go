package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spendpermission "github.com/base-spend-permission/go"
	"github.com/base-spend-permission/go/mechanisms/evm"
)

const (
	testAccount = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testSpender = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	testToken   = "0x036CbD53842c5426634e7929541eC2318f3dCF7e"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// walletStub answers provider requests with canned values
type walletStub struct {
	accounts []string
	signErr  error
}

func (w *walletStub) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	var value interface{}
	switch method {
	case spendpermission.MethodWalletConnect:
		value = map[string]interface{}{}
	case spendpermission.MethodEthRequestAccounts:
		value = w.accounts
	case spendpermission.MethodEthSignTypedDataV4:
		if w.signErr != nil {
			return w.signErr
		}
		value = "0x" + strings.Repeat("11", 65)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func newTestServer(t *testing.T, wallet *walletStub, opts ...spendpermission.ClientOption) (*Server, *spendpermission.Client) {
	t.Helper()

	var sdk *spendpermission.SDK
	if wallet != nil {
		var err error
		sdk, err = spendpermission.NewSDKWithProvider(spendpermission.SDKConfig{ChainIDs: []int64{84532}}, wallet)
		require.NoError(t, err)
	}

	opts = append([]spendpermission.ClientOption{
		spendpermission.WithSpender(testSpender),
		spendpermission.WithToken(testToken),
	}, opts...)
	client := spendpermission.NewClient(sdk, opts...)
	_, err := evm.RegisterClient(client, "eip155:84532")
	require.NoError(t, err)

	return NewServer(client), client
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIndexPage(t *testing.T) {
	s, _ := newTestServer(t, &walletStub{accounts: []string{testAccount}})

	w := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Connect Wallet")
	assert.Contains(t, body, "0x7099...79C8")
	assert.Contains(t, body, `value="0.00009"`)
	assert.Contains(t, body, "window.spendPermissionConfig")
	assert.Contains(t, body, `class="success hidden"`)
}

func TestSessionEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var state spendpermission.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.False(t, state.Initialized)
	assert.False(t, state.Connected)
	assert.NotEmpty(t, state.ID)
}

func TestConnectAndCreate(t *testing.T) {
	s, client := newTestServer(t, &walletStub{accounts: []string{testAccount}})

	w := do(t, s, http.MethodPost, "/api/connect", "")
	require.Equal(t, http.StatusOK, w.Code)
	var connected ConnectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &connected))
	assert.Equal(t, spendpermission.Account(testAccount), connected.Account)
	assert.Equal(t, "0xf39F...2266", connected.Short)

	w = do(t, s, http.MethodPost, "/api/permissions", `{"allowance":"0.00009"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signed spendpermission.SignedPermission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signed))
	assert.Equal(t, "90000000000000", signed.Permission.Allowance)
	assert.Equal(t, testAccount, signed.Permission.Account)
	assert.True(t, strings.HasPrefix(signed.Signature, "0x"))
	assert.NotNil(t, client.Session().Permission())

	w = do(t, s, http.MethodPost, "/api/permissions", `{"allowance":0.00009}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, spendpermission.ErrCodeAlreadyCreated, decodeError(t, w).Code)

	w = do(t, s, http.MethodGet, "/", "")
	assert.NotContains(t, w.Body.String(), `class="success hidden"`)
	assert.Contains(t, w.Body.String(), `<button id="create-button" disabled>`)
}

func TestIndexRendersSignedPermission(t *testing.T) {
	s, _ := newTestServer(t, &walletStub{accounts: []string{testAccount}})

	body := do(t, s, http.MethodGet, "/", "").Body.String()
	assert.Contains(t, body, `<code data-field="salt"></code>`)
	assert.Contains(t, body, `<code data-field="signature"></code>`)
	assert.Contains(t, body, "config.tokenDecimals")

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/connect", "").Code)
	w := do(t, s, http.MethodPost, "/api/permissions", `{"allowance":"0.00009"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signed spendpermission.SignedPermission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signed))

	body = do(t, s, http.MethodGet, "/", "").Body.String()
	p := signed.Permission
	fields := map[string]string{
		"account":         p.Account,
		"spender":         p.Spender,
		"token":           p.Token,
		"allowanceTokens": "0.00009",
		"allowance":       "90000000000000",
		"period":          "2592000",
		"start":           fmt.Sprint(p.Start),
		"end":             "281474976710655",
		"salt":            p.Salt,
		"extraData":       "0x",
		"signature":       signed.Signature,
	}
	for key, value := range fields {
		assert.Contains(t, body, fmt.Sprintf(`<code data-field="%s">%s</code>`, key, value), key)
	}
	assert.Contains(t, body, `value="0.00009" disabled>`)
}

func TestPermissionFieldsFormatsAllowance(t *testing.T) {
	data := pageData{
		Config: PageConfig{TokenDecimals: 6},
		State: spendpermission.SessionState{Permission: &spendpermission.SignedPermission{
			Permission: spendpermission.SpendPermission{Allowance: "12500000"},
		}},
	}
	for _, field := range data.PermissionFields() {
		if field.Key == "allowanceTokens" {
			assert.Equal(t, "12.5", field.Value)
			return
		}
	}
	t.Fatal("allowanceTokens field missing")
}

func TestCreatePermissionErrors(t *testing.T) {
	tests := []struct {
		name       string
		wallet     *walletStub
		opts       []spendpermission.ClientOption
		connect    bool
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing spender",
			wallet:     &walletStub{accounts: []string{testAccount}},
			opts:       []spendpermission.ClientOption{spendpermission.WithSpender("")},
			body:       `{"allowance":"0.00009"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   spendpermission.ErrCodeMissingSpender,
		},
		{
			name:       "invalid allowance",
			wallet:     &walletStub{accounts: []string{testAccount}},
			connect:    true,
			body:       `{"allowance":"abc"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   spendpermission.ErrCodeInvalidAllowance,
		},
		{
			name:       "malformed body",
			wallet:     &walletStub{accounts: []string{testAccount}},
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantCode:   spendpermission.ErrCodeInvalidAllowance,
		},
		{
			name:       "not initialized",
			body:       `{"allowance":"0.00009"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   spendpermission.ErrCodeNotInitialized,
		},
		{
			name:       "not connected",
			wallet:     &walletStub{accounts: []string{testAccount}},
			body:       `{"allowance":"0.00009"}`,
			wantStatus: http.StatusConflict,
			wantCode:   spendpermission.ErrCodeNotConnected,
		},
		{
			name:       "signature rejected",
			wallet:     &walletStub{accounts: []string{testAccount}, signErr: errors.New("user rejected")},
			connect:    true,
			body:       `{"allowance":"0.00009"}`,
			wantStatus: http.StatusBadGateway,
			wantCode:   spendpermission.ErrCodeProviderRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.wallet, tt.opts...)
			if tt.connect {
				require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/connect", "").Code)
			}

			w := do(t, s, http.MethodPost, "/api/permissions", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestConnectNoAccounts(t *testing.T) {
	s, _ := newTestServer(t, &walletStub{})

	w := do(t, s, http.MethodPost, "/api/connect", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, spendpermission.ErrCodeNoAccounts, decodeError(t, w).Code)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusForError(errors.New("boom")))
	assert.Equal(t, http.StatusForbidden, StatusForError(
		spendpermission.NewPermissionError(spendpermission.ErrCodeAbortedByHook, "no", nil)))
	assert.Equal(t, http.StatusConflict, StatusForError(fmt.Errorf("wrapped: %w",
		spendpermission.NewPermissionError(spendpermission.ErrCodeOperationInProgress, "busy", nil))))
}

func TestAllowanceText(t *testing.T) {
	assert.Equal(t, "0.00009", allowanceText(json.RawMessage(`"0.00009"`)))
	assert.Equal(t, "0.00009", allowanceText(json.RawMessage(`0.00009`)))
	assert.Equal(t, "", allowanceText(json.RawMessage(`null`)))
	assert.Equal(t, "", allowanceText(nil))
}
