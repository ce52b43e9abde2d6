package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	spendpermission "github.com/base-spend-permission/go"
)

// CreatePermissionRequest is the body of POST /api/permissions.
// Allowance may be a JSON number or a decimal string.
type CreatePermissionRequest struct {
	Allowance json.RawMessage `json:"allowance"`
}

// ConnectResponse is the body returned by POST /api/connect
type ConnectResponse struct {
	Account spendpermission.Account `json:"account"`
	Short   string                  `json:"short"`
}

// ErrorResponse is the body returned for failed actions
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (s *Server) handleIndex(c *gin.Context) {
	state := s.client.State()
	c.HTML(http.StatusOK, "index", pageData{
		Config:  s.page,
		State:   state,
		Spender: s.client.Spender(),
	})
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.client.State())
}

func (s *Server) handleConnect(c *gin.Context) {
	account, err := s.client.Connect(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ConnectResponse{
		Account: account,
		Short:   account.Short(),
	})
}

func (s *Server) handleCreatePermission(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    spendpermission.ErrCodeInvalidAllowance,
			Message: "request body must be JSON with an allowance field",
		})
		return
	}

	signed, err := s.client.CreatePermission(c.Request.Context(), allowanceText(req.Allowance))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, signed)
}

// allowanceText returns the allowance as entered, unquoting JSON strings.
func allowanceText(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	if text == "null" {
		return ""
	}
	return text
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := StatusForError(err)
	resp := ErrorResponse{
		Code:    spendpermission.ErrorCode(err),
		Message: err.Error(),
	}
	if pe := asPermissionError(err); pe != nil {
		resp.Message = pe.Message
		resp.Details = pe.Details
	}
	if resp.Code == "" {
		resp.Code = "internal_error"
	}
	c.JSON(status, resp)
}
