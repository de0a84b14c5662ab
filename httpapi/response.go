package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/siamwallet/authcore/pkg/auth"
	"github.com/siamwallet/authcore/pkg/logger"
)

// Stable machine-readable error codes. Clients branch on these, the
// Thai message is for display only.
const (
	codeBadRequest  = "BAD_REQUEST"
	codeUnaut       = "UNAUTHORIZED"
	codeForbidden   = "FORBIDDEN"
	codeNotFound    = "NOT_FOUND"
	codeConflict    = "CONFLICT"
	codeValidation  = "VALIDATION_ERROR"
	codeRateLimit   = "AUTH_RATE_LIMIT"
	codeUnavailable = "SERVICE_UNAVAILABLE"
	codeInternal    = "INTERNAL_ERROR"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, response{Success: true, Data: data, Message: message})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, response{Success: false, Error: &errorBody{Code: code, Message: message}})
}

func respondValidation(w http.ResponseWriter, details any) {
	writeJSON(w, http.StatusUnprocessableEntity, response{
		Success: false,
		Error:   &errorBody{Code: codeValidation, Message: "Validation failed", Details: details},
	})
}

// respondServiceError maps engine errors to HTTP status, code, and the
// user-facing Thai message. Unknown errors are logged and answered with the
// caller's fallback message so internals never leak to the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, codeUnaut, "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง")
	case errors.Is(err, auth.ErrAccountSuspended):
		respondError(w, http.StatusForbidden, codeForbidden, "บัญชีถูกระงับการใช้งาน")
	case errors.Is(err, auth.ErrAccountNotActivated):
		respondError(w, http.StatusForbidden, codeForbidden, "บัญชียังไม่ถูกเปิดใช้งาน")
	case errors.Is(err, auth.ErrUsernameTaken):
		respondError(w, http.StatusConflict, codeConflict, "ชื่อผู้ใช้นี้มีในระบบแล้ว")
	case errors.Is(err, auth.ErrPhoneTaken):
		respondError(w, http.StatusConflict, codeConflict, "เบอร์โทรศัพท์นี้มีในระบบแล้ว")
	case errors.Is(err, auth.ErrPasswordMismatch):
		respondError(w, http.StatusBadRequest, codeBadRequest, "รหัสผ่านไม่ตรงกัน")
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		respondError(w, http.StatusUnauthorized, codeUnaut, "Refresh token ไม่ถูกต้อง")
	case errors.Is(err, auth.ErrPrincipalUnavailable):
		respondError(w, http.StatusUnauthorized, codeUnaut, "ผู้ใช้ไม่พบหรือถูกระงับ")
	case errors.Is(err, auth.ErrPrincipalNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "ไม่พบผู้ใช้")
	case errors.Is(err, auth.ErrStoreUnavailable):
		log.ErrorContext(r.Context(), "store unavailable", logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "เกิดข้อผิดพลาด กรุณาลองใหม่ภายหลัง")
	default:
		log.ErrorContext(r.Context(), "unhandled service error", logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, fallback)
	}
}
