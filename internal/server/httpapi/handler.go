package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/dmitrijs2005/shutterpro/internal/metrics"
	"github.com/dmitrijs2005/shutterpro/internal/server/mailer"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    userPayload `json:"user"`
	Token   string      `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleLogin implements POST /api/login. A credential mismatch and an
// unknown email return the same 401 body.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.logger.Error(ctx, "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User: userPayload{
			ID:      res.User.ID,
			Email:   res.User.Email,
			Name:    res.User.Name,
			Company: res.User.Company,
			Phone:   res.User.Phone,
		},
		Token: res.Token,
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
}

// handleRegister implements POST /api/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.users.Register(ctx, req.Email, req.Password, req.Name, req.Company, req.Phone)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user": userPayload{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			Company: user.Company,
			Phone:   user.Phone,
		},
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// handleChangePassword implements POST /api/change-password. The user comes
// from the bearer token, so only the authenticated account can be changed.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}

	if err := s.users.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		s.logger.Error(ctx, "password change failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated successfully",
	})
}

type sendInvoiceRequest struct {
	To            string `json:"to"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	InvoiceNumber string `json:"invoiceNumber"`
	PDFBase64     string `json:"pdfBase64"`
}

// handleSendInvoice implements POST /api/send-invoice. The PDF, when
// present, is archived best-effort after a successful send.
func (s *Server) handleSendInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req sendInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.To == "" || req.Subject == "" {
		writeError(w, http.StatusBadRequest, "Recipient and subject are required")
		return
	}

	var pdf []byte
	if req.PDFBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid PDF encoding")
			return
		}
		pdf = decoded
	}

	mail := mailer.Mail{
		To:            req.To,
		Subject:       req.Subject,
		Body:          req.Message,
		InvoiceNumber: req.InvoiceNumber,
		PDF:           pdf,
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		metrics.InvoicesDispatched.WithLabelValues("failed").Inc()
		s.logger.Error(ctx, "invoice dispatch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send invoice")
		return
	}
	metrics.InvoicesDispatched.WithLabelValues("sent").Inc()

	if s.archive != nil && pdf != nil {
		key, err := s.archive.Store(ctx, pdf)
		if err != nil {
			s.logger.Warn(ctx, "invoice archived copy failed", "error", err)
		} else {
			s.logger.Info(ctx, "invoice archived", "key", key)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Invoice sent successfully",
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
