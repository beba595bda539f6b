package bot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"questory/internal/books"
	"questory/internal/models"
	"questory/internal/reading"
)

// initDataMaxAge bounds how old a Mini App login may be
const initDataMaxAge = 24 * time.Hour

// HTTPServer handles HTTP requests for the Mini App
type HTTPServer struct {
	bot         *Bot
	webhookMode bool // If false (polling mode), skip authentication for easier local dev
	now         func() time.Time
}

// NewHTTPServer creates a new HTTP server for the Mini App
func NewHTTPServer(bot *Bot, webhookMode bool) *HTTPServer {
	return &HTTPServer{
		bot:         bot,
		webhookMode: webhookMode,
		now:         time.Now,
	}
}

// RegisterRoutes registers Mini App routes on the provided mux
func (hs *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", hs.authMiddleware(hs.handleStats))
	mux.HandleFunc("GET /api/books", hs.authMiddleware(hs.handleBooks))
	mux.HandleFunc("GET /api/catalog", hs.authMiddleware(hs.handleCatalog))
	mux.HandleFunc("POST /api/books/{id}/page", hs.authMiddleware(hs.handlePage))
	mux.HandleFunc("POST /api/books/{id}/shelf", hs.authMiddleware(hs.handleShelf))
}

// validateTelegramInitData validates the Telegram Mini App initData
func (hs *HTTPServer) validateTelegramInitData(initData string) (int64, error) {
	if initData == "" {
		return 0, fmt.Errorf("missing initData")
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return 0, fmt.Errorf("invalid initData format: %w", err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return 0, fmt.Errorf("missing hash in initData")
	}
	values.Del("hash")

	if !hmac.Equal([]byte(signInitData(hs.bot.token, values)), []byte(hash)) {
		return 0, fmt.Errorf("invalid hash")
	}

	authDateStr := values.Get("auth_date")
	if authDateStr == "" {
		return 0, fmt.Errorf("missing auth_date")
	}
	authDate, err := strconv.ParseInt(authDateStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid auth_date: %w", err)
	}
	if hs.now().Sub(time.Unix(authDate, 0)) > initDataMaxAge {
		return 0, fmt.Errorf("initData is too old")
	}

	userStr := values.Get("user")
	if userStr == "" {
		return 0, fmt.Errorf("missing user data")
	}
	var userData struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(userStr), &userData); err != nil {
		return 0, fmt.Errorf("invalid user data: %w", err)
	}

	if !hs.bot.allowedUsers[userData.ID] {
		return 0, fmt.Errorf("user not allowed")
	}

	return userData.ID, nil
}

// signInitData computes the Mini App hash of values (without "hash")
func signInitData(token string, values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dataCheckString strings.Builder
	for i, k := range keys {
		if i > 0 {
			dataCheckString.WriteByte('\n')
		}
		dataCheckString.WriteString(k)
		dataCheckString.WriteByte('=')
		dataCheckString.WriteString(values.Get(k))
	}

	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(token))
	secret := secretKey.Sum(nil)

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(dataCheckString.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// authMiddleware validates Telegram Mini App authentication.
// In polling mode (webhookMode=false), authentication is skipped for easier local development.
func (hs *HTTPServer) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hs.webhookMode {
			hs.bot.logger.Debug("Skipping authentication (polling mode)",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "tma ") {
			hs.bot.logger.Warn("Missing or invalid authorization header", zap.String("path", r.URL.Path))
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := hs.validateTelegramInitData(strings.TrimPrefix(authHeader, "tma "))
		if err != nil {
			hs.bot.logger.Warn("Failed to validate initData",
				zap.Error(err),
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		hs.bot.logger.Debug("Authenticated request",
			zap.Int64("user_id", userID),
			zap.String("path", r.URL.Path),
		)

		next(w, r)
	}
}

// handleStats returns the reader profile
func (hs *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hs.bot.svc.Profile(r.Context()))
}

// handleBooks returns all tracked books, optionally filtered by ?shelf=
func (hs *HTTPServer) handleBooks(w http.ResponseWriter, r *http.Request) {
	items := hs.bot.svc.Library(r.Context())
	if s := r.URL.Query().Get("shelf"); s != "" {
		shelf, err := models.ParseShelf(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unknown shelf")
			return
		}
		items = books.ByShelf(items)[shelf]
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCatalog searches the discovery catalog with ?q=
func (hs *HTTPServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hs.bot.svc.Catalog().Search(r.URL.Query().Get("q")))
}

// PageRequest is the body of POST /api/books/{id}/page
type PageRequest struct {
	Page      *int `json:"page"`
	Completed bool `json:"completed"`
}

// handlePage logs the reader's current page for a book
func (hs *HTTPServer) handlePage(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hs.bot.logger.Warn("Failed to decode request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Page == nil || *req.Page < 0 {
		writeError(w, http.StatusBadRequest, "page must be 0 or greater")
		return
	}

	out, err := hs.bot.svc.LogCurrentPage(r.Context(), reading.PageInput{
		BookID:        bookID,
		NewPage:       *req.Page,
		CompletedBook: req.Completed,
	})
	if err != nil {
		hs.bot.logger.Error("Failed to log page",
			zap.Error(err),
			zap.String("book_id", bookID),
			zap.Int("page", *req.Page),
		)
		writeError(w, statusFor(err), "Failed to log page")
		return
	}

	hs.bot.logger.Info("Page logged via Mini App",
		zap.String("book_id", bookID),
		zap.Int("page", *req.Page),
		zap.Int("pages_read", out.PagesRead),
	)
	writeJSON(w, http.StatusOK, out)
}

// ShelfRequest is the body of POST /api/books/{id}/shelf
type ShelfRequest struct {
	Shelf string `json:"shelf"`
}

// handleShelf moves a tracked book to another shelf
func (hs *HTTPServer) handleShelf(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var req ShelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	shelf, err := models.ParseShelf(req.Shelf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown shelf")
		return
	}

	ub, err := hs.bot.svc.MoveToShelf(r.Context(), bookID, shelf)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			hs.bot.logger.Error("Failed to move book", zap.Error(err), zap.String("book_id", bookID))
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ub)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, books.ErrNotTracked):
		return http.StatusNotFound
	case errors.Is(err, reading.ErrInvalidPage), errors.Is(err, models.ErrInvalidShelf):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
