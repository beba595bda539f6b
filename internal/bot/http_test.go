package bot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questory/internal/models"
	"questory/internal/reading"
)

var httpNow = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

func signedInitData(token string, userID int64, authDate time.Time) string {
	values := url.Values{}
	values.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	values.Set("user", fmt.Sprintf(`{"id":%d,"first_name":"Reader"}`, userID))
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("hash", signInitData(token, values))
	return values.Encode()
}

func newTestServer(t *testing.T, webhookMode bool) (*http.ServeMux, *Bot) {
	t.Helper()
	bot, _, _ := newTestBot(t)
	hs := NewHTTPServer(bot, webhookMode)
	hs.now = func() time.Time { return httpNow }
	mux := http.NewServeMux()
	hs.RegisterRoutes(mux)
	return mux, bot
}

func do(t *testing.T, mux *http.ServeMux, method, target, body, initData string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if initData != "" {
		req.Header.Set("Authorization", "tma "+initData)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestValidateTelegramInitData(t *testing.T) {
	bot, _, _ := newTestBot(t)
	hs := NewHTTPServer(bot, true)
	hs.now = func() time.Time { return httpNow }

	userID, err := hs.validateTelegramInitData(signedInitData("test-token", testUserID, httpNow.Add(-time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)

	testCases := []struct {
		name     string
		initData string
	}{
		{name: "empty", initData: ""},
		{name: "no hash", initData: "auth_date=1&user=%7B%22id%22%3A123%7D"},
		{name: "wrong token", initData: signedInitData("other-token", testUserID, httpNow)},
		{name: "too old", initData: signedInitData("test-token", testUserID, httpNow.Add(-25*time.Hour))},
		{name: "not allowed", initData: signedInitData("test-token", 999, httpNow)},
		{name: "tampered", initData: strings.Replace(signedInitData("test-token", testUserID, httpNow), "Reader", "Mallory", 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := hs.validateTelegramInitData(tc.initData)
			assert.Error(t, err)
		})
	}
}

func TestHTTP_AuthRequiredInWebhookMode(t *testing.T) {
	mux, _ := newTestServer(t, true)

	rec := do(t, mux, http.MethodGet, "/api/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/stats", "", signedInitData("test-token", testUserID, httpNow))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTP_PollingModeSkipsAuth(t *testing.T) {
	mux, _ := newTestServer(t, false)

	rec := do(t, mux, http.MethodGet, "/api/catalog?q=midnight", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var results []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "book-1", results[0].ID)
}

func TestHTTP_LogPageAndReadBack(t *testing.T) {
	mux, _ := newTestServer(t, false)

	rec := do(t, mux, http.MethodPost, "/api/books/book-1/page", `{"page":120}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out reading.PageOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 120, out.PagesRead)
	assert.Equal(t, 120, out.Summary.GainedXP)
	assert.Equal(t, 2, out.Stats.Level)

	rec = do(t, mux, http.MethodGet, "/api/books", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var library []models.UserBook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &library))
	require.Len(t, library, 1)
	assert.Equal(t, 120, library[0].CurrentPage)
	assert.Equal(t, models.ShelfReading, library[0].Shelf)

	rec = do(t, mux, http.MethodGet, "/api/books?shelf=want", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/stats", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profile reading.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 120, profile.Stats.TotalXP)
	assert.Equal(t, 1, profile.Streak)
	assert.True(t, profile.ReadToday)
}

func TestHTTP_PageValidation(t *testing.T) {
	mux, _ := newTestServer(t, false)

	for _, body := range []string{`{"page":-3}`, `{}`, `not json`} {
		rec := do(t, mux, http.MethodPost, "/api/books/book-1/page", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := do(t, mux, http.MethodGet, "/api/books/book-1/page", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTP_MoveShelf(t *testing.T) {
	mux, _ := newTestServer(t, false)

	rec := do(t, mux, http.MethodPost, "/api/books/book-1/shelf", `{"shelf":"done"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/books/book-1/page", `{"page":10}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/books/book-1/shelf", `{"shelf":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/books/book-1/shelf", `{"shelf":"done"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ub models.UserBook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ub))
	assert.Equal(t, models.ShelfDone, ub.Shelf)
	assert.NotNil(t, ub.FinishedAt)
}

func TestWebhookHandler(t *testing.T) {
	bot, fake, _ := newTestBot(t)
	handler := bot.WebhookHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/telegram-webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/telegram-webhook", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	update := `{"update_id":1,"message":{"message_id":1,"date":1717264800,"from":{"id":123,"is_bot":false,"first_name":"R"},"chat":{"id":456,"type":"private"},"text":"/start","entities":[{"type":"bot_command","offset":0,"length":6}]}}`
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/telegram-webhook", strings.NewReader(update)))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.sent) == 1 && strings.Contains(fake.sent[0].Text, "Welcome")
	}, time.Second, 10*time.Millisecond)
}
