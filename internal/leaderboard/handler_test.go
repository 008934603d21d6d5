package leaderboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *Store) {
	store := newTestStore()
	logger := log.New(io.Discard)
	return NewHandler(store, NewHub(logger), logger), store
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func TestSubmitStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"valid", http.MethodPost, `{"username":"ace","score":10}`, http.StatusOK},
		{"extra fields ignored", http.MethodPost, `{"username":"ace","score":0,"cheat":true}`, http.StatusOK},
		{"bad username", http.MethodPost, `{"username":"a ce","score":10}`, http.StatusBadRequest},
		{"negative score", http.MethodPost, `{"username":"ace","score":-5}`, http.StatusBadRequest},
		{"malformed", http.MethodPost, `{"username":`, http.StatusBadRequest},
		{"wrong type", http.MethodPost, `{"username":"ace","score":"ten"}`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			rec := serve(h, tt.method, "/api/record", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSubmitStoresRecord(t *testing.T) {
	h, store := newTestHandler()

	rec := serve(h, http.MethodPost, "/api/record", `{"username":"ace","score":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
	assert.Equal(t, 1, store.Len())
}

func TestRecordsQuery(t *testing.T) {
	h, store := newTestHandler()
	for _, sub := range []Submission{{"low", 5}, {"high", 50}} {
		_, err := store.Add(sub)
		require.NoError(t, err)
	}

	rec := serve(h, http.MethodGet, "/api/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Equal(t, []string{"high", "low"}, usernames(records))
	assert.Equal(t, t0.Add(time.Second), records[0].Timestamp)

	rec = serve(h, http.MethodGet, "/api/records?sorting=date_desc&page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Equal(t, []string{"high", "low"}, usernames(records))

	rec = serve(h, http.MethodGet, "/api/records?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRecordsRejectsBadQuery(t *testing.T) {
	h, _ := newTestHandler()
	for _, target := range []string{
		"/api/records?page=0",
		"/api/records?page=-1",
		"/api/records?page=one",
		"/api/records?sorting=name",
	} {
		rec := serve(h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestLiveFeedPushesNewRecords(t *testing.T) {
	h, _ := newTestHandler()
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/records/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.hub.Subscribers() == 1 }, time.Second, time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/record", "application/json", strings.NewReader(`{"username":"ace","score":42}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var got Record
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "ace", got.Username)
	assert.Equal(t, 42, got.Score)

	conn.Close()
	assert.Eventually(t, func() bool { return h.hub.Subscribers() == 0 }, time.Second, time.Millisecond)
}
