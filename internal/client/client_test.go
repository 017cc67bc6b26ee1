package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a fake backend that remembers the last request it served.
type recorder struct {
	mu   sync.Mutex
	last *http.Request
	form map[string]string
}

func (r *recorder) lastRequest() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func newBackend(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		rec.mu.Lock()
		rec.last = r
		rec.form = map[string]string{
			"username": r.PostForm.Get("username"),
			"password": r.PostForm.Get("password"),
		}
		rec.mu.Unlock()
		if r.PostForm.Get("password") != "admin123" {
			http.Error(w, `{"detail":"Invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"access_token": "jwt-abc", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /cameras", func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.last = r
		rec.mu.Unlock()
		writeJSON(w, []map[string]any{
			{"id": "cam_1", "name": "Gate", "zone": map[string]any{"type": "rect", "x": 0.1}},
			{"id": "cam_2", "name": "Yard", "zone": nil},
		})
	})
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.last = r
		rec.mu.Unlock()
		writeJSON(w, []map[string]any{{
			"id": "evt_1", "camera_id": "cam_1", "event_type": "intrusion", "severity": 61,
			"state": "peak", "ts_start": "2025-05-01T10:00:00", "ts_peak": "2025-05-01T10:00:02",
			"ts_end": nil, "snapshot_url": "/media/snapshots/evt_1.jpg", "clip_url": nil,
			"meta": map[string]any{"label": "person", "confidence": 0.88, "bbox": []int{1, 2, 3, 4}},
		}})
	})
	mux.HandleFunc("GET /timeline/{camera}", func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.last = r
		rec.mu.Unlock()
		writeJSON(w, []map[string]any{{
			"id": "evt_1", "event_type": "loitering", "severity": 30, "state": "end",
			"ts_start": "2025-05-01T10:00:00", "ts_end": "2025-05-01T10:01:00",
		}})
	})
	mux.HandleFunc("GET /media/snapshots/evt_1.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": true})
	})
	mux.HandleFunc("GET /broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, rec
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSetTokenAttachesAndClearsHeader(t *testing.T) {
	srv, rec := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})
	ctx := context.Background()

	_, err := c.GetCameras(ctx)
	require.NoError(t, err)
	_, present := rec.lastRequest().Header["Authorization"]
	assert.False(t, present, "no header before a token is installed")

	c.SetToken("abc")
	_, err = c.GetCameras(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", rec.lastRequest().Header.Get("Authorization"))
	assert.Equal(t, "abc", c.Token())

	c.SetToken("")
	_, err = c.GetCameras(ctx)
	require.NoError(t, err)
	_, present = rec.lastRequest().Header["Authorization"]
	assert.False(t, present, "clearing the token removes the header entirely")
}

func TestLoginPostsForm(t *testing.T) {
	srv, rec := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})

	resp, err := c.Login(context.Background(), "admin@rada.ai", "admin123")
	require.NoError(t, err)

	assert.Equal(t, "jwt-abc", resp.AccessToken)
	assert.Equal(t, "application/x-www-form-urlencoded", rec.lastRequest().Header.Get("Content-Type"))
	assert.Equal(t, map[string]string{"username": "admin@rada.ai", "password": "admin123"}, rec.form)
	assert.Empty(t, c.Token(), "login alone does not install the token")
}

func TestLoginRejected(t *testing.T) {
	srv, _ := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})

	_, err := c.Login(context.Background(), "admin@rada.ai", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "login", apiErr.Operation)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestGetCameras(t *testing.T) {
	srv, _ := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})

	cams, err := c.GetCameras(context.Background())
	require.NoError(t, err)

	require.Len(t, cams, 2)
	assert.Equal(t, "Gate", cams[0].Name)
	assert.JSONEq(t, `{"type":"rect","x":0.1}`, string(cams[0].Zone))
}

func TestGetEventsSendsLimit(t *testing.T) {
	srv, rec := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})

	events, err := c.GetEvents(context.Background(), 200)
	require.NoError(t, err)

	assert.Equal(t, "200", rec.lastRequest().URL.Query().Get("limit"))
	require.Len(t, events, 1)
	evt := events[0]
	assert.Equal(t, "cam_1", evt.CameraID)
	assert.Nil(t, evt.TsEnd)
	assert.Equal(t, 2, evt.TsPeak.Second())
	assert.Equal(t, [4]int{1, 2, 3, 4}, evt.Meta.BBox)
}

func TestGetTimelineEscapesCamera(t *testing.T) {
	srv, rec := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})

	rows, err := c.GetTimeline(context.Background(), "cam 1")
	require.NoError(t, err)

	assert.Equal(t, "cam 1", rec.lastRequest().PathValue("camera"))
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].TsEnd)
}

func TestNon2xxIsAPIError(t *testing.T) {
	srv, _ := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})

	resp, err := c.HTTP.R().Get("/broken")
	require.NoError(t, err)

	err = checkResponse("probe", resp)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "boom")
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestTimeoutFailsRequest(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	c := New(ClientConfig{BaseURL: slow.URL, Timeout: 50 * time.Millisecond})

	_, err := c.GetCameras(context.Background())
	assert.Error(t, err)
}

func TestSnapshotURLAndDownload(t *testing.T) {
	srv, _ := newBackend(t)
	c := New(ClientConfig{BaseURL: "http://api.invalid", MediaURL: srv.URL + "/"})

	assert.Equal(t, "", c.SnapshotURL(""))
	assert.Equal(t, srv.URL+"/media/snapshots/evt_1.jpg", c.SnapshotURL("/media/snapshots/evt_1.jpg"))
	assert.Equal(t, srv.URL+"/media/x.jpg", c.SnapshotURL("media/x.jpg"))
	assert.Equal(t, "https://cdn/x.jpg", c.SnapshotURL("https://cdn/x.jpg"))

	img, err := c.GetSnapshot(context.Background(), "/media/snapshots/evt_1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, img)

	_, err = c.GetSnapshot(context.Background(), "")
	assert.Error(t, err)
}

func TestMediaURLDefaultsToBase(t *testing.T) {
	c := New(ClientConfig{BaseURL: "http://127.0.0.1:8000"})

	assert.Equal(t, "http://127.0.0.1:8000/media/a.jpg", c.SnapshotURL("/media/a.jpg"))
	assert.Equal(t, DefaultTimeout, c.Config.Timeout)
}

func TestGetHealth(t *testing.T) {
	srv, _ := newBackend(t)
	c := New(ClientConfig{BaseURL: srv.URL})

	health, err := c.GetHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, health.OK)
}

func TestGetHealthNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": false})
	}))
	defer srv.Close()

	c := New(ClientConfig{BaseURL: srv.URL})
	health, err := c.GetHealth(context.Background())
	assert.Error(t, err)
	require.NotNil(t, health)
	assert.False(t, health.OK)
}
