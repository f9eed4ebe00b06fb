package capture_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

// fakeCameraService mimics the camera service JSON API with photos kept in memory.
type fakeCameraService struct {
	mu          sync.Mutex
	available   bool
	failCapture bool
	photos      map[string][]byte
	deletes     []string
	statusCalls int

	// when set, status requests signal statusStarted and wait for statusRelease
	statusStarted chan struct{}
	statusRelease chan struct{}
}

func newFakeCameraService(t *testing.T) (*fakeCameraService, *httptest.Server) {
	t.Helper()

	f := &fakeCameraService{
		available: true,
		photos:    map[string][]byte{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "OK", "message": "Camera API is running"})
	})
	mux.HandleFunc("GET /api/camera/status", func(w http.ResponseWriter, r *http.Request) {
		if f.statusStarted != nil {
			select {
			case f.statusStarted <- struct{}{}:
			default:
			}
			<-f.statusRelease
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.statusCalls++

		if !f.available {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"available": false,
				"error":     "Camera not detected or rpicam-still not available",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"available": true, "message": "Camera is available"})
	})
	mux.HandleFunc("POST /api/camera/capture", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Filename string `json:"filename"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failCapture {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "Failed to capture photo",
			})
			return
		}

		name := req.Filename
		if name == "" {
			name = "photo_1.jpg"
		}
		f.photos[name] = jpegBytes
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"photoUrl":  "/photos/" + name,
			"localPath": "/srv/photos/" + name,
		})
	})
	mux.HandleFunc("GET /photos/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		data, ok := f.photos[r.PathValue("name")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
	})
	mux.HandleFunc("GET /api/photos", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		photos := make([]map[string]string, 0, len(f.photos))
		for name := range f.photos {
			if !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".jpeg") {
				continue
			}
			photos = append(photos, map[string]string{
				"filename": name,
				"url":      "/photos/" + name,
				"path":     "/srv/photos/" + name,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "photos": photos})
	})
	mux.HandleFunc("DELETE /api/photos/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		name := r.PathValue("name")
		f.deletes = append(f.deletes, name)
		if _, ok := f.photos[name]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Photo not found"})
			return
		}
		delete(f.photos, name)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return f, srv
}

func (f *fakeCameraService) setAvailable(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.available = v
}

func (f *fakeCameraService) setFailCapture(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCapture = v
}

func (f *fakeCameraService) addPhoto(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos[name] = jpegBytes
}

func (f *fakeCameraService) hasPhoto(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.photos[name]
	return ok
}

func (f *fakeCameraService) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
