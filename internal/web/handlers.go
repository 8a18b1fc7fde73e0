package web

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"lukechampine.com/blake3"

	"github.com/MattiaPT/displayer/pkg/pathtoken"
	"github.com/MattiaPT/displayer/pkg/types"
)

type APIErrorResponse struct {
	Message string `json:"message"`
}

func (s *Server) writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIErrorResponse{Message: message}); err != nil {
		s.logger.Warn("Failed to write error response", zap.Int("status", status), zap.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to write JSON response", zap.Error(err))
	}
}

type indexData struct {
	Count            int
	FirstCaptureTime time.Time
	LastCaptureTime  time.Time
	Version          string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.renderer.Render(&buf, "index.html", indexData{
		Count:            s.dataset.Len(),
		FirstCaptureTime: s.dataset.FirstCaptureTime(),
		LastCaptureTime:  s.dataset.LastCaptureTime(),
		Version:          s.version,
	})
	if err != nil {
		s.logger.Error("Failed to render index", err)
		s.writeAPIError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("Failed to write index", zap.Error(err))
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"version": s.version})
}

type AssetResponse struct {
	ID          int     `json:"id"`
	Token       string  `json:"token"`
	URL         string  `json:"url"`
	CaptureTime string  `json:"capture_time"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	AltitudeM   int     `json:"altitude_m"`
}

type DatasetResponse struct {
	FirstCaptureTime string          `json:"first_capture_time"`
	LastCaptureTime  string          `json:"last_capture_time"`
	Count            int             `json:"count"`
	Assets           []AssetResponse `json:"assets"`
}

func assetURL(token string) string {
	return "/assets/" + url.PathEscape(token)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	assets := s.dataset.Assets()

	resp := DatasetResponse{
		FirstCaptureTime: s.dataset.FirstCaptureTime().Format(types.CaptureTimeLayout),
		LastCaptureTime:  s.dataset.LastCaptureTime().Format(types.CaptureTimeLayout),
		Count:            len(assets),
		Assets:           make([]AssetResponse, 0, len(assets)),
	}
	for _, a := range assets {
		resp.Assets = append(resp.Assets, AssetResponse{
			ID:          a.ID,
			Token:       a.Token,
			URL:         assetURL(a.Token),
			CaptureTime: a.CaptureTime.Format(types.CaptureTimeLayout),
			Latitude:    a.Coordinate.Latitude,
			Longitude:   a.Coordinate.Longitude,
			AltitudeM:   a.AltitudeM,
		})
	}

	s.writeJSON(w, resp)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	body, err := s.dataset.GeoJSON(s.geohashPrecision)
	if err != nil {
		s.logger.Error("Failed to render GeoJSON", err)
		s.writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("Failed to write GeoJSON", zap.Int("bytes", len(body)), zap.Error(err))
	}
}

// handleAsset streams the original file behind a token. Only files that
// are part of the dataset are served.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	asset, ok := s.dataset.AssetByPath(pathtoken.Decode(token))
	if !ok {
		s.writeAPIError(w, http.StatusNotFound, "asset not found")
		return
	}

	f, err := os.Open(asset.SourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.writeAPIError(w, http.StatusNotFound, "asset no longer exists")
			return
		}
		s.logger.Error("Failed to open asset", err)
		s.writeAPIError(w, http.StatusInternalServerError, "failed to open asset")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	etag, err := s.etag(f, info)
	if err != nil {
		s.logger.Warn("Failed to hash asset", zap.String("path", asset.SourcePath), zap.Error(err))
		s.writeAPIError(w, http.StatusInternalServerError, "failed to read asset")
		return
	}

	ctype, err := contentType(f, asset.SourcePath)
	if err != nil {
		s.writeAPIError(w, http.StatusInternalServerError, "failed to read asset")
		return
	}

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("ETag", etag)
	http.ServeContent(w, r, filepath.Base(asset.SourcePath), info.ModTime(), f)
}

type etagKey struct {
	path    string
	size    int64
	modTime int64
}

// etag returns a strong validator from the BLAKE3 digest of the file
// content. Digests are cached until the file's size or mtime changes. f is
// rewound before returning.
func (s *Server) etag(f *os.File, info os.FileInfo) (string, error) {
	key := etagKey{path: f.Name(), size: info.Size(), modTime: info.ModTime().UnixNano()}
	if v, ok := s.etags.Load(key); ok {
		return v.(string), nil
	}

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	etag := fmt.Sprintf("%q", hex.EncodeToString(h.Sum(nil)))
	s.etags.Store(key, etag)
	return etag, nil
}

// contentType resolves the MIME type from the extension and falls back to
// sniffing the first 512 bytes. f is rewound before returning.
func contentType(f io.ReadSeeker, path string) (string, error) {
	if ctype := mime.TypeByExtension(filepath.Ext(path)); ctype != "" {
		return ctype, nil
	}

	var head [512]byte
	n, err := io.ReadFull(f, head[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
