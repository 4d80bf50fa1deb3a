package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/foodlens/internal/photostore"
)

const maxPhotoSize = 20 * 1024 * 1024 // 20 MB

var errUnsupportedImage = errors.New("unsupported image format")

// readUpload returns the "image" form file. The filename is rewritten to
// carry the extension of the sniffed type so downstream services see a
// consistent name.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		return "", nil, err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return "", nil, err
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return header.Filename, data, nil
	}

	mimeType, ok := photostore.DetectImageMIME(data)
	if !ok {
		return "", nil, errUnsupportedImage
	}
	return "upload" + photostore.ExtForMIME(mimeType), data, nil
}

func (s *Server) uploadFailed(w http.ResponseWriter, err error) {
	msg := "image file required"
	if errors.Is(err, errUnsupportedImage) {
		msg = err.Error()
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func (s *Server) handleLabelPhoto(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r)
	if err != nil {
		s.uploadFailed(w, err)
		return
	}

	report, err := s.service.AnalyzeLabelPhoto(r.Context(), filename, data)
	if err != nil {
		s.renderFailure(w, err)
		return
	}
	s.renderReport(w, report)
}

func (s *Server) handleFoodPhoto(w http.ResponseWriter, r *http.Request) {
	_, data, err := s.readUpload(w, r)
	if err != nil {
		s.uploadFailed(w, err)
		return
	}

	report, err := s.service.AnalyzeFoodPhoto(r.Context(), data)
	if err != nil {
		s.renderFailure(w, err)
		return
	}
	s.renderReport(w, report)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	if s.photoStore == nil {
		http.NotFound(w, r)
		return
	}
	key := chi.URLParam(r, "key")

	reader, mimeType, err := s.photoStore.Get(r.Context(), key)
	if err != nil {
		if !errors.Is(err, photostore.ErrNotFound) && !errors.Is(err, photostore.ErrInvalidKey) {
			s.logger.Error("get photo failed", "storage_key", key, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "storage_key", key, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}

