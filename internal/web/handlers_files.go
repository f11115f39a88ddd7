package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/carbase/dealership/internal/importer"
	"github.com/carbase/dealership/internal/logging"
)

// uploadResponse is the reply to a file import: the importer's result plus
// the original filename and, for auto-detected uploads, the detected kind.
type uploadResponse struct {
	Filename     string            `json:"filename"`
	DetectedType importer.FileKind `json:"detected_type,omitempty"`
	*importer.Result
}

// spoolUpload copies the multipart "file" field to a temp file and returns
// its path plus the client-supplied filename. Callers remove the file.
func (s *Server) spoolUpload(r *http.Request) (path, filename string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.cfg.Import.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	filename = header.Filename
	if filename == "" {
		filename = "upload.csv"
	}

	tmp, err := os.CreateTemp(s.cfg.Import.TempDir, "import-*.csv")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("spool upload: %w", err)
	}
	return tmp.Name(), filename, nil
}

// uploadHandler returns the handler importing uploads as a fixed kind.
func (s *Server) uploadHandler(kind importer.FileKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, filename, err := s.spoolUpload(r)
		if err != nil {
			s.respondBadRequest(w, r, err)
			return
		}
		defer os.Remove(path)

		s.processUpload(w, r, path, filename, kind, false)
	}
}

// handleUploadAuto imports an upload after detecting its kind from the
// header line. Files matching no known layout are rejected.
func (s *Server) handleUploadAuto(w http.ResponseWriter, r *http.Request) {
	path, filename, err := s.spoolUpload(r)
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	defer os.Remove(path)

	kind, err := importer.DetectKind(path)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownFileKind) {
			err = fmt.Errorf("%w: expected arrivals (date;model;color;vin;purchase_price), movements (date;vin;from_location;to_location) or sales (date;vin;buyer_name;sale_price)", err)
		}
		s.respondError(w, r, err)
		return
	}

	s.processUpload(w, r, path, filename, kind, true)
}

func (s *Server) processUpload(w http.ResponseWriter, r *http.Request, path, filename string, kind importer.FileKind, detected bool) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	logging.FromContext(r.Context()).Info("processing upload",
		"filename", filename, "kind", string(kind))

	res, err := s.importer.ProcessFile(ctx, path, kind)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := uploadResponse{Filename: filename, Result: res}
	if detected {
		resp.DetectedType = kind
	}
	respondJSON(w, http.StatusOK, resp)
}
