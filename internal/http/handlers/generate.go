package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"server/internal/service"
)

const (
	// maxLogoBytes is the upload size ceiling for the logo file.
	maxLogoBytes = 5 << 20
	// maxRequestBytes leaves headroom for multipart framing and text fields.
	maxRequestBytes = maxLogoBytes + 1<<20
)

var allowedLogoTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

type generateResponse struct {
	ImageURL     string `json:"imageUrl"`
	Description  string `json:"description"`
	GenerationID int64  `json:"generationId"`
}

// GenerateImage handles POST /api/generate-image. It validates the multipart
// payload (logo presence, MIME type, size ceiling) before any persistence or
// upstream call, then hands off to the generation pipeline.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxRequestBytes); err != nil {
		var tooLarge *http.MaxBytesError
		// The multipart reader does not always wrap MaxBytesError, so fall
		// back to matching its message.
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", "logo must be 5 MiB or smaller")
			return
		}
		a.error(w, http.StatusBadRequest, "validation_failed", "invalid multipart payload")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "validation_failed", "prompt is required")
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", "logo file is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > maxLogoBytes {
		a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", "logo must be 5 MiB or smaller")
		return
	}
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if _, ok := allowedLogoTypes[contentType]; !ok {
		a.error(w, http.StatusBadRequest, "validation_failed", "logo must be a PNG, JPEG, WebP or GIF image")
		return
	}

	logoPath, err := a.saveTempLogo(file, header.Filename)
	if err != nil {
		a.Log.Error().Err(err).Msg("failed to store uploaded logo")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store uploaded logo")
		return
	}

	result, err := a.Generator.Generate(r.Context(), service.GenerateInput{
		Prompt:           prompt,
		AdditionalPrompt: strings.TrimSpace(r.FormValue("additional_prompt")),
		LogoPath:         logoPath,
		LogoFilename:     header.Filename,
		Email:            strings.TrimSpace(r.FormValue("email")),
		Name:             strings.TrimSpace(r.FormValue("name")),
		Phone:            strings.TrimSpace(r.FormValue("phone")),
	})
	if err != nil {
		a.Log.Error().Err(err).Msg("image generation failed")
		a.error(w, http.StatusInternalServerError, "generation_failed", err.Error())
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		ImageURL:     result.ImageURL,
		Description:  result.Description,
		GenerationID: result.GenerationID,
	})
}

// saveTempLogo writes the upload into the upload directory under a unique
// temp name. The pipeline owns the file from here and removes it on both the
// success and failure paths.
func (a *App) saveTempLogo(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(a.Cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(filename)
	tmp, err := os.CreateTemp(a.Cfg.UploadDir, "logo_*"+ext)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tmp.Close()
	}()
	if _, err := io.Copy(tmp, file); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
