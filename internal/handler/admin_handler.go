package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/GoArmGo/TravelAlbum/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// AdminHandler — обработчик HTTP-запросов админского API.
type AdminHandler struct {
	album            usecase.AlbumUseCase
	auth             usecase.AuthUseCase
	logger           *slog.Logger
	maxUploadBytes   int64
	maxPhotosPerCall int
}

// NewAdminHandler создаёт новый экземпляр AdminHandler.
func NewAdminHandler(
	album usecase.AlbumUseCase,
	auth usecase.AuthUseCase,
	logger *slog.Logger,
	maxUploadBytes int64,
	maxPhotosPerCall int,
) *AdminHandler {
	return &AdminHandler{
		album:            album,
		auth:             auth,
		logger:           logger,
		maxUploadBytes:   maxUploadBytes,
		maxPhotosPerCall: maxPhotosPerCall,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login выдает токен по паре логин/пароль.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "username and password are required", h.logger)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "invalid username or password", h.logger)
			return
		}
		h.logger.Error("login failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "login failed", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": token}, h.logger)
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword меняет пароль администратора.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.Username == "" || req.OldPassword == "" || req.NewPassword == "" {
		respondWithError(w, http.StatusBadRequest, "all fields are required", h.logger)
		return
	}
	if len(req.NewPassword) < 6 {
		respondWithError(w, http.StatusBadRequest, "new password must be at least 6 characters", h.logger)
		return
	}

	err := h.auth.ChangePassword(r.Context(), req.Username, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAdminNotFound):
			respondWithError(w, http.StatusBadRequest, "account not found", h.logger)
		case errors.Is(err, usecase.ErrWrongPassword):
			respondWithError(w, http.StatusBadRequest, "current password is incorrect", h.logger)
		default:
			h.logger.Error("change password failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "change password failed", h.logger)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "password changed"}, h.logger)
}

// ListLocations возвращает все локации с количеством фото.
func (h *AdminHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.album.ListLocations(r.Context())
	if err != nil {
		h.logger.Error("failed to list locations", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to list locations", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, locations, h.logger)
}

type sortRequest struct {
	IDs []int64 `json:"ids"`
}

// SortLocations применяет новый порядок локаций.
func (h *AdminHandler) SortLocations(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := decodeJSON(r, &req); err != nil || req.IDs == nil {
		respondWithError(w, http.StatusBadRequest, "ids must be an array", h.logger)
		return
	}

	if err := h.album.ReorderLocations(r.Context(), req.IDs); err != nil {
		h.logger.Error("failed to reorder locations", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to reorder", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "order updated"}, h.logger)
}

// SortPhotos применяет новый порядок фото.
func (h *AdminHandler) SortPhotos(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := decodeJSON(r, &req); err != nil || req.IDs == nil {
		respondWithError(w, http.StatusBadRequest, "ids must be an array", h.logger)
		return
	}

	if err := h.album.ReorderPhotos(r.Context(), req.IDs); err != nil {
		h.logger.Error("failed to reorder photos", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to reorder", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "order updated"}, h.logger)
}

// CreateLocation создает локацию; multipart: title и необязательный файл cover.
func (h *AdminHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r, 1) {
		return
	}

	title := r.FormValue("title")
	if title == "" {
		respondWithError(w, http.StatusBadRequest, "title is required", h.logger)
		return
	}

	cover, ok := h.formImage(w, r, "cover")
	if !ok {
		return
	}
	if cover != nil {
		defer cover.close()
	}

	id, err := h.album.CreateLocation(r.Context(), title, cover.toUpload())
	if err != nil {
		h.logger.Error("failed to create location", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to create location", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"id": id, "message": "created"}, h.logger)
}

// UpdateLocation меняет заголовок и/или обложку локации.
func (h *AdminHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id", h.logger)
		return
	}

	if !h.parseMultipart(w, r, 1) {
		return
	}

	var title *string
	if values, present := r.MultipartForm.Value["title"]; present && len(values) > 0 {
		title = &values[0]
	}

	cover, ok := h.formImage(w, r, "cover")
	if !ok {
		return
	}
	if cover != nil {
		defer cover.close()
	}

	err = h.album.UpdateLocation(r.Context(), id, title, cover.toUpload())
	if err != nil {
		if errors.Is(err, usecase.ErrLocationNotFound) {
			respondWithError(w, http.StatusNotFound, "location not found", h.logger)
			return
		}
		h.logger.Error("failed to update location", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to update location", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "updated"}, h.logger)
}

// DeleteLocation удаляет локацию со всеми фото.
func (h *AdminHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id", h.logger)
		return
	}

	if err := h.album.DeleteLocation(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrLocationNotFound) {
			respondWithError(w, http.StatusNotFound, "location not found", h.logger)
			return
		}
		h.logger.Error("failed to delete location", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to delete location", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "deleted"}, h.logger)
}

// ListPhotos возвращает фото локации в порядке показа.
func (h *AdminHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id", h.logger)
		return
	}

	photos, err := h.album.ListPhotos(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrLocationNotFound) {
			respondWithError(w, http.StatusNotFound, "location not found", h.logger)
			return
		}
		h.logger.Error("failed to list photos", "location_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to list photos", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, photos, h.logger)
}

// UploadPhotos принимает до maxPhotosPerCall файлов в поле "photos"
// и создает по одной записи на файл.
func (h *AdminHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id", h.logger)
		return
	}

	if !h.parseMultipart(w, r, h.maxPhotosPerCall) {
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		respondWithError(w, http.StatusBadRequest, "no photos in request", h.logger)
		return
	}
	if len(files) > h.maxPhotosPerCall {
		respondWithError(w, http.StatusBadRequest, "too many photos in one request", h.logger)
		return
	}

	uploads := make([]usecase.ImageUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.maxUploadBytes {
			respondWithError(w, http.StatusBadRequest, "file size exceeds limit", h.logger)
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.logger.Error("failed to open uploaded file", "filename", fh.Filename, "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to read upload", h.logger)
			return
		}
		defer f.Close()

		uploads = append(uploads, usecase.ImageUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	created, err := h.album.AddPhotos(r.Context(), id, uploads)
	if err != nil {
		if errors.Is(err, usecase.ErrLocationNotFound) {
			respondWithError(w, http.StatusNotFound, "location not found", h.logger)
			return
		}
		h.logger.Error("failed to upload photos", "location_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to upload photos", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "uploaded",
		"photos":  created,
	}, h.logger)
}

type photoUpdateRequest struct {
	Title *string `json:"title"`
	Desc  *string `json:"desc"`
}

// UpdatePhoto меняет подпись и/или описание фото.
func (h *AdminHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id", h.logger)
		return
	}

	var req photoUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.album.UpdatePhoto(r.Context(), id, req.Title, req.Desc); err != nil {
		if errors.Is(err, usecase.ErrPhotoNotFound) {
			respondWithError(w, http.StatusNotFound, "photo not found", h.logger)
			return
		}
		h.logger.Error("failed to update photo", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to update photo", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "updated"}, h.logger)
}

// DeletePhoto удаляет фото.
func (h *AdminHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id", h.logger)
		return
	}

	if err := h.album.DeletePhoto(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrPhotoNotFound) {
			respondWithError(w, http.StatusNotFound, "photo not found", h.logger)
			return
		}
		h.logger.Error("failed to delete photo", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to delete photo", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "deleted"}, h.logger)
}

// formFile — один файл изображения из multipart-формы.
type formFile struct {
	file        multipart.File
	filename    string
	contentType string
}

func (f *formFile) toUpload() *usecase.ImageUpload {
	if f == nil {
		return nil
	}
	return &usecase.ImageUpload{
		Reader:      f.file,
		Filename:    f.filename,
		ContentType: f.contentType,
	}
}

func (f *formFile) close() {
	if f != nil {
		_ = f.file.Close()
	}
}

// formImage достает один файл изображения из multipart-формы.
// Возвращает (nil, true), если файла в поле нет.
func (h *AdminHandler) formImage(w http.ResponseWriter, r *http.Request, field string) (*formFile, bool) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return nil, false
	}
	if header.Size > h.maxUploadBytes {
		_ = file.Close()
		respondWithError(w, http.StatusBadRequest, "file size exceeds limit", h.logger)
		return nil, false
	}
	return &formFile{
		file:        file,
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
	}, true
}

// parseMultipart разбирает multipart-форму, ограничивая размер тела
// суммарным лимитом на files файлов.
func (h *AdminHandler) parseMultipart(w http.ResponseWriter, r *http.Request, files int) bool {
	limit := h.maxUploadBytes*int64(files) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return false
	}
	return true
}

// decodeJSON разбирает тело запроса в DTO, отклоняя незнакомые поля.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
