package handler

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/TravelAlbum/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// PublicHandler — обработчик публичного read-only API галереи.
type PublicHandler struct {
	album  usecase.AlbumUseCase
	logger *slog.Logger
}

// NewPublicHandler создаёт новый экземпляр PublicHandler.
func NewPublicHandler(album usecase.AlbumUseCase, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{album: album, logger: logger}
}

// GetLocations возвращает все локации в формате старого locations.json.
// Ответ кэшируется клиентом: max-age 60 секунд плюс ETag/304.
func (h *PublicHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	data, err := h.album.PublicLocations(r.Context())
	if err != nil {
		h.logger.Error("failed to load public locations", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load data", h.logger)
		return
	}
	h.writeCacheable(w, r, data)
}

// GetLocation возвращает одну локацию по индексу в порядке показа.
func (h *PublicHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid index", h.logger)
		return
	}

	data, err := h.album.PublicLocation(r.Context(), index)
	if err != nil {
		if errors.Is(err, usecase.ErrLocationNotFound) {
			respondWithError(w, http.StatusNotFound, "location not found", h.logger)
			return
		}
		h.logger.Error("failed to load public location", "index", index, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load data", h.logger)
		return
	}
	h.writeCacheable(w, r, data)
}

// writeCacheable сериализует payload и отвечает 304, если ETag клиента совпал.
func (h *PublicHandler) writeCacheable(w http.ResponseWriter, r *http.Request, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal public response", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load data", h.logger)
		return
	}

	etag := etagFor(body)
	w.Header().Set("Cache-Control", "public, max-age=60")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write HTTP response", "error", err)
	}
}

func etagFor(body []byte) string {
	return fmt.Sprintf("%q", fmt.Sprintf("%x", md5.Sum(body)))
}
