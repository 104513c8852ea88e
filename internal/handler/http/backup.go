package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// maxRestoreBody caps uploaded backup documents.
const maxRestoreBody = 64 << 20

type BackupHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	Archive(w http.ResponseWriter, r *http.Request)
	ListArchives(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
	RestoreArchive(w http.ResponseWriter, r *http.Request)
}

type backupHandlerImpl struct {
	backupService backup.BackupService
}

func NewBackupHandler(backupService backup.BackupService) BackupHandler {
	return &backupHandlerImpl{backupService: backupService}
}

// Export handles GET /backup/export and downloads the whole dataset.
func (h *backupHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.backupService.Export(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, response.Attachment{
		Name:        backup.FileName(doc.BackupDate),
		ContentType: "application/json",
		Data:        data,
	})
}

// Archive handles POST /backup/archives
func (h *backupHandlerImpl) Archive(w http.ResponseWriter, r *http.Request) {
	result, err := h.backupService.Archive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Backup archived successfully", result)
}

// ListArchives handles GET /backup/archives
func (h *backupHandlerImpl) ListArchives(w http.ResponseWriter, r *http.Request) {
	result, err := h.backupService.ListArchives(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Restore handles POST /backup/restore. The body is a backup document and
// replaces all current data.
func (h *backupHandlerImpl) Restore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRestoreBody)

	var doc backup.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(w, "Backup file is too large")
			return
		}
		slog.Error("Restore decode error", "error", err)
		response.BadRequest(w, "Invalid backup file", nil)
		return
	}

	result, err := h.backupService.Restore(r.Context(), doc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Backup restored successfully", result)
}

// RestoreArchive handles POST /backup/archives/{name}/restore
func (h *backupHandlerImpl) RestoreArchive(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := h.backupService.RestoreArchive(r.Context(), name)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Backup restored successfully", result)
}
