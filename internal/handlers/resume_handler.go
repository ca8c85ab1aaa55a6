package handlers

import (
	"context"
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/storage"
	"interviewprep/internal/utils"

	"go.uber.org/zap"
)

var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ResumeHandler stores CV uploads and tracks which one is active.
type ResumeHandler struct {
	Resumes  ResumeRepository
	Files    storage.FileStore
	MaxBytes int64
	Logger   *zap.Logger
}

func (h *ResumeHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resumes, err := h.Resumes.ListByUser(userID)
	if err != nil {
		internalError(w, h.Logger, "Failed to list resumes", err)
		return
	}
	utils.JSON(w, http.StatusOK, resumes)
}

// UploadHandler accepts a multipart "file" field. The record is only
// created once the file is stored.
func (h *ResumeHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing_file", "A file field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, allowed := resumeTypes[ext]
	if !allowed {
		badRequest(w, "invalid_file_type", "Only pdf, doc and docx files are accepted")
		return
	}
	if header.Size > h.MaxBytes {
		utils.JSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Code: "file_too_large", Message: "File exceeds the upload limit"})
		return
	}

	obj, err := h.Files.Put(r.Context(), storage.ObjectKey("resumes", header.Filename), file, header.Size, contentType)
	if err != nil {
		internalError(w, h.Logger, "Failed to store file", err)
		return
	}
	resume := &models.Resume{
		UserID:     userID,
		Filename:   filepath.Base(header.Filename),
		StoredName: path.Base(obj.Key),
		Path:       obj.Key,
		Size:       obj.Size,
		FileType:   strings.TrimPrefix(ext, "."),
	}
	if err := h.Resumes.Create(resume); err != nil {
		h.removeFile(r.Context(), obj.Key)
		internalError(w, h.Logger, "Failed to save resume", err)
		return
	}
	utils.JSON(w, http.StatusCreated, resume)
}

func (h *ResumeHandler) ActivateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resumeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resume, err := h.Resumes.SetActive(userID, resumeID)
	if errors.Is(err, repositories.ErrResumeNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "resume_not_found", Message: "Resume not found"})
		return
	}
	if err != nil {
		internalError(w, h.Logger, "Failed to activate resume", err)
		return
	}
	utils.JSON(w, http.StatusOK, resume)
}

func (h *ResumeHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resumeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resume, err := h.Resumes.Delete(userID, resumeID)
	if errors.Is(err, repositories.ErrResumeNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "resume_not_found", Message: "Resume not found"})
		return
	}
	if err != nil {
		internalError(w, h.Logger, "Failed to delete resume", err)
		return
	}
	h.removeFile(r.Context(), resume.Path)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResumeHandler) removeFile(ctx context.Context, key string) {
	err := h.Files.Delete(context.WithoutCancel(ctx), key)
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		h.Logger.Warn("failed to delete resume file", zap.String("key", key), zap.Error(err))
	}
}
