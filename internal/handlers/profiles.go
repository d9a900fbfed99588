package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"opto-backend/internal/config"
	"opto-backend/internal/dto"
	"opto-backend/internal/middleware"
	"opto-backend/internal/models"
	"opto-backend/internal/store"
	"opto-backend/internal/utils"
)

// allowedImageTypes maps accepted content types to the file extension used
// when the image is written to disk.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ProfileHandler handles the public directory and profile mutations
type ProfileHandler struct {
	users  UserDirectory
	upload *config.UploadConfig
}

// NewProfileHandler creates a new ProfileHandler instance
func NewProfileHandler(users UserDirectory, upload *config.UploadConfig) *ProfileHandler {
	return &ProfileHandler{users: users, upload: upload}
}

// List returns all profiles, newest first
// @Summary List profiles
// @Description Public directory of all users, newest first
// @Tags profiles
// @Produce json
// @Success 200 {array} dto.UserResponse "Profiles"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/profiles [get]
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		log.Printf("profiles: list: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Lookup failed", "Could not load profiles")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponseList(users))
}

// Get returns one public profile by id
// @Summary Get a profile
// @Description Public profile lookup by user id
// @Tags profiles
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} dto.UserResponse "Profile"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/profiles/{id} [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "No profile with this id")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "No profile with this id")
			return
		}
		log.Printf("profiles: get %s: %v", id, err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Lookup failed", "Could not load profile")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateMe applies a partial profile update to the current user
// @Summary Update own profile
// @Description Merge the provided fields over the current user's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProfileUpdateRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Account no longer exists"
// @Router /api/profiles/me [put]
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var req dto.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, store.ProfilePatch{
		Name:           req.Name,
		DisplayName:    req.DisplayName,
		Bio:            req.Bio,
		Interests:      req.Interests,
		Location:       req.Location,
		Occupation:     req.Occupation,
		FinancialGoals: req.FinancialGoals,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "This account no longer exists")
			return
		}
		log.Printf("profiles: update %s: %v", userID, err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Update failed", "Could not update profile")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponse(user))
}

// UploadAvatar stores a new avatar image for the current user
// @Summary Upload avatar
// @Description Multipart image upload (jpeg/png/webp/gif, max 5MB), field name "avatar"
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.UserResponse "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Bad or missing file"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /api/profiles/me/avatar [post]
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "avatar", h.users.UpdateAvatar)
}

// UploadCover stores a new cover photo for the current user
// @Summary Upload cover photo
// @Description Multipart image upload (jpeg/png/webp/gif, max 5MB), field name "cover"
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param cover formData file true "Cover image"
// @Success 200 {object} dto.UserResponse "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Bad or missing file"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /api/profiles/me/cover [post]
func (h *ProfileHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "cover", h.users.UpdateCover)
}

type urlUpdateFunc func(ctx context.Context, id uuid.UUID, url string) (*models.User, error)

func (h *ProfileHandler) uploadImage(w http.ResponseWriter, r *http.Request, field string, update urlUpdateFunc) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	// Reject oversized bodies before parsing; a little slack covers the
	// multipart framing around the 5MB file limit.
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxSizeBytes+1<<20)
	if err := r.ParseMultipartForm(h.upload.MaxSizeBytes); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid upload", "File exceeds the 5MB limit or the form is malformed")
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing file", fmt.Sprintf("Form field %q with an image file is required", field))
		return
	}
	defer file.Close()

	if header.Size > h.upload.MaxSizeBytes {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "File too large", "Images must be 5MB or smaller")
		return
	}

	// Sniff the real content type; the client-declared header is not trusted
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Unreadable file", "Could not read uploaded file")
		return
	}
	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Unsupported file type", "Only jpeg, png, webp and gif images are accepted")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Upload failed", "Could not process uploaded file")
		return
	}

	if err := os.MkdirAll(h.upload.Dir, 0o755); err != nil {
		log.Printf("uploads: mkdir %s: %v", h.upload.Dir, err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Upload failed", "Could not store uploaded file")
		return
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.upload.Dir, name))
	if err != nil {
		log.Printf("uploads: create file: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Upload failed", "Could not store uploaded file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("uploads: write file: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Upload failed", "Could not store uploaded file")
		return
	}

	user, err := update(r.Context(), userID, "/uploads/"+name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "This account no longer exists")
			return
		}
		log.Printf("uploads: update user %s: %v", userID, err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Upload failed", "Could not save image reference")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponse(user))
}
