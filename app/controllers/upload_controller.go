package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/pkg/response"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Single handles POST /upload/single. Expects one file under "image".
func (c *UploadController) Single(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(services.MaxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	_, fh, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	img, err := c.uploads.Single(fh)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, img)
}

// Multiple handles POST /upload/multiple. Expects files under "images".
func (c *UploadController) Multiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(int64(services.MaxUploadFiles) * services.MaxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	images, err := c.uploads.Multiple(r.MultipartForm.File["images"])
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.List(w, images, len(images))
}

// Delete handles DELETE /upload/{public_id}. The public id is a storage key
// that may contain slashes, so the route captures a wildcard.
func (c *UploadController) Delete(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "*")
	if publicID == "" {
		response.Error(w, http.StatusBadRequest, "Missing public_id")
		return
	}
	if err := c.uploads.Delete(publicID); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Message(w, "Image deleted")
}
