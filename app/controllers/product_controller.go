package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/pkg/response"
	"github.com/storefront/backend/pkg/validate"
)

type ProductController struct {
	products *services.ProductService
	uploads  *services.UploadService
}

func NewProductController(products *services.ProductService, uploads *services.UploadService) *ProductController {
	return &ProductController{products: products, uploads: uploads}
}

// List handles GET /products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.List(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.List(w, products, len(products))
}

// Get handles GET /products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	p, err := c.products.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, p)
}

// Create handles POST /products. Accepts either a JSON body or a multipart
// form with up to five image files under the "images" field.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	in, ok := c.bindProduct(w, r)
	if !ok {
		return
	}
	product, err := c.products.Create(r.Context(), p, *in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /products/{id}.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	in, ok := c.bindProduct(w, r)
	if !ok {
		return
	}
	product, err := c.products.Update(r.Context(), p, id, *in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, product)
}

// Delete handles DELETE /products/{id}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := c.products.Delete(r.Context(), p, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Message(w, "Product deleted")
}

// bindProduct reads a product payload from either JSON or multipart form
// data. Multipart image files are stored first; their references end up in
// the input's Images.
func (c *ProductController) bindProduct(w http.ResponseWriter, r *http.Request) (*services.ProductInput, bool) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		var in services.ProductInput
		if !bindBody(w, r, &in) {
			return nil, false
		}
		return &in, true
	}

	if err := r.ParseMultipartForm(int64(services.MaxUploadFiles) * services.MaxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, false
	}

	in := services.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid price")
			return nil, false
		}
		in.Price = price
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid stock")
			return nil, false
		}
		in.Stock = stock
	}

	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return nil, false
	}

	if files := r.MultipartForm.File["images"]; len(files) > 0 {
		uploaded, err := c.uploads.Multiple(files)
		if err != nil {
			response.FromError(w, r, err)
			return nil, false
		}
		for _, img := range uploaded {
			in.Images = append(in.Images, models.ProductImage{URL: img.URL, PublicID: img.PublicID})
		}
	}
	return &in, true
}
