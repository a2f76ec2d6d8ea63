package controllers

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/storage"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

const maxImageBytes = 5 << 20

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// productForm mirrors the multipart fields of a product write so the
// shared validator can produce field-level messages.
type productForm struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,max=100"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := repositories.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	products, total, err := c.products.List(r.Context(), filter, page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, products, response.NewPagination(page, limit, total))
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	product, err := c.products.ByID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Create accepts multipart/form-data with the product fields plus a
// required image file.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	form, errs, ok := parseProductForm(w, r)
	if !ok {
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	imageURL, ok := saveImage(w, r, true)
	if !ok {
		return
	}

	product := models.Product{
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		Category:    form.Category,
		Stock:       form.Stock,
		ImageURL:    imageURL,
	}
	if err := c.products.Create(r.Context(), &product); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update accepts the same multipart form as Create. Every field is
// optional; a new image replaces the old URL, otherwise it is kept.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	if !requireMultipart(w, r) {
		return
	}

	var upd services.ProductUpdate
	errs := map[string]string{}

	if v := r.FormValue("name"); v != "" {
		upd.Name = &v
	}
	if v := r.FormValue("description"); v != "" {
		upd.Description = &v
	}
	if v := r.FormValue("category"); v != "" {
		upd.Category = &v
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price <= 0 {
			errs["price"] = "The price field must be a number greater than 0."
		} else {
			upd.Price = &price
		}
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			errs["stock"] = "The stock field must be a non-negative integer."
		} else {
			upd.Stock = &stock
		}
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	imageURL, ok := saveImage(w, r, false)
	if !ok {
		return
	}
	if imageURL != "" {
		upd.ImageURL = &imageURL
	}

	product, err := c.products.Update(r.Context(), id, upd)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "product updated", product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := c.products.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "product deleted", nil)
}

// requireMultipart rejects anything that is not multipart/form-data
// with 415 and parses the form on success.
func requireMultipart(w http.ResponseWriter, r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/form-data" {
		response.UnsupportedMediaType(w, "expected multipart/form-data")
		return false
	}
	if err := r.ParseMultipartForm(config.MaxBodyBytes()); err != nil {
		response.BadRequest(w, "malformed multipart body")
		return false
	}
	return true
}

func parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, map[string]string, bool) {
	if !requireMultipart(w, r) {
		return productForm{}, nil, false
	}

	form := productForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
	}
	errs := map[string]string{}

	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs["price"] = "The price field must be numeric."
		} else {
			form.Price = price
		}
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			errs["stock"] = "The stock field must be an integer."
		} else {
			form.Stock = stock
		}
	}

	fieldErrs := validate.Struct(form)
	for field, msg := range fieldErrs {
		if _, taken := errs[field]; !taken {
			errs[field] = msg
		}
	}
	return form, errs, true
}

// saveImage validates and stores the uploaded "image" part, returning
// its public URL. When required is true a missing file is a 400.
func saveImage(w http.ResponseWriter, r *http.Request, required bool) (string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if !required {
			return "", true
		}
		response.BadRequest(w, "image file is required")
		return "", false
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		response.BadRequest(w, "image must be 5MB or smaller")
		return "", false
	}
	if !allowedImage(header) {
		response.BadRequest(w, "image must be a jpeg or png")
		return "", false
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(header.Filename))
	path := "uploads/" + name

	disk := storage.Default()
	if err := disk.PutStream(path, file); err != nil {
		response.Internal(w)
		return "", false
	}
	return disk.URL(path), true
}

func allowedImage(header *multipart.FileHeader) bool {
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// sanitizeFilename strips path separators and whitespace so the stored
// name is safe to join under the uploads directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
