package api

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/middleware"
)

// actorFrom builds the service caller from what AuthMiddleware stored.
func actorFrom(c *gin.Context) (core.Actor, bool) {
	id := c.GetString(middleware.ContextUserID)
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return core.Actor{}, false
	}
	return core.Actor{ID: id, Role: c.GetString(middleware.ContextUserRole)}, true
}

// pageFrom reads ?limit= and ?startAfter=.
func pageFrom(c *gin.Context) (db.Page, bool) {
	page := db.Page{StartAfter: c.Query("startAfter")}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer", nil)
			return page, false
		}
		page.Limit = n
	}
	return page, true
}

// intQuery reads an optional non-negative integer query parameter.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(c, fmt.Sprintf("%s must be a non-negative integer", name), nil)
		return 0, false
	}
	return n, true
}

// nextCursor is the ID of the last item when the page came back full.
func nextCursor(n, limit int, lastID func() string) string {
	if n == 0 || n < limit {
		return ""
	}
	return lastID()
}

// limitBody caps the request body so multipart parsing cannot exhaust memory.
func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

// openUpload turns a multipart file into a core.Upload. The caller closes the
// returned file.
func openUpload(fh *multipart.FileHeader) (core.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return core.Upload{}, nil, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(fh.Filename)); byExt != "" {
			ct = byExt
		}
	}
	return core.Upload{Name: fh.Filename, ContentType: ct, Size: fh.Size, Reader: f}, f, nil
}

// formFiles opens every file sent under field. A missing field yields no files.
func formFiles(c *gin.Context, field string) ([]core.Upload, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, closeAll, nil
		}
		return nil, closeAll, err
	}
	uploads := make([]core.Upload, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		u, f, err := openUpload(fh)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, f)
		uploads = append(uploads, u)
	}
	return uploads, closeAll, nil
}

// formFile opens the single file sent under field. ok is false when the
// field is absent.
func formFile(c *gin.Context, field string) (upload core.Upload, closeFn func(), ok bool, err error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return core.Upload{}, func() {}, false, nil
	}
	if err != nil {
		return core.Upload{}, func() {}, false, err
	}
	u, f, err := openUpload(fh)
	if err != nil {
		return core.Upload{}, func() {}, false, err
	}
	return u, func() { f.Close() }, true, nil
}

// uploadError answers a failed multipart read.
func uploadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
		return
	}
	badRequest(c, "Invalid multipart upload", err)
}
