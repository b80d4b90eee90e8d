// Package response writes the JSON envelope shared by every API route.
package response

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
)

// Envelope is the body of every JSON response. Exactly one of Data or Error is set.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *Pagination            `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// Pagination describes the page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// Whole describes an unpaged list of n items as a single page.
func Whole(n int) *Pagination {
	return &Pagination{Page: 1, PageSize: n, TotalCount: n}
}

// JSON writes data with optional pagination and meta. Dashboard data changes on every
// write, so nothing is cacheable by intermediaries.
func JSON(c *gin.Context, status int, data interface{}, pagination *Pagination, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && len(meta[0]) > 0 {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds 201 with an optional confirmation message.
func Created(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusCreated, data, nil, WithMessage(message))
}

// Error normalises err and writes it with its HTTP status. The original error is attached
// to the gin context for the request logger.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	_ = c.Error(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Attachment sends payload as a file download.
func Attachment(c *gin.Context, filename, contentType string, payload []byte) {
	noStore(c)
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = fmt.Sprintf(`attachment; filename="%s"`, filename)
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, contentType, payload)
}

// WithMessage returns meta carrying a user-facing confirmation message.
func WithMessage(message string) map[string]interface{} {
	if message == "" {
		return nil
	}
	return map[string]interface{}{"message": message}
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// NoContent sends a bare 204.
func NoContent(c *gin.Context) {
	noStore(c)
	c.Status(http.StatusNoContent)
}
