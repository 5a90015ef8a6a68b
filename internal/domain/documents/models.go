// Package documents stores files attached to employees. Metadata lives in the
// documents table and the bytes in blob storage; a document outlives its
// employee with the link cleared.
package documents

import (
	"io"
	"time"
)

const DefaultMaxBytes = 10 << 20

// AllowedTypes lists the content types accepted after sniffing.
var AllowedTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

type Document struct {
	ID          int64     `json:"id"`
	EmployeeID  *int64    `json:"employeeId,omitempty"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	StorageKey  string    `json:"-"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type Upload struct {
	EmployeeID int64
	Type       string
	Title      string
	FileName   string
	Body       io.Reader
}
