package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"personnel/internal/apperr"
	"personnel/internal/platform/storage"
)

type Service struct {
	Store    StoreAPI
	Blobs    Blobs
	MaxBytes int64
}

func NewService(store StoreAPI, blobs Blobs, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{Store: store, Blobs: blobs, MaxBytes: maxBytes}
}

// Allowed reports whether the sniffed type is on the allow-list.
func Allowed(mtype *mimetype.MIME) bool {
	for _, allowed := range AllowedTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) ([]Document, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListByEmployee(ctx, employeeID)
}

func (s *Service) requireEmployee(ctx context.Context, employeeID int64) error {
	ok, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Employee", employeeID)
	}
	return nil
}

func (s *Service) Upload(ctx context.Context, in Upload) (Document, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Type) == "" {
		return Document{}, apperr.Validation("title and type are required")
	}
	if in.Body == nil {
		return Document{}, apperr.Validation("file is required")
	}
	data, err := io.ReadAll(io.LimitReader(in.Body, s.MaxBytes+1))
	if err != nil {
		return Document{}, errors.Wrap(err, "read upload")
	}
	if len(data) == 0 {
		return Document{}, apperr.Validation("file is empty")
	}
	if int64(len(data)) > s.MaxBytes {
		return Document{}, apperr.Validation(fmt.Sprintf("file exceeds %d bytes", s.MaxBytes))
	}
	mtype := mimetype.Detect(data)
	if !Allowed(mtype) {
		return Document{}, apperr.Validation("unsupported file type: " + mtype.String())
	}
	if err := s.requireEmployee(ctx, in.EmployeeID); err != nil {
		return Document{}, err
	}

	name := storage.SanitizeName(in.FileName)
	key := storage.EmployeeKey(in.EmployeeID, name)
	size, err := s.Blobs.Save(key, bytes.NewReader(data))
	if err != nil {
		return Document{}, errors.Wrap(err, "store document")
	}

	employeeID := in.EmployeeID
	doc, err := s.Store.Insert(ctx, Document{
		EmployeeID:  &employeeID,
		Title:       strings.TrimSpace(in.Title),
		Type:        strings.TrimSpace(in.Type),
		FileName:    name,
		ContentType: mtype.String(),
		StorageKey:  key,
		SizeBytes:   size,
	})
	if err != nil {
		if delErr := s.Blobs.Delete(key); delErr != nil {
			logrus.WithError(delErr).WithField("key", key).Warn("remove orphaned document file")
		}
		return Document{}, err
	}
	return doc, nil
}

// Open returns the metadata and content of a document; the caller closes it.
func (s *Service) Open(ctx context.Context, id int64) (Document, io.ReadCloser, error) {
	doc, err := s.Store.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Blobs.Open(doc.StorageKey)
	if err != nil {
		return Document{}, nil, errors.Wrap(err, "open document")
	}
	return doc, rc, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	doc, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Blobs.Delete(doc.StorageKey); err != nil {
		return errors.Wrap(err, "remove document file")
	}
	return s.Store.Delete(ctx, id)
}
