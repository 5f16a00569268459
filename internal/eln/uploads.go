package eln

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"nanoeln/internal/blob"
	"nanoeln/pkg/domain"
)

// ErrNoBlobStore is returned by file operations when no blob store is configured.
var ErrNoBlobStore = errors.New("eln: blob store not configured")

// AddDataUpload appends an instrument upload. The instrument must be in the
// catalogue and a batch, when given, must exist. No audit entry is written.
func (s *Store) AddDataUpload(ctx context.Context, u domain.DataUpload) (domain.DataUpload, error) {
	if u.Status == "" {
		u.Status = domain.UploadPending
	}
	if err := validateUpload(u); err != nil {
		return domain.DataUpload{}, err
	}
	if _, err := s.Instrument(u.InstrumentID); err != nil {
		return domain.DataUpload{}, err
	}
	var created domain.DataUpload
	err := s.mutate(ctx, "add_data_upload", func(tx *txn) error {
		if u.BatchID != nil && indexOf(tx.state.batches, *u.BatchID, idOfBatch) < 0 {
			return domain.NotFoundError{Entity: domain.EntityBatch, ID: *u.BatchID}
		}
		if u.ID == "" {
			u.ID = tx.newID("upload")
		} else if indexOf(tx.state.uploads, u.ID, idOfUpload) >= 0 {
			return duplicateID(domain.EntityDataUpload)
		}
		if u.UploadedAt.IsZero() {
			u.UploadedAt = tx.now
		}
		u = cloneUpload(u)
		tx.state.uploads = append(tx.state.uploads, u)
		tx.touch(domain.KeyDataUploads)
		created = cloneUpload(u)
		return nil
	})
	if err != nil {
		return domain.DataUpload{}, err
	}
	return created, nil
}

// LinkUploadToBatch attaches an upload to a batch and marks it linked.
func (s *Store) LinkUploadToBatch(ctx context.Context, uploadID, batch string) (domain.DataUpload, error) {
	var linked domain.DataUpload
	err := s.mutate(ctx, "link_upload", func(tx *txn) error {
		i := indexOf(tx.state.uploads, uploadID, idOfUpload)
		if i < 0 {
			return domain.NotFoundError{Entity: domain.EntityDataUpload, ID: uploadID}
		}
		if indexOf(tx.state.batches, batch, idOfBatch) < 0 {
			return domain.NotFoundError{Entity: domain.EntityBatch, ID: batch}
		}
		u := &tx.state.uploads[i]
		u.BatchID = &batch
		u.Status = domain.UploadLinked
		tx.touch(domain.KeyDataUploads)
		tx.audit("Linked instrument data", domain.EntityBatch, batch, "Instrument data linked to batch.")
		linked = cloneUpload(*u)
		return nil
	})
	if err != nil {
		return domain.DataUpload{}, err
	}
	return linked, nil
}

// UploadInstrumentFile stores the raw file in the blob store and records a
// pending upload that points at it. The blob is removed again if the upload
// record cannot be written.
func (s *Store) UploadInstrumentFile(ctx context.Context, instrumentID, fileName, fileType string, r io.Reader) (domain.DataUpload, error) {
	if s.blobs == nil {
		return domain.DataUpload{}, ErrNoBlobStore
	}
	base, err := fileBase(fileName)
	if err != nil {
		return domain.DataUpload{}, err
	}
	if _, err := s.Instrument(instrumentID); err != nil {
		return domain.DataUpload{}, err
	}
	id := s.idFn("upload")
	key := path.Join("uploads", instrumentID, id, base)
	info, err := s.blobs.Put(ctx, key, r, blob.PutOptions{
		ContentType: fileType,
		Metadata:    map[string]string{"instrument": instrumentID, "upload": id},
	})
	if err != nil {
		return domain.DataUpload{}, fmt.Errorf("store instrument file: %w", err)
	}
	s.logger.Debug("instrument file stored", zap.String("key", key), zap.Int64("size", info.Size))
	u, err := s.AddDataUpload(ctx, domain.DataUpload{
		ID:           id,
		InstrumentID: instrumentID,
		FileName:     fileName,
		FileType:     fileType,
		Status:       domain.UploadPending,
		BlobKey:      key,
	})
	if err != nil {
		if _, delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned instrument file", zap.String("key", key), zap.Error(delErr))
		}
		return domain.DataUpload{}, err
	}
	return u, nil
}

// OpenUploadFile returns the upload record and a reader over its raw file.
// The caller closes the reader.
func (s *Store) OpenUploadFile(ctx context.Context, id string) (domain.DataUpload, io.ReadCloser, error) {
	if s.blobs == nil {
		return domain.DataUpload{}, nil, ErrNoBlobStore
	}
	u, err := s.DataUpload(id)
	if err != nil {
		return domain.DataUpload{}, nil, err
	}
	if u.BlobKey == "" {
		return domain.DataUpload{}, nil, fmt.Errorf("upload %s has no stored file: %w", id, blob.ErrNotFound)
	}
	_, rc, err := s.blobs.Get(ctx, u.BlobKey)
	if err != nil {
		return domain.DataUpload{}, nil, err
	}
	return u, rc, nil
}

// fileBase returns the last element of fileName, accepting either path
// separator. Names without a usable last element are rejected.
func fileBase(fileName string) (string, error) {
	if err := required(domain.EntityDataUpload, "file_name", fileName); err != nil {
		return "", err
	}
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	switch base {
	case ".", "..", "/":
		return "", domain.ValidationError{Entity: domain.EntityDataUpload, Field: "file_name", Reason: "has no file component"}
	}
	return base, nil
}

