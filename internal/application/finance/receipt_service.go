package finance

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/clinic/backend/internal/domain/finance"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptStorage is the object-store capability the receipt flow needs.
// Implemented by the S3-backed store and a local filesystem stub.
type ReceiptStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// Receipt files allowed as proof of a financial entry
var allowedReceiptExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ReceiptService issues presigned URLs for uploading and viewing the receipt
// files attached to financial entries. Files live under the entry's key
// prefix, so access checks reduce to a prefix check.
type ReceiptService struct {
	entryRepo finance.FinancialEntryRepository
	storage   ReceiptStorage
	logger    *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	entryRepo finance.FinancialEntryRepository,
	storage ReceiptStorage,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		entryRepo: entryRepo,
		storage:   storage,
		logger:    logger,
	}
}

// UploadTicket carries a presigned upload URL and the key the client must
// reference afterwards
type UploadTicket struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DownloadTicket carries a presigned download URL
type DownloadTicket struct {
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RequestUpload issues a presigned upload URL for a receipt on an entry
func (s *ReceiptService) RequestUpload(ctx context.Context, entryID uuid.UUID, filename, contentType string) (*UploadTicket, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Financial entry not found")
	}

	ext := strings.ToLower(path.Ext(filename))
	if !allowedReceiptExtensions[ext] {
		return nil, shared.NewDomainError("INVALID_RECEIPT_TYPE", "Receipt must be a PDF, JPG or PNG file")
	}

	storageKey := receiptKey(entryID, ext)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to issue receipt upload URL: %w", err)
	}

	s.logger.Info("receipt upload requested",
		zap.String("entry_id", entryID.String()),
		zap.String("storage_key", storageKey),
	)

	return &UploadTicket{
		StorageKey: storageKey,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// GetDownloadURL issues a presigned download URL for an uploaded receipt
func (s *ReceiptService) GetDownloadURL(ctx context.Context, entryID uuid.UUID, storageKey string) (*DownloadTicket, error) {
	if !strings.HasPrefix(storageKey, receiptPrefix(entryID)) {
		return nil, shared.NewDomainError("FORBIDDEN", "Receipt does not belong to this entry")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Receipt has not been uploaded")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to issue receipt download URL: %w", err)
	}

	return &DownloadTicket{
		StorageKey:  storageKey,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

// DeleteReceipt removes an uploaded receipt from storage
func (s *ReceiptService) DeleteReceipt(ctx context.Context, entryID uuid.UUID, storageKey string) error {
	if !strings.HasPrefix(storageKey, receiptPrefix(entryID)) {
		return shared.NewDomainError("FORBIDDEN", "Receipt does not belong to this entry")
	}
	return s.storage.DeleteObject(ctx, storageKey)
}

func receiptPrefix(entryID uuid.UUID) string {
	return fmt.Sprintf("receipts/%s/", entryID)
}

func receiptKey(entryID uuid.UUID, ext string) string {
	return receiptPrefix(entryID) + uuid.NewString() + ext
}
