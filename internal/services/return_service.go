package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/maxari-shop/service-returns/internal/events"
	"github.com/maxari-shop/service-returns/internal/matching"
	"github.com/maxari-shop/service-returns/internal/models"
	"github.com/maxari-shop/service-returns/internal/pdf"
)

// ErrInvalidTransition is returned when a status update violates the forward
// lifecycle.
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

// ReturnStore is the persistence surface the lifecycle service needs.
type ReturnStore interface {
	Create(ctx context.Context, ret *models.Return) error
	FindByID(ctx context.Context, returnID string) (*models.Return, error)
	List(ctx context.Context) ([]models.Return, error)
	Update(ctx context.Context, ret *models.Return) error
	UpdateStatus(ctx context.Context, returnID string, status models.ReturnStatus) error
	Delete(ctx context.Context, returnID string) error
	NextReturnID(ctx context.Context, now time.Time) (string, error)
}

// ArtifactStore persists and removes the generated PDF receipts.
type ArtifactStore interface {
	SavePDF(returnID string, data []byte) (string, error)
	ReadPDF(path string) ([]byte, error)
	RemovePDF(path string) error
}

// CreateReturnInput is the payload captured by the return form after
// signature.
type CreateReturnInput struct {
	OrderNumber  string                 `json:"numarComanda"`
	CustomerName string                 `json:"nume"`
	Products     []models.ReturnProduct `json:"produse"`
	Refund       models.RefundDetails   `json:"refund"`
	Signature    string                 `json:"semnatura"`
}

// ReturnService owns the return record lifecycle: creation with its PDF and
// QR artifacts, forward-only status transitions, document updates and
// deletion.
type ReturnService struct {
	store     ReturnStore
	artifacts ArtifactStore
	publisher *events.Publisher
	baseURL   string
	logger    *zap.Logger
	now       func() time.Time
}

// NewReturnService creates the lifecycle service. baseURL, when set, is
// embedded in the QR payload as an admin deep link.
func NewReturnService(store ReturnStore, artifacts ArtifactStore, publisher *events.Publisher, baseURL string, logger *zap.Logger) *ReturnService {
	return &ReturnService{
		store:     store,
		artifacts: artifacts,
		publisher: publisher,
		baseURL:   baseURL,
		logger:    logger,
		now:       time.Now,
	}
}

// Create builds the whole return atomically: id, QR, PDF, disk artifact, then
// the database row. A failure at any step before the insert leaves no record
// behind; an insert failure removes the already written artifact.
func (s *ReturnService) Create(ctx context.Context, input CreateReturnInput) (*models.Return, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	returnID, err := s.store.NextReturnID(ctx, now)
	if err != nil {
		return nil, err
	}

	qrPNG, qrPayload, err := pdf.GenerateQR(returnID, s.baseURL)
	if err != nil {
		return nil, err
	}

	totalRefund := computeTotalRefund(input.Products)

	receipt, err := pdf.GenerateReceipt(pdf.ReceiptData{
		ReturnID:     returnID,
		CreatedAt:    now,
		CustomerName: input.CustomerName,
		OrderNumber:  input.OrderNumber,
		Products:     input.Products,
		Refund:       input.Refund,
		TotalRefund:  totalRefund,
		Signature:    input.Signature,
		QRCode:       qrPNG,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt: %w", err)
	}

	pdfPath, err := s.artifacts.SavePDF(returnID, receipt)
	if err != nil {
		return nil, err
	}

	ret := &models.Return{
		ReturnID:    returnID,
		OrderNumber: matching.NormalizeOrderNumber(input.OrderNumber),
		OrderData: datatypes.NewJSONType(models.OrderSummary{
			CustomerName: input.CustomerName,
			OrderNumber:  input.OrderNumber,
		}),
		Products:    datatypes.NewJSONType(input.Products),
		RefundData:  datatypes.NewJSONType(input.Refund),
		Signature:   input.Signature,
		TotalRefund: totalRefund,
		Status:      models.StatusInitiated,
		PDFPath:     pdfPath,
		QRCodeData:  qrPayload,
		CreatedAt:   now,
	}

	if err := s.store.Create(ctx, ret); err != nil {
		if removeErr := s.artifacts.RemovePDF(pdfPath); removeErr != nil {
			s.logger.Warn("failed to remove orphaned pdf artifact",
				zap.String("return_id", returnID),
				zap.Error(removeErr),
			)
		}
		return nil, err
	}

	s.logger.Info("return created",
		zap.String("return_id", returnID),
		zap.Float64("total_refund", totalRefund),
	)

	s.publisher.PublishReturnCreated(&events.ReturnCreatedEvent{
		ReturnID:    returnID,
		OrderNumber: ret.OrderNumber,
		TotalRefund: totalRefund,
		ItemCount:   returnedItemCount(input.Products),
	})

	return ret, nil
}

func (s *ReturnService) validateInput(input CreateReturnInput) error {
	if input.Signature == "" {
		return &ValidationError{Field: "semnatura", Message: "semnătura este obligatorie"}
	}
	if input.CustomerName == "" {
		return &ValidationError{Field: "nume", Message: "numele este obligatoriu"}
	}
	if returnedItemCount(input.Products) == 0 {
		return &ValidationError{Field: "produse", Message: "selectați cel puțin un produs"}
	}
	if input.Refund.IBAN != "" {
		if err := matching.ValidateRomanianIBAN(input.Refund.IBAN); err != nil {
			return &ValidationError{Field: "iban", Message: "IBAN-ul este invalid"}
		}
	}
	return nil
}

// Get fetches a return by id.
func (s *ReturnService) Get(ctx context.Context, returnID string) (*models.Return, error) {
	return s.store.FindByID(ctx, returnID)
}

// List returns all return records, newest first.
func (s *ReturnService) List(ctx context.Context) ([]models.Return, error) {
	return s.store.List(ctx)
}

// GetPDF reads the stored receipt for a return.
func (s *ReturnService) GetPDF(ctx context.Context, returnID string) ([]byte, error) {
	ret, err := s.store.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	return s.artifacts.ReadPDF(ret.PDFPath)
}

// UpdateStatus applies a lifecycle transition. Transitions only move forward;
// ANULAT is reachable from any non-final state.
func (s *ReturnService) UpdateStatus(ctx context.Context, returnID string, status models.ReturnStatus) (*models.Return, error) {
	ret, err := s.store.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if !ret.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ret.Status, status)
	}

	if err := s.store.UpdateStatus(ctx, returnID, status); err != nil {
		return nil, err
	}

	s.logger.Info("return status changed",
		zap.String("return_id", returnID),
		zap.String("old_status", string(ret.Status)),
		zap.String("new_status", string(status)),
	)

	s.publisher.PublishReturnStatusChanged(&events.ReturnStatusChangedEvent{
		ReturnID:  returnID,
		OldStatus: string(ret.Status),
		NewStatus: string(status),
	})

	ret.Status = status
	return ret, nil
}

// UpdateDocuments attaches shipping documents to an existing return. Empty
// fields are left untouched.
func (s *ReturnService) UpdateDocuments(ctx context.Context, returnID, awbNumber, shippingReceiptPhoto, packageLabelPhoto string) (*models.Return, error) {
	ret, err := s.store.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if awbNumber != "" {
		ret.AWBNumber = awbNumber
	}
	if shippingReceiptPhoto != "" {
		ret.ShippingReceiptPhoto = shippingReceiptPhoto
	}
	if packageLabelPhoto != "" {
		ret.PackageLabelPhoto = packageLabelPhoto
	}

	if err := s.store.Update(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Update saves an admin edit of the full record. The status field is not
// touched here; transitions go through UpdateStatus.
func (s *ReturnService) Update(ctx context.Context, ret *models.Return) error {
	existing, err := s.store.FindByID(ctx, ret.ReturnID)
	if err != nil {
		return err
	}
	ret.Status = existing.Status
	ret.CreatedAt = existing.CreatedAt
	return s.store.Update(ctx, ret)
}

// Delete removes a return together with its PDF artifact.
func (s *ReturnService) Delete(ctx context.Context, returnID string) error {
	ret, err := s.store.FindByID(ctx, returnID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, returnID); err != nil {
		return err
	}

	if err := s.artifacts.RemovePDF(ret.PDFPath); err != nil {
		s.logger.Warn("failed to remove pdf for deleted return",
			zap.String("return_id", returnID),
			zap.Error(err),
		)
	}

	s.logger.Info("return deleted", zap.String("return_id", returnID))

	s.publisher.PublishReturnDeleted(&events.ReturnDeletedEvent{ReturnID: returnID})
	return nil
}

func computeTotalRefund(products []models.ReturnProduct) float64 {
	total := 0.0
	for _, product := range products {
		total += product.UnitPrice * float64(product.ReturnedQty())
	}
	return total
}

func returnedItemCount(products []models.ReturnProduct) int {
	count := 0
	for _, product := range products {
		count += product.ReturnedQty()
	}
	return count
}
