package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maxari-shop/service-returns/internal/events"
	"github.com/maxari-shop/service-returns/internal/models"
	"github.com/maxari-shop/service-returns/internal/repository"
)

type fakeReturnStore struct {
	returns   map[string]*models.Return
	createErr error
	sequence  int
}

func newFakeReturnStore() *fakeReturnStore {
	return &fakeReturnStore{returns: make(map[string]*models.Return)}
}

func (s *fakeReturnStore) Create(ctx context.Context, ret *models.Return) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.returns[ret.ReturnID] = ret
	return nil
}

func (s *fakeReturnStore) FindByID(ctx context.Context, returnID string) (*models.Return, error) {
	ret, ok := s.returns[returnID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *ret
	return &copied, nil
}

func (s *fakeReturnStore) List(ctx context.Context) ([]models.Return, error) {
	var all []models.Return
	for _, ret := range s.returns {
		all = append(all, *ret)
	}
	return all, nil
}

func (s *fakeReturnStore) Update(ctx context.Context, ret *models.Return) error {
	if _, ok := s.returns[ret.ReturnID]; !ok {
		return repository.ErrNotFound
	}
	s.returns[ret.ReturnID] = ret
	return nil
}

func (s *fakeReturnStore) UpdateStatus(ctx context.Context, returnID string, status models.ReturnStatus) error {
	ret, ok := s.returns[returnID]
	if !ok {
		return repository.ErrNotFound
	}
	ret.Status = status
	return nil
}

func (s *fakeReturnStore) Delete(ctx context.Context, returnID string) error {
	if _, ok := s.returns[returnID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.returns, returnID)
	return nil
}

func (s *fakeReturnStore) NextReturnID(ctx context.Context, now time.Time) (string, error) {
	s.sequence++
	return fmt.Sprintf("RET-%d-%06d", now.Year(), s.sequence), nil
}

type fakeArtifacts struct {
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newFakeArtifacts() *fakeArtifacts {
	return &fakeArtifacts{saved: make(map[string][]byte)}
}

func (a *fakeArtifacts) SavePDF(returnID string, data []byte) (string, error) {
	if a.saveErr != nil {
		return "", a.saveErr
	}
	path := "mem/" + returnID + ".pdf"
	a.saved[path] = data
	return path, nil
}

func (a *fakeArtifacts) ReadPDF(path string) ([]byte, error) {
	data, ok := a.saved[path]
	if !ok {
		return nil, errors.New("missing artifact")
	}
	return data, nil
}

func (a *fakeArtifacts) RemovePDF(path string) error {
	a.removed = append(a.removed, path)
	delete(a.saved, path)
	return nil
}

func testSignature(t *testing.T) string {
	t.Helper()
	png, err := qrcode.Encode("signature", qrcode.Low, 64)
	require.NoError(t, err)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func validCreateInput(t *testing.T) CreateReturnInput {
	return CreateReturnInput{
		OrderNumber:  "#MX1001",
		CustomerName: "Popescu Ion",
		Products: []models.ReturnProduct{
			{ID: "1", Name: "Rochie", Quantity: 2, ReturnedQuantity: 1, UnitPrice: 80, Reason: "Mărime nepotrivită"},
			{ID: "2", Name: "Curea", Quantity: 1, Selected: true, UnitPrice: 30, Reason: "Alt motiv", OtherReasons: "Culoare diferită"},
		},
		Refund: models.RefundDetails{
			IBAN:          "RO49AAAA1B31007593840000",
			AccountHolder: "Popescu Ion",
		},
		Signature: testSignature(t),
	}
}

func newTestReturnService(store *fakeReturnStore, artifacts *fakeArtifacts) *ReturnService {
	publisher := events.NewPublisher(nil, zap.NewNop())
	return NewReturnService(store, artifacts, publisher, "https://returns.example.com", zap.NewNop())
}

func TestReturnServiceCreate(t *testing.T) {
	store := newFakeReturnStore()
	artifacts := newFakeArtifacts()
	svc := newTestReturnService(store, artifacts)

	ret, err := svc.Create(context.Background(), validCreateInput(t))
	require.NoError(t, err)

	assert.Regexp(t, `^RET-\d{4}-\d{6}$`, ret.ReturnID)
	assert.Equal(t, models.StatusInitiated, ret.Status)
	assert.Equal(t, "1001", ret.OrderNumber)
	assert.Equal(t, 110.0, ret.TotalRefund)
	assert.Contains(t, ret.QRCodeData, "https://returns.example.com/admin/returns/"+ret.ReturnID)

	// The PDF artifact exists and the record points at it.
	data, err := artifacts.ReadPDF(ret.PDFPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	stored, err := store.FindByID(context.Background(), ret.ReturnID)
	require.NoError(t, err)
	assert.Equal(t, ret.PDFPath, stored.PDFPath)
}

func TestReturnServiceCreateValidation(t *testing.T) {
	svc := newTestReturnService(newFakeReturnStore(), newFakeArtifacts())

	noSignature := validCreateInput(t)
	noSignature.Signature = ""
	_, err := svc.Create(context.Background(), noSignature)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "semnatura", validationErr.Field)

	noProducts := validCreateInput(t)
	noProducts.Products = []models.ReturnProduct{{ID: "1", Quantity: 2}}
	_, err = svc.Create(context.Background(), noProducts)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "produse", validationErr.Field)

	badIBAN := validCreateInput(t)
	badIBAN.Refund.IBAN = "RO48AAAA1B31007593840000"
	_, err = svc.Create(context.Background(), badIBAN)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "iban", validationErr.Field)
}

func TestReturnServiceCreateRemovesArtifactOnInsertFailure(t *testing.T) {
	store := newFakeReturnStore()
	store.createErr = errors.New("db down")
	artifacts := newFakeArtifacts()
	svc := newTestReturnService(store, artifacts)

	_, err := svc.Create(context.Background(), validCreateInput(t))
	require.Error(t, err)

	assert.Empty(t, artifacts.saved)
	assert.Len(t, artifacts.removed, 1)
}

func TestReturnServiceUpdateStatus(t *testing.T) {
	store := newFakeReturnStore()
	artifacts := newFakeArtifacts()
	svc := newTestReturnService(store, artifacts)

	ret, err := svc.Create(context.Background(), validCreateInput(t))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), ret.ReturnID, models.StatusAwaitingPackage)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingPackage, updated.Status)

	// Backwards transition is rejected.
	_, err = svc.UpdateStatus(context.Background(), ret.ReturnID, models.StatusInitiated)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Cancellation works from a non-final state, then nothing moves.
	_, err = svc.UpdateStatus(context.Background(), ret.ReturnID, models.StatusCancelled)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), ret.ReturnID, models.StatusProcessed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReturnServiceUpdateStatusNotFound(t *testing.T) {
	svc := newTestReturnService(newFakeReturnStore(), newFakeArtifacts())

	_, err := svc.UpdateStatus(context.Background(), "RET-2025-000001", models.StatusProcessed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnServiceUpdateDocuments(t *testing.T) {
	store := newFakeReturnStore()
	svc := newTestReturnService(store, newFakeArtifacts())

	ret, err := svc.Create(context.Background(), validCreateInput(t))
	require.NoError(t, err)

	updated, err := svc.UpdateDocuments(context.Background(), ret.ReturnID, "AWB123456", "data:image/jpeg;base64,xxx", "")
	require.NoError(t, err)
	assert.Equal(t, "AWB123456", updated.AWBNumber)
	assert.Equal(t, "data:image/jpeg;base64,xxx", updated.ShippingReceiptPhoto)
	assert.Empty(t, updated.PackageLabelPhoto)
}

func TestReturnServiceDeleteRemovesPDF(t *testing.T) {
	store := newFakeReturnStore()
	artifacts := newFakeArtifacts()
	svc := newTestReturnService(store, artifacts)

	ret, err := svc.Create(context.Background(), validCreateInput(t))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ret.ReturnID))

	_, err = store.FindByID(context.Background(), ret.ReturnID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, artifacts.removed, ret.PDFPath)
}
