package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coiscan/internal/domain"
	"coiscan/internal/port"
	"coiscan/internal/service"
	"coiscan/mocks"
)

func TestExtract_DelegatesToBackend(t *testing.T) {
	backend := new(mocks.MockOCRBackend)
	want := &domain.OCRResult{
		Fields:     domain.FieldMap{domain.FieldProducer: "ACME"},
		Confidence: 0.125,
		Raw:        domain.RawPayload{Engine: domain.EngineTesseract, Pages: 2},
	}
	backend.On("Acquire", mock.Anything, port.AcquireInput{Bucket: "certs", Key: "acme.pdf"}).Return(want, nil)

	svc := service.NewExtractService(backend)
	got, err := svc.Extract(context.Background(), service.ExtractInput{Bucket: "certs", Key: "acme.pdf"})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	backend.AssertExpectations(t)
}

func TestExtract_MissingReference(t *testing.T) {
	backend := new(mocks.MockOCRBackend)

	svc := service.NewExtractService(backend)
	_, err := svc.Extract(context.Background(), service.ExtractInput{})

	assert.ErrorIs(t, err, domain.ErrMissingReference)
	backend.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
}

func TestExtract_BackendFailurePropagates(t *testing.T) {
	backend := new(mocks.MockOCRBackend)
	boom := errors.New("backend unreachable")
	backend.On("Acquire", mock.Anything, mock.Anything).Return(nil, boom)

	svc := service.NewExtractService(backend)
	_, err := svc.Extract(context.Background(), service.ExtractInput{Bytes: []byte("doc"), Filename: "doc.pdf"})

	assert.ErrorIs(t, err, boom)
}

func TestApply_OverwritesOnlyPresentKeys(t *testing.T) {
	svc := service.NewExtractService(new(mocks.MockOCRBackend))

	record := &domain.Certificate{
		InsuredName:      "Old Insured",
		Producer:         "Old Producer",
		GeneralLiabLimit: 500000,
	}
	fields := domain.FieldMap{
		domain.FieldInsuredName:      "Widget Factory LLC",
		domain.FieldGeneralLiabLimit: 1000000.0,
	}

	applied := svc.Apply(record, fields)

	assert.Equal(t, []domain.Field{domain.FieldInsuredName, domain.FieldGeneralLiabLimit}, applied)
	assert.Equal(t, "Widget Factory LLC", record.InsuredName)
	assert.Equal(t, 1000000.0, record.GeneralLiabLimit)
	// Absent keys are untouched, never nulled.
	assert.Equal(t, "Old Producer", record.Producer)
}

func TestApply_EmptyMapAppliesNothing(t *testing.T) {
	svc := service.NewExtractService(new(mocks.MockOCRBackend))

	record := &domain.Certificate{Producer: "Old Producer"}
	applied := svc.Apply(record, domain.FieldMap{})

	assert.Empty(t, applied)
	assert.Equal(t, "Old Producer", record.Producer)
}

func TestApply_SkipsMistypedValues(t *testing.T) {
	svc := service.NewExtractService(new(mocks.MockOCRBackend))

	record := &domain.Certificate{UmbrellaLimit: 42}
	applied := svc.Apply(record, domain.FieldMap{
		domain.FieldUmbrellaLimit: "not a number",
		domain.FieldProducer:      "ACME",
	})

	assert.Equal(t, []domain.Field{domain.FieldProducer}, applied)
	assert.Equal(t, 42.0, record.UmbrellaLimit)
}
