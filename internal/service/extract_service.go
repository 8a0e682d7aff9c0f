package service

import (
	"context"
	"fmt"
	"log"

	"coiscan/internal/domain"
	"coiscan/internal/port"
)

// ExtractInput is the DTO for one extraction request: inline bytes or a
// storage reference.
type ExtractInput struct {
	Bytes    []byte
	Filename string
	Bucket   string
	Key      string
}

// ExtractService drives the extraction pipeline and applies results onto
// caller-owned records. Each call is independent and stateless; the backend
// is fixed at construction.
type ExtractService interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.OCRResult, error)
	Apply(record *domain.Certificate, fields domain.FieldMap) []domain.Field
}

type extractService struct {
	backend port.OCRBackend
}

// NewExtractService creates a new ExtractService around the given backend.
func NewExtractService(backend port.OCRBackend) ExtractService {
	return &extractService{backend: backend}
}

func (s *extractService) Extract(ctx context.Context, input ExtractInput) (*domain.OCRResult, error) {
	acquire := port.AcquireInput{
		Bytes:    input.Bytes,
		Filename: input.Filename,
		Bucket:   input.Bucket,
		Key:      input.Key,
	}
	if !acquire.HasBytes() && !acquire.HasReference() {
		return nil, domain.ErrMissingReference
	}

	res, err := s.backend.Acquire(ctx, acquire)
	if err != nil {
		return nil, fmt.Errorf("acquiring document text: %w", err)
	}

	log.Printf("service.ExtractService: extracted %d fields (engine=%s pages=%d confidence=%.2f request=%s)",
		len(res.Fields), res.Raw.Engine, res.Raw.Pages, res.Confidence, res.Raw.RequestID)
	return res, nil
}

// Apply overwrites only the record fields whose keys are present in the map;
// absent keys are left untouched. Returns the applied keys in canonical field
// order.
func (s *extractService) Apply(record *domain.Certificate, fields domain.FieldMap) []domain.Field {
	var applied []domain.Field
	for _, f := range domain.AllFields {
		v, ok := fields[f]
		if !ok {
			continue
		}
		if applyField(record, f, v) {
			applied = append(applied, f)
		}
	}
	return applied
}

func applyField(record *domain.Certificate, field domain.Field, v any) bool {
	switch field {
	case domain.FieldInsuredName:
		return applyString(&record.InsuredName, v)
	case domain.FieldProducer:
		return applyString(&record.Producer, v)
	case domain.FieldEffectiveDate:
		return applyString(&record.EffectiveDate, v)
	case domain.FieldExpirationDate:
		return applyString(&record.ExpirationDate, v)
	case domain.FieldCertificateHolder:
		return applyString(&record.CertificateHolder, v)
	case domain.FieldGeneralLiabLimit:
		return applyFloat(&record.GeneralLiabLimit, v)
	case domain.FieldAutoLiabLimit:
		return applyFloat(&record.AutoLiabLimit, v)
	case domain.FieldUmbrellaLimit:
		return applyFloat(&record.UmbrellaLimit, v)
	}
	return false
}

func applyString(dst *string, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	*dst = s
	return true
}

func applyFloat(dst *float64, v any) bool {
	switch n := v.(type) {
	case float64:
		*dst = n
	case int:
		*dst = float64(n)
	default:
		return false
	}
	return true
}
