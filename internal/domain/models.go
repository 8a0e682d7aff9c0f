package domain

import "github.com/google/uuid"

// FieldMap holds extracted field values keyed by field name. Only fields the
// pipeline actually resolved are present; values are string (names, dates) or
// float64 (liability limits).
type FieldMap map[Field]any

// Clone returns a shallow copy of the map.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RawPayload is the backend-specific diagnostic payload attached to every
// result. It exists for audit and debugging by the caller and is never
// re-parsed by the pipeline.
type RawPayload struct {
	RequestID uuid.UUID `json:"request_id"`
	Engine    string    `json:"engine"`
	Bucket    string    `json:"bucket,omitempty"`
	Key       string    `json:"key,omitempty"`
	Pages     int       `json:"pages"`
	FullText  string    `json:"full_text"`
}

// OCRResult is the output of one extraction call.
//
// Confidence is a completeness proxy over the eight scorable fields, not a
// statistical accuracy estimate: callers choosing acceptance thresholds
// should treat it as "how much of the form was found".
type OCRResult struct {
	Fields     FieldMap   `json:"fields"`
	Confidence float64    `json:"confidence"`
	Raw        RawPayload `json:"raw"`
}

// Certificate is the caller-owned record that extracted fields can be
// applied onto. Persistence of the record is the caller's responsibility.
type Certificate struct {
	ID                uuid.UUID `json:"id"`
	InsuredName       string    `json:"insured_name"`
	Producer          string    `json:"producer"`
	EffectiveDate     string    `json:"effective_date"`
	ExpirationDate    string    `json:"expiration_date"`
	GeneralLiabLimit  float64   `json:"general_liab_limit"`
	AutoLiabLimit     float64   `json:"auto_liab_limit"`
	UmbrellaLimit     float64   `json:"umbrella_limit"`
	CertificateHolder string    `json:"certificate_holder"`
}
