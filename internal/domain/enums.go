package domain

// Field identifies one of the extractable certificate fields.
type Field string

const (
	FieldInsuredName       Field = "insuredName"
	FieldProducer          Field = "producer"
	FieldEffectiveDate     Field = "effectiveDate"
	FieldExpirationDate    Field = "expirationDate"
	FieldGeneralLiabLimit  Field = "generalLiabLimit"
	FieldAutoLiabLimit     Field = "autoLiabLimit"
	FieldUmbrellaLimit     Field = "umbrellaLimit"
	FieldCertificateHolder Field = "certificateHolder"
)

// AllFields lists every extractable field in canonical order.
var AllFields = []Field{
	FieldInsuredName,
	FieldProducer,
	FieldEffectiveDate,
	FieldExpirationDate,
	FieldGeneralLiabLimit,
	FieldAutoLiabLimit,
	FieldUmbrellaLimit,
	FieldCertificateHolder,
}

// SectionID identifies one of the liability sections of an ACORD 25 form.
type SectionID string

const (
	SectionGeneral  SectionID = "general"
	SectionAuto     SectionID = "auto"
	SectionUmbrella SectionID = "umbrella"
)

// OCR engine names accepted by the backend factory.
const (
	EngineTextract  = "textract"
	EngineTesseract = "tesseract"
)
