package acord

import "coiscan/internal/domain"

// Fallback chains for the per-section liability limits: the first resolved
// column in the chain wins.
var limitChains = []struct {
	field   domain.Field
	section domain.SectionID
	columns []string
}{
	{domain.FieldGeneralLiabLimit, domain.SectionGeneral, []string{"eachOccurrence", "generalAggregate", "productsCompOpAgg"}},
	{domain.FieldAutoLiabLimit, domain.SectionAuto, []string{"autoCombinedSingleLimit", "eachAccident"}},
	{domain.FieldUmbrellaLimit, domain.SectionUmbrella, []string{"umbrellaEachOccurrence", "umbrellaAggregate"}},
}

// Assemble merges section-table limits and label-extracted scalars into one
// field map. Absent fields stay absent; nothing is ever set to an empty value.
func Assemble(sections SectionLimits, labels LabelFields) domain.FieldMap {
	fields := make(domain.FieldMap)

	for _, chain := range limitChains {
		cols := sections[chain.section]
		for _, col := range chain.columns {
			if v, ok := cols[col]; ok {
				fields[chain.field] = v
				break
			}
		}
	}

	setIfPresent(fields, domain.FieldInsuredName, labels.InsuredName)
	setIfPresent(fields, domain.FieldProducer, labels.Producer)
	setIfPresent(fields, domain.FieldEffectiveDate, labels.EffectiveDate)
	setIfPresent(fields, domain.FieldExpirationDate, labels.ExpirationDate)
	setIfPresent(fields, domain.FieldCertificateHolder, labels.CertificateHolder)

	return fields
}

func setIfPresent(fields domain.FieldMap, key domain.Field, val string) {
	if val != "" {
		fields[key] = val
	}
}

var baseFields = []domain.Field{
	domain.FieldInsuredName,
	domain.FieldProducer,
	domain.FieldEffectiveDate,
	domain.FieldExpirationDate,
	domain.FieldCertificateHolder,
}

var limitFields = []domain.Field{
	domain.FieldGeneralLiabLimit,
	domain.FieldAutoLiabLimit,
	domain.FieldUmbrellaLimit,
}

// Confidence scores field completeness: present base fields plus present
// limits over the total of eight, clamped to [0,1]. It is a completeness
// proxy, not an accuracy measure.
func Confidence(fields domain.FieldMap) float64 {
	score := 0
	for _, f := range baseFields {
		if _, ok := fields[f]; ok {
			score++
		}
	}
	for _, f := range limitFields {
		if _, ok := fields[f]; ok {
			score++
		}
	}
	conf := float64(score) / float64(len(baseFields)+len(limitFields))
	if conf > 1 {
		conf = 1
	}
	return conf
}
