// Package textract implements the cloud document-analysis acquisition
// strategy on AWS Textract form analysis.
package textract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/google/uuid"

	"coiscan/internal/acord"
	"coiscan/internal/backend"
	"coiscan/internal/config"
	"coiscan/internal/domain"
	"coiscan/internal/port"
)

func init() {
	backend.Register(domain.EngineTextract, func(cfg *config.Config, _ port.ObjectStorage) (port.OCRBackend, error) {
		return New(cfg)
	})
}

// analyzeAPI is the slice of the Textract client this backend uses; tests
// substitute a stub.
type analyzeAPI interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

// Backend implements port.OCRBackend against the Textract AnalyzeDocument
// API with the FORMS feature. Limits come from generic regex scans over the
// concatenated line text; producer and insured name are recovered from the
// detected key/value pairs when form detection succeeds. The client handle is
// created once and is safe for concurrent use.
type Backend struct {
	client analyzeAPI
	table  config.TableConfig
}

// New creates a Textract-backed acquisition strategy.
func New(cfg *config.Config) (*Backend, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.AWS.Region))

	if cfg.AWS.AccessKey != "" && cfg.AWS.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKey, cfg.AWS.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &Backend{
		client: textract.NewFromConfig(awsCfg),
		table:  cfg.Table,
	}, nil
}

// NewWithClient creates a backend around an existing client (for tests).
func NewWithClient(client analyzeAPI, table config.TableConfig) *Backend {
	return &Backend{client: client, table: table}
}

var moneyRE = regexp.MustCompile(`\$?\s?([0-9]{1,3}(?:,[0-9]{3})*|\d+)(?:\.\d{2})?`)

func (b *Backend) Acquire(ctx context.Context, input port.AcquireInput) (*domain.OCRResult, error) {
	doc, err := buildDocument(input)
	if err != nil {
		return nil, err
	}

	res, err := b.client.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
		Document:     doc,
		FeatureTypes: []types.FeatureType{types.FeatureTypeForms},
	})
	if err != nil {
		return nil, fmt.Errorf("textract analyze: %w", err)
	}

	var lines []string
	pages := 0
	byID := make(map[string]types.Block, len(res.Blocks))
	for _, block := range res.Blocks {
		if block.Id != nil {
			byID[*block.Id] = block
		}
		switch block.BlockType {
		case types.BlockTypeLine:
			if block.Text != nil {
				lines = append(lines, *block.Text)
			}
		case types.BlockTypePage:
			pages++
		}
	}
	fullText := strings.Join(lines, "\n")
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("textract returned no line blocks: %w", domain.ErrNoExtractableText)
	}

	fields := make(domain.FieldMap)

	// Key/value pairs recover producer and insured name when form detection
	// worked; everything else comes from the plain text scans below.
	producer, insured := keyValueFields(res.Blocks, byID)
	if producer != "" {
		fields[domain.FieldProducer] = producer
	}
	if insured != "" {
		fields[domain.FieldInsuredName] = insured
	}

	dates := acord.FindDates(fullText)
	if len(dates) > 0 {
		fields[domain.FieldEffectiveDate] = dates[0]
	}
	if len(dates) > 1 {
		fields[domain.FieldExpirationDate] = dates[1]
	}

	// Crude by design: without column reasoning the first three plausible
	// amounts stand in for the three limits.
	amounts := plausibleAmounts(fullText, b.table.MinPlausibleAmount)
	limitOrder := []domain.Field{domain.FieldGeneralLiabLimit, domain.FieldAutoLiabLimit, domain.FieldUmbrellaLimit}
	for i, f := range limitOrder {
		if i < len(amounts) {
			fields[f] = amounts[i]
		}
	}

	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), "certificate holder") {
			fields[domain.FieldCertificateHolder] = normalize(l)
			break
		}
	}

	return &domain.OCRResult{
		Fields:     fields,
		Confidence: acord.Confidence(fields),
		Raw: domain.RawPayload{
			RequestID: uuid.New(),
			Engine:    domain.EngineTextract,
			Bucket:    input.Bucket,
			Key:       input.Key,
			Pages:     pages,
			FullText:  fullText,
		},
	}, nil
}

func buildDocument(input port.AcquireInput) (*types.Document, error) {
	switch {
	case input.HasReference():
		return &types.Document{
			S3Object: &types.S3Object{
				Bucket: aws.String(input.Bucket),
				Name:   aws.String(input.Key),
			},
		}, nil
	case input.HasBytes():
		return &types.Document{Bytes: input.Bytes}, nil
	default:
		return nil, domain.ErrMissingReference
	}
}

func plausibleAmounts(text string, minAmount float64) []float64 {
	var out []float64
	for _, m := range moneyRE.FindAllString(text, -1) {
		if v, ok := acord.ParseMoney(m); ok && v >= minAmount {
			out = append(out, v)
		}
	}
	return out
}

// keyValueFields walks KEY blocks to their VALUE blocks through relationship
// links, picking out the producer and insured entries.
func keyValueFields(blocks []types.Block, byID map[string]types.Block) (producer, insured string) {
	for _, block := range blocks {
		if block.BlockType != types.BlockTypeKeyValueSet || !hasEntityType(block, types.EntityTypeKey) {
			continue
		}
		keyText := strings.ToLower(blockText(block, byID))
		if keyText == "" {
			continue
		}

		var valText string
		for _, rel := range block.Relationships {
			if rel.Type != types.RelationshipTypeValue {
				continue
			}
			var parts []string
			for _, id := range rel.Ids {
				if vb, ok := byID[id]; ok {
					if t := blockText(vb, byID); t != "" {
						parts = append(parts, t)
					}
				}
			}
			valText = strings.Join(parts, " ")
		}
		if valText == "" {
			continue
		}

		if strings.Contains(keyText, "producer") {
			producer = normalize(valText)
		}
		if strings.Contains(keyText, "insured") {
			insured = normalize(valText)
		}
	}
	return producer, insured
}

// blockText reconstructs a block's text from its own Text or its WORD children.
func blockText(block types.Block, byID map[string]types.Block) string {
	if block.Text != nil {
		return *block.Text
	}
	var b strings.Builder
	for _, rel := range block.Relationships {
		if rel.Type != types.RelationshipTypeChild {
			continue
		}
		for _, id := range rel.Ids {
			child, ok := byID[id]
			if !ok {
				continue
			}
			if child.BlockType == types.BlockTypeWord && child.Text != nil {
				b.WriteString(*child.Text)
				b.WriteString(" ")
			}
		}
	}
	return normalize(b.String())
}

func hasEntityType(block types.Block, et types.EntityType) bool {
	for _, t := range block.EntityTypes {
		if t == et {
			return true
		}
	}
	return false
}

var spaceRE = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}
