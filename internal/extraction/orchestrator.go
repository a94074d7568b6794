// Package extraction turns an uploaded statement into a validated, normalized
// ledger plus account metadata.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"fjacquet/statement-parser/internal/interpreter"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"
	"fjacquet/statement-parser/internal/schema"

	"github.com/google/uuid"
)

// Accepted document MIME types.
const (
	MIMETypePDF = "application/pdf"
	MIMETypeCSV = "text/csv"
)

// SignPolicy decides how amount signs reported by the service are trusted.
type SignPolicy string

const (
	// SignAsIs keeps amounts exactly as reported.
	SignAsIs SignPolicy = "as_is"
	// SignIndicator asks for a debit/credit indicator and forces the sign from it.
	SignIndicator SignPolicy = "indicator"
	// SignInvert negates every amount, for card statements printing charges as positive.
	SignInvert SignPolicy = "invert"
)

// ParseSignPolicy validates a configured policy name. An empty name is SignAsIs.
func ParseSignPolicy(name string) (SignPolicy, error) {
	switch p := SignPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return SignAsIs, nil
	case SignAsIs, SignIndicator, SignInvert:
		return p, nil
	}
	return "", fmt.Errorf("unknown sign policy %q (expected as_is, indicator or invert)", name)
}

// Options tunes an Orchestrator.
type Options struct {
	SignPolicy SignPolicy
	// RejectEmpty turns a result with no transactions and no metadata into an
	// EmptyResult error instead of returning it.
	RejectEmpty bool
	// MaxDocumentBytes rejects larger documents locally; 0 disables the check.
	MaxDocumentBytes int64
}

// Orchestrator runs statement extraction against a DocumentInterpreter.
type Orchestrator struct {
	interpreter interpreter.DocumentInterpreter
	logger      logging.Logger
	opts        Options
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(interp interpreter.DocumentInterpreter, logger logging.Logger, opts Options) *Orchestrator {
	if opts.SignPolicy == "" {
		opts.SignPolicy = SignAsIs
	}
	return &Orchestrator{
		interpreter: interp,
		logger:      logger,
		opts:        opts,
	}
}

// Extract interprets one statement document. Local input problems are reported
// as *pipelineerror.InvalidInputError without contacting the service; service
// and payload failures as *pipelineerror.ExtractionError. Each call issues at
// most one request and nothing is cached.
func (o *Orchestrator) Extract(ctx context.Context, document []byte, mimeType string) (models.ExtractionResult, error) {
	mediaType, err := AcceptedMIMEType(mimeType)
	if err != nil {
		return models.ExtractionResult{}, err
	}
	if len(document) == 0 {
		return models.ExtractionResult{}, &pipelineerror.InvalidInputError{Field: "document", Reason: "document is empty"}
	}
	if o.opts.MaxDocumentBytes > 0 && int64(len(document)) > o.opts.MaxDocumentBytes {
		return models.ExtractionResult{}, &pipelineerror.InvalidInputError{
			Field:  "document",
			Reason: fmt.Sprintf("document is %d bytes, limit is %d", len(document), o.opts.MaxDocumentBytes),
		}
	}

	logger := o.logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: uuid.NewString()},
		logging.Field{Key: logging.FieldMIMEType, Value: mediaType},
		logging.Field{Key: logging.FieldSize, Value: len(document)},
	)
	logger.Debug("Starting statement extraction")

	raw, err := o.interpreter.InterpretStatement(ctx, interpreter.StatementRequest{
		DocumentDataURI:  interpreter.EncodeDataURI(mediaType, document),
		RequestDirection: o.opts.SignPolicy == SignIndicator,
	})
	if err != nil {
		logger.WithError(err).Warn("Interpretation service call failed")
		return models.ExtractionResult{}, classifyServiceError(err)
	}

	validated, err := schema.ValidateExtraction(raw)
	if err != nil {
		logger.WithError(err).Warn("Interpretation service returned an invalid payload")
		return models.ExtractionResult{}, &pipelineerror.ExtractionError{Kind: pipelineerror.KindMalformedResponse, Err: err}
	}
	for _, dropped := range validated.Dropped {
		logger.WithFields(
			logging.Field{Key: logging.FieldPath, Value: dropped.Path},
			logging.Field{Key: logging.FieldReason, Value: dropped.Reason},
		).Warn("Dropped invalid optional field")
	}

	result := validated.Result
	applySignPolicy(result.Transactions, validated.Directions, o.opts.SignPolicy)

	if result.IsEmpty() {
		if o.opts.RejectEmpty {
			logger.Warn("Statement produced no transactions and no metadata")
			return models.ExtractionResult{}, &pipelineerror.ExtractionError{
				Kind: pipelineerror.KindEmptyResult,
				Err:  errors.New("no transactions or metadata found in the statement"),
			}
		}
		logger.Warn("Statement produced no transactions and no metadata; returning empty result")
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
	).Info("Statement extracted")
	return result, nil
}

// AcceptedMIMEType normalizes mimeType, ignoring parameters such as charset,
// and rejects anything other than PDF or CSV.
func AcceptedMIMEType(mimeType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}
	switch mediaType {
	case MIMETypePDF, MIMETypeCSV:
		return mediaType, nil
	}
	return "", &pipelineerror.InvalidInputError{
		Field:  "mimeType",
		Reason: fmt.Sprintf("unsupported document type %q; expected %s or %s", mimeType, MIMETypePDF, MIMETypeCSV),
	}
}

func classifyServiceError(err error) error {
	switch {
	case errors.Is(err, interpreter.ErrUnsupportedDocument):
		return &pipelineerror.InvalidInputError{Field: "document", Reason: err.Error()}
	case errors.Is(err, interpreter.ErrMalformedOutput):
		return &pipelineerror.ExtractionError{Kind: pipelineerror.KindMalformedResponse, Err: err}
	default:
		return &pipelineerror.ExtractionError{Kind: pipelineerror.KindServiceUnavailable, Err: err}
	}
}

func applySignPolicy(transactions []models.Transaction, directions []string, policy SignPolicy) {
	for i := range transactions {
		amount := transactions[i].Amount
		switch policy {
		case SignInvert:
			transactions[i].Amount = amount.Neg()
		case SignIndicator:
			if i >= len(directions) {
				continue
			}
			switch directions[i] {
			case models.DirectionDebit:
				transactions[i].Amount = amount.Abs().Neg()
			case models.DirectionCredit:
				transactions[i].Amount = amount.Abs()
			}
		}
	}
}
