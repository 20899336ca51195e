package credit

import (
	"bytes"
	"encoding/json"

	"github.com/creditmeter/fico-scoring/internal/errors"
)

// ParseRecord validates a raw nested payload into a Record. The payload
// uses caller-facing wire names: five camelCase category keys, each an
// object of snake_case fields. Field failures across all categories are
// merged into one report keyed "<category>.<field>" so the caller can fix
// everything in a single round-trip. The returned Record has not been
// derived yet.
func ParseRecord(data []byte) (*Record, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.NewMalformedInputError("request body is not a valid JSON object", err)
	}

	merged := map[string]string{}
	blocks := make(map[string]map[string]any, len(Categories))

	for _, spec := range Categories {
		raw, ok := payload[spec.Wire]
		if !ok {
			merged[spec.Wire] = "missing required category"
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var block map[string]any
		if err := dec.Decode(&block); err != nil {
			merged[spec.Wire] = "must be an object"
			continue
		}
		blocks[spec.Wire] = block
	}

	for key := range payload {
		if _, ok := blocks[key]; !ok {
			if _, reported := merged[key]; !reported {
				merged[key] = "unknown category"
			}
		}
	}

	rec := &Record{}
	validate := func(spec CategorySpec, ferrs FieldErrors) {
		for f, msg := range ferrs {
			merged[spec.Wire+"."+f] = msg
		}
	}

	if block, ok := blocks[PaymentHistorySpec.Wire]; ok {
		var ferrs FieldErrors
		rec.PaymentHistory, ferrs = ValidatePaymentHistory(block)
		validate(PaymentHistorySpec, ferrs)
	}
	if block, ok := blocks[AmountsOwedSpec.Wire]; ok {
		var ferrs FieldErrors
		rec.AmountsOwed, ferrs = ValidateAmountsOwed(block)
		validate(AmountsOwedSpec, ferrs)
	}
	if block, ok := blocks[HistoryLengthSpec.Wire]; ok {
		var ferrs FieldErrors
		rec.HistoryLength, ferrs = ValidateHistoryLength(block)
		validate(HistoryLengthSpec, ferrs)
	}
	if block, ok := blocks[NewCreditSpec.Wire]; ok {
		var ferrs FieldErrors
		rec.NewCredit, ferrs = ValidateNewCredit(block)
		validate(NewCreditSpec, ferrs)
	}
	if block, ok := blocks[CreditMixSpec.Wire]; ok {
		var ferrs FieldErrors
		rec.CreditMix, ferrs = ValidateCreditMix(block)
		validate(CreditMixSpec, ferrs)
	}

	if len(merged) > 0 {
		return nil, errors.NewValidationErrorWithMap(merged)
	}
	return rec, nil
}
