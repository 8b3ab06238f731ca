package usecase

import "github.com/rsmt/agentgate/internal/domain"

// ValidateCorrelationFields checks that data carries every required
// correlation field, in the fixed documented order, and short-circuits on
// the first missing one. It is pure: no logging, no network, no state.
//
// The returned *domain.MissingFieldError embeds the field name literally;
// callers pattern-match on it, so the message is part of the wire contract.
func ValidateCorrelationFields(data map[string]interface{}) error {
	for _, field := range domain.CorrelationFields {
		if _, ok := data[field]; !ok {
			return &domain.MissingFieldError{Field: field}
		}
	}
	return nil
}
