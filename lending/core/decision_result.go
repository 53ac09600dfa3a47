package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// DecisionResult should only be constructed using the provided factory methods:
// SuccessDecision(), IdempotentDecision(), or RejectedDecision(err).
type DecisionResult struct {
	Outcome string // "success", "idempotent", or "rejected"
	Err     error
}

const (
	successOutcome    = "success"
	idempotentOutcome = "idempotent"
	rejectedOutcome   = "rejected"
)

// SuccessDecision creates a DecisionResult indicating that the state change should be written.
func SuccessDecision() DecisionResult {
	return DecisionResult{Outcome: successOutcome}
}

// IdempotentDecision creates a DecisionResult indicating that the desired state already holds.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// RejectedDecision creates a DecisionResult indicating a business rule violation.
func RejectedDecision(err error) DecisionResult {
	return DecisionResult{Outcome: rejectedOutcome, Err: err}
}

// HasStateChange returns true if the handler has to write something.
func (r DecisionResult) HasStateChange() bool {
	return r.Outcome == successOutcome
}

// IsIdempotent returns true if nothing needs to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the rejection if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == rejectedOutcome {
		return r.Err
	}

	return nil
}
