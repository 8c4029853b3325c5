package domain

// OutcomeStatus classifies a best-effort side effect.
type OutcomeStatus string

const (
	OutcomeOK       OutcomeStatus = "ok"
	OutcomeSkipped  OutcomeStatus = "skipped"
	OutcomeDegraded OutcomeStatus = "degraded"
)

// Outcome is the result of a side effect that never fails the main operation.
type Outcome struct {
	Status OutcomeStatus
	Reason string
}

func OK() Outcome { return Outcome{Status: OutcomeOK} }

func Skipped(reason string) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason}
}

func Degraded(reason string, err error) Outcome {
	if err != nil {
		reason = reason + ": " + err.Error()
	}
	return Outcome{Status: OutcomeDegraded, Reason: reason}
}
