package credit

import (
	"github.com/creditmeter/fico-scoring/internal/errors"
)

// Inputs carries the five ordered feature vectors in the model's input
// slot order. The slot order is as load-bearing as field order within
// each vector.
type Inputs struct {
	PaymentHistory []float64
	AmountsOwed    []float64
	HistoryLength  []float64
	NewCredit      []float64
	CreditMix      []float64
}

// Scorer maps the five feature vectors to a raw model output. The
// pipeline owns truncation to an integer score; implementations must be
// safe for concurrent use.
type Scorer interface {
	Score(in Inputs) (float64, error)
}

// Record aggregates the five validated category records for one request.
// It starts in the assembled state; Derive moves it to the derived state,
// and only then can feature vectors be read.
type Record struct {
	PaymentHistory *PaymentHistory
	AmountsOwed    *AmountsOwed
	HistoryLength  *HistoryLength
	NewCredit      *NewCredit
	CreditMix      *CreditMix

	derived bool
}

// Derive computes the two cross-category flags: a revolving tradeline
// counts as new when the oldest revolving account is at most a year old,
// and revolving utilization is absent when the revolving balance rounds
// to nothing. Both flags live on a different category than the fields
// they read, so this step can only run once all five records exist.
// Re-running is idempotent.
func (r *Record) Derive() {
	r.NewCredit.setHasNewRevolver(r.HistoryLength.MoSinOldRevTlOp <= recentActivityMonths)
	r.CreditMix.setNoRevolUtil(r.AmountsOwed.RevolBal < 1)
	r.derived = true
}

// Derived reports whether the cross-category derivation step has run.
func (r *Record) Derived() bool { return r.derived }

// Vectors assembles the five feature vectors in model slot order.
// Calling it before Derive is a programming error and surfaces as an
// internal invariant violation, never as a validation failure.
func (r *Record) Vectors() (Inputs, error) {
	if !r.derived {
		return Inputs{}, errors.NewInvariantError(
			"feature vectors requested before cross-category derivation", nil)
	}

	ph, err := r.PaymentHistory.Vector()
	if err != nil {
		return Inputs{}, err
	}
	ao, err := r.AmountsOwed.Vector()
	if err != nil {
		return Inputs{}, err
	}
	hl, err := r.HistoryLength.Vector()
	if err != nil {
		return Inputs{}, err
	}
	nc, err := r.NewCredit.Vector()
	if err != nil {
		return Inputs{}, err
	}
	cm, err := r.CreditMix.Vector()
	if err != nil {
		return Inputs{}, err
	}

	return Inputs{
		PaymentHistory: ph,
		AmountsOwed:    ao,
		HistoryLength:  hl,
		NewCredit:      nc,
		CreditMix:      cm,
	}, nil
}

// Score runs the scorer over the assembled vectors and truncates the raw
// model output to an integer score. The fractional part is discarded,
// not rounded. A structurally valid record is not expected to fail here;
// any scorer error is an invariant violation.
func (r *Record) Score(s Scorer) (int, error) {
	in, err := r.Vectors()
	if err != nil {
		return 0, err
	}
	out, err := s.Score(in)
	if err != nil {
		return 0, errors.NewInvariantError("model scoring failed", err)
	}
	return int(out), nil
}
