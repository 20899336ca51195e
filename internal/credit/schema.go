package credit

import (
	"fmt"
	"math"
)

// Months-since sentinels. A counter sitting at its sentinel means the
// event never happened; zero would mean "one month ago", which is the
// opposite signal.
const (
	neverDelinqMonths      = 226
	neverRecordMonths      = 124
	neverMajorDerogMonths  = 226
	neverBCDelinqMonths    = 195
	neverRevolDelinqMonths = 176

	oldestILAcctMonths = 724
	oldestRevTLMonths  = 851
	recentILMonths     = 507
	recentRevTLMonths  = 502
	recentTLMonths     = 368
	recentBCMonths     = 195
	recentInqMonths    = 25

	// Short horizon for the has_recent_* family, which flags activity
	// inside the window rather than absence of activity.
	recentActivityMonths = 12

	matureAgeMonths     = 36
	thickFileTradelines = 4
)

// NoMax marks a field with no declared upper bound.
const NoMax = math.MaxFloat64

// FieldSpec declares one raw field of a category: its internal name, its
// caller-facing wire name, whether it must be present, the value
// substituted when it is absent, and its closed numeric domain.
type FieldSpec struct {
	Name     string
	Wire     string
	Required bool
	Default  float64
	Min      float64
	Max      float64
}

// CategorySpec declares a category's wire name, its raw fields in the
// exact order the scoring model was trained on, and the derived property
// names appended after them.
type CategorySpec struct {
	Name    string
	Wire    string
	Fields  []FieldSpec
	Derived []string
}

// VectorLen is the fixed feature-vector length for the category: raw
// fields plus derived properties.
func (s CategorySpec) VectorLen() int {
	return len(s.Fields) + len(s.Derived)
}

func field(name string, required bool, def, min, max float64) FieldSpec {
	return FieldSpec{Name: name, Wire: name, Required: required, Default: def, Min: min, Max: max}
}

func optional(name string, def float64) FieldSpec {
	return field(name, false, def, 0, NoMax)
}

func required(name string) FieldSpec {
	return field(name, true, 0, 0, NoMax)
}

var PaymentHistorySpec = CategorySpec{
	Name: "payment_history",
	Wire: "paymentHistory",
	Fields: []FieldSpec{
		optional("delinq_2yrs", 0),
		field("mths_since_last_delinq", false, neverDelinqMonths, 0, neverDelinqMonths),
		field("mths_since_last_record", false, neverRecordMonths, 0, neverRecordMonths),
		required("open_acc"),
		optional("pub_rec", 0),
		optional("collections_12_mths_ex_med", 0),
		field("mths_since_last_major_derog", false, neverMajorDerogMonths, 0, neverMajorDerogMonths),
		optional("acc_now_delinq", 0),
		optional("tot_coll_amt", 0),
		optional("chargeoff_within_12_mths", 0),
		optional("delinq_amnt", 0),
		optional("mths_since_recent_bc_dlq", neverBCDelinqMonths),
		optional("mths_since_recent_revol_delinq", neverRevolDelinqMonths),
		optional("num_accts_ever_120_pd", 0),
		optional("num_actv_bc_tl", 0),
		optional("num_actv_rev_tl", 0),
		optional("num_rev_tl_bal_gt_0", 0),
		required("num_sats"),
		optional("num_tl_120dpd_2m", 0),
		optional("num_tl_30dpd", 0),
		optional("num_tl_90g_dpd_24m", 0),
		optional("num_tl_op_past_12m", 0),
		field("pct_tl_nvr_dlq", true, 0, 0, 100),
		field("percent_bc_gt_75", true, 0, 0, 100),
		optional("pub_rec_bankruptcies", 0),
		optional("tax_liens", 0),
	},
	Derived: []string{
		"never_major_derog",
		"never_record",
		"never_delinq",
		"never_recent_revol_delinq",
		"never_recent_bc_delinq",
		"is_clean",
		"has_recent_pr",
		"has_recent_delinq",
	},
}

var AmountsOwedSpec = CategorySpec{
	Name: "amounts_owed",
	Wire: "amountsOwed",
	Fields: []FieldSpec{
		optional("revol_bal", 0),
		optional("revol_util", 0),
		required("tot_cur_bal"),
		optional("total_bal_il", 0),
		optional("il_util", 0),
		optional("max_bal_bc", 0),
		required("all_util"),
		optional("total_rev_hi_lim", 0),
		required("avg_cur_bal"),
		optional("bc_open_to_buy", 0),
		optional("bc_util", 0),
		optional("tot_hi_cred_lim", 0),
		required("total_bal_ex_mort"),
		optional("total_bc_limit", 0),
		optional("total_il_high_credit_limit", 0),
	},
}

var HistoryLengthSpec = CategorySpec{
	Name: "history_length",
	Wire: "historyLength",
	Fields: []FieldSpec{
		field("mo_sin_old_il_acct", false, oldestILAcctMonths, 0, oldestILAcctMonths),
		field("mo_sin_old_rev_tl_op", false, oldestRevTLMonths, 0, oldestRevTLMonths),
		field("age_earliest_cr_line", true, 0, 0, 890),
	},
	Derived: []string{"is_mature"},
}

var NewCreditSpec = CategorySpec{
	Name: "new_credit",
	Wire: "newCredit",
	Fields: []FieldSpec{
		optional("inq_last_6mths", 0),
		optional("open_acc_6m", 0),
		optional("open_il_12m", 0),
		optional("open_il_24m", 0),
		field("mths_since_rcnt_il", false, recentILMonths, 0, recentILMonths),
		optional("open_rv_12m", 0),
		optional("open_rv_24m", 0),
		optional("inq_fi", 0),
		optional("inq_last_12m", 0),
		optional("acc_open_past_24mths", 0),
		field("mo_sin_rcnt_rev_tl_op", false, recentRevTLMonths, 0, recentRevTLMonths),
		field("mo_sin_rcnt_tl", false, recentTLMonths, 0, recentTLMonths),
		field("mths_since_recent_bc", false, recentBCMonths, 0, recentBCMonths),
		field("mths_since_recent_inq", false, recentInqMonths, 0, recentInqMonths),
	},
	Derived: []string{"has_new_revolver"},
}

var CreditMixSpec = CategorySpec{
	Name: "credit_mix",
	Wire: "creditMix",
	Fields: []FieldSpec{
		optional("open_act_il", 0),
		optional("total_cu_tl", 0),
		optional("mort_acc", 0),
		required("num_bc_sats"),
		optional("num_bc_tl", 0),
		optional("num_il_tl", 0),
		optional("num_op_rev_tl", 0),
		optional("num_rev_accts", 0),
		optional("num_tradelines", 0),
	},
	Derived: []string{"is_thick", "no_revol_util"},
}

// Categories lists the five specs in the order the model expects its
// input slots. The order here is as load-bearing as field order within
// each category.
var Categories = [5]CategorySpec{
	PaymentHistorySpec,
	AmountsOwedSpec,
	HistoryLengthSpec,
	NewCreditSpec,
	CreditMixSpec,
}

// VectorLens returns the fixed per-category vector lengths in category
// order.
func VectorLens() [5]int {
	var lens [5]int
	for i, s := range Categories {
		lens[i] = s.VectorLen()
	}
	return lens
}

// ValidateSchema checks the declared specs for internal consistency: the
// wire-name table must be complete and bidirectional (every internal name
// has exactly one wire name and vice versa), category wire names must be
// unique, and ranges must be sane. Run once at startup; a failure here is
// a build defect, not an input problem.
func ValidateSchema() error {
	catWire := make(map[string]string, len(Categories))
	for _, s := range Categories {
		if prev, ok := catWire[s.Wire]; ok {
			return fmt.Errorf("wire name %q claimed by both %q and %q", s.Wire, prev, s.Name)
		}
		catWire[s.Wire] = s.Name

		if err := s.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s CategorySpec) validate() error {
	if s.Name == "" || s.Wire == "" {
		return fmt.Errorf("category %q: missing name or wire name", s.Name)
	}

	names := make(map[string]bool, len(s.Fields))
	wires := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" || f.Wire == "" {
			return fmt.Errorf("%s: field %q: missing name or wire name", s.Name, f.Name)
		}
		if names[f.Name] {
			return fmt.Errorf("%s: duplicate field %q", s.Name, f.Name)
		}
		names[f.Name] = true
		if prev, ok := wires[f.Wire]; ok {
			return fmt.Errorf("%s: wire name %q claimed by both %q and %q", s.Name, f.Wire, prev, f.Name)
		}
		wires[f.Wire] = f.Name
		if f.Min > f.Max {
			return fmt.Errorf("%s.%s: min %v exceeds max %v", s.Name, f.Name, f.Min, f.Max)
		}
		if !f.Required && (f.Default < f.Min || f.Default > f.Max) {
			return fmt.Errorf("%s.%s: default %v outside [%v, %v]", s.Name, f.Name, f.Default, f.Min, f.Max)
		}
	}
	for _, d := range s.Derived {
		if names[d] {
			return fmt.Errorf("%s: derived property %q collides with a raw field", s.Name, d)
		}
	}
	return nil
}
