package credit

import (
	"github.com/creditmeter/fico-scoring/internal/errors"
)

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// checkLen guards the model contract: a vector of the wrong width means
// the record and its spec have drifted apart, which is an implementation
// bug, never an input problem.
func checkLen(spec CategorySpec, v []float64) ([]float64, error) {
	if len(v) != spec.VectorLen() {
		return nil, errors.NewInvariantError(
			"feature vector length mismatch for "+spec.Name, nil)
	}
	return v, nil
}

// PaymentHistory holds the validated payment-history attributes of one
// bureau record. All fields are populated by the validator; months-since
// fields sit at their sentinel when the event never happened.
type PaymentHistory struct {
	Delinq2Yrs                 float64
	MthsSinceLastDelinq        float64
	MthsSinceLastRecord        float64
	OpenAcc                    float64
	PubRec                     float64
	Collections12MthsExMed     float64
	MthsSinceLastMajorDerog    float64
	AccNowDelinq               float64
	TotCollAmt                 float64
	ChargeoffWithin12Mths      float64
	DelinqAmnt                 float64
	MthsSinceRecentBCDlq       float64
	MthsSinceRecentRevolDelinq float64
	NumAcctsEver120Pd          float64
	NumActvBCTl                float64
	NumActvRevTl               float64
	NumRevTlBalGt0             float64
	NumSats                    float64
	NumTl120Dpd2M              float64
	NumTl30Dpd                 float64
	NumTl90GDpd24M             float64
	NumTlOpPast12M             float64
	PctTlNvrDlq                float64
	PercentBCGt75              float64
	PubRecBankruptcies         float64
	TaxLiens                   float64
}

func (p *PaymentHistory) NeverMajorDerog() bool {
	return p.MthsSinceLastMajorDerog >= neverMajorDerogMonths
}

func (p *PaymentHistory) NeverRecord() bool {
	return p.MthsSinceLastRecord >= neverRecordMonths
}

func (p *PaymentHistory) NeverDelinq() bool {
	return p.MthsSinceLastDelinq >= neverDelinqMonths
}

func (p *PaymentHistory) NeverRecentRevolDelinq() bool {
	return p.MthsSinceRecentRevolDelinq >= neverRevolDelinqMonths
}

func (p *PaymentHistory) NeverRecentBCDelinq() bool {
	return p.MthsSinceRecentBCDlq >= neverBCDelinqMonths
}

// IsClean means no delinquency on file and nothing in collections.
func (p *PaymentHistory) IsClean() bool {
	return p.NeverDelinq() && p.TotCollAmt == 0
}

func (p *PaymentHistory) HasRecentPR() bool {
	return p.MthsSinceLastRecord <= recentActivityMonths
}

func (p *PaymentHistory) HasRecentDelinq() bool {
	return p.MthsSinceLastDelinq <= recentActivityMonths
}

// Fields returns the raw attributes as a name-value mapping in no
// particular order.
func (p *PaymentHistory) Fields() map[string]float64 {
	return map[string]float64{
		"delinq_2yrs":                    p.Delinq2Yrs,
		"mths_since_last_delinq":         p.MthsSinceLastDelinq,
		"mths_since_last_record":         p.MthsSinceLastRecord,
		"open_acc":                       p.OpenAcc,
		"pub_rec":                        p.PubRec,
		"collections_12_mths_ex_med":     p.Collections12MthsExMed,
		"mths_since_last_major_derog":    p.MthsSinceLastMajorDerog,
		"acc_now_delinq":                 p.AccNowDelinq,
		"tot_coll_amt":                   p.TotCollAmt,
		"chargeoff_within_12_mths":       p.ChargeoffWithin12Mths,
		"delinq_amnt":                    p.DelinqAmnt,
		"mths_since_recent_bc_dlq":       p.MthsSinceRecentBCDlq,
		"mths_since_recent_revol_delinq": p.MthsSinceRecentRevolDelinq,
		"num_accts_ever_120_pd":          p.NumAcctsEver120Pd,
		"num_actv_bc_tl":                 p.NumActvBCTl,
		"num_actv_rev_tl":                p.NumActvRevTl,
		"num_rev_tl_bal_gt_0":            p.NumRevTlBalGt0,
		"num_sats":                       p.NumSats,
		"num_tl_120dpd_2m":               p.NumTl120Dpd2M,
		"num_tl_30dpd":                   p.NumTl30Dpd,
		"num_tl_90g_dpd_24m":             p.NumTl90GDpd24M,
		"num_tl_op_past_12m":             p.NumTlOpPast12M,
		"pct_tl_nvr_dlq":                 p.PctTlNvrDlq,
		"percent_bc_gt_75":               p.PercentBCGt75,
		"pub_rec_bankruptcies":           p.PubRecBankruptcies,
		"tax_liens":                      p.TaxLiens,
	}
}

// Vector assembles the payment-history feature vector: the 26 raw fields
// in schema order followed by the 8 derived booleans as 0/1.
func (p *PaymentHistory) Vector() ([]float64, error) {
	v := []float64{
		p.Delinq2Yrs,
		p.MthsSinceLastDelinq,
		p.MthsSinceLastRecord,
		p.OpenAcc,
		p.PubRec,
		p.Collections12MthsExMed,
		p.MthsSinceLastMajorDerog,
		p.AccNowDelinq,
		p.TotCollAmt,
		p.ChargeoffWithin12Mths,
		p.DelinqAmnt,
		p.MthsSinceRecentBCDlq,
		p.MthsSinceRecentRevolDelinq,
		p.NumAcctsEver120Pd,
		p.NumActvBCTl,
		p.NumActvRevTl,
		p.NumRevTlBalGt0,
		p.NumSats,
		p.NumTl120Dpd2M,
		p.NumTl30Dpd,
		p.NumTl90GDpd24M,
		p.NumTlOpPast12M,
		p.PctTlNvrDlq,
		p.PercentBCGt75,
		p.PubRecBankruptcies,
		p.TaxLiens,
		b2f(p.NeverMajorDerog()),
		b2f(p.NeverRecord()),
		b2f(p.NeverDelinq()),
		b2f(p.NeverRecentRevolDelinq()),
		b2f(p.NeverRecentBCDelinq()),
		b2f(p.IsClean()),
		b2f(p.HasRecentPR()),
		b2f(p.HasRecentDelinq()),
	}
	return checkLen(PaymentHistorySpec, v)
}

// AmountsOwed holds the validated balance and utilization attributes. It
// has no derived properties of its own; its revol_bal feeds the credit
// mix category's no_revol_util flag.
type AmountsOwed struct {
	RevolBal               float64
	RevolUtil              float64
	TotCurBal              float64
	TotalBalIl             float64
	IlUtil                 float64
	MaxBalBC               float64
	AllUtil                float64
	TotalRevHiLim          float64
	AvgCurBal              float64
	BCOpenToBuy            float64
	BCUtil                 float64
	TotHiCredLim           float64
	TotalBalExMort         float64
	TotalBCLimit           float64
	TotalIlHighCreditLimit float64
}

func (a *AmountsOwed) Fields() map[string]float64 {
	return map[string]float64{
		"revol_bal":                  a.RevolBal,
		"revol_util":                 a.RevolUtil,
		"tot_cur_bal":                a.TotCurBal,
		"total_bal_il":               a.TotalBalIl,
		"il_util":                    a.IlUtil,
		"max_bal_bc":                 a.MaxBalBC,
		"all_util":                   a.AllUtil,
		"total_rev_hi_lim":           a.TotalRevHiLim,
		"avg_cur_bal":                a.AvgCurBal,
		"bc_open_to_buy":             a.BCOpenToBuy,
		"bc_util":                    a.BCUtil,
		"tot_hi_cred_lim":            a.TotHiCredLim,
		"total_bal_ex_mort":          a.TotalBalExMort,
		"total_bc_limit":             a.TotalBCLimit,
		"total_il_high_credit_limit": a.TotalIlHighCreditLimit,
	}
}

func (a *AmountsOwed) Vector() ([]float64, error) {
	v := []float64{
		a.RevolBal,
		a.RevolUtil,
		a.TotCurBal,
		a.TotalBalIl,
		a.IlUtil,
		a.MaxBalBC,
		a.AllUtil,
		a.TotalRevHiLim,
		a.AvgCurBal,
		a.BCOpenToBuy,
		a.BCUtil,
		a.TotHiCredLim,
		a.TotalBalExMort,
		a.TotalBCLimit,
		a.TotalIlHighCreditLimit,
	}
	return checkLen(AmountsOwedSpec, v)
}

// HistoryLength holds the validated account-age attributes.
type HistoryLength struct {
	MoSinOldIlAcct    float64
	MoSinOldRevTlOp   float64
	AgeEarliestCrLine float64
}

func (h *HistoryLength) IsMature() bool {
	return h.AgeEarliestCrLine >= matureAgeMonths
}

func (h *HistoryLength) Fields() map[string]float64 {
	return map[string]float64{
		"mo_sin_old_il_acct":   h.MoSinOldIlAcct,
		"mo_sin_old_rev_tl_op": h.MoSinOldRevTlOp,
		"age_earliest_cr_line": h.AgeEarliestCrLine,
	}
}

func (h *HistoryLength) Vector() ([]float64, error) {
	v := []float64{
		h.MoSinOldIlAcct,
		h.MoSinOldRevTlOp,
		h.AgeEarliestCrLine,
		b2f(h.IsMature()),
	}
	return checkLen(HistoryLengthSpec, v)
}

// NewCredit holds the validated inquiry and recently-opened-account
// attributes. hasNewRevolver is cross-category: it depends on history
// length and is populated only by Record.Derive.
type NewCredit struct {
	InqLast6Mths       float64
	OpenAcc6M          float64
	OpenIl12M          float64
	OpenIl24M          float64
	MthsSinceRcntIl    float64
	OpenRv12M          float64
	OpenRv24M          float64
	InqFi              float64
	InqLast12M         float64
	AccOpenPast24Mths  float64
	MoSinRcntRevTlOp   float64
	MoSinRcntTl        float64
	MthsSinceRecentBC  float64
	MthsSinceRecentInq float64

	hasNewRevolver *bool
}

// HasNewRevolver reports whether a revolving tradeline was opened
// recently. It errors until Record.Derive has run.
func (n *NewCredit) HasNewRevolver() (bool, error) {
	if n.hasNewRevolver == nil {
		return false, errors.NewInvariantError(
			"has_new_revolver read before cross-category derivation", nil)
	}
	return *n.hasNewRevolver, nil
}

func (n *NewCredit) setHasNewRevolver(v bool) {
	n.hasNewRevolver = &v
}

func (n *NewCredit) Fields() map[string]float64 {
	return map[string]float64{
		"inq_last_6mths":        n.InqLast6Mths,
		"open_acc_6m":           n.OpenAcc6M,
		"open_il_12m":           n.OpenIl12M,
		"open_il_24m":           n.OpenIl24M,
		"mths_since_rcnt_il":    n.MthsSinceRcntIl,
		"open_rv_12m":           n.OpenRv12M,
		"open_rv_24m":           n.OpenRv24M,
		"inq_fi":                n.InqFi,
		"inq_last_12m":          n.InqLast12M,
		"acc_open_past_24mths":  n.AccOpenPast24Mths,
		"mo_sin_rcnt_rev_tl_op": n.MoSinRcntRevTlOp,
		"mo_sin_rcnt_tl":        n.MoSinRcntTl,
		"mths_since_recent_bc":  n.MthsSinceRecentBC,
		"mths_since_recent_inq": n.MthsSinceRecentInq,
	}
}

func (n *NewCredit) Vector() ([]float64, error) {
	hasNewRevolver, err := n.HasNewRevolver()
	if err != nil {
		return nil, err
	}
	v := []float64{
		n.InqLast6Mths,
		n.OpenAcc6M,
		n.OpenIl12M,
		n.OpenIl24M,
		n.MthsSinceRcntIl,
		n.OpenRv12M,
		n.OpenRv24M,
		n.InqFi,
		n.InqLast12M,
		n.AccOpenPast24Mths,
		n.MoSinRcntRevTlOp,
		n.MoSinRcntTl,
		n.MthsSinceRecentBC,
		n.MthsSinceRecentInq,
		b2f(hasNewRevolver),
	}
	return checkLen(NewCreditSpec, v)
}

// CreditMix holds the validated tradeline-composition attributes.
// noRevolUtil is cross-category: it depends on amounts owed and is
// populated only by Record.Derive.
type CreditMix struct {
	OpenActIl     float64
	TotalCuTl     float64
	MortAcc       float64
	NumBCSats     float64
	NumBCTl       float64
	NumIlTl       float64
	NumOpRevTl    float64
	NumRevAccts   float64
	NumTradelines float64

	noRevolUtil *bool
}

func (c *CreditMix) IsThick() bool {
	return c.NumTradelines >= thickFileTradelines
}

// NoRevolUtil reports whether the record carries no revolving balance at
// all. It errors until Record.Derive has run.
func (c *CreditMix) NoRevolUtil() (bool, error) {
	if c.noRevolUtil == nil {
		return false, errors.NewInvariantError(
			"no_revol_util read before cross-category derivation", nil)
	}
	return *c.noRevolUtil, nil
}

func (c *CreditMix) setNoRevolUtil(v bool) {
	c.noRevolUtil = &v
}

func (c *CreditMix) Fields() map[string]float64 {
	return map[string]float64{
		"open_act_il":    c.OpenActIl,
		"total_cu_tl":    c.TotalCuTl,
		"mort_acc":       c.MortAcc,
		"num_bc_sats":    c.NumBCSats,
		"num_bc_tl":      c.NumBCTl,
		"num_il_tl":      c.NumIlTl,
		"num_op_rev_tl":  c.NumOpRevTl,
		"num_rev_accts":  c.NumRevAccts,
		"num_tradelines": c.NumTradelines,
	}
}

func (c *CreditMix) Vector() ([]float64, error) {
	noRevolUtil, err := c.NoRevolUtil()
	if err != nil {
		return nil, err
	}
	v := []float64{
		c.OpenActIl,
		c.TotalCuTl,
		c.MortAcc,
		c.NumBCSats,
		c.NumBCTl,
		c.NumIlTl,
		c.NumOpRevTl,
		c.NumRevAccts,
		c.NumTradelines,
		b2f(c.IsThick()),
		b2f(noRevolUtil),
	}
	return checkLen(CreditMixSpec, v)
}
