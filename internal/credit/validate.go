package credit

import (
	"encoding/json"
	"fmt"
)

// FieldErrors collects per-field validation messages for one category,
// keyed by internal field name. Validation never stops at the first
// failing field; callers get the whole report in one pass.
type FieldErrors map[string]string

func (e FieldErrors) add(field, msg string) { e[field] = msg }

// decode applies the category's required/default and range rules to a raw
// block. On success every declared field has a concrete value, with
// defaults substituted for absent optional fields. On failure no values
// are returned at all; a record is never partially populated.
func (s CategorySpec) decode(raw map[string]any) (map[string]float64, FieldErrors) {
	ferrs := FieldErrors{}
	known := make(map[string]bool, len(s.Fields))
	vals := make(map[string]float64, len(s.Fields))

	for _, f := range s.Fields {
		known[f.Wire] = true

		rv, ok := raw[f.Wire]
		if !ok {
			if f.Required {
				ferrs.add(f.Name, "missing required field")
				continue
			}
			vals[f.Name] = f.Default
			continue
		}

		num, ok := rv.(json.Number)
		if !ok {
			ferrs.add(f.Name, "must be a number")
			continue
		}
		x, err := num.Float64()
		if err != nil {
			ferrs.add(f.Name, "must be a number")
			continue
		}

		if x < f.Min || x > f.Max {
			if f.Max == NoMax {
				ferrs.add(f.Name, fmt.Sprintf("must be greater than or equal to %v", f.Min))
			} else {
				ferrs.add(f.Name, fmt.Sprintf("must be in range [%v, %v]", f.Min, f.Max))
			}
			continue
		}

		vals[f.Name] = x
	}

	// Category records are closed mappings; keys outside the schema are
	// rejected rather than ignored.
	for k := range raw {
		if !known[k] {
			ferrs.add(k, "unknown field")
		}
	}

	if len(ferrs) > 0 {
		return nil, ferrs
	}
	return vals, nil
}

// ValidatePaymentHistory parses a raw payment-history block into a
// record, or reports every rule violation in the block.
func ValidatePaymentHistory(raw map[string]any) (*PaymentHistory, FieldErrors) {
	v, ferrs := PaymentHistorySpec.decode(raw)
	if ferrs != nil {
		return nil, ferrs
	}
	return &PaymentHistory{
		Delinq2Yrs:                 v["delinq_2yrs"],
		MthsSinceLastDelinq:        v["mths_since_last_delinq"],
		MthsSinceLastRecord:        v["mths_since_last_record"],
		OpenAcc:                    v["open_acc"],
		PubRec:                     v["pub_rec"],
		Collections12MthsExMed:     v["collections_12_mths_ex_med"],
		MthsSinceLastMajorDerog:    v["mths_since_last_major_derog"],
		AccNowDelinq:               v["acc_now_delinq"],
		TotCollAmt:                 v["tot_coll_amt"],
		ChargeoffWithin12Mths:      v["chargeoff_within_12_mths"],
		DelinqAmnt:                 v["delinq_amnt"],
		MthsSinceRecentBCDlq:       v["mths_since_recent_bc_dlq"],
		MthsSinceRecentRevolDelinq: v["mths_since_recent_revol_delinq"],
		NumAcctsEver120Pd:          v["num_accts_ever_120_pd"],
		NumActvBCTl:                v["num_actv_bc_tl"],
		NumActvRevTl:               v["num_actv_rev_tl"],
		NumRevTlBalGt0:             v["num_rev_tl_bal_gt_0"],
		NumSats:                    v["num_sats"],
		NumTl120Dpd2M:              v["num_tl_120dpd_2m"],
		NumTl30Dpd:                 v["num_tl_30dpd"],
		NumTl90GDpd24M:             v["num_tl_90g_dpd_24m"],
		NumTlOpPast12M:             v["num_tl_op_past_12m"],
		PctTlNvrDlq:                v["pct_tl_nvr_dlq"],
		PercentBCGt75:              v["percent_bc_gt_75"],
		PubRecBankruptcies:         v["pub_rec_bankruptcies"],
		TaxLiens:                   v["tax_liens"],
	}, nil
}

// ValidateAmountsOwed parses a raw amounts-owed block into a record.
func ValidateAmountsOwed(raw map[string]any) (*AmountsOwed, FieldErrors) {
	v, ferrs := AmountsOwedSpec.decode(raw)
	if ferrs != nil {
		return nil, ferrs
	}
	return &AmountsOwed{
		RevolBal:               v["revol_bal"],
		RevolUtil:              v["revol_util"],
		TotCurBal:              v["tot_cur_bal"],
		TotalBalIl:             v["total_bal_il"],
		IlUtil:                 v["il_util"],
		MaxBalBC:               v["max_bal_bc"],
		AllUtil:                v["all_util"],
		TotalRevHiLim:          v["total_rev_hi_lim"],
		AvgCurBal:              v["avg_cur_bal"],
		BCOpenToBuy:            v["bc_open_to_buy"],
		BCUtil:                 v["bc_util"],
		TotHiCredLim:           v["tot_hi_cred_lim"],
		TotalBalExMort:         v["total_bal_ex_mort"],
		TotalBCLimit:           v["total_bc_limit"],
		TotalIlHighCreditLimit: v["total_il_high_credit_limit"],
	}, nil
}

// ValidateHistoryLength parses a raw history-length block into a record.
func ValidateHistoryLength(raw map[string]any) (*HistoryLength, FieldErrors) {
	v, ferrs := HistoryLengthSpec.decode(raw)
	if ferrs != nil {
		return nil, ferrs
	}
	return &HistoryLength{
		MoSinOldIlAcct:    v["mo_sin_old_il_acct"],
		MoSinOldRevTlOp:   v["mo_sin_old_rev_tl_op"],
		AgeEarliestCrLine: v["age_earliest_cr_line"],
	}, nil
}

// ValidateNewCredit parses a raw new-credit block into a record. The
// cross-category has_new_revolver flag stays unset here.
func ValidateNewCredit(raw map[string]any) (*NewCredit, FieldErrors) {
	v, ferrs := NewCreditSpec.decode(raw)
	if ferrs != nil {
		return nil, ferrs
	}
	return &NewCredit{
		InqLast6Mths:       v["inq_last_6mths"],
		OpenAcc6M:          v["open_acc_6m"],
		OpenIl12M:          v["open_il_12m"],
		OpenIl24M:          v["open_il_24m"],
		MthsSinceRcntIl:    v["mths_since_rcnt_il"],
		OpenRv12M:          v["open_rv_12m"],
		OpenRv24M:          v["open_rv_24m"],
		InqFi:              v["inq_fi"],
		InqLast12M:         v["inq_last_12m"],
		AccOpenPast24Mths:  v["acc_open_past_24mths"],
		MoSinRcntRevTlOp:   v["mo_sin_rcnt_rev_tl_op"],
		MoSinRcntTl:        v["mo_sin_rcnt_tl"],
		MthsSinceRecentBC:  v["mths_since_recent_bc"],
		MthsSinceRecentInq: v["mths_since_recent_inq"],
	}, nil
}

// ValidateCreditMix parses a raw credit-mix block into a record. The
// cross-category no_revol_util flag stays unset here.
func ValidateCreditMix(raw map[string]any) (*CreditMix, FieldErrors) {
	v, ferrs := CreditMixSpec.decode(raw)
	if ferrs != nil {
		return nil, ferrs
	}
	return &CreditMix{
		OpenActIl:     v["open_act_il"],
		TotalCuTl:     v["total_cu_tl"],
		MortAcc:       v["mort_acc"],
		NumBCSats:     v["num_bc_sats"],
		NumBCTl:       v["num_bc_tl"],
		NumIlTl:       v["num_il_tl"],
		NumOpRevTl:    v["num_op_rev_tl"],
		NumRevAccts:   v["num_rev_accts"],
		NumTradelines: v["num_tradelines"],
	}, nil
}
