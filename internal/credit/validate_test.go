package credit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(v string) json.Number { return json.Number(v) }

func TestValidatePaymentHistoryDefaults(t *testing.T) {
	raw := map[string]any{
		"open_acc":         num("5"),
		"num_sats":         num("4"),
		"pct_tl_nvr_dlq":   num("97.5"),
		"percent_bc_gt_75": num("20"),
	}

	p, ferrs := ValidatePaymentHistory(raw)
	require.Nil(t, ferrs)
	require.NotNil(t, p)

	assert.Equal(t, 5.0, p.OpenAcc)
	assert.Equal(t, 97.5, p.PctTlNvrDlq)

	// Omitted months-since counters land on their sentinels, everything
	// else on zero.
	assert.Equal(t, 226.0, p.MthsSinceLastDelinq)
	assert.Equal(t, 124.0, p.MthsSinceLastRecord)
	assert.Equal(t, 226.0, p.MthsSinceLastMajorDerog)
	assert.Equal(t, 195.0, p.MthsSinceRecentBCDlq)
	assert.Equal(t, 176.0, p.MthsSinceRecentRevolDelinq)
	assert.Equal(t, 0.0, p.Delinq2Yrs)
	assert.Equal(t, 0.0, p.TotCollAmt)

	// A record built from bare minimum input reads as spotless.
	assert.True(t, p.NeverDelinq())
	assert.True(t, p.NeverRecord())
	assert.True(t, p.NeverMajorDerog())
	assert.True(t, p.IsClean())
	assert.False(t, p.HasRecentPR())
	assert.False(t, p.HasRecentDelinq())
}

func TestValidatePaymentHistoryFieldsRoundTrip(t *testing.T) {
	raw := map[string]any{
		"open_acc":               num("7"),
		"num_sats":               num("6"),
		"pct_tl_nvr_dlq":         num("88"),
		"percent_bc_gt_75":       num("33"),
		"mths_since_last_delinq": num("14"),
		"tot_coll_amt":           num("120"),
	}

	p, ferrs := ValidatePaymentHistory(raw)
	require.Nil(t, ferrs)

	fields := p.Fields()
	require.Len(t, fields, len(PaymentHistorySpec.Fields))

	// Supplied values come back unchanged; every absent field carries
	// its declared default.
	for _, f := range PaymentHistorySpec.Fields {
		if rv, ok := raw[f.Wire]; ok {
			want, err := rv.(json.Number).Float64()
			require.NoError(t, err)
			assert.Equal(t, want, fields[f.Name], f.Name)
		} else {
			assert.Equal(t, f.Default, fields[f.Name], f.Name)
		}
	}
}

func TestValidatePaymentHistoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		field    string
		contains string
	}{
		{
			name: "missing required field",
			raw: map[string]any{
				"num_sats":         num("4"),
				"pct_tl_nvr_dlq":   num("97"),
				"percent_bc_gt_75": num("20"),
			},
			field:    "open_acc",
			contains: "missing required field",
		},
		{
			name: "negative count is a range violation not a crash",
			raw: map[string]any{
				"open_acc":         num("-1"),
				"num_sats":         num("4"),
				"pct_tl_nvr_dlq":   num("97"),
				"percent_bc_gt_75": num("20"),
			},
			field:    "open_acc",
			contains: "greater than or equal to 0",
		},
		{
			name: "percentage above closed range",
			raw: map[string]any{
				"open_acc":         num("5"),
				"num_sats":         num("4"),
				"pct_tl_nvr_dlq":   num("100.5"),
				"percent_bc_gt_75": num("20"),
			},
			field:    "pct_tl_nvr_dlq",
			contains: "range [0, 100]",
		},
		{
			name: "non-numeric value",
			raw: map[string]any{
				"open_acc":         "five",
				"num_sats":         num("4"),
				"pct_tl_nvr_dlq":   num("97"),
				"percent_bc_gt_75": num("20"),
			},
			field:    "open_acc",
			contains: "must be a number",
		},
		{
			name: "unknown field rejected",
			raw: map[string]any{
				"open_acc":         num("5"),
				"num_sats":         num("4"),
				"pct_tl_nvr_dlq":   num("97"),
				"percent_bc_gt_75": num("20"),
				"fico_score":       num("800"),
			},
			field:    "fico_score",
			contains: "unknown field",
		},
		{
			name: "sentinel counter above its ceiling",
			raw: map[string]any{
				"open_acc":               num("5"),
				"num_sats":               num("4"),
				"pct_tl_nvr_dlq":         num("97"),
				"percent_bc_gt_75":       num("20"),
				"mths_since_last_delinq": num("227"),
			},
			field:    "mths_since_last_delinq",
			contains: "range [0, 226]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ferrs := ValidatePaymentHistory(tt.raw)
			assert.Nil(t, p)
			require.NotNil(t, ferrs)
			msg, ok := ferrs[tt.field]
			require.True(t, ok, "expected an error for %s, got %v", tt.field, ferrs)
			assert.Contains(t, msg, tt.contains)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	// Three independent violations in one block must all surface in a
	// single pass.
	raw := map[string]any{
		"num_sats":         num("4"),
		"pct_tl_nvr_dlq":   num("200"),
		"percent_bc_gt_75": num("20"),
		"mystery":          num("1"),
	}

	p, ferrs := ValidatePaymentHistory(raw)
	assert.Nil(t, p)
	require.Len(t, ferrs, 3)
	assert.Contains(t, ferrs, "open_acc")
	assert.Contains(t, ferrs, "pct_tl_nvr_dlq")
	assert.Contains(t, ferrs, "mystery")
}

func TestValidateAmountsOwed(t *testing.T) {
	raw := map[string]any{
		"tot_cur_bal":       num("52000"),
		"all_util":          num("31.5"),
		"avg_cur_bal":       num("6500"),
		"total_bal_ex_mort": num("18000"),
	}

	a, ferrs := ValidateAmountsOwed(raw)
	require.Nil(t, ferrs)
	assert.Equal(t, 52000.0, a.TotCurBal)
	assert.Equal(t, 31.5, a.AllUtil)
	assert.Equal(t, 0.0, a.RevolBal)
}

func TestValidateHistoryLength(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		hasError bool
	}{
		{
			name:     "minimal valid block",
			raw:      map[string]any{"age_earliest_cr_line": num("240")},
			hasError: false,
		},
		{
			name:     "age over ceiling",
			raw:      map[string]any{"age_earliest_cr_line": num("891")},
			hasError: true,
		},
		{
			name:     "age missing",
			raw:      map[string]any{},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ferrs := ValidateHistoryLength(tt.raw)
			if tt.hasError {
				assert.Nil(t, h)
				assert.NotEmpty(t, ferrs)
			} else {
				require.Nil(t, ferrs)
				assert.Equal(t, 240.0, h.AgeEarliestCrLine)
				assert.Equal(t, 724.0, h.MoSinOldIlAcct)
				assert.Equal(t, 851.0, h.MoSinOldRevTlOp)
			}
		})
	}
}

func TestValidateNewCreditEmptyBlock(t *testing.T) {
	// Every new-credit field is optional; an empty block is the record
	// of a borrower with no recent credit activity at all.
	n, ferrs := ValidateNewCredit(map[string]any{})
	require.Nil(t, ferrs)
	assert.Equal(t, 507.0, n.MthsSinceRcntIl)
	assert.Equal(t, 502.0, n.MoSinRcntRevTlOp)
	assert.Equal(t, 368.0, n.MoSinRcntTl)
	assert.Equal(t, 195.0, n.MthsSinceRecentBC)
	assert.Equal(t, 25.0, n.MthsSinceRecentInq)
	assert.Equal(t, 0.0, n.InqLast6Mths)
}

func TestValidateCreditMix(t *testing.T) {
	n, ferrs := ValidateCreditMix(map[string]any{
		"num_bc_sats":    num("3"),
		"num_tradelines": num("12"),
	})
	require.Nil(t, ferrs)
	assert.Equal(t, 3.0, n.NumBCSats)
	assert.True(t, n.IsThick())

	_, ferrs = ValidateCreditMix(map[string]any{"num_tradelines": num("-2")})
	require.NotNil(t, ferrs)
	assert.Contains(t, ferrs, "num_bc_sats")
	assert.Contains(t, ferrs, "num_tradelines")
}
