package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentHistoryDerived(t *testing.T) {
	tests := []struct {
		name  string
		rec   PaymentHistory
		check func(t *testing.T, p *PaymentHistory)
	}{
		{
			name: "never delinq at sentinel",
			rec:  PaymentHistory{MthsSinceLastDelinq: 226},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.True(t, p.NeverDelinq())
			},
		},
		{
			name: "never delinq false just under sentinel",
			rec:  PaymentHistory{MthsSinceLastDelinq: 225},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.False(t, p.NeverDelinq())
			},
		},
		{
			name: "never record at sentinel",
			rec:  PaymentHistory{MthsSinceLastRecord: 124},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.True(t, p.NeverRecord())
			},
		},
		{
			name: "never record false just under sentinel",
			rec:  PaymentHistory{MthsSinceLastRecord: 123},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.False(t, p.NeverRecord())
			},
		},
		{
			name: "never major derog boundary",
			rec:  PaymentHistory{MthsSinceLastMajorDerog: 226},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.True(t, p.NeverMajorDerog())
				p.MthsSinceLastMajorDerog = 225
				assert.False(t, p.NeverMajorDerog())
			},
		},
		{
			name: "never recent revol delinq boundary",
			rec:  PaymentHistory{MthsSinceRecentRevolDelinq: 176},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.True(t, p.NeverRecentRevolDelinq())
				p.MthsSinceRecentRevolDelinq = 175
				assert.False(t, p.NeverRecentRevolDelinq())
			},
		},
		{
			name: "never recent bc delinq boundary",
			rec:  PaymentHistory{MthsSinceRecentBCDlq: 195},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.True(t, p.NeverRecentBCDelinq())
				p.MthsSinceRecentBCDlq = 194
				assert.False(t, p.NeverRecentBCDelinq())
			},
		},
		{
			name: "has recent pr inside window",
			rec:  PaymentHistory{MthsSinceLastRecord: 12},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.True(t, p.HasRecentPR())
				p.MthsSinceLastRecord = 13
				assert.False(t, p.HasRecentPR())
			},
		},
		{
			name: "has recent delinq inside window",
			rec:  PaymentHistory{MthsSinceLastDelinq: 12},
			check: func(t *testing.T, p *PaymentHistory) {
				assert.True(t, p.HasRecentDelinq())
				p.MthsSinceLastDelinq = 13
				assert.False(t, p.HasRecentDelinq())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, &tt.rec)
		})
	}
}

func TestPaymentHistoryIsClean(t *testing.T) {
	tests := []struct {
		name       string
		delinqMths float64
		collAmt    float64
		expected   bool
	}{
		{"no delinquency and no collections", 226, 0, true},
		{"delinquency on file", 100, 0, false},
		{"collections on file", 226, 500, false},
		{"both on file", 100, 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PaymentHistory{
				MthsSinceLastDelinq: tt.delinqMths,
				TotCollAmt:          tt.collAmt,
			}
			assert.Equal(t, tt.expected, p.IsClean())
		})
	}
}

func TestHistoryLengthIsMature(t *testing.T) {
	h := &HistoryLength{AgeEarliestCrLine: 36}
	assert.True(t, h.IsMature())
	h.AgeEarliestCrLine = 35
	assert.False(t, h.IsMature())
}

func TestCreditMixIsThick(t *testing.T) {
	c := &CreditMix{NumTradelines: 4}
	assert.True(t, c.IsThick())
	c.NumTradelines = 3
	assert.False(t, c.IsThick())
}

func TestCrossCategoryFlagsUnsetUntilDerive(t *testing.T) {
	n := &NewCredit{}
	_, err := n.HasNewRevolver()
	assert.Error(t, err)

	c := &CreditMix{}
	_, err = c.NoRevolUtil()
	assert.Error(t, err)

	// Both vectors depend on the flag and must refuse to assemble.
	_, err = n.Vector()
	assert.Error(t, err)
	_, err = c.Vector()
	assert.Error(t, err)
}

func TestPaymentHistoryVectorOrder(t *testing.T) {
	// Distinct consecutive values in declared field order make any
	// reordering visible.
	p := &PaymentHistory{
		Delinq2Yrs:                 1,
		MthsSinceLastDelinq:        2,
		MthsSinceLastRecord:        3,
		OpenAcc:                    4,
		PubRec:                     5,
		Collections12MthsExMed:     6,
		MthsSinceLastMajorDerog:    7,
		AccNowDelinq:               8,
		TotCollAmt:                 9,
		ChargeoffWithin12Mths:      10,
		DelinqAmnt:                 11,
		MthsSinceRecentBCDlq:       12,
		MthsSinceRecentRevolDelinq: 13,
		NumAcctsEver120Pd:          14,
		NumActvBCTl:                15,
		NumActvRevTl:               16,
		NumRevTlBalGt0:             17,
		NumSats:                    18,
		NumTl120Dpd2M:              19,
		NumTl30Dpd:                 20,
		NumTl90GDpd24M:             21,
		NumTlOpPast12M:             22,
		PctTlNvrDlq:                23,
		PercentBCGt75:              24,
		PubRecBankruptcies:         25,
		TaxLiens:                   26,
	}

	v, err := p.Vector()
	require.NoError(t, err)
	require.Len(t, v, PaymentHistorySpec.VectorLen())

	for i := 0; i < len(PaymentHistorySpec.Fields); i++ {
		assert.Equal(t, float64(i+1), v[i], "raw slot %d", i)
	}
	// Derived booleans follow, encoded as 0/1.
	for _, x := range v[len(PaymentHistorySpec.Fields):] {
		assert.Contains(t, []float64{0, 1}, x)
	}
}

func TestAmountsOwedVectorOrder(t *testing.T) {
	a := &AmountsOwed{
		RevolBal:               1,
		RevolUtil:              2,
		TotCurBal:              3,
		TotalBalIl:             4,
		IlUtil:                 5,
		MaxBalBC:               6,
		AllUtil:                7,
		TotalRevHiLim:          8,
		AvgCurBal:              9,
		BCOpenToBuy:            10,
		BCUtil:                 11,
		TotHiCredLim:           12,
		TotalBalExMort:         13,
		TotalBCLimit:           14,
		TotalIlHighCreditLimit: 15,
	}

	v, err := a.Vector()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, v)
}

func TestHistoryLengthVector(t *testing.T) {
	h := &HistoryLength{
		MoSinOldIlAcct:    120,
		MoSinOldRevTlOp:   200,
		AgeEarliestCrLine: 240,
	}

	v, err := h.Vector()
	require.NoError(t, err)
	assert.Equal(t, []float64{120, 200, 240, 1}, v)
}

func TestNewCreditVectorOrder(t *testing.T) {
	n := &NewCredit{
		InqLast6Mths:       1,
		OpenAcc6M:          2,
		OpenIl12M:          3,
		OpenIl24M:          4,
		MthsSinceRcntIl:    5,
		OpenRv12M:          6,
		OpenRv24M:          7,
		InqFi:              8,
		InqLast12M:         9,
		AccOpenPast24Mths:  10,
		MoSinRcntRevTlOp:   11,
		MoSinRcntTl:        12,
		MthsSinceRecentBC:  13,
		MthsSinceRecentInq: 14,
	}
	n.setHasNewRevolver(true)

	v, err := n.Vector()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 1}, v)
}

func TestCreditMixVectorOrder(t *testing.T) {
	c := &CreditMix{
		OpenActIl:     1,
		TotalCuTl:     2,
		MortAcc:       3,
		NumBCSats:     4,
		NumBCTl:       5,
		NumIlTl:       6,
		NumOpRevTl:    7,
		NumRevAccts:   8,
		NumTradelines: 9,
	}
	c.setNoRevolUtil(false)

	v, err := c.Vector()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 0}, v)
}

func TestFieldsCoverSchema(t *testing.T) {
	tests := []struct {
		name   string
		spec   CategorySpec
		fields map[string]float64
	}{
		{"payment history", PaymentHistorySpec, (&PaymentHistory{}).Fields()},
		{"amounts owed", AmountsOwedSpec, (&AmountsOwed{}).Fields()},
		{"history length", HistoryLengthSpec, (&HistoryLength{}).Fields()},
		{"new credit", NewCreditSpec, (&NewCredit{}).Fields()},
		{"credit mix", CreditMixSpec, (&CreditMix{}).Fields()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.fields, len(tt.spec.Fields))
			for _, f := range tt.spec.Fields {
				_, ok := tt.fields[f.Name]
				assert.True(t, ok, "field %s missing from Fields()", f.Name)
			}
		})
	}
}
