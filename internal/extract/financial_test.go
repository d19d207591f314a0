package extract

import "testing"

func TestParseScheduleStandardTable(t *testing.T) {
	p := NewFinancialParser()
	table := Table{
		Columns: []string{"Account", "Amount"},
		Rows: [][]string{
			{"EE Share (A/C 1)", "1,00,000"},
			{"ER Share (A/C 1)", "1,50,000"},
			{"Admin Charges (A/C 2)", "25,000"},
		},
	}
	got := p.ParseSchedule(table)

	want := map[string]float64{
		AccountEEShare:      100000,
		AccountERShare:      150000,
		AccountAdminCharges: 25000,
		TotalDuesKey:        275000,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for key, amount := range want {
		if got[key] != amount {
			t.Errorf("%s = %v, want %v", key, got[key], amount)
		}
	}
}

func TestParseScheduleTotalEqualsBreakdownSum(t *testing.T) {
	p := NewFinancialParser()
	table := Table{
		Columns: []string{"Particulars", "Dues (Rs.)"},
		Rows: [][]string{
			{"Employer Share", "Rs. 2,40,000/-"},
			{"Pension Fund (A/C 10)", "60,000"},
			{"Insurance Fund (A/C 21)", "5,000"},
		},
	}
	got := p.ParseSchedule(table)

	sum := 0.0
	for key, amount := range got {
		if key == TotalDuesKey {
			continue
		}
		sum += amount
	}
	if got[TotalDuesKey] != sum {
		t.Errorf("total_dues = %v, breakdown sum = %v", got[TotalDuesKey], sum)
	}
	if got[AccountPensionFund] != 60000 {
		t.Errorf("pension_fund_ac10 = %v, want 60000", got[AccountPensionFund])
	}
	if got[AccountInsurance] != 5000 {
		t.Errorf("insurance_ac21 = %v, want 5000", got[AccountInsurance])
	}
}

func TestFindColumnAccountAndAmountNeverCollide(t *testing.T) {
	columns := []string{"Particulars", "Dues (Rs.)"}
	accountCol := findColumn(columns, []string{"account", "particular", "head", "type"}, -1)
	amountCol := findColumn(columns, []string{"amount", "dues", "rs", "total", "sum"}, accountCol)
	if accountCol != 0 {
		t.Fatalf("account column = %d, want 0", accountCol)
	}
	if amountCol != 1 {
		t.Fatalf("amount column = %d, want 1", amountCol)
	}
}

func TestParseScheduleFirstRowWins(t *testing.T) {
	p := NewFinancialParser()
	table := Table{
		Columns: []string{"Account", "Amount"},
		Rows: [][]string{
			{"EE Share", "1,00,000"},
			{"Employee Share", "2,00,000"},
		},
	}
	got := p.ParseSchedule(table)
	if got[AccountEEShare] != 100000 {
		t.Errorf("ee_share_ac1 = %v, want first row's 100000", got[AccountEEShare])
	}
	if got[TotalDuesKey] != 100000 {
		t.Errorf("total_dues = %v, want 100000", got[TotalDuesKey])
	}
}

func TestParseScheduleColumnFallback(t *testing.T) {
	p := NewFinancialParser()
	// No recognizable headers: first column is the account, second the amount.
	table := Table{
		Columns: []string{"Col1", "Col2"},
		Rows:    [][]string{{"EE Share", "1,00,000"}},
	}
	got := p.ParseSchedule(table)
	if got[AccountEEShare] != 100000 {
		t.Errorf("ee_share_ac1 = %v, want 100000", got[AccountEEShare])
	}
}

func TestParseScheduleSkipsUnparseableAmounts(t *testing.T) {
	p := NewFinancialParser()
	table := Table{
		Columns: []string{"Account", "Amount"},
		Rows: [][]string{
			{"EE Share", "N/A"},
			{"ER Share", "50,000"},
		},
	}
	got := p.ParseSchedule(table)
	if _, ok := got[AccountEEShare]; ok {
		t.Errorf("ee_share_ac1 populated from unparseable amount: %v", got)
	}
	if got[AccountERShare] != 50000 {
		t.Errorf("er_share_ac1 = %v, want 50000", got[AccountERShare])
	}
	if got[TotalDuesKey] != 50000 {
		t.Errorf("total_dues = %v, want 50000", got[TotalDuesKey])
	}
}

func TestParseScheduleEmptyTable(t *testing.T) {
	p := NewFinancialParser()
	got := p.ParseSchedule(Table{})
	if len(got) != 0 {
		t.Errorf("empty table produced %v", got)
	}
}

func TestExtractFromText(t *testing.T) {
	p := NewFinancialParser()
	text := "EE Share: Rs. 1,00,000 and ER Share: Rs. 2,00,000. Total Dues: Rs. 3,00,000"
	got := p.ExtractFromText(text)

	if got[AccountEEShare] != 100000 {
		t.Errorf("ee_share_ac1 = %v, want 100000", got[AccountEEShare])
	}
	if got[AccountERShare] != 200000 {
		t.Errorf("er_share_ac1 = %v, want 200000", got[AccountERShare])
	}
	if got[TotalDuesKey] != 300000 {
		t.Errorf("total_dues = %v, want 300000", got[TotalDuesKey])
	}
}

func TestCleanAmount(t *testing.T) {
	p := NewFinancialParser()
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"Rs. 1,00,000/-", 100000, true},
		{"₹50,000", 50000, true},
		{"25,000", 25000, true},
		{"1234.50", 1234.50, true},
		{"invalid", 0, false},
		{"", 0, false},
		{"N/A", 0, false},
	}
	for _, tt := range tests {
		got, ok := p.CleanAmount(tt.raw)
		if ok != tt.ok {
			t.Errorf("CleanAmount(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("CleanAmount(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
