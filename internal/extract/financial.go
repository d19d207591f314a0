package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Canonical dues account categories. The EPF schedule splits dues across
// statutory accounts; TotalDuesKey is derived, never read from a row.
const (
	AccountEEShare        = "ee_share_ac1"
	AccountERShare        = "er_share_ac1"
	AccountAdminCharges   = "admin_charges_ac2"
	AccountPensionFund    = "pension_fund_ac10"
	AccountInsurance      = "insurance_ac21"
	AccountInsuranceAdmin = "insurance_admin_ac22"
	TotalDuesKey          = "total_dues"
)

// Table is a parsed schedule table handed in by an external table
// extractor: column headers plus string cell rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// FinancialParser maps a dues schedule onto the canonical account
// categories and reconciles a total. Construct once and reuse.
type FinancialParser struct {
	// Category order matters: the first category whose pattern matches a
	// row wins, so the table is an ordered slice rather than a map.
	categories []accountPatternSet
	textPats   []textAmountPattern
	digitsRE   *regexp.Regexp
}

type accountPatternSet struct {
	key      string
	patterns []*regexp.Regexp
}

type textAmountPattern struct {
	re  *regexp.Regexp
	key string
}

// NewFinancialParser compiles the account matching tables.
func NewFinancialParser() *FinancialParser {
	return &FinancialParser{
		categories: []accountPatternSet{
			{AccountEEShare, compileAll(`\bee\b.*share`, `employee.*share`)},
			{AccountERShare, compileAll(`\ber\b.*share`, `employer.*share`, `employer.*contribution`)},
			{AccountAdminCharges, compileAll(`admin.*charge`, `a/c\s*2\)`, `account\s*2(?:\D|$)`)},
			{AccountPensionFund, compileAll(`pension`, `a/c\s*10`, `account\s*10`)},
			{AccountInsurance, compileAll(`insurance(?:\s*$|\s+[^a])`, `a/c\s*21`, `account\s*21`, `edli`)},
			{AccountInsuranceAdmin, compileAll(`insurance.*admin`, `a/c\s*22`, `account\s*22`)},
		},
		textPats: []textAmountPattern{
			{regexp.MustCompile(`(?i)ee\s*share[:\s]*(?:rs\.?\s*)?([\d,]+)`), AccountEEShare},
			{regexp.MustCompile(`(?i)er\s*share[:\s]*(?:rs\.?\s*)?([\d,]+)`), AccountERShare},
			{regexp.MustCompile(`(?i)admin(?:istration)?\s*charges?[:\s]*(?:rs\.?\s*)?([\d,]+)`), AccountAdminCharges},
			{regexp.MustCompile(`(?i)pension\s*fund?[:\s]*(?:rs\.?\s*)?([\d,]+)`), AccountPensionFund},
			{regexp.MustCompile(`(?i)total\s*dues?[:\s]*(?:rs\.?\s*)?([\d,]+)`), TotalDuesKey},
		},
		digitsRE: regexp.MustCompile(`[^\d.]`),
	}
}

// ParseSchedule maps table rows onto account categories. Per row, the first
// category whose pattern matches the account text wins; a category already
// populated for this document is never overwritten by a later row. The
// returned map carries a derived "total_dues" equal to the sum of all
// populated category amounts.
func (p *FinancialParser) ParseSchedule(table Table) map[string]float64 {
	result := map[string]float64{}
	if len(table.Rows) == 0 {
		return result
	}

	accountCol := findColumn(table.Columns, []string{"account", "particular", "head", "type"}, -1)
	amountCol := findColumn(table.Columns, []string{"amount", "dues", "rs", "total", "sum"}, accountCol)
	if accountCol < 0 || amountCol < 0 {
		if len(table.Columns) < 2 {
			return result
		}
		accountCol, amountCol = 0, 1
	}

	for _, row := range table.Rows {
		if len(row) <= accountCol || len(row) <= amountCol {
			continue
		}
		accountText := strings.ToLower(row[accountCol])

		amount, ok := p.CleanAmount(row[amountCol])
		if !ok {
			continue
		}

		for _, cat := range p.categories {
			if !matchesAny(cat.patterns, accountText) {
				continue
			}
			if _, populated := result[cat.key]; !populated {
				result[cat.key] = amount
			}
			break
		}
	}

	if len(result) > 0 {
		total := 0.0
		for _, v := range result {
			total += v
		}
		result[TotalDuesKey] = total
	}

	return result
}

// ExtractFromText is the fallback when no table yields data: fixed
// label→category patterns applied against free text, each independently
// optional.
func (p *FinancialParser) ExtractFromText(text string) map[string]float64 {
	result := map[string]float64{}
	for _, tp := range p.textPats {
		m := tp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if amount, ok := p.CleanAmount(m[1]); ok {
			result[tp.key] = amount
		}
	}
	return result
}

// CleanAmount normalizes an amount cell ("Rs. 1,00,000/-", "₹50,000") to a
// float. Returns false when no digits survive cleaning; malformed amounts
// are skipped, never an error.
func (p *FinancialParser) CleanAmount(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	text := strings.ToLower(raw)
	text = strings.ReplaceAll(text, "rs.", "")
	text = strings.ReplaceAll(text, "rs", "")
	text = strings.ReplaceAll(text, "₹", "")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, "/-", "")
	text = strings.ReplaceAll(text, "-", "")

	clean := p.digitsRE.ReplaceAllString(text, "")
	if clean == "" {
		return 0, false
	}

	amount, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// findColumn returns the first header matching any keyword, skipping the
// column at skip so the account and amount lookups cannot collide ("rs" is
// a substring of "Particulars").
func findColumn(columns []string, keywords []string, skip int) int {
	for i, col := range columns {
		if i == skip {
			continue
		}
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
