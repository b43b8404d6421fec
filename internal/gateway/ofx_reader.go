package gateway

import (
	"bytes"
	"errors"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"rent-reconciliation/internal/domain"
)

var errNoStatements = errors.New("no bank or credit card statements")

// readOFX flattens OFX bank and card transactions into statement rows shaped
// like a bank export: date, type, name, memo and a signed comma-decimal amount.
func readOFX(data []byte) (domain.Sheet, error) {
	resp, err := ofxgo.ParseResponse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(resp.Bank) == 0 && len(resp.CreditCard) == 0 {
		return nil, errNoStatements
	}

	var sheet domain.Sheet
	for _, msg := range append(resp.Bank, resp.CreditCard...) {
		var list *ofxgo.TransactionList
		switch stmt := msg.(type) {
		case *ofxgo.StatementResponse:
			list = stmt.BankTranList
		case *ofxgo.CCStatementResponse:
			list = stmt.BankTranList
		}
		if list == nil {
			continue
		}
		for _, tr := range list.Transactions {
			sheet = append(sheet, ofxRow(tr))
		}
	}
	return sheet, nil
}

func ofxRow(tr ofxgo.Transaction) domain.Row {
	return domain.Row{
		tr.DtPosted.Time.Format("02.01.2006 15:04"),
		tr.TrnType.String(),
		string(tr.Name),
		string(tr.Memo),
		formatStatementAmount(tr.TrnAmt.String()),
	}
}

// formatStatementAmount renders "1234.5" as "+1234,50" and "-20" as "-20,00".
// Unparsable input is returned unchanged.
func formatStatementAmount(s string) string {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	text := strings.Replace(amount.StringFixed(2), ".", ",", 1)
	if amount.IsPositive() {
		return "+" + text
	}
	return text
}
