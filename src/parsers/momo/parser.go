// Package momo extracts structured mobile money transactions from the raw
// SMS bodies found in an MTN MoMo provider log.
package momo

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/username/momoledger/src/models"
)

// grammar ties one transaction category to the guard that selects it and
// the extractor that pulls its fields out of the body. Grammars are
// evaluated in declaration order and the first matching guard wins, so
// overlapping guards (a deposit body also contains generic balance
// wording) resolve by position, not specificity.
type grammar struct {
	txType  models.TransactionType
	guard   func(body string) bool
	extract func(body string, tx *models.Transaction)
}

var (
	reReceivedAmount  = regexp.MustCompile(`received (\d+(?:,\d+)*) RWF`)
	reReceivedSender  = regexp.MustCompile(`from ([^(]+)\s*\(`)
	reMaskedPhone     = regexp.MustCompile(`\(\*+(\d+)\)`)
	reLooseBalance    = regexp.MustCompile(`balance:?\s*(\d+(?:,\d+)*)\s*RWF`)
	reFinancialTxID   = regexp.MustCompile(`Transaction Id:\s*(\d+)`)
	rePaymentTxID     = regexp.MustCompile(`TxId:\s*(\d+)`)
	rePaymentAmount   = regexp.MustCompile(`payment of ([\d,]+) RWF`)
	rePaymentTo       = regexp.MustCompile(`to ([A-Za-z\s]+)\s+\d+`)
	reBalance         = regexp.MustCompile(`balance:\s*([\d,]+)\s*RWF`)
	reFeeWas          = regexp.MustCompile(`Fee was ([\d,]+) RWF`)
	reTransferAmount  = regexp.MustCompile(`\*165\*S\*([\d,]+) RWF`)
	reTransferTo      = regexp.MustCompile(`transferred to ([^(]+)\s*\(`)
	rePlainPhone      = regexp.MustCompile(`\((\d+)\)`)
	reFeeWasColon     = regexp.MustCompile(`Fee was:\s*([\d,]+) RWF`)
	reDepositAmount   = regexp.MustCompile(`deposit of ([\d,]+) RWF`)
	reDepositBalance  = regexp.MustCompile(`BALANCE\s*:?\s*([\d,]+)\s*RWF`)
	reWithdrawnAmount = regexp.MustCompile(`withdrawn ([\d,]+) RWF`)
	reAgentName       = regexp.MustCompile(`Agent ([^(]+)\s*\(`)
	reAgentPhone      = regexp.MustCompile(`Agent [^(]+\((\d+)\)`)
	reFeePaid         = regexp.MustCompile(`Fee paid:\s*([\d,]+) RWF`)
	reAirtimeTxID     = regexp.MustCompile(`TxId:(\d+)`)
	reMerchantAmount  = regexp.MustCompile(`transaction of ([\d,]+) RWF`)
	reMerchantName    = regexp.MustCompile(`by ([A-Z\s]+) on`)
)

// grammars is the priority-ordered list the classifier walks. The order
// reproduces the provider's message overlap rules; do not reorder.
var grammars = []grammar{
	{
		txType: models.TypeReceived,
		guard: func(body string) bool {
			return strings.Contains(body, "received") && strings.Contains(body, "RWF")
		},
		extract: func(body string, tx *models.Transaction) {
			captureInt(reReceivedAmount, body, tx.Amount)
			tx.Sender = captureTrimmed(reReceivedSender, body)
			if m := reMaskedPhone.FindStringSubmatch(body); m != nil {
				phone := "*********" + m[1]
				tx.PhoneNumber = &phone
			}
			captureInt(reLooseBalance, body, &tx.Balance)
			tx.TransactionID = capture(reFinancialTxID, body)
		},
	},
	{
		txType: models.TypePayment,
		guard: func(body string) bool {
			return strings.Contains(body, "TxId:") && strings.Contains(body, "Your payment of")
		},
		extract: func(body string, tx *models.Transaction) {
			tx.TransactionID = capture(rePaymentTxID, body)
			captureInt(rePaymentAmount, body, tx.Amount)
			tx.Recipient = captureTrimmed(rePaymentTo, body)
			captureInt(reBalance, body, &tx.Balance)
			captureInt(reFeeWas, body, &tx.Fee)
		},
	},
	{
		txType: models.TypeTransfer,
		guard: func(body string) bool {
			return strings.Contains(body, "transferred to") && strings.Contains(body, "*165*S*")
		},
		extract: func(body string, tx *models.Transaction) {
			captureInt(reTransferAmount, body, tx.Amount)
			tx.Recipient = captureTrimmed(reTransferTo, body)
			tx.PhoneNumber = capture(rePlainPhone, body)
			captureInt(reFeeWasColon, body, &tx.Fee)
			captureInt(reBalance, body, &tx.Balance)
		},
	},
	{
		txType: models.TypeDeposit,
		guard: func(body string) bool {
			return strings.Contains(body, "bank deposit") || strings.Contains(body, "*113*R*")
		},
		extract: func(body string, tx *models.Transaction) {
			captureInt(reDepositAmount, body, tx.Amount)
			captureInt(reDepositBalance, body, &tx.Balance)
			recipient := "Bank Deposit"
			tx.Recipient = &recipient
		},
	},
	{
		txType: models.TypeWithdrawal,
		guard: func(body string) bool {
			return strings.Contains(body, "withdrawn")
		},
		extract: func(body string, tx *models.Transaction) {
			captureInt(reWithdrawnAmount, body, tx.Amount)
			tx.Recipient = captureTrimmed(reAgentName, body)
			tx.PhoneNumber = capture(reAgentPhone, body)
			captureInt(reFeePaid, body, &tx.Fee)
			captureInt(reBalance, body, &tx.Balance)
			tx.TransactionID = capture(reFinancialTxID, body)
		},
	},
	{
		txType: models.TypeAirtime,
		guard: func(body string) bool {
			return strings.Contains(body, "Airtime") || strings.Contains(body, "Cash Power")
		},
		extract: func(body string, tx *models.Transaction) {
			tx.TransactionID = capture(reAirtimeTxID, body)
			captureInt(rePaymentAmount, body, tx.Amount)
			var recipient string
			if strings.Contains(body, "Airtime") {
				recipient = "Airtime Purchase"
			} else {
				recipient = "Electricity (Cash Power)"
			}
			tx.Recipient = &recipient
			captureInt(reFeeWas, body, &tx.Fee)
			captureInt(reBalance, body, &tx.Balance)
		},
	},
	{
		txType: models.TypeOTP,
		guard: func(body string) bool {
			return strings.Contains(body, "one-time password") || strings.Contains(body, "OTP")
		},
		extract: func(body string, tx *models.Transaction) {
			// OTP messages are classified but carry no monetary fields.
			recipient := "MTN MoMo App"
			tx.Recipient = &recipient
		},
	},
	{
		txType: models.TypeMerchantPayment,
		guard: func(body string) bool {
			return strings.Contains(body, "DIRECT PAYMENT") || strings.Contains(body, "*164*S*")
		},
		extract: func(body string, tx *models.Transaction) {
			captureInt(reMerchantAmount, body, tx.Amount)
			tx.Recipient = captureTrimmed(reMerchantName, body)
			captureInt(reBalance, body, &tx.Balance)
			captureInt(reFeeWas, body, &tx.Fee)
			tx.TransactionID = capture(reFinancialTxID, body)
		},
	},
}

// Classify parses one SMS body into a transaction record. It is stateless
// and total: any input yields a result, falling back to UNKNOWN with
// default fields when no grammar matches. A field its grammar cannot find
// simply keeps its default; classification itself never fails.
func Classify(body string) models.Transaction {
	amount := int64(0)
	tx := models.Transaction{
		Type:    models.TypeUnknown,
		Amount:  &amount,
		Message: body,
	}

	for _, g := range grammars {
		if g.guard(body) {
			tx.Type = g.txType
			g.extract(body, &tx)
			break
		}
	}

	return tx
}

// parseAmount strips thousands separators and parses the digits. The
// capture groups only admit digits and commas, so a parse failure means a
// bug in the pattern, not bad input; 0 is returned regardless.
func parseAmount(s string) int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func capture(re *regexp.Regexp, body string) *string {
	if m := re.FindStringSubmatch(body); m != nil {
		return &m[1]
	}
	return nil
}

func captureTrimmed(re *regexp.Regexp, body string) *string {
	if m := re.FindStringSubmatch(body); m != nil {
		v := strings.TrimSpace(m[1])
		return &v
	}
	return nil
}

func captureInt(re *regexp.Regexp, body string, dst *int64) {
	if m := re.FindStringSubmatch(body); m != nil {
		*dst = parseAmount(m[1])
	}
}
