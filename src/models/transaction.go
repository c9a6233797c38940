package models

// TransactionType classifies a mobile money SMS into one of the known
// transaction categories. UNKNOWN is used when no grammar matched.
type TransactionType string

const (
	TypeReceived        TransactionType = "RECEIVED"
	TypePayment         TransactionType = "PAYMENT"
	TypeTransfer        TransactionType = "TRANSFER"
	TypeDeposit         TransactionType = "DEPOSIT"
	TypeWithdrawal      TransactionType = "WITHDRAWAL"
	TypeAirtime         TransactionType = "AIRTIME"
	TypeOTP             TransactionType = "OTP"
	TypeMerchantPayment TransactionType = "MERCHANT_PAYMENT"
	TypeUnknown         TransactionType = "UNKNOWN"
)

// RawMessage is a single SMS record as read from the provider log.
// Timestamp is the raw epoch-milliseconds attribute and may be empty;
// ReadableDate is the provider's human-readable fallback.
type RawMessage struct {
	Body         string `json:"body"`
	Timestamp    string `json:"timestamp"`
	ReadableDate string `json:"readable_date"`
}

// Transaction is the canonical record extracted from one SMS (or created
// through the API). Pointer fields model values that can be genuinely
// absent; they serialize as explicit JSON null so consumers never have to
// distinguish a missing key from a null one. Fee and Balance default to
// zero when the message carries no such field.
type Transaction struct {
	ID            int64           `json:"id"`
	Type          TransactionType `json:"transaction_type"`
	Amount        *int64          `json:"amount"`
	Fee           int64           `json:"fee"`
	Balance       int64           `json:"balance"`
	Sender        *string         `json:"sender"`
	Recipient     *string         `json:"recipient"`
	PhoneNumber   *string         `json:"phone_number"`
	TransactionID *string         `json:"transaction_id"` // provider reference, distinct from ID
	Date          *string         `json:"date"`
	Message       string          `json:"message"` // original SMS body, kept verbatim
}

// AmountValue returns the amount treating absent as zero, so aggregation
// never needs a nil guard.
func (t *Transaction) AmountValue() int64 {
	if t.Amount == nil {
		return 0
	}
	return *t.Amount
}

// TransactionInput is the payload accepted by the create and update
// endpoints. Every field is optional at the decoding level; the store
// enforces which ones are required on create. An ID in the payload is
// never applied to the record.
type TransactionInput struct {
	ID            *int64           `json:"id"`
	Type          *TransactionType `json:"transaction_type"`
	Amount        *int64           `json:"amount"`
	Fee           *int64           `json:"fee"`
	Balance       *int64           `json:"balance"`
	Sender        *string          `json:"sender"`
	Recipient     *string          `json:"recipient"`
	PhoneNumber   *string          `json:"phone_number"`
	TransactionID *string          `json:"transaction_id"`
	Date          *string          `json:"date"`
	Message       *string          `json:"message"`
}

// Stats is the aggregate view over the full transaction set.
type Stats struct {
	TotalTransactions int                     `json:"total_transactions"`
	TransactionTypes  map[TransactionType]int `json:"transaction_types"`
	TotalAmount       int64                   `json:"total_amount"`
	TotalFees         int64                   `json:"total_fees"`
}
