package momo

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/username/momoledger/src/logger"
	"github.com/username/momoledger/src/models"
)

// dateLayout is the normalized textual form of a transaction timestamp.
const dateLayout = "2006-01-02 15:04:05"

// smsLog mirrors the provider backup format: a <smses> root holding <sms>
// elements whose data lives entirely in attributes.
type smsLog struct {
	XMLName  xml.Name    `xml:"smses"`
	Messages []smsRecord `xml:"sms"`
}

type smsRecord struct {
	Date         string `xml:"date,attr"`
	Body         string `xml:"body,attr"`
	ReadableDate string `xml:"readable_date,attr"`
}

// ParseFile reads a provider SMS backup and classifies every message into
// a transaction record, in file order. Records have no IDs yet; the store
// assigns them on seeding. A missing or malformed file is an error for
// the caller to degrade on; a malformed individual message is not, it
// just classifies as UNKNOWN.
func ParseFile(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("momo parser: reading sms log %s: %w", path, err)
	}
	return ParseLog(data)
}

// ParseLog classifies every message in a raw XML backup document.
func ParseLog(data []byte) ([]models.Transaction, error) {
	var backup smsLog
	if err := xml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("momo parser: unmarshalling sms log: %w", err)
	}

	txs := make([]models.Transaction, 0, len(backup.Messages))
	for _, sms := range backup.Messages {
		tx := Classify(sms.Body)
		tx.Date = normalizeDate(sms.Date, sms.ReadableDate)
		txs = append(txs, tx)
	}

	logger.L.Info("Parsed SMS log", "messages", len(backup.Messages), "transactions", len(txs))
	return txs, nil
}

// normalizeDate renders an epoch-milliseconds timestamp in the fixed
// layout, falling back to the provider's readable date when the timestamp
// is absent or unparsable, and to absent when neither is usable.
func normalizeDate(timestampMillis, readableDate string) *string {
	if ms, err := strconv.ParseInt(timestampMillis, 10, 64); err == nil {
		formatted := time.UnixMilli(ms).Format(dateLayout)
		return &formatted
	}
	if readableDate != "" {
		return &readableDate
	}
	return nil
}
