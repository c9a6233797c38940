package momo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/momoledger/src/models"
)

const sampleLog = `<?xml version="1.0" encoding="UTF-8"?>
<smses count="3">
  <sms protocol="0" address="M-Money" date="1715351458724" body="You have received 2,000 RWF from Jane Smith (*********013) on your mobile money account at 2024-05-10 16:30:51. Your new balance:2,000 RWF. Financial Transaction Id: 662021700." readable_date="10 May 2024 4:30:58 PM" />
  <sms protocol="0" address="M-Money" date="" body="TxId: 73214484437. Your payment of 1,000 RWF to Jane Smith 12845 has been completed at 2024-05-10 16:31:39. Your new balance: 1,000 RWF. Fee was 0 RWF." readable_date="10 May 2024 4:31:46 PM" />
  <sms protocol="0" address="M-Money" date="" body="Service notice: planned maintenance tonight." readable_date="" />
</smses>`

func writeSampleLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sms.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeSampleLog(t, sampleLog)

	txs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// File order is preserved; IDs are left for the store to assign.
	assert.Equal(t, models.TypeReceived, txs[0].Type)
	assert.Equal(t, models.TypePayment, txs[1].Type)
	assert.Equal(t, models.TypeUnknown, txs[2].Type)
	for _, tx := range txs {
		assert.Zero(t, tx.ID)
	}

	// Valid epoch millis render in the fixed layout.
	require.NotNil(t, txs[0].Date)
	expected := time.UnixMilli(1715351458724).Format(dateLayout)
	assert.Equal(t, expected, *txs[0].Date)

	// No timestamp falls back to the provider readable date.
	require.NotNil(t, txs[1].Date)
	assert.Equal(t, "10 May 2024 4:31:46 PM", *txs[1].Date)

	// Neither usable means the date is absent.
	assert.Nil(t, txs[2].Date)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "does-not-exist.xml"))
	assert.Error(t, err)
}

func TestParseLogMalformed(t *testing.T) {
	_, err := ParseLog([]byte("<smses><sms body="))
	assert.Error(t, err)
}

func TestParseLogEmpty(t *testing.T) {
	txs, err := ParseLog([]byte(`<smses count="0"></smses>`))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestNormalizeDate(t *testing.T) {
	d := normalizeDate("1715351458724", "fallback")
	require.NotNil(t, d)
	assert.Equal(t, time.UnixMilli(1715351458724).Format(dateLayout), *d)

	d = normalizeDate("not-a-number", "10 May 2024 4:30:58 PM")
	require.NotNil(t, d)
	assert.Equal(t, "10 May 2024 4:30:58 PM", *d)

	assert.Nil(t, normalizeDate("", ""))
}
