package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/momoledger/src/models"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Jane Smith", SanitizeText("Jane Smith"))
	assert.Equal(t, "Jane", SanitizeText("<b>Jane</b>"))
	assert.Equal(t, "Jane", SanitizeText("<script>alert(1)</script>Jane"))
	assert.Equal(t, "clean", SanitizeText("clean\x00\x07"))
}

func TestSanitizeTransactionInput(t *testing.T) {
	sender := "<i>Jane</i>"
	amount := int64(100)
	in := models.TransactionInput{
		Sender: &sender,
		Amount: &amount,
	}

	SanitizeTransactionInput(&in)

	assert.Equal(t, "Jane", *in.Sender)
	assert.Equal(t, int64(100), *in.Amount)
	assert.Nil(t, in.Recipient)
}
