package invoicestore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageKey_UniquePerCall(t *testing.T) {
	first := storageKey("invoice.pdf")
	second := storageKey("invoice.pdf")

	assert.True(t, strings.HasPrefix(first, "invoices/"))
	assert.True(t, strings.HasSuffix(first, "-invoice.pdf"))
	assert.NotEqual(t, first, second)
}

func TestObjectURL_AWS(t *testing.T) {
	s := &Store{bucket: "warranty-wallet", region: "eu-north-1"}

	url := s.objectURL("invoices/abc-invoice.pdf")
	assert.Equal(t, "https://warranty-wallet.s3.eu-north-1.amazonaws.com/invoices/abc-invoice.pdf", url)

	key, err := s.keyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "invoices/abc-invoice.pdf", key)
}

func TestObjectURL_CustomEndpoint(t *testing.T) {
	s := &Store{bucket: "warranty-wallet", region: "eu-north-1", endpoint: "http://localhost:9000"}

	url := s.objectURL("invoices/abc-invoice.pdf")
	assert.Equal(t, "http://localhost:9000/warranty-wallet/invoices/abc-invoice.pdf", url)

	key, err := s.keyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "invoices/abc-invoice.pdf", key)
}

func TestKeyFromURL_ForeignURL(t *testing.T) {
	s := &Store{bucket: "warranty-wallet", region: "eu-north-1"}

	_, err := s.keyFromURL("https://other-bucket.s3.eu-north-1.amazonaws.com/invoices/abc")
	assert.Error(t, err)
}
