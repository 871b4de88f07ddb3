package xmlutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = `<?xml version="1.0" encoding="UTF-8"?>
<Document>
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Id><IBAN>NL91ABNA0417164300</IBAN></Id></Acct>
      <Ntry>
        <Amt Ccy="EUR">150.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2025-03-01</Dt></BookgDt>
        <AcctSvcrRef>REF-001</AcctSvcrRef>
        <AddtlNtryInf>BETALING ACME SUPPLIES</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">42.50</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2025-03-02</Dt></BookgDt>
        <AcctSvcrRef>REF-002</AcctSvcrRef>
        <AddtlNtryInf>STORTING KLANT JANSEN</AddtlNtryInf>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleStatement), 0o600))
	return path
}

func TestLoadXMLFile(t *testing.T) {
	root, err := LoadXMLFile(writeSample(t))
	require.NoError(t, err)
	require.NotNil(t, root)

	_, err = LoadXMLFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestExtractFromXML(t *testing.T) {
	root, err := LoadXMLFile(writeSample(t))
	require.NoError(t, err)

	amounts, err := ExtractFromXML(root, XPathAmount)
	require.NoError(t, err)
	assert.Equal(t, []string{"150.00", "42.50"}, amounts)

	refs, err := ExtractFromXML(root, XPathAccountSvcRef)
	require.NoError(t, err)
	assert.Equal(t, []string{"REF-001", "REF-002"}, refs)

	iban, err := ExtractFromXML(root, XPathIBAN)
	require.NoError(t, err)
	assert.Equal(t, []string{"NL91ABNA0417164300"}, iban)

	_, err = ExtractFromXML(root, "//[invalid")
	assert.Error(t, err)
}

func TestGetOrEmpty(t *testing.T) {
	values := []string{"a", "b"}
	assert.Equal(t, "a", GetOrEmpty(values, 0))
	assert.Equal(t, "b", GetOrEmpty(values, 1))
	assert.Equal(t, "", GetOrEmpty(values, 2))
	assert.Equal(t, "", GetOrEmpty(nil, 0))
}
