package xmlutils

// XPath expressions for the CAMT.053 elements the importer reads.
const (
	XPathAmount         = "//Ntry/Amt"
	XPathCreditDebitInd = "//Ntry/CdtDbtInd" // #nosec G101 -- XPath expression, not credentials
	XPathBookingDate    = "//Ntry/BookgDt/Dt"
	XPathAddEntryInfo   = "//Ntry/AddtlNtryInf"
	XPathAccountSvcRef  = "//Ntry/AcctSvcrRef"
	XPathRemittanceInfo = "//Ntry/NtryDtls/TxDtls/RmtInf/Ustrd"
	XPathIBAN           = "//BkToCstmrStmt/Stmt/Acct/Id/IBAN"
)
