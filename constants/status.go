package constants

// DocStatus is the outcome of processing one report inside a sample.
type DocStatus string

// Stable values (shown in the Diagnostics sheet).
const (
	DocStatusExtracted  DocStatus = "EXTRACTED"  // text read and fields extracted
	DocStatusUnreadable DocStatus = "UNREADABLE" // reader failed; skipped
	DocStatusDuplicate  DocStatus = "DUPLICATE"  // same content already in the sample; skipped
)
