package bizcuit

import "regexp"

// Bizcuit transaction exports are CAMT documents. Paging on entry references
// with after_id is the only gap-free way to walk them: the date fields follow
// the banks' bookkeeping and are not reliably ordered, while entry references
// follow Bizcuit's own processing order. The last <NtryRef> of a page is
// therefore the cursor for the next page.
var entryRefPattern = regexp.MustCompile(`<NtryRef>([a-zA-Z0-9]*)</NtryRef>`)

// lastEntryReference returns the last entry reference of a CAMT page in
// document order. ok is false when the page holds no entries, meaning the
// account has no transactions left.
func lastEntryReference(camt string) (ref string, ok bool) {
	matches := entryRefPattern.FindAllStringSubmatch(camt, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}
