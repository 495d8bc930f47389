package input

// Bracketed paste framing. The terminal wraps pasted text between these two
// sequences when paste mode 2004 is enabled; the reader hands the content
// through as one unit instead of decoding it key by key.
const (
	PasteStart = "\x1b[200~"
	PasteEnd   = "\x1b[201~"
)
