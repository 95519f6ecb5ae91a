package pdfform

import "bytes"

var pdfMagic = []byte("%PDF-")

// Recognizer is implemented by openers that can tell whether fetched bytes
// are a template they understand. Openers without it are assumed to want PDF.
type Recognizer interface {
	Recognize(data []byte) bool
}

// IsPDF reports whether data starts with the PDF header, allowing leading
// whitespace.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\x00"), pdfMagic)
}

// Recognizes applies the opener's Recognizer, falling back to IsPDF.
func Recognizes(opener Opener, data []byte) bool {
	if r, ok := opener.(Recognizer); ok {
		return r.Recognize(data)
	}
	return IsPDF(data)
}
