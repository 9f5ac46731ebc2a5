package extract

import "unicode"

// Scanned-document detection thresholds. A text body below the
// character minimum or the readable ratio is almost always a scanned
// upload whose glyphs never made it into the text layer.
const (
	minReadableChars = 20
	minReadableRatio = 0.05
)

// looksScanned reports whether extracted text is too thin to be a real
// text layer.
func looksScanned(text string) bool {
	runes := []rune(text)
	if len(runes) < minReadableChars {
		return true
	}

	readable := 0
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			readable++
		}
	}
	return float64(readable)/float64(len(runes)) < minReadableRatio
}
