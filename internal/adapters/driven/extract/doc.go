// Package extract turns uploaded files into plain text.
//
// Each extractor handles one family of file formats and registers the
// extensions it claims. The registry dispatches a file to the highest
// priority extractor for its extension, so a configured extraction
// service can take over formats the local extractors also handle.
//
// Extractors:
//   - Plaintext: txt, md, text files read as-is
//   - Docx: Word documents parsed from the OOXML archive
//   - PDF: pdftotext via an injectable command runner
//   - Service: HTTP extraction service with an OCR path for scanned
//     uploads
package extract
