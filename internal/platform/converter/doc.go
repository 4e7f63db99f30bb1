// Package converter turns an uploaded slide deck into an ordered sequence
// of page images. It wraps two local tools: LibreOffice (deck to PDF) and
// pdftoppm (PDF to one PNG per page). Intermediate files are written next
// to the source document; cleaning them up is the caller's responsibility.
package converter
