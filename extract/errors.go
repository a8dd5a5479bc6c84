package extract

import "errors"

// ErrDocumentOpen indicates the whole file is unreadable or encrypted.
// Conversion of the document is aborted; a batch continues with the next
// document
var ErrDocumentOpen = errors.New("document cannot be opened")

// ErrCorruptPage indicates a page content stream could not be decoded.
// The page is skipped and the document continues
var ErrCorruptPage = errors.New("page content stream cannot be decoded")

// ErrImageExtract indicates an embedded image could not be decoded.
// The image is skipped and the page continues
var ErrImageExtract = errors.New("embedded image cannot be decoded")
