package domain

import "io"

// DocumentKind names a compliance document collected during lead conversion
type DocumentKind string

const (
	DocumentGST    DocumentKind = "gst"
	DocumentPAN    DocumentKind = "pan"
	DocumentAadhar DocumentKind = "aadhar"
	DocumentMSME   DocumentKind = "msme"
)

// Document is an uploaded file that has not been stored yet
type Document struct {
	Kind        DocumentKind
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}
