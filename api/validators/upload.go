package validators

import (
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// ValidateImageUpload enforces the size cap and sniffs the content type of an
// uploaded image. The reader is rewound before returning.
func ValidateImageUpload(header *multipart.FileHeader, maxBytes int64) (multipart.File, error) {
	if header == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image file required")
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the maximum allowed size").
			WithDetails(map[string]any{"max_bytes": maxBytes, "size": header.Size})
	}

	file, err := header.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open uploaded file")
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && n == 0 {
		file.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind uploaded file")
	}

	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		file.Close()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only PNG and JPG images are accepted").
			WithDetails(map[string]any{"content_type": contentType})
	}
	return file, nil
}

// ValidatePDFUpload enforces the size cap on an uploaded PDF document.
func ValidatePDFUpload(header *multipart.FileHeader, maxBytes int64) (multipart.File, error) {
	if header == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document file required")
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document exceeds the maximum allowed size").
			WithDetails(map[string]any{"max_bytes": maxBytes, "size": header.Size})
	}

	file, err := header.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open uploaded file")
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && n == 0 {
		file.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind uploaded file")
	}

	if http.DetectContentType(head[:n]) != "application/pdf" {
		file.Close()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only PDF documents are accepted")
	}
	return file, nil
}
