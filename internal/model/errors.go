package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidationMissing = errors.New("required field is missing")
	ErrUploadTooLarge    = errors.New("upload exceeds the size limit")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrTokenInvalid        = errors.New("invalid or missing token")
	ErrAlreadyViewed       = errors.New("document has already been viewed")
	ErrRequiresView        = errors.New("document must be viewed before release")
	ErrPrintTokenMissing   = errors.New("print token is required")
	ErrPrintTokenInvalid   = errors.New("invalid print token")
	ErrPrintTokenExpired   = errors.New("print token has expired")
	ErrPrintTokenUsed      = errors.New("print token has already been used")
	ErrRateLimited         = errors.New("too many print token requests")
	ErrCryptoAuth          = errors.New("decryption failed")
	ErrCryptoShape         = errors.New("malformed encryption envelope")
	ErrNotFound            = errors.New("not found")
	ErrDocumentNotFound    = fmt.Errorf("document %w", ErrNotFound)
	ErrAlreadyReleased     = errors.New("job has already been released")
	ErrLinkExpired         = errors.New("release link has expired")
	ErrUnauthorizedPrinter = errors.New("printer is not authorized")
)

// AlreadyViewedError : carries the view counter back to the client
type AlreadyViewedError struct {
	ViewCount int
}

func (e *AlreadyViewedError) Error() string {
	return fmt.Sprintf("%s (viewCount=%d)", ErrAlreadyViewed.Error(), e.ViewCount)
}

func (e *AlreadyViewedError) Is(target error) bool {
	return target == ErrAlreadyViewed
}
