package mailsift_errors

import "errors"

var (
	ErrAuthentication = errors.New("mailbox authentication failed")
	ErrConnection     = errors.New("mailbox connection failed")
	ErrFolderSelect   = errors.New("mailbox folder select failed")
	ErrSearch         = errors.New("mailbox search failed")
	ErrFetch          = errors.New("mailbox fetch failed")
	ErrExtraction     = errors.New("message extraction failed")
	ErrClassification = errors.New("content classification failed")
)
