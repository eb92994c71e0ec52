package interfaces

import (
	"context"

	"github.com/mailsift/mailsift/dto"
)

// MailboxClient opens authenticated sessions against the mail provider.
type MailboxClient interface {
	Open(ctx context.Context) (MailboxSession, error)
}

// MailboxSession is one stateful provider session. Ordering of ids returned
// by Search is provider-native and not guaranteed chronological. Close is
// idempotent and must be called on every exit path.
type MailboxSession interface {
	SelectFolder(ctx context.Context, name string) error
	Search(ctx context.Context, query dto.FetchQuery) ([]uint32, error)
	Fetch(ctx context.Context, seqNum uint32) (*dto.RawMessage, error)
	// MarkSeen is best effort; a failure is logged by the caller, never fatal.
	MarkSeen(ctx context.Context, seqNum uint32) error
	Close() error
}
