package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-imap/responses"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/dto"
	mailsift_errors "github.com/mailsift/mailsift/errors"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/tracing"
)

const (
	dialTimeout    = 30 * time.Second
	commandTimeout = 30 * time.Second
	fetchTimeout   = 60 * time.Second
)

type Client struct {
	cfg *config.MailboxConfig
	log logger.Logger
}

func NewClient(cfg *config.MailboxConfig, log logger.Logger) interfaces.MailboxClient {
	return &Client{
		cfg: cfg,
		log: log,
	}
}

// Open dials the provider over TLS and authenticates. The returned session is
// exclusively owned by the caller until Close.
func (c *Client) Open(ctx context.Context) (interfaces.MailboxSession, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPClient.Open")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	serverAddr := fmt.Sprintf("%s:%d", c.cfg.ImapServer, c.cfg.ImapPort)

	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: dialTimeout,
	}

	tlsConfig := &tls.Config{
		ServerName: c.cfg.ImapServer,
	}

	cl, err := client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	if err != nil {
		err = errors.Wrapf(mailsift_errors.ErrConnection, "dial %s: %v", serverAddr, err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	cl.Timeout = commandTimeout
	if err := cl.Login(c.cfg.Username, c.cfg.Password); err != nil {
		cl.Logout()
		err = errors.Wrapf(mailsift_errors.ErrAuthentication, "login %s: %v", c.cfg.Username, err)
		tracing.TraceErr(span, err)
		return nil, err
	}
	cl.Timeout = 0

	c.log.Infof("connected to %s as %s", serverAddr, c.cfg.Username)

	return &session{c: cl, log: c.log}, nil
}

type session struct {
	c         *client.Client
	log       logger.Logger
	closeOnce sync.Once
}

func (s *session) SelectFolder(ctx context.Context, name string) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPSession.SelectFolder")
	defer span.Finish()
	span.SetTag("folder", name)

	s.c.Timeout = commandTimeout
	mbox, err := s.c.Select(name, false)
	s.c.Timeout = 0
	if err != nil {
		err = errors.Wrapf(mailsift_errors.ErrFolderSelect, "select %q: %v", name, err)
		tracing.TraceErr(span, err)
		return err
	}

	s.log.Infof("selected folder %q: %d messages, %d unseen", name, mbox.Messages, mbox.Unseen)
	return nil
}

// searchCommand issues a SEARCH with raw atoms, which the structured criteria
// type cannot express for provider extensions like X-GM-RAW.
type searchCommand struct {
	args []interface{}
}

func (cmd *searchCommand) Command() *goimap.Command {
	return &goimap.Command{
		Name:      "SEARCH",
		Arguments: cmd.args,
	}
}

func (s *session) Search(ctx context.Context, query dto.FetchQuery) ([]uint32, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPSession.Search")
	defer span.Finish()
	tracing.TagCategory(span, query.Category)

	cmd := &searchCommand{args: BuildSearchAtoms(query)}
	res := &responses.Search{}

	s.c.Timeout = commandTimeout
	status, err := s.c.Execute(cmd, res)
	s.c.Timeout = 0
	if err == nil {
		err = status.Err()
	}
	if err != nil {
		err = errors.Wrapf(mailsift_errors.ErrSearch, "category %q: %v", query.Category, err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	return res.Ids, nil
}

// Fetch retrieves the full raw message without setting the seen flag; the
// orchestrator marks messages seen only after the record has been persisted.
func (s *session) Fetch(ctx context.Context, seqNum uint32) (*dto.RawMessage, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPSession.Fetch")
	defer span.Finish()
	span.SetTag("seq_num", seqNum)

	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(seqNum)

	section := &goimap.BodySectionName{Peek: true}
	items := []goimap.FetchItem{section.FetchItem()}

	messages := make(chan *goimap.Message, 1)

	s.c.Timeout = fetchTimeout
	err := s.c.Fetch(seqSet, items, messages)
	s.c.Timeout = 0
	if err != nil {
		err = errors.Wrapf(mailsift_errors.ErrFetch, "message %d: %v", seqNum, err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	msg, ok := <-messages
	if !ok || msg == nil {
		err = errors.Wrapf(mailsift_errors.ErrFetch, "message %d: empty fetch response", seqNum)
		tracing.TraceErr(span, err)
		return nil, err
	}

	literal := msg.GetBody(section)
	if literal == nil {
		err = errors.Wrapf(mailsift_errors.ErrFetch, "message %d: missing body section", seqNum)
		tracing.TraceErr(span, err)
		return nil, err
	}

	body, err := io.ReadAll(literal)
	if err != nil {
		err = errors.Wrapf(mailsift_errors.ErrFetch, "message %d: %v", seqNum, err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &dto.RawMessage{SeqNum: seqNum, Body: body}, nil
}

func (s *session) MarkSeen(ctx context.Context, seqNum uint32) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPSession.MarkSeen")
	defer span.Finish()
	span.SetTag("seq_num", seqNum)

	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(seqNum)

	item := goimap.FormatFlagsOp(goimap.AddFlags, true)
	flags := []interface{}{goimap.SeenFlag}

	s.c.Timeout = commandTimeout
	err := s.c.Store(seqSet, item, flags, nil)
	s.c.Timeout = 0
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (s *session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.c.Timeout = 5 * time.Second
		err = s.c.Logout()
	})
	return err
}
