package link

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/rc"
)

// CommandHandler is called when a command is received.
type CommandHandler interface {
	HandleCommand(context.Context, rc.Command)
}

// HandleCommandFunc is func type of CommandHandler.
type HandleCommandFunc func(context.Context, rc.Command)

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(ctx context.Context, cmd rc.Command) {
	f(ctx, cmd)
}

// HandlerMux dispatches commands to multiple handlers.
type HandlerMux struct {
	Handlers []CommandHandler
}

// Add adds handlers.
func (m *HandlerMux) Add(handlers ...CommandHandler) *HandlerMux {
	m.Handlers = append(m.Handlers, handlers...)
	return m
}

// HandleCommand implements CommandHandler.
func (m *HandlerMux) HandleCommand(ctx context.Context, cmd rc.Command) {
	for _, h := range m.Handlers {
		h.HandleCommand(ctx, cmd)
	}
}

// Sender sends commands.
type Sender interface {
	Send(rc.Command) error
}

// Splitter is implemented by framers which can split a byte stream
// into frames, e.g. slip.Framer and cobs.Framer.
type Splitter interface {
	Split(data []byte, atEOF bool) (advance int, token []byte, err error)
}

// Stats counts frames processed by Link.
type Stats struct {
	Sent     uint64
	Received uint64
	Dropped  uint64
}

// maxFrameLen limits bytes buffered while looking for a delimiter.
const maxFrameLen = 4096

// Link sends/receives framed commands over a byte stream (e.g. serial port).
type Link struct {
	ReadWriter io.ReadWriter
	Codec      *rc.Codec
	Handler    CommandHandler
	// Name is used in logs.
	Name string

	sendLock  sync.Mutex
	sendRaw   rc.Buffer
	sendBuf   rc.FixedBuffer
	stats     Stats
	statsLock sync.Mutex
}

// NewLink creates a Link.
func NewLink(rw io.ReadWriter, codec *rc.Codec) *Link {
	return &Link{ReadWriter: rw, Codec: codec, Name: "link"}
}

// Stats returns a snapshot of the counters.
func (l *Link) Stats() Stats {
	l.statsLock.Lock()
	defer l.statsLock.Unlock()
	return l.stats
}

// Send encodes the command into a frame and writes it.
func (l *Link) Send(cmd rc.Command) error {
	l.sendLock.Lock()
	defer l.sendLock.Unlock()
	if l.sendRaw == nil {
		l.sendRaw = l.Codec.NewBuffer()
	}
	if _, err := l.Codec.EncodeFrameWith(cmd, l.sendRaw, &l.sendBuf); err != nil {
		return err
	}
	if _, err := l.ReadWriter.Write(l.sendBuf.Bytes()); err != nil {
		return err
	}
	glog.V(3).Infof("%s SND %s", l.Name, cmd.Tag())
	l.count(func(s *Stats) { s.Sent++ })
	return nil
}

// Run reads frames and dispatches commands until ctx is done or
// reading fails. Malformed frames are dropped.
// When ctx is done, the ReadWriter is closed (if it's an io.Closer)
// to release the pending Read.
func (l *Link) Run(ctx context.Context) error {
	splitter, ok := l.Codec.Framer().(Splitter)
	if !ok {
		return ErrNoSplitter
	}
	frameCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, splitter, frameCh, errCh)
	raw := l.Codec.NewBuffer()
	for {
		select {
		case frame := <-frameCh:
			l.processFrame(ctx, frame, raw)
		case err := <-errCh:
			return err
		case <-ctx.Done():
			if err := l.Close(); err != nil {
				glog.V(2).Infof("%s close error: %v", l.Name, err)
			}
			return ctx.Err()
		}
	}
}

func (l *Link) readLoop(ctx context.Context, splitter Splitter, frameCh chan []byte, errCh chan error) {
	scanner := bufio.NewScanner(l.ReadWriter)
	scanner.Buffer(make([]byte, 0, rc.MaxFrameSize*2), maxFrameLen)
	scanner.Split(splitter.Split)
	for scanner.Scan() {
		frame := append([]byte(nil), scanner.Bytes()...)
		select {
		case frameCh <- frame:
		case <-ctx.Done():
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	errCh <- err
}

func (l *Link) processFrame(ctx context.Context, frame []byte, raw rc.Buffer) {
	cmd, err := l.Codec.DecodeFrameWith(frame, raw)
	if err != nil {
		glog.Warningf("%s drop frame % x: %v", l.Name, frame, err)
		l.count(func(s *Stats) { s.Dropped++ })
		return
	}
	glog.V(3).Infof("%s RCV %s", l.Name, cmd.Tag())
	l.count(func(s *Stats) { s.Received++ })
	if h := l.Handler; h != nil {
		h.HandleCommand(ctx, cmd)
	}
}

func (l *Link) count(fn func(*Stats)) {
	l.statsLock.Lock()
	fn(&l.stats)
	l.statsLock.Unlock()
}

// Close closes the underlying ReadWriter if it's an io.Closer.
// Run calls it when its context is done.
func (l *Link) Close() error {
	if closer, ok := l.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
