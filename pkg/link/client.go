package link

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/rc"
)

// Client provides controller side operations over a Link.
type Client struct {
	link  *Link
	cmdCh chan rc.Command

	waiters     []chan rc.SendMotionState
	waitersLock sync.Mutex
}

// NewClient creates client and wraps the link.
func NewClient(link *Link) *Client {
	c := &Client{
		link:  link,
		cmdCh: make(chan rc.Command, 16),
	}
	c.link.Handler = c
	return c
}

// Link gets wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// CommandChan retrieves commands received which are not motion state
// replies. Commands are dropped if the chan is full.
func (c *Client) CommandChan() <-chan rc.Command {
	return c.cmdCh
}

// Do sends a command.
func (c *Client) Do(cmd rc.Command) error {
	return c.link.Send(cmd)
}

// MotionState sends GetMotionState and waits for the next SendMotionState.
// The query is not retried, use ctx to limit the wait.
func (c *Client) MotionState(ctx context.Context) (rc.SendMotionState, error) {
	ch := make(chan rc.SendMotionState, 1)
	c.waitersLock.Lock()
	c.waiters = append(c.waiters, ch)
	c.waitersLock.Unlock()

	if err := c.link.Send(rc.GetMotionState{}); err != nil {
		c.removeWaiter(ch)
		return rc.SendMotionState{}, err
	}
	select {
	case state := <-ch:
		return state, nil
	case <-ctx.Done():
		c.removeWaiter(ch)
		return rc.SendMotionState{}, ctx.Err()
	}
}

func (c *Client) removeWaiter(ch chan rc.SendMotionState) {
	c.waitersLock.Lock()
	defer c.waitersLock.Unlock()
	for n, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:n], c.waiters[n+1:]...)
			return
		}
	}
}

// HandleCommand implements CommandHandler.
func (c *Client) HandleCommand(ctx context.Context, cmd rc.Command) {
	if state, ok := cmd.(rc.SendMotionState); ok {
		// without sequence numbers, a report answers all pending queries.
		c.waitersLock.Lock()
		waiters := c.waiters
		c.waiters = nil
		c.waitersLock.Unlock()
		for _, ch := range waiters {
			ch <- state
		}
		if len(waiters) > 0 {
			return
		}
	}
	select {
	case c.cmdCh <- cmd:
	default:
		glog.V(2).Infof("%s command chan full, drop %s", c.link.Name, cmd.Tag())
	}
}

// Run wraps Link.Run to implement Runnable.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}
