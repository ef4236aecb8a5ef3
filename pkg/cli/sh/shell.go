package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/config"
	"github.com/robotalks/rclink/pkg/link"
	"github.com/robotalks/rclink/pkg/rc"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool
	// Timeout limits the wait for replies.
	Timeout time.Duration

	Shell  *ishell.Shell
	Config *config.Config
	Conn   *Conn
}

// Conn is a running connection to the vehicle.
type Conn struct {
	Target string
	Client *link.Client
	Cancel func()
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// ErrNotConnected is reported by commands requiring a connection.
var ErrNotConnected = errors.New("not connected")

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *config.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     time.Second,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(ErrNotConnected)
			return
		}
		fn(c)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens target and starts receiving commands.
// Empty target uses the configured one.
func (s *Shell) Connect(target string) error {
	if target == "" {
		target = s.Config.Target
	}
	codec, err := s.Config.NewCodec()
	if err != nil {
		return err
	}
	conf := *s.Config
	conf.Target = target
	rw, err := conf.OpenTarget()
	if err != nil {
		return err
	}
	l := link.NewLink(rw, codec)
	l.Name = target
	conn := &Conn{Target: target, Client: link.NewClient(l)}
	ctx, cancel := context.WithCancel(context.Background())
	conn.Cancel = func() {
		cancel()
		l.Close()
	}
	s.Disconnect()
	s.Conn = conn
	go func() {
		err := conn.Client.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			glog.Warningf("%s: %v", target, err)
		}
	}()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	return nil
}

// Disconnect disconnects current vehicle.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Print prints a command received from the vehicle.
func (s *Shell) Print(c *ishell.Context, cmd rc.Command) error {
	if s.OutputJSON {
		out, err := json.Marshal(NewCommandView(cmd))
		if err != nil {
			return err
		}
		c.Println(string(out))
		return nil
	}
	c.Println(FormatCommand(cmd))
	return nil
}

// DoCommand sends a command to the vehicle.
func DoCommand(c *ishell.Context, cmd rc.Command) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		c.Err(ErrNotConnected)
		return ErrNotConnected
	}
	if err := s.Conn.Client.Do(cmd); err != nil {
		c.Err(err)
		return err
	}
	if s.OutputJSON {
		c.Println(`{"ok":true}`)
	} else {
		c.Println("OK")
	}
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Target != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Target)
		}
		if err := s.Connect(""); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Target, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects a vehicle.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[TARGET]",
		Func: func(c *ishell.Context) {
			var target string
			if len(c.Args) > 0 {
				target = c.Args[0]
			}
			if err := ShellFrom(c).Connect(target); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current vehicle.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := config.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	New(conf).WithAutoConnect(true).Run(flag.Args()...)
}
