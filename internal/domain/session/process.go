package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// ProcessConfig describes how to launch the auxiliary runtime.
type ProcessConfig struct {
	Executable string
	Args       []string
	Dir        string
	Env        []string
}

// Process launches the auxiliary runtime and feeds its reports into a
// Session. It never restarts a runtime that exited.
type Process struct {
	cfg     ProcessConfig
	session *Session
	log     *zap.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	sent    int
	started bool
	done    chan struct{}
}

// NewProcess creates a runtime process bound to session.
func NewProcess(cfg ProcessConfig, session *Session, log *zap.Logger) *Process {
	if log == nil {
		log = zap.NewNop()
	}
	return &Process{
		cfg:     cfg,
		session: session,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start spawns the runtime. A spawn failure moves the session to Failed.
func (p *Process) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return errors.New("runtime already started")
	}
	p.started = true
	p.session.MarkStarting()

	cmd := exec.CommandContext(ctx, p.cfg.Executable, p.cfg.Args...)
	cmd.Dir = p.cfg.Dir
	if len(p.cfg.Env) > 0 {
		cmd.Env = append(cmd.Environ(), p.cfg.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return p.fail(fmt.Errorf("runtime stdin: %w", err))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return p.fail(fmt.Errorf("runtime stdout: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return p.fail(fmt.Errorf("runtime stderr: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return p.fail(fmt.Errorf("runtime start: %w", err))
	}
	p.cmd = cmd
	p.stdin = stdin

	p.log.Info("Auxiliary runtime started",
		zap.String("executable", p.cfg.Executable),
		zap.Int("pid", cmd.Process.Pid))

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		p.readFrames(stdout)
	}()
	go func() {
		defer readers.Done()
		p.drainStderr(stderr)
	}()
	go p.wait(&readers)

	return nil
}

// Done is closed when the runtime has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Stop terminates the runtime if it is running.
func (p *Process) Stop() error {
	p.mu.Lock()
	cmd := p.cmd
	stdin := p.stdin
	p.mu.Unlock()

	if cmd == nil {
		return nil
	}
	if stdin != nil {
		_ = stdin.Close()
	}
	select {
	case <-p.done:
		return nil
	default:
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop runtime: %w", err)
	}
	<-p.done
	return nil
}

func (p *Process) fail(err error) error {
	p.session.MarkFailed()
	close(p.done)
	p.log.Error("Auxiliary runtime failed to start", zap.Error(err))
	return err
}

func (p *Process) wait(readers *sync.WaitGroup) {
	readers.Wait()
	err := p.cmd.Wait()

	if p.session.MarkFailed() {
		p.log.Error("Auxiliary runtime exited before reporting a port", zap.Error(err))
	} else {
		p.log.Info("Auxiliary runtime exited", zap.Error(err))
	}
	close(p.done)
}

func (p *Process) readFrames(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxFrameSize*2)
	scanner.Split(SplitFrames)

	for scanner.Scan() {
		p.handleFrame(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		p.log.Warn("Runtime output stream failed", zap.Error(err))
	}
}

func (p *Process) handleFrame(frame string) {
	msg, err := ParseMessage(frame)
	if err != nil {
		p.log.Debug("Ignoring runtime frame", zap.Error(err))
		return
	}

	switch msg.Command {
	case CommandPing:
		p.reply(msg.ID)
	case CommandPort:
		if len(msg.Args) == 0 {
			p.log.Warn("Runtime port message without a port", zap.String("id", msg.ID))
			return
		}
		port, err := strconv.Atoi(msg.Args[0])
		if err != nil || !p.session.MarkReady(port) {
			p.log.Warn("Ignoring runtime port", zap.String("port", msg.Args[0]))
			return
		}
		p.log.Info("Auxiliary runtime ready", zap.Int("port", port))
	case CommandLog:
		p.log.Info("runtime", zap.Strings("args", msg.Args))
	default:
		p.log.Debug("Unknown runtime command", zap.String("command", msg.Command))
	}
}

func (p *Process) reply(pingID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stdin == nil {
		return
	}
	p.sent++
	if _, err := io.WriteString(p.stdin, FormatPong(p.sent, pingID)); err != nil {
		p.log.Warn("Failed to answer runtime ping", zap.Error(err))
	}
}

func (p *Process) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.log.Warn("runtime stderr", zap.String("line", scanner.Text()))
	}
}
