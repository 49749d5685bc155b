// Package wakelock keeps the machine awake while a room is joined by holding
// a systemd-inhibit child process open.
package wakelock

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"sync"
)

const DefaultCommand = "systemd-inhibit"

var ErrUnavailable = errors.New("wake lock command unavailable")

// process is a started inhibitor that can be stopped.
type process interface {
	Stop() error
}

type startFunc func(ctx context.Context, name string, args ...string) (process, error)

// Inhibitor blocks idle and sleep until Release. Acquire while held is a
// no-op, as is Release without a lock.
type Inhibitor struct {
	command string
	who     string

	mu    sync.Mutex
	held  process
	start startFunc
}

func NewInhibitor(command, who string) *Inhibitor {
	if command == "" {
		command = DefaultCommand
	}
	if who == "" {
		who = "talkie"
	}

	return &Inhibitor{command: command, who: who, start: startCommand}
}

func (i *Inhibitor) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.held != nil {
		return nil
	}

	proc, err := i.start(ctx, i.command,
		"--what=idle:sleep",
		"--who="+i.who,
		"--why=Room joined",
		"--mode=block",
		"sleep", "infinity",
	)
	if err != nil {
		return fmt.Errorf("acquire wake lock: %w", err)
	}
	i.held = proc

	return nil
}

func (i *Inhibitor) Release() error {
	i.mu.Lock()
	proc := i.held
	i.held = nil
	i.mu.Unlock()

	if proc == nil {
		return nil
	}
	if err := proc.Stop(); err != nil {
		return fmt.Errorf("release wake lock: %w", err)
	}

	return nil
}

type commandProcess struct {
	cmd  *osexec.Cmd
	done chan error
}

func startCommand(_ context.Context, name string, args ...string) (process, error) {
	path, err := osexec.LookPath(name)
	if err != nil {
		if errors.Is(err, osexec.ErrNotFound) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("locate %s command: %w", name, err)
	}

	// The child outlives the acquiring call; Release ends it.
	cmd := osexec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	proc := &commandProcess{cmd: cmd, done: make(chan error, 1)}
	go func() {
		proc.done <- cmd.Wait()
	}()

	return proc, nil
}

func (p *commandProcess) Stop() error {
	select {
	case err := <-p.done:
		return fmt.Errorf("inhibitor exited early: %w", errOrExit(err))
	default:
	}

	if err := p.cmd.Process.Kill(); err != nil {
		return err
	}
	<-p.done

	return nil
}

func errOrExit(err error) error {
	if err == nil {
		return errors.New("exit status 0")
	}
	return err
}
