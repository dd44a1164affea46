package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
)

// ipcCommand is a single newline-delimited JSON request.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = time.Second
)

var requestID atomic.Int64

// sendCommand runs one IPC round trip, retrying transient connection errors.
func (m *MPV) sendCommand(command ...any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		select {
		case <-m.exited:
			return nil, ErrExited
		default:
		}

		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		data, err := doSendCommand(m.socketPath, command)
		if err == nil {
			return data, nil
		}

		var mpvErr *CommandError
		if errors.As(err, &mpvErr) {
			// mpv understood the request and rejected it
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc %v failed after %d attempts: %w", command[0], maxRetries, lastErr)
}

// CommandError is an error reported by mpv itself.
type CommandError struct {
	Command string
	Reason  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mpv %s: %s", e.Command, e.Reason)
}

func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestID.Add(1)
	if err := writeCommand(conn, id, command); err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// events are broadcast to every client, skip them until our reply shows up
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !gjson.ValidBytes(line) {
			continue
		}

		reply := gjson.ParseBytes(line)
		if reply.Get("event").Exists() || reply.Get("request_id").Int() != id {
			continue
		}

		if status := reply.Get("error").String(); status != "success" {
			return nil, &CommandError{Command: fmt.Sprint(command[0]), Reason: status}
		}

		return reply.Get("data").Value(), nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return nil, errors.New("read: connection closed before reply")
}

func writeCommand(conn net.Conn, id int64, command []any) error {
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}
