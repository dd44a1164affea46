package player

import (
	"bufio"
	"fmt"
	"net"
	"sync"

	"github.com/reelfeed/reelfeed/log"
	"github.com/tidwall/gjson"
)

// EventCallback receives property changes (name, value) and other mpv events (event name, raw event).
type EventCallback func(name string, data any)

// observed are the properties that make up a Status.
var observed = []string{"pause", "paused-for-cache", "time-pos", "duration"}

// EventListener keeps a dedicated connection open and forwards mpv events.
// Observers are registered on that connection, since mpv scopes them per client.
type EventListener struct {
	socketPath string
	callback   EventCallback

	mu        sync.Mutex
	conn      net.Conn
	listening bool
	done      chan struct{}
}

func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start connects, registers observers and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, requestID.Add(1), []any{"observe_property", i + 1, name}); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})

	go el.readLoop(conn, el.done)

	log.Debugf("listening for mpv events on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to return.
// No callback runs after Stop returns.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	_ = el.conn.Close()
	done := el.done
	el.mu.Unlock()

	<-done
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		el.processEvent(scanner.Bytes())
	}

	el.mu.Lock()
	stopped := !el.listening
	el.listening = false
	el.mu.Unlock()

	if err := scanner.Err(); err != nil && !stopped {
		log.Warnf("mpv event listener: %v", err)
	}
}

func (el *EventListener) processEvent(line []byte) {
	if el.callback == nil || !gjson.ValidBytes(line) {
		return
	}

	msg := gjson.ParseBytes(line)
	event := msg.Get("event").String()

	switch event {
	case "":
		// command reply
	case "property-change":
		if name := msg.Get("name").String(); name != "" {
			el.callback(name, msg.Get("data").Value())
		}
	default:
		el.callback(event, msg.Value())
	}
}
