// Package protocol implements the line protocol spoken with the
// coordinator: unbuffered outbound verdict lines and a non-blocking inbound
// message queue.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// InboundKind discriminates coordinator messages.
type InboundKind int

const (
	// UnsatNode closes a sub-task refuted elsewhere.
	UnsatNode InboundKind = iota
	// TerminateNode aborts a published sub-task without a verdict.
	TerminateNode
)

// Inbound is one parsed coordinator message.
type Inbound struct {
	Kind   InboundKind
	NodeID int
}

// Reader turns a line stream into a non-blocking message queue. A reader
// goroutine owns the underlying stream; Poll never blocks.
type Reader struct {
	msgs chan Inbound
	log  *logrus.Entry
}

func NewReader(r io.Reader) *Reader {
	rd := &Reader{
		msgs: make(chan Inbound, 1024),
		log:  logrus.WithField("component", "protocol"),
	}
	go rd.run(r)
	return rd
}

func (rd *Reader) run(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		msg, err := parseLine(line)
		if err != nil {
			rd.log.Fatalf("bad coordinator message %q: %v", line, err)
		}
		rd.msgs <- msg
	}
	close(rd.msgs)
}

// Poll returns the next pending message without blocking. closed is true
// once the stream has ended and every message was consumed.
func (rd *Reader) Poll() (msg Inbound, ok bool, closed bool) {
	select {
	case m, open := <-rd.msgs:
		if !open {
			return Inbound{}, false, true
		}
		return m, true, false
	default:
		return Inbound{}, false, false
	}
}

func parseLine(line string) (Inbound, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Inbound{}, fmt.Errorf("want 2 fields, got %d", len(fields))
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return Inbound{}, err
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return Inbound{}, err
	}
	switch tag {
	case 0:
		return Inbound{Kind: UnsatNode, NodeID: id}, nil
	case 1:
		return Inbound{Kind: TerminateNode, NodeID: id}, nil
	default:
		return Inbound{}, fmt.Errorf("unknown tag %d", tag)
	}
}

// Writer emits outbound lines, one message per line so the coordinator sees
// each verdict immediately. It implements the engine's reporter.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) send(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, format+"\n", args...)
}

func (w *Writer) Debug(msg string)             { w.send("0 %s", msg) }
func (w *Writer) UnknownNode(node, parent int) { w.send("1 %d %d", node, parent) }
func (w *Writer) UnsatNode(node, parent int)   { w.send("2 %d %d", node, parent) }
