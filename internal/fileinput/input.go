package fileinput

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential byte reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate trace logging.
//
// A single byte may be pushed back with UnreadByte; it is returned by the
// next ReadByte without being tracked a second time.
type Input struct {
	br    io.ByteReader
	cur   io.Reader
	Queue []io.Reader
	Last  Line
	Scan  Line

	last    byte
	canUndo bool
	undone  bool
}

// ReadByte reads one byte from the current input stream, moving on to the
// next queued stream whenever one is exhausted. Returns io.EOF after the
// last stream ends.
func (in *Input) ReadByte() (byte, error) {
	if in.undone {
		in.undone = false
		in.canUndo = true
		return in.last, nil
	}
	in.canUndo = false
	for {
		if in.br == nil && !in.nextIn() {
			return 0, io.EOF
		}
		b, err := in.br.ReadByte()
		if err == nil {
			in.track(b)
			in.last, in.canUndo = b, true
			return b, nil
		}
		if err != io.EOF {
			return 0, err
		}
		in.closeCur()
	}
}

// UnreadByte pushes back the last byte returned by ReadByte.
func (in *Input) UnreadByte() error {
	if !in.canUndo {
		return bufio.ErrInvalidUnreadByte
	}
	in.canUndo = false
	in.undone = true
	return nil
}

// Close closes the current stream and any queued streams that implement
// io.Closer.
func (in *Input) Close() (err error) {
	if cerr := in.closeCur(); err == nil {
		err = cerr
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) track(b byte) {
	if b == '\n' {
		in.nextLine()
	} else {
		in.Scan.WriteByte(b)
	}
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Location = in.Scan.Location
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) closeCur() (err error) {
	if in.cur != nil {
		if in.Scan.Len() > 0 {
			in.nextLine()
		}
		if cl, ok := in.cur.(io.Closer); ok {
			err = cl.Close()
		}
	}
	in.cur, in.br = nil, nil
	return err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = r
	if br, ok := r.(io.ByteReader); ok {
		in.br = br
	} else {
		in.br = bufio.NewReader(r)
	}
	in.Scan.Reset()
	in.Scan.Name = nameOf(r)
	in.Scan.Line = 1
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
