// Package trace reads block I/O traces.
//
// A trace has one request per line:
//
//	<timestamp> <op> <address> <length> [comment...]
//
// The timestamp is in seconds, op is r or w, and address and length are in
// bytes. Blank lines and lines starting with # are skipped.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/sim"
)

// ErrSyntax is returned for lines that do not describe a request.
var ErrSyntax = errors.New("trace: syntax error")

// A Record is one request of a trace.
type Record struct {
	Line    int
	Time    sim.VTimeInSec
	Op      disk.Op
	Address uint64
	Length  uint64
	Comment string
}

// Blocks converts the byte range of the record into a block range.
func (r Record) Blocks(bytesPerBlock uint32) (block, nblocks uint64) {
	if bytesPerBlock == 0 {
		panic("block size must be positive")
	}

	bps := uint64(bytesPerBlock)
	block = r.Address / bps
	nblocks = r.Length / bps

	if r.Length%bps != 0 {
		nblocks++
	}

	return block, nblocks
}

// A Reader reads records from a trace.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Read returns the next record. It returns io.EOF when the trace ends.
func (r *Reader) Read() (Record, error) {
	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		return ParseLine(r.line, text)
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("trace: line %d: %w", r.line+1, err)
	}

	return Record{}, io.EOF
}

// ReadAll reads every record of a trace.
func ReadAll(r io.Reader) ([]Record, error) {
	reader := NewReader(r)
	records := []Record{}

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}
}

// ParseLine parses a single request.
func ParseLine(line int, text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return Record{}, fmt.Errorf(
			"%w: line %d: want <timestamp> <op> <address> <length>, got %q",
			ErrSyntax, line, text)
	}

	rec := Record{Line: line}

	t, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || t < 0 {
		return Record{}, fmt.Errorf("%w: line %d: bad timestamp %q",
			ErrSyntax, line, fields[0])
	}

	rec.Time = sim.VTimeInSec(t)

	rec.Op, err = disk.ParseOp(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("%w: line %d: bad operation %q",
			ErrSyntax, line, fields[1])
	}

	rec.Address, err = strconv.ParseUint(fields[2], 0, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: line %d: bad address %q",
			ErrSyntax, line, fields[2])
	}

	rec.Length, err = strconv.ParseUint(fields[3], 0, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: line %d: bad length %q",
			ErrSyntax, line, fields[3])
	}

	rec.Comment = strings.Join(fields[4:], " ")

	return rec, nil
}
