package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/Androniki/bwa/mem"
)

// ErrShort and ErrInvalid mirror the scan-failure distinctions
// encoding/fastq's Scanner makes: a stream cut off mid-record vs. one whose
// record framing (the '@'/'+' line markers) doesn't parse.
var (
	ErrShort   = errors.New("short FASTQ file")
	ErrInvalid = errors.New("invalid FASTQ file")
)

// fastqScanner reads single-end FASTQ records from a single input file,
// translating sequence bytes into the 2-bit-plus-ambiguity encoding
// mem.FMIndex/mem.SMEMIterator expect.
type fastqScanner struct {
	b   *bufio.Scanner
	err error
}

// openFASTQ opens path, transparently decompressing it if its name ends in
// ".gz".
func openFASTQ(path string) (*fastqScanner, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	var r io.Reader = f
	closer := io.Closer(f)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		r = gz
		closer = multiCloser{gz, f}
	}
	return &fastqScanner{b: bufio.NewScanner(r)}, closer, nil
}

type multiCloser struct {
	first, second io.Closer
}

func (m multiCloser) Close() error {
	err := m.first.Close()
	if err2 := m.second.Close(); err == nil {
		err = err2
	}
	return err
}

var baseCode = [256]byte{}

func init() {
	for i := range baseCode {
		baseCode[i] = 4
	}
	baseCode['A'], baseCode['a'] = 0, 0
	baseCode['C'], baseCode['c'] = 1, 1
	baseCode['G'], baseCode['g'] = 2, 2
	baseCode['T'], baseCode['t'] = 3, 3
}

// Scan reads the next FASTQ record, returning it as a mem.Read with its
// sequence 2-bit-plus-ambiguity encoded. It returns false once the file is
// exhausted or on error; check Err to distinguish the two.
func (s *fastqScanner) Scan() (mem.Read, bool) {
	if s.err != nil {
		return mem.Read{}, false
	}
	if !s.scanLine() {
		return mem.Read{}, false
	}
	id := s.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return mem.Read{}, false
	}
	name := string(id[1:])
	if !s.scanLine() {
		s.err = ErrShort
		return mem.Read{}, false
	}
	seqLine := s.b.Bytes()
	seq := make([]byte, len(seqLine))
	for i, c := range seqLine {
		seq[i] = baseCode[c]
	}
	if !s.scanLine() {
		s.err = ErrShort
		return mem.Read{}, false
	}
	plus := s.b.Bytes()
	if len(plus) == 0 || plus[0] != '+' {
		s.err = ErrInvalid
		return mem.Read{}, false
	}
	if !s.scanLine() { // quality line, discarded: C1-C6 are quality-agnostic
		s.err = ErrShort
		return mem.Read{}, false
	}
	return mem.Read{Name: name, Seq: seq}, true
}

func (s *fastqScanner) scanLine() bool {
	if !s.b.Scan() {
		if err := s.b.Err(); err != nil {
			s.err = err
		}
		return false
	}
	return true
}

// Err returns the scan-failure reason, if any.
func (s *fastqScanner) Err() error {
	return s.err
}
