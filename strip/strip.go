// Package strip removes named blocks from brace-delimited source files,
// such as device tree sources.
//
// Matching is purely textual. A block starts on any line that contains
// a node signature immediately followed by " {", and it ends on the line
// where the brace depth, counted from that opening brace, drops back to
// zero. Nothing is parsed: a signature inside a comment or a string still
// starts a block, and a block that never closes swallows the rest of
// the input.
package strip

import (
	"bufio"
	"io"
	"strings"
)

// Options tweak how node signatures are matched.
type Options uint8

const (
	// WordBoundary requires a signature to start at a word boundary,
	// so "pmu@0" no longer matches inside "rp_gpio_pmu@0 {".
	WordBoundary Options = 1 << iota

	// Standard is plain substring matching.
	Standard Options = 0
)

//go:generate go tool stringer -type Action -linecomment

// Action tells what happened to a single line.
type Action uint8

const (
	Keep  Action = iota // keep
	Open                // open
	Skip                // skip
	Close               // close
)

// A Remover holds the scan state of a single pass.
// The zero value is not usable; use NewRemover.
type Remover struct {
	nodes []string
	sigs  []string // nodes[i] + " {"
	opts  Options

	inBlock bool
	node    string
	depth   int
}

// NewRemover returns a Remover that drops the blocks of the given nodes.
// Empty node names are ignored.
func NewRemover(nodes Nodes, opts Options) *Remover {
	r := &Remover{opts: opts}
	for _, n := range nodes {
		if n == "" {
			continue
		}
		r.nodes = append(r.nodes, n)
		r.sigs = append(r.sigs, n+" {")
	}
	return r
}

// Line classifies the next line of input. Only lines reported as Keep
// belong to the output.
//
// While inside a block, the line is never checked for signatures,
// even when it is the one that closes the block.
func (r *Remover) Line(line string) Action {
	if r.inBlock {
		r.depth += strings.Count(line, "{") - strings.Count(line, "}")
		if r.depth <= 0 {
			r.inBlock = false
			return Close
		}
		return Skip
	}
	for i, sig := range r.sigs {
		if r.contains(line, sig) {
			r.inBlock = true
			r.node = r.nodes[i]
			// The opening brace is on this very line.
			r.depth = 1
			return Open
		}
	}
	return Keep
}

// Node returns the node whose block was opened most recently.
func (r *Remover) Node() string { return r.node }

// InBlock reports whether the remover is inside a block being removed.
func (r *Remover) InBlock() bool { return r.inBlock }

func (r *Remover) contains(line, sig string) bool {
	if r.opts&WordBoundary == 0 {
		return strings.Contains(line, sig)
	}
	for i := 0; i < len(line); {
		j := strings.Index(line[i:], sig)
		if j < 0 {
			return false
		}
		j += i
		if j == 0 || !isNameByte(line[j-1]) {
			return true
		}
		i = j + 1
	}
	return false
}

// isNameByte reports whether c may be part of a node name
// (including its unit address).
func isNameByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '_', '@', ',', '.', '-', '+':
		return true
	}
	return false
}

// Block describes a removed region. Lines are numbered from 1.
type Block struct {
	Node  string
	Start int
	End   int // 0 if the block never closed
}

// Result summarizes a pass.
type Result struct {
	Blocks []Block
	Lines  int // lines read
	Kept   int // lines written
}

// Changed reports whether anything was removed.
func (r *Result) Changed() bool { return len(r.Blocks) > 0 }

// Pipe reads source from in, removes the blocks of nodes, and writes
// the rest to out. Every line keeps its original terminator, so input
// without a match is copied byte for byte.
func Pipe(out io.Writer, in io.Reader, nodes Nodes, opts Options) (*Result, error) {
	rm := NewRemover(nodes, opts)
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)
	res := new(Result)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			res.Lines++
			switch rm.Line(line) {
			case Keep:
				res.Kept++
				bw.WriteString(line)
			case Open:
				res.Blocks = append(res.Blocks, Block{Node: rm.Node(), Start: res.Lines})
			case Close:
				res.Blocks[len(res.Blocks)-1].End = res.Lines
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
	}
	return res, bw.Flush()
}

// Lines is like Pipe but works on lines already in memory. Each element
// of lines is expected to carry its own terminator.
func Lines(lines []string, nodes Nodes, opts Options) []string {
	rm := NewRemover(nodes, opts)
	var out []string
	for _, line := range lines {
		if rm.Line(line) == Keep {
			out = append(out, line)
		}
	}
	return out
}
