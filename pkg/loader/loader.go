// Package loader reads an adjacency-list text file into Structure nodes.
//
// Each non-blank line names a source docid followed by the docids it links
// to, separated by whitespace. Lines starting with # are comments. Every
// docid mentioned anywhere is numbered through a docno mapping, and node ids
// are docnos.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-pagerank/pkg/docno"
	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
	"github.com/dd0wney/cluso-pagerank/pkg/longlist"
	"github.com/dd0wney/cluso-pagerank/pkg/pools"
)

const maxLineSize = 16 << 20

// Graph is a loaded graph.
type Graph struct {
	// Nodes holds one Structure node per docno, ascending by id, each with a
	// sorted duplicate-free adjacency list.
	Nodes   []*graphnode.Node
	Mapping *docno.Mapping
	// Edges counts distinct (source, target) pairs.
	Edges int
}

// SyntaxError reports a malformed input line.
type SyntaxError struct {
	Line  int
	Token string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: bad docid %q: %v", e.Line, e.Token, e.Cause)
}

func (e *SyntaxError) Unwrap() error { return e.Cause }

type rawLine struct {
	src     int32
	targets []int32
}

// Load parses r.
func Load(r io.Reader) (*Graph, error) {
	builder := docno.NewBuilder()
	var lines []rawLine

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for lineNo := 1; sc.Scan(); lineNo++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		ids := make([]int32, len(fields))
		for i, tok := range fields {
			v, err := strconv.ParseInt(tok, 10, 32)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Token: tok, Cause: err}
			}
			ids[i] = int32(v)
			builder.Add(ids[i])
		}
		lines = append(lines, rawLine{src: ids[0], targets: ids[1:]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}

	mapping, err := builder.Build()
	if err != nil {
		return nil, err
	}

	adjacency := make([]*longlist.List, mapping.Len())
	for i := range adjacency {
		adjacency[i] = longlist.New()
	}

	for _, line := range lines {
		src, _ := mapping.Docno(line.src)
		targets := pools.GetInt64s(len(line.targets))
		for _, t := range line.targets {
			d, _ := mapping.Docno(t)
			targets = append(targets, int64(d))
		}
		slices.Sort(targets)
		adjacency[src-1].AddAllDeduped(slices.Compact(targets))
		pools.PutInt64s(targets)
	}

	g := &Graph{Nodes: make([]*graphnode.Node, len(adjacency)), Mapping: mapping}
	for i, adj := range adjacency {
		// A source repeated on several lines appends out of order.
		if !adj.IsSorted() {
			vals := adj.Values()
			slices.Sort(vals)
			adj = longlist.FromSlice(vals)
		}
		g.Nodes[i] = graphnode.NewStructure(int64(i+1), adj)
		g.Edges += adj.Len()
	}
	return g, nil
}

// LoadFile opens and parses path.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
