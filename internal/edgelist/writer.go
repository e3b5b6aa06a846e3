// Package edgelist builds the temp edge-list file from a GFA's Link
// records and drives the external sort that dedups and orders it.
package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/buildctx"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/gfaio"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/intern"
)

// Canonical returns the ordered pair (min, max) for an unordered edge
// {u, v}. Self-loops (u == v) are preserved as (u, u).
func Canonical(u, v uint32) (uint32, uint32) {
	if u <= v {
		return u, v
	}
	return v, u
}

// Build scans gfaPath for Link records, interning endpoint strings on
// first sight and writing each canonical edge as "u v\n" to a fresh temp
// file. It returns the interning table (which by construction contains
// exactly the node strings that appeared in at least one Link record)
// and the path of the unsorted edge-list file.
func Build(ctx *buildctx.Context, gfaPath string, stripCR bool) (*intern.Table, string, error) {
	r, err := gfaio.Open(gfaPath, stripCR)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = r.Close() }()

	edgeListPath := ctx.Path("edges.txt")
	out, err := os.Create(edgeListPath)
	if err != nil {
		return nil, "", fmt.Errorf("creating edge list %s: %w", edgeListPath, err)
	}
	defer func() { _ = out.Close() }()

	w := bufio.NewWriterSize(out, 1<<20)
	table := intern.New(1 << 16)

	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", gfaPath, err)
		}

		if len(line) == 0 {
			continue
		}

		rt, err := gfaio.TypeOf(line)
		if err != nil {
			return nil, "", err
		}
		if rt != gfaio.Link {
			continue
		}

		fields, err := gfaio.ParseLink(line)
		if err != nil {
			return nil, "", err
		}

		u, _ := table.InternNew(fields.From)
		v, _ := table.InternNew(fields.To)
		a, b := Canonical(u, v)

		if err := writeEdgeLine(w, a, b); err != nil {
			return nil, "", fmt.Errorf("writing edge list %s: %w", edgeListPath, err)
		}
		ctx.NEdges++
	}

	if err := w.Flush(); err != nil {
		return nil, "", fmt.Errorf("flushing edge list %s: %w", edgeListPath, err)
	}

	ctx.NNodes = uint32(table.Len())

	return table, edgeListPath, nil
}

func writeEdgeLine(w *bufio.Writer, a, b uint32) error {
	var buf [24]byte
	n := copy(buf[:], strconv.AppendUint(buf[:0], uint64(a), 10))
	buf[n] = ' '
	n++
	n += copy(buf[n:], strconv.AppendUint(buf[n:n], uint64(b), 10))
	buf[n] = '\n'
	n++
	_, err := w.Write(buf[:n])
	return err
}
