// SPDX-License-Identifier: MIT
package graphstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

const (
	snapshotMagic   = "BCTX"
	snapshotVersion = uint16(1)
)

// Snapshot writes the graph to path using a versioned binary framing
// (magic, version, node table, edge table), via a temp file that is fsynced
// and then renamed so a reader never observes a partially written file.
func (g *Graph) Snapshot(path string) error {
	s := g.snapshotState()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "browsectx-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	w := bufio.NewWriter(tmp)
	if _, err := w.WriteString(snapshotMagic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, snapshotVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := writeNodes(w, s); err != nil {
		return err
	}
	if err := writeEdges(w, s); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Hydrate loads a graph previously written by Snapshot. A missing file is
// not an error — the graph simply starts empty, per the orchestrator's
// "never fatal" startup contract. A corrupt or version-mismatched file
// leaves the in-memory graph untouched and returns an error for the caller
// to log.
func (g *Graph) Hydrate(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReader(f)
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if string(magic[:]) != snapshotMagic {
		return fmt.Errorf("invalid magic %q", string(magic[:]))
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", version)
	}

	next := newGraphState()
	if err := readNodes(r, next); err != nil {
		return err
	}
	if err := readEdges(r, next); err != nil {
		return err
	}
	if err := next.validate(math.MaxInt32); err != nil {
		return fmt.Errorf("snapshot failed invariant check: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Store(next)
	return nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string too long: %d bytes", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeFloat64(w io.Writer, f float64) error {
	return binary.Write(w, binary.LittleEndian, math.Float64bits(f))
}

func readFloat64(r io.Reader) (float64, error) {
	var bits uint64
	if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func writeNodes(w io.Writer, s *graphState) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.nodes))); err != nil {
		return fmt.Errorf("write node count: %w", err)
	}
	for id, n := range s.nodes {
		if err := writeString(w, id); err != nil {
			return fmt.Errorf("write node id: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(n.Kind)); err != nil {
			return fmt.Errorf("write node kind: %w", err)
		}
		if n.Kind == KindPage {
			p := n.Page
			for _, s := range []string{p.URL, p.Title, p.Summary, p.ContentSnippet} {
				if err := writeString(w, s); err != nil {
					return fmt.Errorf("write page field: %w", err)
				}
			}
			if err := binary.Write(w, binary.LittleEndian, int64(p.VisitCount)); err != nil {
				return fmt.Errorf("write visit_count: %w", err)
			}
			for _, f := range []float64{p.FirstVisited, p.LastVisited} {
				if err := writeFloat64(w, f); err != nil {
					return fmt.Errorf("write page timestamp: %w", err)
				}
			}
		} else {
			k := n.Keyword
			if err := writeString(w, k.Term); err != nil {
				return fmt.Errorf("write keyword term: %w", err)
			}
			if err := binary.Write(w, binary.LittleEndian, int64(k.Frequency)); err != nil {
				return fmt.Errorf("write frequency: %w", err)
			}
			if err := binary.Write(w, binary.LittleEndian, uint16(len(k.PageRefs))); err != nil {
				return fmt.Errorf("write page_refs count: %w", err)
			}
			for _, ref := range k.PageRefs {
				if err := writeString(w, ref); err != nil {
					return fmt.Errorf("write page_ref: %w", err)
				}
			}
			for _, f := range []float64{k.FirstSeen, k.LastSeen} {
				if err := writeFloat64(w, f); err != nil {
					return fmt.Errorf("write keyword timestamp: %w", err)
				}
			}
		}
	}
	return nil
}

func readNodes(r io.Reader, s *graphState) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("read node count: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		id, err := readString(r)
		if err != nil {
			return fmt.Errorf("read node id: %w", err)
		}
		var kindByte uint8
		if err := binary.Read(r, binary.LittleEndian, &kindByte); err != nil {
			return fmt.Errorf("read node kind: %w", err)
		}
		n := &Node{ID: id, Kind: Kind(kindByte)}
		if n.Kind == KindPage {
			p := &PageData{}
			fields := make([]*string, 4)
			fields[0], fields[1], fields[2], fields[3] = &p.URL, &p.Title, &p.Summary, &p.ContentSnippet
			for _, f := range fields {
				v, err := readString(r)
				if err != nil {
					return fmt.Errorf("read page field: %w", err)
				}
				*f = v
			}
			var vc int64
			if err := binary.Read(r, binary.LittleEndian, &vc); err != nil {
				return fmt.Errorf("read visit_count: %w", err)
			}
			p.VisitCount = int(vc)
			if p.FirstVisited, err = readFloat64(r); err != nil {
				return fmt.Errorf("read first_visited: %w", err)
			}
			if p.LastVisited, err = readFloat64(r); err != nil {
				return fmt.Errorf("read last_visited: %w", err)
			}
			n.Page = p
		} else {
			k := &KeywordData{}
			if k.Term, err = readString(r); err != nil {
				return fmt.Errorf("read keyword term: %w", err)
			}
			var freq int64
			if err := binary.Read(r, binary.LittleEndian, &freq); err != nil {
				return fmt.Errorf("read frequency: %w", err)
			}
			k.Frequency = int(freq)
			var refCount uint16
			if err := binary.Read(r, binary.LittleEndian, &refCount); err != nil {
				return fmt.Errorf("read page_refs count: %w", err)
			}
			k.PageRefs = make([]string, refCount)
			for j := range k.PageRefs {
				if k.PageRefs[j], err = readString(r); err != nil {
					return fmt.Errorf("read page_ref: %w", err)
				}
			}
			if k.FirstSeen, err = readFloat64(r); err != nil {
				return fmt.Errorf("read first_seen: %w", err)
			}
			if k.LastSeen, err = readFloat64(r); err != nil {
				return fmt.Errorf("read last_seen: %w", err)
			}
			n.Keyword = k
		}
		s.nodes[id] = n
		s.ensureAdj(id)
	}
	return nil
}

func writeEdges(w io.Writer, s *graphState) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.edges))); err != nil {
		return fmt.Errorf("write edge count: %w", err)
	}
	for _, e := range s.edges {
		if err := writeString(w, e.A); err != nil {
			return fmt.Errorf("write edge.A: %w", err)
		}
		if err := writeString(w, e.B); err != nil {
			return fmt.Errorf("write edge.B: %w", err)
		}
		for _, f := range []float64{e.BaseWeight, e.Weight, e.LastActive, e.Created} {
			if err := writeFloat64(w, f); err != nil {
				return fmt.Errorf("write edge field: %w", err)
			}
		}
	}
	return nil
}

func readEdges(r io.Reader, s *graphState) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("read edge count: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		e := &Edge{}
		var err error
		if e.A, err = readString(r); err != nil {
			return fmt.Errorf("read edge.A: %w", err)
		}
		if e.B, err = readString(r); err != nil {
			return fmt.Errorf("read edge.B: %w", err)
		}
		if e.BaseWeight, err = readFloat64(r); err != nil {
			return fmt.Errorf("read base_weight: %w", err)
		}
		if e.Weight, err = readFloat64(r); err != nil {
			return fmt.Errorf("read weight: %w", err)
		}
		if e.LastActive, err = readFloat64(r); err != nil {
			return fmt.Errorf("read last_active: %w", err)
		}
		if e.Created, err = readFloat64(r); err != nil {
			return fmt.Errorf("read created: %w", err)
		}
		_, _, key := edgeKey(e.A, e.B)
		s.edges[key] = e
		s.linkEdge(e)
	}
	return nil
}
