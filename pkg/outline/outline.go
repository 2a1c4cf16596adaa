package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxLevel is the deepest heading level the editor tracks. Levels beyond it
// still parse but share the last counter.
const MaxLevel = 6

var headingPattern = regexp.MustCompile(`^(#+)\s+(.+?)\s*$`)

// Node is one heading entry of the outline tree. Number and HasChildren are
// derived values, recomputed after every mutation; they are never parsed back
// from serialized text.
type Node struct {
	Level       int
	Text        string
	Order       int
	Number      string
	HasChildren bool
}

// Document holds the editable node list. The flat markdown-heading string is
// the canonical format; Document is rebuilt from it on load and flattened back
// on save. Methods are not safe for concurrent use.
type Document struct {
	nodes []Node
}

// Parse builds the node list from a markdown-heading string. Lines that do
// not match the heading pattern are dropped.
func Parse(text string) []Node {
	var nodes []Node
	for _, line := range strings.Split(text, "\n") {
		m := headingPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		nodes = append(nodes, Node{Level: len(m[1]), Text: m[2]})
	}
	return nodes
}

// NewDocument creates a document from already-parsed nodes and numbers them.
func NewDocument(nodes []Node) *Document {
	d := &Document{nodes: append([]Node(nil), nodes...)}
	d.renumber()
	return d
}

// Load replaces the document content with the parse of text.
func Load(text string) *Document {
	return NewDocument(Parse(text))
}

// Nodes returns a copy of the current node list.
func (d *Document) Nodes() []Node {
	return append([]Node(nil), d.nodes...)
}

// Len returns the number of nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Node returns the node at index i.
func (d *Document) Node(i int) (Node, error) {
	if i < 0 || i >= len(d.nodes) {
		return Node{}, fmt.Errorf("outline: index %d out of range [0,%d)", i, len(d.nodes))
	}
	return d.nodes[i], nil
}

// Add appends a node at the end of the list and renumbers.
func (d *Document) Add(text string, level int) {
	if level < 1 {
		level = 1
	}
	d.nodes = append(d.nodes, Node{Level: level, Text: text})
	d.renumber()
}

// Edit replaces text and level of the node at index i in place, then
// renumbers the whole list.
func (d *Document) Edit(i int, text string, level int) error {
	if i < 0 || i >= len(d.nodes) {
		return fmt.Errorf("outline: index %d out of range [0,%d)", i, len(d.nodes))
	}
	if level < 1 {
		level = 1
	}
	d.nodes[i].Text = text
	d.nodes[i].Level = level
	d.renumber()
	return nil
}

// Delete removes the node at index i and renumbers.
func (d *Document) Delete(i int) error {
	if i < 0 || i >= len(d.nodes) {
		return fmt.Errorf("outline: index %d out of range [0,%d)", i, len(d.nodes))
	}
	d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
	d.renumber()
	return nil
}

// Move relocates the node at index from to index to, shifting the nodes in
// between. Used by drag reorder once sort mode is toggled off.
func (d *Document) Move(from, to int) error {
	n := len(d.nodes)
	if from < 0 || from >= n {
		return fmt.Errorf("outline: index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("outline: index %d out of range [0,%d)", to, n)
	}
	if from == to {
		return nil
	}
	node := d.nodes[from]
	d.nodes = append(d.nodes[:from], d.nodes[from+1:]...)
	rest := append([]Node(nil), d.nodes[to:]...)
	d.nodes = append(append(d.nodes[:to], node), rest...)
	d.renumber()
	return nil
}

// Serialize flattens the node list back to the canonical markdown-heading
// string. Numbering is not written out; it is recomputed on every load.
func (d *Document) Serialize() string {
	lines := make([]string, 0, len(d.nodes))
	for _, n := range d.nodes {
		lines = append(lines, strings.Repeat("#", n.Level)+" "+n.Text)
	}
	return strings.Join(lines, "\n")
}

// renumber recomputes Order, Number and HasChildren for every node. Numbering
// keeps one counter per level; incrementing a level resets all deeper
// counters, which yields hierarchical decimal numbers like 2.1.3.
func (d *Document) renumber() {
	var counters [MaxLevel]int
	prevDepth := 0
	for i := range d.nodes {
		level := d.nodes[i].Level
		if level > MaxLevel {
			level = MaxLevel
		}
		// A heading that skips levels (H1 straight to H3) numbers as a
		// direct child, so zero segments like 1.0.1 never appear. Only the
		// number is clamped; the node keeps its parsed level.
		if level > prevDepth+1 {
			level = prevDepth + 1
		}
		prevDepth = level
		counters[level-1]++
		for j := level; j < MaxLevel; j++ {
			counters[j] = 0
		}
		parts := make([]string, level)
		for j := 0; j < level; j++ {
			parts[j] = strconv.Itoa(counters[j])
		}
		d.nodes[i].Order = i
		d.nodes[i].Number = strings.Join(parts, ".")
		d.nodes[i].HasChildren = false
	}
	// A node has children iff, scanning forward, a strictly deeper node shows
	// up before any node at its own level or shallower.
	for i := range d.nodes {
		if i+1 < len(d.nodes) && d.nodes[i+1].Level > d.nodes[i].Level {
			d.nodes[i].HasChildren = true
		}
	}
}
