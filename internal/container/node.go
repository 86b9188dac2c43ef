package container

import (
	"fmt"

	"github.com/zarlib/zar/engine"
	"github.com/zarlib/zar/internal/pathutil"
)

// node is one entry of the in-memory node table built at open time.
// Directories are synthesized from file paths; the container stores only
// files. The node table index doubles as the engine node handle.
type node struct {
	name     string
	entry    int32 // table-of-contents index for files, -1 for directories
	children []uint32
}

func (n *node) isFile() bool { return n.entry >= 0 }

// buildNodes constructs the node table from the table of contents.
// Node 0 is the archive root. Sibling order follows frame order, which
// is the order directory enumeration reports.
func buildNodes(toc *tableOfContents) ([]node, error) {
	nodes := make([]node, 1, len(toc.Entries)+1)
	nodes[0] = node{entry: -1}

	for i, te := range toc.Entries {
		if !pathutil.Valid(te.Path) || te.Path == "" {
			return nil, fmt.Errorf("%w: invalid entry path %q", ErrCorrupt, te.Path)
		}
		components := pathutil.Split(te.Path)
		parent := uint32(0)
		for _, component := range components[:len(components)-1] {
			child, ok := findChild(nodes, parent, component)
			if ok {
				if nodes[child].isFile() {
					return nil, fmt.Errorf("%w: %q is both a file and a directory", ErrCorrupt, te.Path)
				}
				parent = child
				continue
			}
			nodes = append(nodes, node{name: component, entry: -1})
			child = uint32(len(nodes) - 1)
			nodes[parent].children = append(nodes[parent].children, child)
			parent = child
		}

		name := components[len(components)-1]
		if _, ok := findChild(nodes, parent, name); ok {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrCorrupt, te.Path)
		}
		nodes = append(nodes, node{name: name, entry: int32(i)})
		nodes[parent].children = append(nodes[parent].children, uint32(len(nodes)-1))
	}

	if uint64(len(nodes)) >= uint64(engine.InvalidNode) {
		return nil, fmt.Errorf("%w: node table overflow", ErrCorrupt)
	}
	return nodes, nil
}

// findChild locates a direct child of parent by name.
func findChild(nodes []node, parent uint32, name string) (uint32, bool) {
	for _, child := range nodes[parent].children {
		if nodes[child].name == name {
			return child, true
		}
	}
	return 0, false
}
