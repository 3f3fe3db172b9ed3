package voronoi

// breakpointTree is a threaded red-black tree over the beach line's
// breakpoints, ordered by breakpoint x at the current sweep position. The
// ordering key is implicit: breakpoints never overtake each other between
// restructurings, so nodes are inserted next to a known neighbor and only
// lookups evaluate positions.
type breakpointTree struct {
	root *breakpoint
}

// first returns the leftmost node of the subtree.
func (t *breakpointTree) first(node *breakpoint) *breakpoint {
	for node.left != nil {
		node = node.left
	}
	return node
}

// last returns the rightmost node of the tree, nil if empty.
func (t *breakpointTree) last() *breakpoint {
	node := t.root
	if node == nil {
		return nil
	}
	for node.right != nil {
		node = node.right
	}
	return node
}

// insertSuccessor places successor immediately after node in tree order.
// A nil node prepends before the current first node (or roots an empty
// tree).
func (t *breakpointTree) insertSuccessor(node, successor *breakpoint) {
	var parent *breakpoint
	if node != nil {
		successor.prev = node
		successor.next = node.next
		if node.next != nil {
			node.next.prev = successor
		}
		node.next = successor
		if node.right != nil {
			node = t.first(node.right)
			node.left = successor
		} else {
			node.right = successor
		}
		parent = node
	} else if t.root != nil {
		node = t.first(t.root)
		successor.prev = nil
		successor.next = node
		node.prev = successor
		node.left = successor
		parent = node
	} else {
		successor.prev = nil
		successor.next = nil
		t.root = successor
		parent = nil
	}
	successor.left = nil
	successor.right = nil
	successor.parent = parent
	successor.red = true

	var grandpa, uncle *breakpoint
	node = successor
	for parent != nil && parent.red {
		grandpa = parent.parent
		if parent == grandpa.left {
			uncle = grandpa.right
			if uncle != nil && uncle.red {
				parent.red = false
				uncle.red = false
				grandpa.red = true
				node = grandpa
			} else {
				if node == parent.right {
					t.rotateLeft(parent)
					node = parent
					parent = node.parent
				}
				parent.red = false
				grandpa.red = true
				t.rotateRight(grandpa)
			}
		} else {
			uncle = grandpa.left
			if uncle != nil && uncle.red {
				parent.red = false
				uncle.red = false
				grandpa.red = true
				node = grandpa
			} else {
				if node == parent.left {
					t.rotateRight(parent)
					node = parent
					parent = node.parent
				}
				parent.red = false
				grandpa.red = true
				t.rotateLeft(grandpa)
			}
		}
		parent = node.parent
	}
	t.root.red = false
}

func (t *breakpointTree) remove(node *breakpoint) {
	if node.next != nil {
		node.next.prev = node.prev
	}
	if node.prev != nil {
		node.prev.next = node.next
	}
	node.next = nil
	node.prev = nil

	parent := node.parent
	left := node.left
	right := node.right
	var next *breakpoint
	if left == nil {
		next = right
	} else if right == nil {
		next = left
	} else {
		next = t.first(right)
	}
	if parent != nil {
		if parent.left == node {
			parent.left = next
		} else {
			parent.right = next
		}
	} else {
		t.root = next
	}

	isRed := false
	if left != nil && right != nil {
		isRed = next.red
		next.red = node.red
		next.left = left
		left.parent = next
		if next != right {
			parent = next.parent
			next.parent = node.parent
			node = next.right
			parent.left = node
			next.right = right
			right.parent = next
		} else {
			next.parent = parent
			parent = next
			node = next.right
		}
	} else {
		isRed = node.red
		node = next
	}
	if node != nil {
		node.parent = parent
	}
	if isRed {
		return
	}
	if node != nil && node.red {
		node.red = false
		return
	}

	var sibling *breakpoint
	for {
		if node == t.root {
			break
		}
		if node == parent.left {
			sibling = parent.right
			if sibling.red {
				sibling.red = false
				parent.red = true
				t.rotateLeft(parent)
				sibling = parent.right
			}
			if (sibling.left != nil && sibling.left.red) || (sibling.right != nil && sibling.right.red) {
				if sibling.right == nil || !sibling.right.red {
					sibling.left.red = false
					sibling.red = true
					t.rotateRight(sibling)
					sibling = parent.right
				}
				sibling.red = parent.red
				parent.red = false
				sibling.right.red = false
				t.rotateLeft(parent)
				node = t.root
				break
			}
		} else {
			sibling = parent.left
			if sibling.red {
				sibling.red = false
				parent.red = true
				t.rotateRight(parent)
				sibling = parent.left
			}
			if (sibling.left != nil && sibling.left.red) || (sibling.right != nil && sibling.right.red) {
				if sibling.left == nil || !sibling.left.red {
					sibling.right.red = false
					sibling.red = true
					t.rotateLeft(sibling)
					sibling = parent.left
				}
				sibling.red = parent.red
				parent.red = false
				sibling.left.red = false
				t.rotateRight(parent)
				node = t.root
				break
			}
		}
		sibling.red = true
		node = parent
		parent = parent.parent
		if node.red {
			break
		}
	}
	if node != nil {
		node.red = false
	}
}

func (t *breakpointTree) rotateLeft(node *breakpoint) {
	p := node
	q := node.right
	parent := p.parent
	if parent != nil {
		if parent.left == p {
			parent.left = q
		} else {
			parent.right = q
		}
	} else {
		t.root = q
	}
	q.parent = parent
	p.parent = q
	p.right = q.left
	if p.right != nil {
		p.right.parent = p
	}
	q.left = p
}

func (t *breakpointTree) rotateRight(node *breakpoint) {
	p := node
	q := node.left
	parent := p.parent
	if parent != nil {
		if parent.left == p {
			parent.left = q
		} else {
			parent.right = q
		}
	} else {
		t.root = q
	}
	q.parent = parent
	p.parent = q
	p.left = q.right
	if p.left != nil {
		p.left.parent = p
	}
	q.right = p
}
