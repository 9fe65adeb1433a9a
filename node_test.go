package ptrie

import "testing"

func TestNodeChildSelection(t *testing.T) {
	n := &node{}
	if n.child(0) != nil || n.child(1) != nil {
		t.Fatalf("new node should have no children")
	}
	zero := &node{}
	one := &node{}
	n.setChild(0, zero)
	n.setChild(1, one)
	if n.child(0) != zero || n.child(1) != one {
		t.Fatalf("child selection mismatch")
	}
	if *n.childSlot(0) != zero || *n.childSlot(1) != one {
		t.Fatalf("childSlot mismatch")
	}
}

func TestNodeIsEmpty(t *testing.T) {
	n := &node{}
	if !n.isEmpty() {
		t.Fatalf("fresh node should be empty")
	}
	n.hasData = true
	if n.isEmpty() {
		t.Fatalf("node with data should not be empty")
	}
	n2 := &node{}
	n2.setChild(1, &node{})
	if n2.isEmpty() {
		t.Fatalf("node with a child should not be empty")
	}
}
