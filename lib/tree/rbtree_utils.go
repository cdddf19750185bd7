package tree

// NIL leaves are black.
func isBlack[K any](node *rbNode[K]) bool {
	return node == nil || node.color == Black
}

func isRed[K any](node *rbNode[K]) bool {
	return node != nil && node.color == Red
}
