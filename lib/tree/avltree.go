package tree

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

const avlVariant = "avl"

type avlNode[K any] struct {
	left   *avlNode[K]
	right  *avlNode[K]
	key    K
	height int
}

func (node *avlNode[K]) String() string {
	if node == nil {
		return "nil"
	}
	return fmt.Sprintf("{key: %v, height: %d, left: %s, right: %s}", node.key, node.height, node.left.keyString(), node.right.keyString())
}

func (node *avlNode[K]) keyString() string {
	if node == nil {
		return "nil"
	}
	return fmt.Sprintf("%v", node.key)
}

func avlHeight[K any](node *avlNode[K]) int {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[K]) fixHeight() {
	node.height = max(avlHeight(node.left), avlHeight(node.right)) + 1
}

// diff > 0 right-heavy, diff < 0 left-heavy.
func (node *avlNode[K]) diff() int {
	return avlHeight(node.right) - avlHeight(node.left)
}

func (node *avlNode[K]) minimum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *avlNode[K]) maximum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

var _ BalancedSortedSet[int] = (*AVLTree[int])(nil)

// AVLTree is a height-balanced binary search tree.
// For every node the heights of both subtrees differ by at most 1,
// so the depth is bounded by 1.44*log2(n+2).
// It is not safe for concurrent use.
type AVLTree[K any] struct {
	root   *avlNode[K]
	count  int64
	cmp    infra.Comparator[K]
	logger xlog.XLogger
	stats  *setStats
}

func NewAVLTree[K infra.OrderedKey](opts ...SetOption[K]) *AVLTree[K] {
	return NewAVLTreeFunc[K](infra.NaturalOrder[K](), opts...)
}

func NewAVLTreeFunc[K any](cmp infra.Comparator[K], opts ...SetOption[K]) *AVLTree[K] {
	cfg := newSetConfig[K](cmp, opts...)
	return &AVLTree[K]{
		cmp:    cfg.cmp,
		logger: cfg.logger,
		stats:  cfg.stats(avlVariant),
	}
}

func (tree *AVLTree[K]) Len() int64 {
	return tree.count
}

// Height of the root, 0 if empty.
func (tree *AVLTree[K]) Height() int {
	return avlHeight(tree.root)
}

func (tree *AVLTree[K]) Comparator() infra.Comparator[K] {
	return tree.cmp
}

func (tree *AVLTree[K]) Add(key K) bool {
	prev := tree.count
	tree.root = tree.insert(tree.root, key)
	if tree.count == prev {
		return false
	}
	tree.stats.RecordAdd()
	return true
}

func (tree *AVLTree[K]) insert(node *avlNode[K], key K) *avlNode[K] {
	if node == nil {
		tree.count++
		return &avlNode[K]{
			key:    key,
			height: 1,
		}
	}

	res := tree.cmp(key, node.key)
	if /* equal */ res == 0 {
		return node
	} else /* less */ if res < 0 {
		node.left = tree.insert(node.left, key)
	} else /* greater */ {
		node.right = tree.insert(node.right, key)
	}
	return tree.balance(node)
}

func (tree *AVLTree[K]) Remove(key K) bool {
	prev := tree.count
	tree.root = tree.remove(tree.root, key)
	if tree.count == prev {
		return false
	}
	tree.stats.RecordRemove()
	return true
}

/*
r1: X has no right child, its left child (or nil) takes its place.

r2: X has a right child. Splice the key of the successor S (the
minimum of the right subtree) into X, then excise S from the right
subtree. S has no left child, so its right child takes its place.

	  |                   |
	  X                   S
	 / \                 / \
	L   R   splice(S)   L   R
	   /    ========>      /
	  S                  Sr
	   \
	   Sr
*/
func (tree *AVLTree[K]) remove(node *avlNode[K], key K) *avlNode[K] {
	if node == nil {
		return nil
	}

	res := tree.cmp(key, node.key)
	if /* less */ res < 0 {
		node.left = tree.remove(node.left, key)
		return tree.balance(node)
	} else /* greater */ if res > 0 {
		node.right = tree.remove(node.right, key)
		return tree.balance(node)
	}

	tree.count--
	if /* r1 */ node.right == nil {
		l := node.left
		node.left = nil
		return l
	}
	/* r2 */
	node.key = node.right.minimum().key
	node.right = tree.removeMin(node.right)
	return tree.balance(node)
}

// removeMin excises the minimum node of the subtree rooted at node.
// It descends through the left child, never node itself.
func (tree *AVLTree[K]) removeMin(node *avlNode[K]) *avlNode[K] {
	if node.left == nil {
		r := node.right
		node.right = nil
		return r
	}
	node.left = tree.removeMin(node.left)
	return tree.balance(node)
}

/*
b1: diff == 2 and the right child R is not left-heavy, left rotate X.

	  X                   R
	 / \                 / \
	L   R   l-rotate(X) X   Rr
	   / \  ==========> / \
	  Rl  Rr           L  Rl

b2: diff == 2 and R is left-heavy, right rotate R then left rotate X.

	  X                   X                   Rl
	 / \                 / \                 /  \
	L   R   r-rotate(R) L   Rl  l-rotate(X) X    R
	   /    ==========>      \  ==========> /
	  Rl                      R            L

b3, b4: diff == -2, the mirror images of b1, b2.
*/
func (tree *AVLTree[K]) balance(node *avlNode[K]) *avlNode[K] {
	node.fixHeight()
	switch node.diff() {
	case 2:
		if /* b2 */ node.right.diff() < 0 {
			node.right = tree.rightRotate(node.right)
		}
		/* b1 */
		return tree.leftRotate(node)
	case -2:
		if /* b4 */ node.left.diff() > 0 {
			node.left = tree.leftRotate(node.left)
		}
		/* b3 */
		return tree.rightRotate(node)
	default:
	}
	return node
}

func (tree *AVLTree[K]) leftRotate(x *avlNode[K]) *avlNode[K] {
	y := x.right
	x.right, y.left = y.left, x
	x.fixHeight()
	y.fixHeight()
	tree.stats.RecordRotation(Left)
	return y
}

func (tree *AVLTree[K]) rightRotate(x *avlNode[K]) *avlNode[K] {
	y := x.left
	x.left, y.right = y.right, x
	x.fixHeight()
	y.fixHeight()
	tree.stats.RecordRotation(Right)
	return y
}

func (tree *AVLTree[K]) search(key K) *avlNode[K] {
	for aux := tree.root; aux != nil; {
		res := tree.cmp(key, aux.key)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil
}

func (tree *AVLTree[K]) Contains(key K) bool {
	return tree.search(key) != nil
}

func (tree *AVLTree[K]) First() (K, error) {
	if tree.root == nil {
		var zero K
		tree.logger.Debug("[avltree] first of an empty tree")
		return zero, infra.WrapErrorStackWithMessage(ErrKeyNotFound, "first")
	}
	return tree.root.minimum().key, nil
}

func (tree *AVLTree[K]) Last() (K, error) {
	if tree.root == nil {
		var zero K
		tree.logger.Debug("[avltree] last of an empty tree")
		return zero, infra.WrapErrorStackWithMessage(ErrKeyNotFound, "last")
	}
	return tree.root.maximum().key, nil
}

func (tree *AVLTree[K]) SubSet(from, to K) (SortedSet[K], error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "subset")
}

func (tree *AVLTree[K]) HeadSet(to K) (SortedSet[K], error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "headset")
}

func (tree *AVLTree[K]) TailSet(from K) (SortedSet[K], error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "tailset")
}

func (tree *AVLTree[K]) Iterator() (func(yield func(K) bool), error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "iterator")
}

// Inorder traversal to implement the DFS.
func (tree *AVLTree[K]) foreach(action func(idx int64, node *avlNode[K]) bool) {
	stack := make([]*avlNode[K], 0, avlHeight(tree.root))
	aux := tree.root
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *AVLTree[K]) String() string {
	builder := strings.Builder{}
	_, _ = fmt.Fprintf(&builder, "AVLTree{len: %d, height: %d, elements: [", tree.count, tree.Height())
	tree.foreach(func(idx int64, node *avlNode[K]) bool {
		if idx > 0 {
			_, _ = builder.WriteString(" ")
		}
		_, _ = fmt.Fprintf(&builder, "%v", node.key)
		return true
	})
	_, _ = builder.WriteString("]}")
	return builder.String()
}

func (tree *AVLTree[K]) CheckBalanced() error {
	if err := checkAVL[K](tree); err != nil {
		tree.stats.RecordViolation(err.Rule)
		tree.logger.ErrorStack(
			infra.WrapErrorStack(err),
			"[avltree] balance violation",
			zap.Int64("len", tree.count),
		)
		return err
	}
	return nil
}
