package tree

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

const rbVariant = "rb"

// The parent is a lookup-only back-reference used to climb during
// the fix-up. Children are owned by their parent node.
type rbNode[K any] struct {
	parent *rbNode[K]
	left   *rbNode[K]
	right  *rbNode[K]
	key    K
	color  RBColor
}

func (node *rbNode[K]) String() string {
	if node == nil {
		return "nil"
	}
	return fmt.Sprintf("{key: %v, color: %s, left: %s, right: %s}", node.key, node.color, node.left.keyString(), node.right.keyString())
}

func (node *rbNode[K]) keyString() string {
	if node == nil {
		return "nil"
	}
	return fmt.Sprintf("%v", node.key)
}

func (node *rbNode[K]) isRed() bool {
	return isRed[K](node)
}

func (node *rbNode[K]) isBlack() bool {
	return isBlack[K](node)
}

func (node *rbNode[K]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K]) isLeaf() bool {
	return node != nil && node.parent != nil && node.left == nil && node.right == nil
}

func (node *rbNode[K]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K]) sibling() *rbNode[K] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K]) uncle() *rbNode[K] {
	return node.parent.sibling()
}

func (node *rbNode[K]) grandpa() *rbNode[K] {
	return node.parent.parent
}

func (node *rbNode[K]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K]) minimum() *rbNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K]) maximum() *rbNode[K] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
// Only called on a node with two children, so no backtracking.
func (node *rbNode[K]) pred() *rbNode[K] {
	return node.left.maximum()
}

// The succ node of the current node is its next node in sorted order.
// Only called on a node with two children, so no backtracking.
func (node *rbNode[K]) succ() *rbNode[K] {
	return node.right.minimum()
}

var _ BalancedSortedSet[int] = (*RBTree[int])(nil)

// RBTree is a red-black binary search tree.
//
// Remove is disabled unless the tree is built with WithRBTreeRemoval,
// a disabled Remove leaves the tree untouched and returns false.
// It is not safe for concurrent use.
type RBTree[K any] struct {
	root           *rbNode[K]
	count          int64
	cmp            infra.Comparator[K]
	logger         xlog.XLogger
	stats          *setStats
	isRmEnabled    bool
	isRmBorrowSucc bool
}

func NewRBTree[K infra.OrderedKey](opts ...SetOption[K]) *RBTree[K] {
	return NewRBTreeFunc[K](infra.NaturalOrder[K](), opts...)
}

func NewRBTreeFunc[K any](cmp infra.Comparator[K], opts ...SetOption[K]) *RBTree[K] {
	cfg := newSetConfig[K](cmp, opts...)
	return &RBTree[K]{
		cmp:            cfg.cmp,
		logger:         cfg.logger,
		stats:          cfg.stats(rbVariant),
		isRmEnabled:    cfg.isRmEnabled,
		isRmBorrowSucc: cfg.isRmBorrowSucc,
	}
}

func (tree *RBTree[K]) Len() int64 {
	return tree.count
}

func (tree *RBTree[K]) Comparator() infra.Comparator[K] {
	return tree.cmp
}

// Height is the longest path from the root to a nil leaf, counted in nodes.
func (tree *RBTree[K]) Height() int {
	var height func(node *rbNode[K]) int
	height = func(node *rbNode[K]) int {
		if node == nil {
			return 0
		}
		return max(height(node.left), height(node.right)) + 1
	}
	return height(tree.root)
}

// BlackHeight counts the black nodes from the root down to a nil leaf,
// nil leaf excluded. Every path has the same count if the tree is balanced.
func (tree *RBTree[K]) BlackHeight() int {
	depth := 0
	for aux := tree.root; aux != nil; aux = aux.left {
		if aux.isBlack() {
			depth++
		}
	}
	return depth
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *RBTree[K]) leftRotate(x *rbNode[K]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
	tree.stats.RecordRotation(Left)
}

/*
		 |                         |
		 X                         L
		/ \     rightRotate(X)    / \
	   L   R    ============>   Ld   X
	  / \                           / \
	Ld   Lc                        Lc  R
*/
func (tree *RBTree[K]) rightRotate(x *rbNode[K]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
	tree.stats.RecordRotation(Right)
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
func (tree *RBTree[K]) Add(key K) bool {
	if /* i1 */ tree.root == nil {
		tree.root = &rbNode[K]{
			key:   key,
			color: Black,
		}
		tree.count++
		tree.stats.RecordAdd()
		return true
	}

	var x, y *rbNode[K] = tree.root, nil
	res := int64(0)
	for x != nil {
		y = x
		res = tree.cmp(key, x.key)
		if /* equal */ res == 0 {
			return false
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K]{
		key:    key,
		color:  Red,
		parent: y,
	}
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}

	tree.count++
	tree.stats.RecordAdd()
	if y.isRed() {
		tree.insertRebalance(z)
	}
	return true
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

The loop runs while the parent P is red, so P is never the root and
the grandpa G exists and is black.

im1: Both the parent P and the uncle U are red.
(red-violation)
Repaint P and U into black, G into red unless G is the root.
G may be in red-violation with its own parent now.
Continue to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: The parent P is red but the uncle U is black (or NIL).
X is the inner grandchild (opposite direction to P). Rotate P to
the opposite direction, then P becomes the outer grandchild.
Enter im3 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3: X is the outer grandchild (same direction as parent).
Repaint P into black, G into red, rotate G to the opposite direction.

	    [G]                 <G>               [P]
	    / \    repaint      / \    rotate(G)  / \
	  <P> [U]  ======>    [P] [U]  ======>  <X> <G>
	  /                   /                       \
	<X>                 <X>                       [U]
*/
func (tree *RBTree[K]) insertRebalance(x *rbNode[K]) {
	for x.parent.isRed() {
		p, gp := x.parent, x.grandpa()
		if /* im1 */ u := x.uncle(); u.isRed() {
			p.color = Black
			u.color = Black
			if !gp.isRoot() {
				gp.color = Red
			}
			x = gp
			continue
		}

		dir := p.Direction()
		if /* im2 */ x.Direction() != dir {
			switch dir {
			case Left:
				tree.leftRotate(p)
			case Right:
				tree.rightRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im2)")
			}
			x, p = p, x
		}

		/* im3 */
		p.color = Black
		gp.color = Red
		switch dir {
		case Left:
			tree.rightRotate(gp)
		case Right:
			tree.leftRotate(gp)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im3)")
		}
		return
	}
}

func (tree *RBTree[K]) search(key K) *rbNode[K] {
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

func (tree *RBTree[K]) Contains(key K) bool {
	return tree.search(key) != nil
}

func (tree *RBTree[K]) Remove(key K) bool {
	if !tree.isRmEnabled {
		tree.logger.Debug("[rbtree] remove disabled")
		return false
	}
	z := tree.search(key)
	if z == nil {
		return false
	}
	tree.removeNode(z)
	tree.count--
	tree.stats.RecordRemove()
	return true
}

/*
r1: Only a root node, remove directly.

r2: Current node X has left and right node.
Find node X's pred or succ to replace it to be removed.
Swap the key only, then remove the pred or succ node Y instead.
Y has at most one child.

Find succ:

	  |                    |
	  X                    S
	 / \                 /  \
	L  ..   swap(X, S)  L   ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r3: (1) Current node Y is a red leaf node, remove directly.

r3: (2) Current node Y is a black leaf node, we have to rebalance
before it is unlinked. (black-violation)

r4: Current node Y is not a leaf node but contains a not nil child node.
The child node must be a red node, otherwise black-violation.
Replace Y by the child and repaint it into black.
*/
func (tree *RBTree[K]) removeNode(z *rbNode[K]) {
	if /* r1 */ tree.count == 1 && z.isRoot() {
		tree.root = nil
		return
	}

	y := z
	if /* r2 */ y.left != nil && y.right != nil {
		if tree.isRmBorrowSucc {
			y = z.succ() // enter r3-r4
		} else {
			y = z.pred() // enter r3-r4
		}
		z.key = y.key
	}

	if /* r3 */ y.isLeaf() {
		if /* r3 (2) */ y.isBlack() {
			tree.removeRebalance(y)
		}
		switch y.Direction() {
		case Left:
			y.parent.left = nil
		case Right:
			y.parent.right = nil
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] y should be a leaf node, violate (r3)")
		}
	} else /* r4 */ {
		replace := y.right
		if replace == nil {
			replace = y.left
		}
		if replace == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove a leaf node without child, violate (r4)")
		}

		switch y.Direction() {
		case Root:
			tree.root = replace
		case Left:
			y.parent.left = replace
		case Right:
			y.parent.right = replace
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] impossible run to here")
		}
		replace.parent = y.parent
		replace.color = Black
	}

	// Unlink node
	y.parent = nil
	y.left = nil
	y.right = nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Unable to satisfy p3 and p4. We have to paint the S into red to satisfy
p4 locally. Then recursive to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, right rotate S.
(2) If X is right node of P, left rotate S.
(3) Repaint S into red, Sc into black
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: Current node X's sibling S is black, nephew node Sd is red.
Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) Swap P and S's color
(4) Repaint Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *RBTree[K]) removeRebalance(x *rbNode[K]) {
	for !x.isRoot() {
		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *rbNode[K]
		switch dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				return
			}
			/* rm3 */
			sibling.color = Red
			x = x.parent
			continue
		}

		if /* rm4 */ sd.isBlack() {
			switch dir {
			case Left:
				tree.rightRotate(sibling)
			case Right:
				tree.leftRotate(sibling)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
			}
			sc.color = Black
			sibling.color = Red
			sd = sibling
			sibling = x.sibling()
		}

		/* rm5 */
		switch dir {
		case Left:
			tree.leftRotate(x.parent)
		case Right:
			tree.rightRotate(x.parent)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm5)")
		}
		sibling.color = x.parent.color
		x.parent.color = Black
		sd.color = Black
		return
	}
}

func (tree *RBTree[K]) First() (K, error) {
	if tree.root == nil {
		var zero K
		tree.logger.Debug("[rbtree] first of an empty tree")
		return zero, infra.WrapErrorStackWithMessage(ErrKeyNotFound, "first")
	}
	return tree.root.minimum().key, nil
}

func (tree *RBTree[K]) Last() (K, error) {
	if tree.root == nil {
		var zero K
		tree.logger.Debug("[rbtree] last of an empty tree")
		return zero, infra.WrapErrorStackWithMessage(ErrKeyNotFound, "last")
	}
	return tree.root.maximum().key, nil
}

func (tree *RBTree[K]) SubSet(from, to K) (SortedSet[K], error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "subset")
}

func (tree *RBTree[K]) HeadSet(to K) (SortedSet[K], error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "headset")
}

func (tree *RBTree[K]) TailSet(from K) (SortedSet[K], error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "tailset")
}

func (tree *RBTree[K]) Iterator() (func(yield func(K) bool), error) {
	return nil, infra.WrapErrorStackWithMessage(ErrOperationNotSupported, "iterator")
}

// Inorder traversal to implement the DFS.
func (tree *RBTree[K]) foreach(action func(idx int64, node *rbNode[K]) bool) {
	stack := make([]*rbNode[K], 0, tree.count>>1)
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

// String renders the tree in preorder, e.g. (B:2 (R:1) (R:3)).
func (tree *RBTree[K]) String() string {
	builder := strings.Builder{}
	_, _ = fmt.Fprintf(&builder, "RBTree{len: %d, tree: ", tree.count)
	var render func(node *rbNode[K])
	render = func(node *rbNode[K]) {
		if node == nil {
			_, _ = builder.WriteString("()")
			return
		}
		_, _ = fmt.Fprintf(&builder, "(%c:%v", node.color.String()[0], node.key)
		if node.left != nil || node.right != nil {
			_, _ = builder.WriteString(" ")
			render(node.left)
			_, _ = builder.WriteString(" ")
			render(node.right)
		}
		_, _ = builder.WriteString(")")
	}
	if tree.root != nil {
		render(tree.root)
	} else {
		_, _ = builder.WriteString("nil")
	}
	_, _ = builder.WriteString("}")
	return builder.String()
}

func (tree *RBTree[K]) CheckBalanced() error {
	if err := checkRB[K](tree); err != nil {
		tree.stats.RecordViolation(err.Rule)
		tree.logger.ErrorStack(
			infra.WrapErrorStack(err),
			"[rbtree] balance violation",
			zap.Int64("len", tree.count),
		)
		return err
	}
	return nil
}
