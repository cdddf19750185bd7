package tree

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

// Post-order validation, the first violation found is returned.
// The recursion depth is the tree height, which is only logarithmic
// if the tree is balanced. The checker trusts that bound.

func checkAVL[K any](tree *AVLTree[K]) *BalanceViolationError {
	var walk func(node *avlNode[K]) (int, *BalanceViolationError)
	walk = func(node *avlNode[K]) (int, *BalanceViolationError) {
		if node == nil {
			return 0, nil
		}
		lh, err := walk(node.left)
		if err != nil {
			return 0, err
		}
		rh, err := walk(node.right)
		if err != nil {
			return 0, err
		}
		if lh-rh > 1 || rh-lh > 1 {
			return 0, &BalanceViolationError{
				Variant: avlVariant,
				Rule:    RuleHeightDiff,
				Left:    int64(lh),
				Right:   int64(rh),
				Node:    node.String(),
			}
		}
		h := max(lh, rh) + 1
		if h != node.height {
			return 0, &BalanceViolationError{
				Variant: avlVariant,
				Rule:    RuleHeightAttr,
				Left:    int64(node.height),
				Right:   int64(h),
				Node:    node.String(),
			}
		}
		return h, nil
	}
	if _, err := walk(tree.root); err != nil {
		return err
	}

	var (
		prev  *avlNode[K]
		count int64
		err   *BalanceViolationError
	)
	tree.foreach(func(idx int64, node *avlNode[K]) bool {
		if prev != nil {
			if err = checkOrder(tree.cmp, avlVariant, prev.key, node.key, node); err != nil {
				return false
			}
		}
		prev = node
		count++
		return true
	})
	if err != nil {
		return err
	}
	return checkSize(avlVariant, count, tree.count)
}

/*
The black height of a nil leaf is 1.

	        [13]
	        /  \
	     <8>    <17>
	     / \    /  \
	  [1] [11] [15] [25]

Each path from [13] down to a nil leaf passes 3 black nodes
(nil leaf included).
*/
func checkRB[K any](tree *RBTree[K]) *BalanceViolationError {
	if tree.root == nil {
		return checkSize(rbVariant, 0, tree.count)
	}
	if tree.root.color != Black {
		return &BalanceViolationError{
			Variant: rbVariant,
			Rule:    RuleRootColor,
			Node:    tree.root.String(),
		}
	}
	if tree.root.parent != nil {
		return &BalanceViolationError{
			Variant: rbVariant,
			Rule:    RuleParentLink,
			Node:    tree.root.String(),
		}
	}

	var walk func(node *rbNode[K]) (int, *BalanceViolationError)
	walk = func(node *rbNode[K]) (int, *BalanceViolationError) {
		if node == nil {
			return 1, nil
		}
		for _, child := range [2]*rbNode[K]{node.left, node.right} {
			if child != nil && child.parent != node {
				return 0, &BalanceViolationError{
					Variant: rbVariant,
					Rule:    RuleParentLink,
					Node:    child.String(),
				}
			}
		}
		lbh, err := walk(node.left)
		if err != nil {
			return 0, err
		}
		rbh, err := walk(node.right)
		if err != nil {
			return 0, err
		}
		if lbh != rbh {
			return 0, &BalanceViolationError{
				Variant: rbVariant,
				Rule:    RuleBlackHeight,
				Left:    int64(lbh),
				Right:   int64(rbh),
				Node:    node.String(),
			}
		}
		if node.isRed() {
			if node.left.isRed() || node.right.isRed() {
				return 0, &BalanceViolationError{
					Variant: rbVariant,
					Rule:    RuleRed,
					Left:    int64(lbh),
					Right:   int64(rbh),
					Node:    node.String(),
				}
			}
			return lbh, nil
		}
		return lbh + 1, nil
	}
	if _, err := walk(tree.root); err != nil {
		return err
	}

	var (
		prev  *rbNode[K]
		count int64
		err   *BalanceViolationError
	)
	tree.foreach(func(idx int64, node *rbNode[K]) bool {
		if prev != nil {
			if err = checkOrder(tree.cmp, rbVariant, prev.key, node.key, node); err != nil {
				return false
			}
		}
		prev = node
		count++
		return true
	})
	if err != nil {
		return err
	}
	return checkSize(rbVariant, count, tree.count)
}

func checkOrder[K any](
	cmp infra.Comparator[K],
	variant string,
	prev, key K,
	node fmt.Stringer,
) *BalanceViolationError {
	if cmp(prev, key) >= 0 {
		return &BalanceViolationError{
			Variant: variant,
			Rule:    RuleOrder,
			Node:    node.String(),
		}
	}
	return nil
}

func checkSize(variant string, reachable, count int64) *BalanceViolationError {
	if reachable != count {
		return &BalanceViolationError{
			Variant: variant,
			Rule:    RuleSize,
			Left:    reachable,
			Right:   count,
		}
	}
	return nil
}
