package tree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrKeyNotFound           = errors.New("[xtree] key not found")
	ErrOperationNotSupported = errors.New("[xtree] operation not supported")
	ErrBalanceViolation      = errors.New("[xtree] balance violation")
)

type ViolationRule string

const (
	// AVL, |height(left) - height(right)| <= 1.
	RuleHeightDiff ViolationRule = "height-diff"
	// AVL, stored height = 1 + max(height(left), height(right)).
	RuleHeightAttr ViolationRule = "height-attr"
	// RB, the root is black.
	RuleRootColor ViolationRule = "root-color"
	// RB, a red node has no red child.
	RuleRed ViolationRule = "red-rule"
	// RB, the black heights of both subtrees are equal.
	RuleBlackHeight ViolationRule = "black-height"
	// RB, the child's parent back-reference points at its owner.
	RuleParentLink ViolationRule = "parent-link"
	// In-order keys are strictly increasing.
	RuleOrder ViolationRule = "order"
	// The running count equals the reachable nodes.
	RuleSize ViolationRule = "size"
)

// BalanceViolationError carries both measurements compared by the
// violated rule and the rendering of the offending node.
type BalanceViolationError struct {
	Variant string
	Rule    ViolationRule
	Left    int64
	Right   int64
	Node    string
}

func (e *BalanceViolationError) Error() string {
	builder := strings.Builder{}
	_, _ = builder.WriteString(ErrBalanceViolation.Error())
	_, _ = fmt.Fprintf(&builder, " (%s, %s): left=%d, right=%d", e.Variant, e.Rule, e.Left, e.Right)
	if len(e.Node) > 0 {
		_, _ = builder.WriteString(", node=")
		_, _ = builder.WriteString(e.Node)
	}
	return builder.String()
}

func (e *BalanceViolationError) Unwrap() error {
	return ErrBalanceViolation
}
