package tree

import (
	"errors"
	"math"
	randv2 "math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/infra"
)

func avlKeys[K any](tree *AVLTree[K]) []K {
	keys := make([]K, 0, tree.Len())
	tree.foreach(func(idx int64, node *avlNode[K]) bool {
		keys = append(keys, node.key)
		return true
	})
	return keys
}

func avlPreorder[K any](node *avlNode[K], keys []K) []K {
	if node == nil {
		return keys
	}
	keys = append(keys, node.key)
	keys = avlPreorder(node.left, keys)
	return avlPreorder(node.right, keys)
}

func TestAVLTree_SequentialInsert(t *testing.T) {
	tree := NewAVLTree[int]()
	for i := 0; i < 10; i++ {
		require.True(t, tree.Add(i))
		require.NoError(t, tree.CheckBalanced())
	}
	require.Equal(t, int64(10), tree.Len())
	require.Equal(t, 4, tree.Height())
	require.Equal(t, []int{3, 1, 0, 2, 7, 5, 4, 6, 8, 9}, avlPreorder(tree.root, nil))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, avlKeys(tree))

	first, err := tree.First()
	require.NoError(t, err)
	require.Equal(t, 0, first)
	last, err := tree.Last()
	require.NoError(t, err)
	require.Equal(t, 9, last)
}

func TestAVLTree_DoubleRotation(t *testing.T) {
	type testcase struct {
		name     string
		keys     []int
		preorder []int
	}
	testcases := []testcase{
		{
			name:     "left right",
			keys:     []int{3, 1, 2},
			preorder: []int{2, 1, 3},
		},
		{
			name:     "right left",
			keys:     []int{1, 3, 2},
			preorder: []int{2, 1, 3},
		},
		{
			name:     "right right",
			keys:     []int{1, 2, 3},
			preorder: []int{2, 1, 3},
		},
		{
			name:     "left left",
			keys:     []int{3, 2, 1},
			preorder: []int{2, 1, 3},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewAVLTree[int]()
			for _, key := range tc.keys {
				require.True(tt, tree.Add(key))
			}
			require.Equal(tt, tc.preorder, avlPreorder(tree.root, nil))
			require.Equal(tt, 2, tree.Height())
			require.NoError(tt, tree.CheckBalanced())
		})
	}
}

func TestAVLTree_RemoveWithTwoChildren(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, key := range []int{1, 2, 3} {
		require.True(t, tree.Add(key))
	}

	require.True(t, tree.Remove(2))
	require.Equal(t, int64(2), tree.Len())
	require.False(t, tree.Contains(2))
	require.True(t, tree.Contains(1))
	require.True(t, tree.Contains(3))
	require.Equal(t, []int{3, 1}, avlPreorder(tree.root, nil))
	require.NoError(t, tree.CheckBalanced())

	require.False(t, tree.Remove(2))
	require.Equal(t, int64(2), tree.Len())
}

func TestAVLTree_RemoveWithoutRightChild(t *testing.T) {
	tree := NewAVLTree[int]()
	require.True(t, tree.Add(2))
	require.True(t, tree.Add(1))

	require.True(t, tree.Remove(2))
	require.Equal(t, int64(1), tree.Len())
	require.Equal(t, 1, tree.root.key)
	require.NoError(t, tree.CheckBalanced())

	require.True(t, tree.Remove(1))
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.root)
	require.NoError(t, tree.CheckBalanced())
}

func TestAVLTree_RemoveMinimumDeepInRightSubtree(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, key := range []int{4, 2, 8, 1, 6, 9, 5} {
		require.True(t, tree.Add(key))
	}
	require.NoError(t, tree.CheckBalanced())

	// The successor 5 is the left child of 6.
	require.True(t, tree.Remove(4))
	require.Equal(t, 5, tree.root.key)
	require.Equal(t, []int{1, 2, 5, 6, 8, 9}, avlKeys(tree))
	require.NoError(t, tree.CheckBalanced())
}

func TestAVLTree_Idempotent(t *testing.T) {
	tree := NewAVLTree[int]()
	require.True(t, tree.Add(7))
	before := tree.String()

	require.False(t, tree.Add(7))
	require.Equal(t, int64(1), tree.Len())
	require.Equal(t, before, tree.String())

	require.False(t, tree.Remove(8))
	require.Equal(t, before, tree.String())
}

func TestAVLTree_Empty(t *testing.T) {
	tree := NewAVLTree[int]()
	require.Equal(t, int64(0), tree.Len())
	require.Equal(t, 0, tree.Height())
	require.False(t, tree.Contains(1))
	require.False(t, tree.Remove(1))
	require.NoError(t, tree.CheckBalanced())

	_, err := tree.First()
	require.ErrorIs(t, err, ErrKeyNotFound)
	_, err = tree.Last()
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.Equal(t, "AVLTree{len: 0, height: 0, elements: []}", tree.String())
}

func TestAVLTree_String(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, key := range []int{3, 1, 2} {
		tree.Add(key)
	}
	require.Equal(t, "AVLTree{len: 3, height: 2, elements: [1 2 3]}", tree.String())
	require.Equal(t, "{key: 2, height: 2, left: 1, right: 3}", tree.root.String())
}

func avltreeRandomInsertAndRemoveRunCore(t *testing.T, total int, violationCheck bool) {
	tree := NewAVLTree[uint64]()

	model := make(map[uint64]struct{}, total)
	for i := 0; i < total; i++ {
		key := randv2.Uint64N(uint64(total))
		_, exists := model[key]
		if randv2.IntN(3) == 0 {
			require.Equal(t, exists, tree.Remove(key))
			delete(model, key)
		} else {
			require.Equal(t, !exists, tree.Add(key))
			model[key] = struct{}{}
		}
		if violationCheck {
			require.NoError(t, tree.CheckBalanced())
		}
	}
	require.NoError(t, tree.CheckBalanced())

	expected := lo.Keys(model)
	slices.Sort(expected)
	require.Equal(t, int64(len(expected)), tree.Len())
	if len(expected) > 0 {
		require.Equal(t, expected, avlKeys(tree))
	}
	// 1.44 * log2(n + 2)
	require.LessOrEqual(t, float64(tree.Height()), 1.45*math.Log2(float64(tree.Len()+2)))
}

func TestAVLTreeRandomInsertAndRemove(t *testing.T) {
	type testcase struct {
		name           string
		total          int
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "random 100000",
			total: 100000,
		},
		{
			name:           "violation check 5000",
			total:          5000,
			violationCheck: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			avltreeRandomInsertAndRemoveRunCore(tt, tc.total, tc.violationCheck)
		})
	}
}

func TestAVLTree_InsertAllThenRemoveAll(t *testing.T) {
	keys := lo.Shuffle(lo.Range(512))
	tree := NewAVLTree[int]()
	for _, key := range keys {
		require.True(t, tree.Add(key))
	}
	require.NoError(t, tree.CheckBalanced())
	require.Equal(t, lo.Range(512), avlKeys(tree))

	for _, key := range lo.Shuffle(keys) {
		require.True(t, tree.Remove(key))
		require.NoError(t, tree.CheckBalanced())
	}
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.root)
}

type version struct {
	major, minor int
}

func TestAVLTree_CustomComparator(t *testing.T) {
	cmp := func(i, j version) int64 {
		if i.major != j.major {
			return int64(i.major - j.major)
		}
		return int64(i.minor - j.minor)
	}
	tree := NewAVLTreeFunc[version](cmp)
	for _, v := range []version{{1, 2}, {0, 9}, {1, 0}, {2, 0}, {1, 2}} {
		tree.Add(v)
	}
	require.Equal(t, int64(4), tree.Len())
	require.Equal(t, []version{{0, 9}, {1, 0}, {1, 2}, {2, 0}}, avlKeys(tree))
	require.True(t, tree.Contains(version{1, 0}))

	desc := NewAVLTreeFunc[version](cmp, WithDescOrder[version]())
	for _, v := range []version{{1, 2}, {0, 9}, {2, 0}} {
		desc.Add(v)
	}
	first, err := desc.First()
	require.NoError(t, err)
	require.Equal(t, version{2, 0}, first)
	require.Greater(t, desc.Comparator()(version{0, 9}, version{2, 0}), int64(0))
}

func TestAVLTree_ComparatorOption(t *testing.T) {
	byLen := func(i, j string) int64 {
		return int64(len(i) - len(j))
	}
	tree := NewAVLTree[string](WithComparator[string](byLen))
	require.True(t, tree.Add("abc"))
	require.False(t, tree.Add("xyz"))
	require.True(t, tree.Contains("zzz"))
	require.True(t, tree.Add("a"))
	require.Equal(t, []string{"a", "abc"}, avlKeys(tree))

	require.Panics(t, func() {
		NewAVLTreeFunc[string](nil)
	})
}

func TestAVLTree_NaN(t *testing.T) {
	tree := NewAVLTree[float64]()
	require.True(t, tree.Add(math.NaN()))
	require.False(t, tree.Add(math.NaN()))
	require.True(t, tree.Add(math.Inf(-1)))
	require.True(t, tree.Add(1.5))
	require.True(t, tree.Contains(math.NaN()))
	require.NoError(t, tree.CheckBalanced())

	first, err := tree.First()
	require.NoError(t, err)
	require.True(t, math.IsNaN(first))
}

func TestAVLTree_UnsupportedOperations(t *testing.T) {
	tree := NewAVLTree[int]()
	tree.Add(1)

	_, err := tree.SubSet(0, 2)
	require.ErrorIs(t, err, ErrOperationNotSupported)
	_, err = tree.HeadSet(2)
	require.ErrorIs(t, err, ErrOperationNotSupported)
	_, err = tree.TailSet(0)
	require.ErrorIs(t, err, ErrOperationNotSupported)
	seq, err := tree.Iterator()
	require.ErrorIs(t, err, ErrOperationNotSupported)
	require.Nil(t, seq)

	var es infra.ErrorStack
	require.True(t, errors.As(err, &es))
	require.True(t, strings.HasPrefix(err.Error(), "iterator"))
}

func BenchmarkAVLTree_Random(b *testing.B) {
	b.StopTimer()
	tree := NewAVLTree[int]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Add(rngArr[i])
	}
}

func BenchmarkAVLTree_Serial(b *testing.B) {
	tree := NewAVLTree[int]()
	for i := 0; i < b.N; i++ {
		tree.Add(i)
	}
}
