package reflect

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Root struct {
	Name string `inject:""`
}

type Middle struct {
	Root
	Count int `inject:"named=count"`
}

type Other struct {
	Flag bool
}

type hidden struct {
	Value string `inject:""`
}

type Leaf struct {
	*Middle
	Other
	hidden
	Tagged Other `inject:""`
	Plain  string
}

type Loop struct {
	*Loop
	Value int `inject:""`
}

func TestLevels_AncestorsFirst(t *testing.T) {
	t.Parallel()

	levels := Levels(reflect.TypeFor[Leaf](), "inject")

	var names []string
	for _, l := range levels {
		names = append(names, l.Type.Name())
	}

	assert.Equal(t, []string{"Root", "Middle", "Other", "hidden", "Leaf"}, names)
	assert.Equal(t, []int{0, 0}, levels[0].Index)
	assert.Empty(t, levels[len(levels)-1].Index)
}

func TestLevels_Settable(t *testing.T) {
	t.Parallel()

	levels := Levels(reflect.TypeFor[Leaf](), "inject")
	byName := make(map[string]Level, len(levels))
	for _, l := range levels {
		byName[l.Type.Name()] = l
	}

	assert.True(t, byName["Middle"].Settable)
	assert.True(t, byName["Root"].Settable)
	assert.False(t, byName["hidden"].Settable)
}

func TestLevels_SelfEmbeddingTerminates(t *testing.T) {
	t.Parallel()

	levels := Levels(reflect.TypeFor[Loop](), "inject")
	require.Len(t, levels, 1)
	assert.Equal(t, "Loop", levels[0].Type.Name())
}

func TestLevel_Embeds(t *testing.T) {
	t.Parallel()

	leaf := Level{Index: nil}
	middle := Level{Index: []int{0}}
	root := Level{Index: []int{0, 0}}
	other := Level{Index: []int{1}}

	assert.True(t, leaf.Embeds(middle))
	assert.True(t, leaf.Embeds(root))
	assert.True(t, middle.Embeds(root))
	assert.False(t, root.Embeds(middle))
	assert.False(t, other.Embeds(root))
	assert.False(t, middle.Embeds(middle))
}

func TestTaggedFields(t *testing.T) {
	t.Parallel()

	levels := Levels(reflect.TypeFor[Leaf](), "inject")
	leaf := levels[len(levels)-1]

	fields := TaggedFields(leaf, "inject")
	require.Len(t, fields, 1)
	assert.Equal(t, "Tagged", fields[0].Name)
	assert.Equal(t, []int{3}, fields[0].Path)

	middle := levels[1]
	fields = TaggedFields(middle, "inject")
	require.Len(t, fields, 1)
	assert.Equal(t, "Count", fields[0].Name)
	assert.Equal(t, []int{0, 1}, fields[0].Path)
}

func TestFieldByName(t *testing.T) {
	t.Parallel()

	levels := Levels(reflect.TypeFor[Leaf](), "inject")
	leaf := levels[len(levels)-1]

	f, ok := FieldByName(leaf, "Plain")
	require.True(t, ok)
	assert.Equal(t, []int{4}, f.Path)

	_, ok = FieldByName(leaf, "Missing")
	assert.False(t, ok)
}

func TestFieldByPath_AllocatesEmbeddedPointers(t *testing.T) {
	t.Parallel()

	leaf := &Leaf{}
	v := reflect.ValueOf(leaf).Elem()

	FieldByPath(v, []int{0, 1}).SetInt(7)

	require.NotNil(t, leaf.Middle)
	assert.Equal(t, 7, leaf.Count)
}

func TestLevelPointer(t *testing.T) {
	t.Parallel()

	leaf := &Leaf{}
	v := reflect.ValueOf(leaf).Elem()

	middle := LevelPointer(v, []int{0})
	require.NotNil(t, leaf.Middle)
	assert.Same(t, leaf.Middle, middle.Interface())

	root := LevelPointer(v, []int{0, 0})
	assert.Same(t, &leaf.Middle.Root, root.Interface())

	self := LevelPointer(v, nil)
	assert.Same(t, leaf, self.Interface())
}
