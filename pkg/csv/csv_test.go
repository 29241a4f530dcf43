package csv

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name  string
	value int
}

func TestCreate(t *testing.T) {
	items := []item{{"a", 1}, {"b, c", 2}, {"d", 3}}
	values := func(i item) []string { return []string{i.name, strconv.Itoa(i.value)} }

	out, err := Create([]string{"Name", "Value"}, items, values, func(i item) bool { return i.value < 3 })
	require.NoError(t, err)
	assert.Equal(t, "Name,Value\na,1\n\"b, c\",2\n", string(out))

	all, err := Create([]string{"Name", "Value"}, items, values, nil)
	require.NoError(t, err)
	assert.Equal(t, "Name,Value\na,1\n\"b, c\",2\nd,3\n", string(all))
}
