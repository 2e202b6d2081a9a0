package activity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterJane(t *testing.T) {
	got := Filter(MockRecords(), "jane")
	require.Len(t, got, 1)
	assert.Equal(t, "Jane Smith", got[0].Admin)
}

func TestFilterEmptyTermKeepsAllInOrder(t *testing.T) {
	records := MockRecords()
	assert.Equal(t, records, Filter(records, ""))
}

func TestFilterFields(t *testing.T) {
	records := MockRecords()
	cases := map[string][]int64{
		"login":    {1, 4},
		"school c": {3},
		"-":        {1, 4},
		"transfer": {2},
		"192.168":  {},
		"changed":  {},
	}
	for term, want := range cases {
		t.Run(term, func(t *testing.T) {
			assert.Equal(t, want, ids(Filter(records, term)))
		})
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	records := MockRecords()
	for _, term := range []string{"jane", "login", "school a", "brown"} {
		assert.Equal(t, Filter(records, term), Filter(records, strings.ToUpper(term)), term)
	}
}

func TestFilterIdempotent(t *testing.T) {
	records := MockRecords()
	for _, term := range []string{"", "a", "login", "school", "zzz"} {
		once := Filter(records, term)
		assert.Equal(t, once, Filter(once, term), term)
	}
}
