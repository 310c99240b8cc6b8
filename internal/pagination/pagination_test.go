package pagination

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

// render turns controls into a compact string like "1 ... 3 4 [5] 6 7 ... 10".
func render(controls []Control) string {
	out := ""
	for i, c := range controls {
		if i > 0 {
			out += " "
		}
		if c.Active {
			out += "[" + c.Label() + "]"
		} else {
			out += c.Label()
		}
	}
	return out
}

func countEllipses(controls []Control) int {
	n := 0
	for _, c := range controls {
		if c.Ellipsis {
			n++
		}
	}
	return n
}

func TestPlanScenarios(t *testing.T) {
	tests := []struct {
		total, current int
		want           string
	}{
		{1, 1, "[1]"},
		{2, 1, "[1] 2"},
		{2, 2, "1 [2]"},
		{3, 1, "[1] 2 3"},
		{3, 2, "1 [2] 3"},
		{5, 3, "1 2 [3] 4 5"},
		{10, 1, "[1] 2 3 ... 10"},
		{10, 3, "1 2 [3] 4 5 ... 10"},
		{10, 4, "1 ... 2 3 [4] 5 6 ... 10"},
		{10, 5, "1 ... 3 4 [5] 6 7 ... 10"},
		{10, 7, "1 ... 5 6 [7] 8 9 10"},
		{10, 10, "1 ... 8 9 [10]"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, render(Plan(tt.total, tt.current)))
		})
	}
}

func TestPlanSinglePage(t *testing.T) {
	for _, current := range []int{-3, 0, 1, 2, 50} {
		assert.Equal(t, []Control{{Page: 1, Active: true}}, Plan(1, current))
	}
}

func TestPlanLeadingEllipsis(t *testing.T) {
	for total := 7; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			controls := Plan(total, current)
			leading := 0
			if len(controls) > 1 && controls[1].Ellipsis {
				leading = 1
			}
			if current <= 3 {
				assert.Equal(t, 0, leading, "total=%d current=%d", total, current)
			} else {
				assert.Equal(t, 1, leading, "total=%d current=%d", total, current)
			}
		}
	}
}

func TestPlanTrailingEllipsis(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			controls := Plan(total, current)
			trailing := 0
			if n := len(controls); n > 2 && controls[n-2].Ellipsis {
				trailing = 1
			}
			want := 0
			if total-current > 3 {
				want = 1
			}
			assert.Equal(t, want, trailing, "total=%d current=%d", total, current)
		}
	}
}

func TestPlanInvariants(t *testing.T) {
	for total := 1; total <= 50; total++ {
		for current := 1; current <= total; current++ {
			controls := Plan(total, current)
			pages := Pages(controls)

			seen := map[int]bool{}
			active := 0
			for _, c := range controls {
				if c.Active {
					active++
					assert.Equal(t, current, c.Page)
				}
				if c.Ellipsis {
					assert.False(t, c.Active)
					continue
				}
				assert.False(t, seen[c.Page], "page %d rendered twice (total=%d current=%d)", c.Page, total, current)
				seen[c.Page] = true
			}

			assert.Equal(t, 1, active)
			assert.Equal(t, 1, pages[0])
			assert.Equal(t, total, pages[len(pages)-1])
			for i := 1; i < len(pages); i++ {
				assert.True(t, pages[i] > pages[i-1], "pages must ascend: %v", pages)
			}

			assert.True(t, countEllipses(controls) <= 2)
		}
	}
}

func TestPlanClampsOutOfRangeCurrent(t *testing.T) {
	assert.Equal(t, render(Plan(4, 4)), render(Plan(4, 9)))
	assert.Equal(t, render(Plan(4, 1)), render(Plan(4, 0)))
	assert.Equal(t, "[1]", render(Plan(0, 0)))
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{-1, 1},
		{0, 1},
		{1, 1},
		{32, 1},
		{33, 2},
		{64, 2},
		{65, 3},
		{76543, 2392},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count), "count=%d", tt.count)
	}
}

func TestClamp(t *testing.T) {
	total, current := Clamp(0, 5)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, current)

	total, current = Clamp(8, -2)
	assert.Equal(t, 8, total)
	assert.Equal(t, 1, current)
}

func TestControlLabel(t *testing.T) {
	assert.Equal(t, "...", Control{Ellipsis: true}.Label())
	assert.Equal(t, "12", Control{Page: 12}.Label())
}
