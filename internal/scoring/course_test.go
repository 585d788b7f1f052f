package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// testCourseHoles builds a valid 18-hole table where hole n has stroke
// index n and par 4 (par 3 on holes 3 and 12, par 5 on holes 6 and 15),
// totalling 72.
func testCourseHoles() []model.CourseHole {
	holes := make([]model.CourseHole, 0, 18)
	for h := 1; h <= 18; h++ {
		par := 4
		switch h {
		case 3, 12:
			par = 3
		case 6, 15:
			par = 5
		}
		holes = append(holes, model.CourseHole{Hole: h, Par: par, StrokeIndex: h})
	}
	return holes
}

func TestValidStrokeIndexes(t *testing.T) {
	identity := make([]int, 18)
	for i := range identity {
		identity[i] = i + 1
	}
	assert.True(t, ValidStrokeIndexes(identity))

	reversed := make([]int, 18)
	for i := range reversed {
		reversed[i] = 18 - i
	}
	assert.True(t, ValidStrokeIndexes(reversed))

	assert.False(t, ValidStrokeIndexes(identity[:17]), "too short")
	assert.False(t, ValidStrokeIndexes(append(identity[:17], 17)), "duplicate")
	assert.False(t, ValidStrokeIndexes(append(identity[:17], 19)), "out of range")
	assert.False(t, ValidStrokeIndexes(append(identity[:17], 0)), "zero")
	assert.False(t, ValidStrokeIndexes(nil))
}

func TestValidCourseHoles(t *testing.T) {
	assert.True(t, ValidCourseHoles(testCourseHoles()))

	short := testCourseHoles()[:17]
	assert.False(t, ValidCourseHoles(short), "17 holes")

	dupHole := testCourseHoles()
	dupHole[17].Hole = 1
	assert.False(t, ValidCourseHoles(dupHole), "duplicate hole number")

	badPar := testCourseHoles()
	badPar[0].Par = 7
	assert.False(t, ValidCourseHoles(badPar), "par out of range")

	dupSI := testCourseHoles()
	dupSI[17].StrokeIndex = 1
	assert.False(t, ValidCourseHoles(dupSI), "duplicate stroke index")
}

func TestTotalPar(t *testing.T) {
	assert.Equal(t, 72, TotalPar(testCourseHoles()))
}
