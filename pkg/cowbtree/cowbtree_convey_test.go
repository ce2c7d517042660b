package cowbtree_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	. "cowtree/pkg/cowbtree"
)

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func TestTreeBehavior(t *testing.T) {
	Convey("A tree built with the default fan-out", t, func() {
		tr, err := New[int](cmp)
		So(err, ShouldBeNil)

		Convey("Starts empty", func() {
			So(tr.Count(), ShouldEqual, 0)
			So(tr.Height(), ShouldEqual, 0)
			_, ok := tr.Get(1)
			So(ok, ShouldBeFalse)
		})

		Convey("Grows by one on each new key", func() {
			for i := 0; i < 50; i++ {
				tr.Set(i)
			}
			So(tr.Count(), ShouldEqual, 50)

			Convey("And replaces in place on a duplicate key", func() {
				prev, replaced := tr.Set(10)
				So(replaced, ShouldBeTrue)
				So(prev, ShouldEqual, 10)
				So(tr.Count(), ShouldEqual, 50)
			})

			Convey("And shrinks by one on delete", func() {
				removed, found := tr.Delete(10)
				So(found, ShouldBeTrue)
				So(removed, ShouldEqual, 10)
				So(tr.Count(), ShouldEqual, 49)

				_, ok := tr.Get(10)
				So(ok, ShouldBeFalse)
			})

			Convey("Deleting an absent key changes nothing", func() {
				_, found := tr.Delete(999)
				So(found, ShouldBeFalse)
				So(tr.Count(), ShouldEqual, 50)
			})
		})

		Convey("Given a nil comparator", func() {
			_, err := New[int](nil)

			Convey("Construction fails with InvalidArgument", func() {
				So(err, ShouldEqual, ErrNilCompare)
			})
		})
	})
}

func TestCloneIndependence(t *testing.T) {
	Convey("Cloning a tree", t, func() {
		tr, _ := New[int](cmp)
		for i := 0; i < 100; i++ {
			tr.Set(i)
		}
		clone := tr.Clone()

		Convey("Preserves the same item count", func() {
			So(clone.Count(), ShouldEqual, tr.Count())
		})

		Convey("Leaves the clone untouched by later mutation of the original", func() {
			tr.Delete(50)
			_, ok := clone.Get(50)
			So(ok, ShouldBeTrue)
			So(clone.Count(), ShouldEqual, 100)
			So(tr.Count(), ShouldEqual, 99)
		})
	})
}
