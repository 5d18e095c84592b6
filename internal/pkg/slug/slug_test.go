package slug

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMake(t *testing.T) {
	Convey("Make derives lowercase hyphenated slugs", t, func() {
		So(Make("The Forest Hiker"), ShouldEqual, "the-forest-hiker")
		So(Make("  The Sea   Explorer "), ShouldEqual, "the-sea-explorer")
		So(Make("Tour #7: Alps & Lakes!"), ShouldEqual, "tour-7-alps-lakes")
		So(Make("Already-Slugged"), ShouldEqual, "already-slugged")
		So(Make(""), ShouldEqual, "")
	})
}
