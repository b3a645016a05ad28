package bot

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"campusai/internal/model"
)

func TestLookup(t *testing.T) {
	Convey("Lookup 查询内置 Bot", t, func() {
		Convey("所有内置 Bot 都能通过 (kind, id) 查到", func() {
			for _, b := range All() {
				got, ok := Lookup(b.Kind, b.ID)
				So(ok, ShouldBeTrue)
				So(got.ID, ShouldEqual, b.ID)
			}
		})

		Convey("相同的 (kind, id) 每次返回同一个对象（不可变）", func() {
			first, ok := Lookup(model.KindField, "medicine")
			So(ok, ShouldBeTrue)

			for i := 0; i < 10; i++ {
				again, ok := Lookup(model.KindField, "medicine")
				So(ok, ShouldBeTrue)
				So(again, ShouldEqual, first) // 指针相等
			}
		})

		Convey("kind 匹配但 id 不存在应返回 not-found", func() {
			_, ok := Lookup(model.KindField, "astrology")
			So(ok, ShouldBeFalse)
		})

		Convey("id 存在但 kind 不匹配应返回 not-found", func() {
			_, ok := Lookup(model.KindProfession, "medicine")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGeneral(t *testing.T) {
	Convey("General 返回默认通用知识 Bot", t, func() {
		g := General()
		So(g.ID, ShouldEqual, GeneralKnowledgeID)
		So(g.Kind, ShouldEqual, model.KindGeneral)
		So(g.IsCustom, ShouldBeFalse)

		viaLookup, ok := Lookup(model.KindGeneral, GeneralKnowledgeID)
		So(ok, ShouldBeTrue)
		So(viaLookup, ShouldEqual, g)
	})
}

func TestAll(t *testing.T) {
	Convey("All 返回固定的内置 Bot 列表", t, func() {
		all := All()
		// 1 general + 4 fields + 4 professions
		So(len(all), ShouldEqual, 9)
		So(all[0].Kind, ShouldEqual, model.KindGeneral)

		Convey("每个 Bot 都带3条开场白", func() {
			for _, b := range all {
				So(len(b.ConversationStarters), ShouldEqual, 3)
			}
		})
	})
}
