package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"campusai/internal/bot"
	"campusai/internal/model"
)

func TestBotResolver(t *testing.T) {
	ctx := context.Background()

	Convey("Bot解析", t, func() {
		store := &memBotStore{}
		custom := &model.CustomBot{
			ID:          "custom-1",
			OwnerUserID: "user-1",
			Name:        "Astrophysics",
			Kind:        model.KindField,
			Persona:     "an astrophysics expert",
		}
		So(store.Insert(ctx, custom), ShouldBeNil)

		resolver := NewBotResolver(store)

		Convey("kind为空回落到默认通用知识Bot", func() {
			b, err := resolver.Resolve(ctx, "user-1", "", "")
			So(err, ShouldBeNil)
			So(b, ShouldEqual, bot.General())
		})

		Convey("内置Bot按(kind, id)查表", func() {
			b, err := resolver.Resolve(ctx, "user-1", "profession", "doctor")
			So(err, ShouldBeNil)
			So(b.Name, ShouldEqual, "Doctor")
			So(b.IsCustom, ShouldBeFalse)
		})

		Convey("kind与id不匹配视为不存在", func() {
			_, err := resolver.Resolve(ctx, "user-1", "field", "doctor")
			So(err, ShouldEqual, ErrBotNotFound)
		})

		Convey("无效kind视为不存在", func() {
			_, err := resolver.Resolve(ctx, "user-1", "weird", "doctor")
			So(err, ShouldEqual, ErrBotNotFound)
		})

		Convey("自定义Bot在所有者命名空间内解析", func() {
			b, err := resolver.Resolve(ctx, "user-1", KindCustom, "custom-1")
			So(err, ShouldBeNil)
			So(b.IsCustom, ShouldBeTrue)
			So(b.Persona, ShouldEqual, "an astrophysics expert")
		})

		Convey("其他用户解析不到别人的自定义Bot", func() {
			_, err := resolver.Resolve(ctx, "user-2", KindCustom, "custom-1")
			So(err, ShouldEqual, ErrBotNotFound)
		})
	})
}
