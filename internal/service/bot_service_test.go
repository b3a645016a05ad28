package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"campusai/internal/ai"
	"campusai/internal/bot"
	"campusai/internal/model"
)

func newTestBotService(store *memBotStore, plan *model.Subscription, completer *stubCompleter) *BotService {
	return NewBotService(store, &stubPlanSource{sub: plan}, completer, 1)
}

func TestBotServiceCreate(t *testing.T) {
	ctx := context.Background()

	Convey("创建自定义Bot", t, func() {
		store := &memBotStore{}
		completer := &stubCompleter{reply: "a synthesized persona"}

		Convey("正常创建", func() {
			svc := newTestBotService(store, nil, completer)
			created, err := svc.Create(ctx, "user-1", CreateBotParams{
				Name:        "Astrophysics",
				Description: "A bot about stars",
				Kind:        model.KindField,
			})

			So(err, ShouldBeNil)
			So(created.ID, ShouldNotBeEmpty)
			So(created.OwnerUserID, ShouldEqual, "user-1")
			So(created.Persona, ShouldEqual, "a synthesized persona")

			Convey("开场白由主题确定性生成", func() {
				So(created.ConversationStarters, ShouldResemble, []string{
					"Let's get started with Astrophysics.",
					"Tell me something interesting about Astrophysics.",
					"How does Astrophysics relate to other fields?",
				})
			})

			Convey("人设合成的指令携带类型与描述", func() {
				So(completer.calls, ShouldEqual, 1)
				So(completer.prompts[0], ShouldContainSubstring, "Bot Type: Field")
				So(completer.prompts[0], ShouldContainSubstring, "Field: Astrophysics")
			})
		})

		Convey("general类型不允许自定义", func() {
			svc := newTestBotService(store, nil, completer)
			_, err := svc.Create(ctx, "user-1", CreateBotParams{
				Name: "Anything",
				Kind: model.KindGeneral,
			})

			So(err, ShouldEqual, ErrInvalidBotKind)
			So(store.bots, ShouldBeEmpty)
			So(completer.calls, ShouldEqual, 0)
		})

		Convey("人设合成失败降级为兜底人设", func() {
			failing := &stubCompleter{err: errors.New("model unavailable")}
			svc := newTestBotService(store, nil, failing)

			created, err := svc.Create(ctx, "user-1", CreateBotParams{
				Name: "Quantum Computing",
				Kind: model.KindTopic,
			})

			So(err, ShouldBeNil)
			So(created.Persona, ShouldEqual, ai.FallbackPersona("Quantum Computing"))
		})
	})
}

func TestBotServiceQuota(t *testing.T) {
	ctx := context.Background()

	Convey("自定义Bot配额闸门", t, func() {
		store := &memBotStore{}
		completer := &stubCompleter{reply: "persona"}

		Convey("Free用户达到上限后创建被拒绝", func() {
			svc := newTestBotService(store, nil, completer)

			_, err := svc.Create(ctx, "user-1", CreateBotParams{Name: "First", Kind: model.KindField})
			So(err, ShouldBeNil)

			callsBefore := completer.calls
			_, err = svc.Create(ctx, "user-1", CreateBotParams{Name: "Second", Kind: model.KindField})
			So(err, ShouldEqual, ErrQuotaExceeded)

			Convey("拒绝时不落库、不调用AI", func() {
				So(len(store.bots), ShouldEqual, 1)
				So(completer.calls, ShouldEqual, callsBefore)
			})
		})

		Convey("配额按用户隔离", func() {
			svc := newTestBotService(store, nil, completer)

			_, err := svc.Create(ctx, "user-1", CreateBotParams{Name: "Mine", Kind: model.KindField})
			So(err, ShouldBeNil)

			_, err = svc.Create(ctx, "user-2", CreateBotParams{Name: "Theirs", Kind: model.KindField})
			So(err, ShouldBeNil)
		})

		Convey("Pro用户不受上限约束", func() {
			pro := &model.Subscription{UserID: "user-1", Plan: model.PlanPro, Status: model.SubscriptionStatusActive}
			svc := newTestBotService(store, pro, completer)

			for i := 0; i < 50; i++ {
				_, err := svc.Create(ctx, "user-1", CreateBotParams{
					Name: fmt.Sprintf("Bot %d", i),
					Kind: model.KindTopic,
				})
				So(err, ShouldBeNil)
			}
			So(len(store.bots), ShouldEqual, 50)
		})

		Convey("套餐查询失败按Free处理", func() {
			svc := NewBotService(store, &stubPlanSource{err: errors.New("redis down")}, completer, 1)

			_, err := svc.Create(ctx, "user-1", CreateBotParams{Name: "First", Kind: model.KindField})
			So(err, ShouldBeNil)

			_, err = svc.Create(ctx, "user-1", CreateBotParams{Name: "Second", Kind: model.KindField})
			So(err, ShouldEqual, ErrQuotaExceeded)
		})
	})
}

func TestBotServiceListAndDelete(t *testing.T) {
	ctx := context.Background()

	Convey("Bot列表与删除", t, func() {
		store := &memBotStore{}
		completer := &stubCompleter{reply: "persona"}
		pro := &model.Subscription{UserID: "user-1", Plan: model.PlanPro, Status: model.SubscriptionStatusActive}
		svc := newTestBotService(store, pro, completer)

		created, err := svc.Create(ctx, "user-1", CreateBotParams{Name: "Mine", Kind: model.KindField})
		So(err, ShouldBeNil)

		Convey("List返回内置Bot加上用户自己的自定义Bot", func() {
			bots, err := svc.List(ctx, "user-1")
			So(err, ShouldBeNil)
			So(len(bots), ShouldEqual, len(bot.All())+1)

			last := bots[len(bots)-1]
			So(last.ID, ShouldEqual, created.ID)
			So(last.IsCustom, ShouldBeTrue)
		})

		Convey("List不包含其他用户的自定义Bot", func() {
			bots, err := svc.List(ctx, "user-2")
			So(err, ShouldBeNil)
			So(len(bots), ShouldEqual, len(bot.All()))
		})

		Convey("删除自己的Bot", func() {
			So(svc.Delete(ctx, "user-1", created.ID), ShouldBeNil)
			So(store.bots, ShouldBeEmpty)
		})

		Convey("删除不存在的Bot返回NotFound", func() {
			So(svc.Delete(ctx, "user-1", "no-such-id"), ShouldEqual, ErrBotNotFound)
		})

		Convey("不能删除其他用户的Bot", func() {
			So(svc.Delete(ctx, "user-2", created.ID), ShouldEqual, ErrBotNotFound)
			So(len(store.bots), ShouldEqual, 1)
		})
	})
}
