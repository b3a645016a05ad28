package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"campusai/internal/model"
	"campusai/internal/pkg/paystack"
)

func TestSubscriptionServiceGet(t *testing.T) {
	ctx := context.Background()

	Convey("读取订阅", t, func() {
		store := newMemSubStore()

		Convey("无记录时返回默认Free订阅", func() {
			svc := NewSubscriptionService(store, nil, nil)

			sub, err := svc.Get(ctx, "user-1")
			So(err, ShouldBeNil)
			So(sub.Plan, ShouldEqual, model.PlanFree)
			So(sub.Status, ShouldEqual, model.SubscriptionStatusInactive)
			So(sub.IsPaid(), ShouldBeFalse)
		})

		Convey("缓存命中时不回源", func() {
			cache := newMemCache()
			svc := NewSubscriptionService(store, cache, nil)

			_, err := svc.Get(ctx, "user-1")
			So(err, ShouldBeNil)
			So(store.findCalls, ShouldEqual, 1)

			_, err = svc.Get(ctx, "user-1")
			So(err, ShouldBeNil)
			So(store.findCalls, ShouldEqual, 1)
		})

		Convey("缓存不可用时直接读库", func() {
			svc := NewSubscriptionService(store, nil, nil)

			_, _ = svc.Get(ctx, "user-1")
			_, _ = svc.Get(ctx, "user-1")
			So(store.findCalls, ShouldEqual, 2)
		})
	})
}

func TestSubscriptionServiceApplyChargeSuccess(t *testing.T) {
	ctx := context.Background()

	Convey("应用支付成功事件", t, func() {
		store := newMemSubStore()
		cache := newMemCache()
		svc := NewSubscriptionService(store, cache, nil)

		sub, err := svc.ApplyChargeSuccess(ctx, "user-1", "ref-001", 500000)
		So(err, ShouldBeNil)
		So(sub.Plan, ShouldEqual, model.PlanPro)
		So(sub.Status, ShouldEqual, model.SubscriptionStatusActive)
		So(sub.IsPaid(), ShouldBeTrue)

		Convey("升级后缓存失效，读取回源到新状态", func() {
			got, err := svc.Get(ctx, "user-1")
			So(err, ShouldBeNil)
			So(got.Plan, ShouldEqual, model.PlanPro)
			So(got.Reference, ShouldEqual, "ref-001")
		})

		Convey("重复应用同一事件结果不变", func() {
			again, err := svc.ApplyChargeSuccess(ctx, "user-1", "ref-001", 500000)
			So(err, ShouldBeNil)
			So(again.Plan, ShouldEqual, model.PlanPro)
			So(again.Status, ShouldEqual, model.SubscriptionStatusActive)
		})
	})
}

func TestSubscriptionServiceVerifyPayment(t *testing.T) {
	ctx := context.Background()

	Convey("服务端核验支付", t, func() {
		store := newMemSubStore()

		Convey("核验通过后升级到Pro", func() {
			verifier := &stubVerifier{tx: &paystack.Transaction{
				Status:    "success",
				Reference: "ref-002",
				Amount:    500000,
			}}
			svc := NewSubscriptionService(store, nil, verifier)

			sub, err := svc.VerifyPayment(ctx, "user-1", "ref-002")
			So(err, ShouldBeNil)
			So(verifier.calls, ShouldEqual, 1)
			So(sub.Plan, ShouldEqual, model.PlanPro)
			So(sub.Reference, ShouldEqual, "ref-002")
		})

		Convey("核验失败时不改动订阅", func() {
			verifier := &stubVerifier{err: errors.New("transaction not verified")}
			svc := NewSubscriptionService(store, nil, verifier)

			_, err := svc.VerifyPayment(ctx, "user-1", "ref-bad")
			So(err, ShouldNotBeNil)
			So(store.subs, ShouldBeEmpty)
		})

		Convey("未配置Paystack时核验被禁用", func() {
			svc := NewSubscriptionService(store, nil, nil)

			_, err := svc.VerifyPayment(ctx, "user-1", "ref-003")
			So(errors.Is(err, paystack.ErrTransactionNotVerified), ShouldBeTrue)
		})
	})
}
