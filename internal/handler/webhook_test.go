package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"campusai/internal/model"
	"campusai/internal/pkg/paystack"
)

type recordingUpdater struct {
	calls     int
	userID    string
	reference string
	amount    int64
}

func (u *recordingUpdater) ApplyChargeSuccess(_ context.Context, userID, reference string, amount int64) (*model.Subscription, error) {
	u.calls++
	u.userID = userID
	u.reference = reference
	u.amount = amount
	return &model.Subscription{
		UserID: userID,
		Plan:   model.PlanPro,
		Status: model.SubscriptionStatusActive,
	}, nil
}

func newWebhookRouter(secret string, updater SubscriptionUpdater) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/api/v1/webhooks/paystack", NewWebhookHandler(secret, updater).Paystack)
	return engine
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(paystack.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaystackWebhook(t *testing.T) {
	const secret = "sk_test_webhook_secret"
	chargeSuccess := []byte(`{"event":"charge.success","data":{"reference":"ref-001","amount":500000,"metadata":{"userId":"user-1"}}}`)

	Convey("Paystack webhook", t, func() {
		updater := &recordingUpdater{}
		router := newWebhookRouter(secret, updater)

		Convey("签名正确的charge.success事件升级订阅", func() {
			sig := paystack.ComputeSignature([]byte(secret), chargeSuccess)
			w := postWebhook(router, chargeSuccess, sig)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"received":true`)
			So(updater.calls, ShouldEqual, 1)
			So(updater.userID, ShouldEqual, "user-1")
			So(updater.reference, ShouldEqual, "ref-001")
			So(updater.amount, ShouldEqual, 500000)
		})

		Convey("请求体被篡改时签名校验失败", func() {
			sig := paystack.ComputeSignature([]byte(secret), chargeSuccess)
			tampered := bytes.Replace(chargeSuccess, []byte("user-1"), []byte("user-2"), 1)
			w := postWebhook(router, tampered, sig)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			So(updater.calls, ShouldEqual, 0)
		})

		Convey("签名来自错误密钥时被拒绝", func() {
			sig := paystack.ComputeSignature([]byte("sk_other_secret"), chargeSuccess)
			w := postWebhook(router, chargeSuccess, sig)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			So(updater.calls, ShouldEqual, 0)
		})

		Convey("缺少签名头直接拒绝", func() {
			w := postWebhook(router, chargeSuccess, "")

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(updater.calls, ShouldEqual, 0)
		})

		Convey("未配置密钥时拒绝所有请求", func() {
			unconfigured := newWebhookRouter("", updater)
			sig := paystack.ComputeSignature([]byte(secret), chargeSuccess)
			w := postWebhook(unconfigured, chargeSuccess, sig)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(updater.calls, ShouldEqual, 0)
		})

		Convey("无法归属用户的事件确认收到但不做任何改动", func() {
			unattributed := []byte(`{"event":"charge.success","data":{"reference":"ref-002","amount":500000,"metadata":{}}}`)
			sig := paystack.ComputeSignature([]byte(secret), unattributed)
			w := postWebhook(router, unattributed, sig)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"received":true`)
			So(updater.calls, ShouldEqual, 0)
		})

		Convey("非支付成功事件确认收到即可", func() {
			other := []byte(`{"event":"subscription.disable","data":{"reference":"ref-003"}}`)
			sig := paystack.ComputeSignature([]byte(secret), other)
			w := postWebhook(router, other, sig)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(updater.calls, ShouldEqual, 0)
		})
	})
}
