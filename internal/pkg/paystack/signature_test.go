package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVerifySignature(t *testing.T) {
	Convey("VerifySignature 校验 HMAC-SHA512 签名", t, func() {
		secret := []byte("sk_test_secret")
		body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)

		Convey("字节级正确的签名应通过", func() {
			mac := hmac.New(sha512.New, secret)
			mac.Write(body)
			sig := hex.EncodeToString(mac.Sum(nil))

			So(VerifySignature(secret, body, sig), ShouldBeTrue)
			So(ComputeSignature(secret, body), ShouldEqual, sig)
		})

		Convey("请求体任意单比特翻转应拒绝", func() {
			sig := ComputeSignature(secret, body)

			for i := 0; i < len(body); i++ {
				mutated := make([]byte, len(body))
				copy(mutated, body)
				mutated[i] ^= 0x01
				So(VerifySignature(secret, mutated, sig), ShouldBeFalse)
			}
		})

		Convey("签名本身被篡改应拒绝", func() {
			sig := ComputeSignature(secret, body)
			tampered := "0" + sig[1:]
			if tampered == sig {
				tampered = "1" + sig[1:]
			}
			So(VerifySignature(secret, body, tampered), ShouldBeFalse)
		})

		Convey("空签名或空密钥应拒绝", func() {
			So(VerifySignature(secret, body, ""), ShouldBeFalse)
			So(VerifySignature(nil, body, ComputeSignature(secret, body)), ShouldBeFalse)
		})

		Convey("不同密钥计算的签名应拒绝", func() {
			sig := ComputeSignature([]byte("another_secret"), body)
			So(VerifySignature(secret, body, sig), ShouldBeFalse)
		})
	})
}
