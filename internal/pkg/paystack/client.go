package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"campusai/internal/config"
)

var ErrTransactionNotVerified = errors.New("transaction not verified")

// Client Paystack API 客户端
// 仅封装本服务需要的 transaction verify 接口
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建 Paystack 客户端
func NewClient(cfg *config.PaystackConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Transaction Paystack 交易数据（verify 接口响应中本服务关心的字段）
type Transaction struct {
	Status    string `json:"status"`    // success, failed, abandoned
	Reference string `json:"reference"` // 交易引用号
	Amount    int64  `json:"amount"`    // 金额（最小货币单位）
}

// verifyResponse transaction verify 接口响应
type verifyResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

// VerifyTransaction 调用 Paystack transaction verify 接口确认支付状态
// 只有返回的交易状态为 success 时才返回交易数据，否则返回 ErrTransactionNotVerified
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK || !body.Status {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotVerified, body.Message)
	}
	if body.Data.Status != "success" {
		return nil, fmt.Errorf("%w: transaction status %s", ErrTransactionNotVerified, body.Data.Status)
	}

	return &body.Data, nil
}
