package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

// Client posts order announcements to a seller's Telegram chat through the Bot API.
type Client struct {
	botToken   string
	apiURL     string
	httpClient *http.Client
}

// NewClient returns nil when no bot token is configured; a nil client is a valid no-op notifier.
func NewClient(apiURL, botToken string) *Client {
	if botToken == "" {
		logger.Get().Warn().Msg("[Telegram] Bot token not configured. Order notifications disabled.")
		return nil
	}
	return &Client{
		botToken: botToken,
		apiURL:   strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers one message. Telegram answers 200 with ok=false for some failures.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if c == nil {
		return domain.ErrNotConfigured
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var out apiResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("%w: telegram status %d: %s", domain.ErrUpstream, resp.StatusCode, out.Description)
	}
	return nil
}

// NotifyOrderPlaced sends the order summary in the background. Stores without a chat are skipped.
func (c *Client) NotifyOrderPlaced(_ context.Context, store *domain.Store, order *domain.Order) {
	if c == nil || store == nil || order == nil {
		return
	}
	if store.TelegramChatID == nil || *store.TelegramChatID == "" {
		return
	}

	chatID := *store.TelegramChatID
	text := FormatOrder(store, order)
	orderNumber := order.OrderNumber

	// Detached from the request context so the send outlives the response
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := c.SendMessage(ctx, chatID, text); err != nil {
			logger.Get().Error().Err(err).
				Str("order_number", orderNumber).
				Str("store_id", store.ID).
				Msg("[Telegram] Failed to send order notification")
			return
		}
		logger.Get().Debug().Str("order_number", orderNumber).Msg("[Telegram] Order notification sent")
	}()
}

// FormatOrder renders the seller facing order summary.
func FormatOrder(store *domain.Store, order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>New %s order %s</b>\n", order.Channel, escape(order.OrderNumber))
	fmt.Fprintf(&b, "Store: %s\n", escape(store.Name))
	fmt.Fprintf(&b, "Customer: %s, %s\n", escape(order.CustomerName), escape(order.CustomerPhone))
	if order.CustomerEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", escape(order.CustomerEmail))
	}
	if addr := order.ShippingAddress.String("address"); addr != "" {
		fmt.Fprintf(&b, "Address: %s\n", escape(addr))
	}
	b.WriteString("\n")
	for _, item := range order.Items {
		unit := item.Unit
		if unit == "" {
			unit = "pcs"
		}
		fmt.Fprintf(&b, "• %s x %d %s = %s\n", escape(item.ProductName), item.Quantity, escape(unit), item.Total.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n<b>Total: %s</b>", order.Total.StringFixed(2))
	if order.Comment != "" {
		fmt.Fprintf(&b, "\nComment: %s", escape(order.Comment))
	}
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
