// Package notify delivers fire-and-forget alerts. Failures are logged
// and swallowed; delivery never affects trading decisions.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// telegramAPI is swapped out in tests.
var telegramAPI = "https://api.telegram.org"

var httpClient = &http.Client{Timeout: 10 * time.Second}

// Notifier sends alerts to a Telegram chat when enabled. The zero
// value is a disabled notifier.
type Notifier struct {
	enabled bool
}

func NewNotifier(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Alert sends a message to the configured Telegram chat. Missing
// credentials or delivery failures are logged and otherwise ignored.
func (n *Notifier) Alert(text string) {
	if n == nil || !n.enabled {
		return
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatID == "" {
		log.Println("notify: telegram credentials missing, skipping alert")
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPI, token)
	payload, _ := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})

	resp, err := httpClient.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("notify: telegram alert failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("notify: telegram API returned %s", resp.Status)
	}
}
