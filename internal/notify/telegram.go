package notify

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"recipe-planner/internal/grocery"
	"recipe-planner/internal/planner"
)

// Notifier pushes weekly digests to a Telegram chat.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier initializes the Telegram API client.
func NewNotifier(botToken string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &Notifier{api: bot, chatID: chatID}, nil
}

// SendWeekDigest sends the plan for one week as a Markdown message.
func (n *Notifier) SendWeekDigest(weekStart time.Time, items []planner.PlanItem) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatWeekDigest(weekStart, items))
	msg.ParseMode = "Markdown"
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("sending week digest: %w", err)
	}
	return nil
}

// SendGroceryDigest sends the combined grocery list as a second message.
func (n *Notifier) SendGroceryDigest(combined []grocery.CombinedIngredient) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatGroceryDigest(combined))
	msg.ParseMode = "Markdown"
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("sending grocery digest: %w", err)
	}
	return nil
}

// FormatWeekDigest renders the week's plan grouped by day, skipping empty
// days, in the planner's slot order.
func FormatWeekDigest(weekStart time.Time, items []planner.PlanItem) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Week of %s*\n\n", weekStart.Format("Jan 2")))

	if len(items) == 0 {
		sb.WriteString("_Nothing planned yet_\n")
		return sb.String()
	}

	byDate := planner.GroupByDate(items)
	for _, day := range planner.WeekDays(weekStart) {
		date := day.Format(planner.DateLayout)
		dayItems := byDate[date]
		if len(dayItems) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("*%s*\n", day.Format("Monday")))
		for _, slot := range planner.MealSlots {
			for _, item := range planner.ItemsForSlot(dayItems, date, slot) {
				sb.WriteString(fmt.Sprintf("• %s: %s\n", slot, item.RecipeName))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatGroceryDigest renders the aggregated shopping list.
func FormatGroceryDigest(combined []grocery.CombinedIngredient) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")

	if len(combined) == 0 {
		sb.WriteString("_Empty basket_\n")
		return sb.String()
	}

	for _, ing := range combined {
		if ing.TotalQuantity > 0 {
			qty := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", ing.TotalQuantity), "0"), ".")
			if ing.Unit != "" {
				sb.WriteString(fmt.Sprintf("• %s — %s %s\n", ing.Name, qty, ing.Unit))
			} else {
				sb.WriteString(fmt.Sprintf("• %s — %s\n", ing.Name, qty))
			}
		} else {
			sb.WriteString(fmt.Sprintf("• %s\n", ing.Name))
		}
	}
	return sb.String()
}
