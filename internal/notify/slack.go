// Package notify posts learning-engine events to Slack. Notification is
// best-effort and optional; a nil Notifier is safe to call.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"

	"github.com/fieldworks/jobsector/internal/types"
)

// Notifier posts messages to a configured Slack channel.
type Notifier struct {
	client  *slack.Client
	channel string
}

// New creates a notifier, or returns nil when token or channel is unset so
// callers can treat notification as disabled.
func New(token, channel string) *Notifier {
	if token == "" || channel == "" {
		return nil
	}
	return &Notifier{client: slack.New(token), channel: channel}
}

// DictionaryUpdateApplied announces an auto-applied taxonomy mutation.
// Failures are logged, never propagated: a lost notification must not fail
// feedback processing.
func (n *Notifier) DictionaryUpdateApplied(update types.DictionaryUpdate) {
	if n == nil {
		return
	}

	var parts []string
	if len(update.NewCoreKeywords) > 0 {
		parts = append(parts, fmt.Sprintf("core: %s", strings.Join(update.NewCoreKeywords, ", ")))
	}
	if len(update.NewSupportKeywords) > 0 {
		parts = append(parts, fmt.Sprintf("support: %s", strings.Join(update.NewSupportKeywords, ", ")))
	}
	for _, p := range update.NewContextPairs {
		parts = append(parts, fmt.Sprintf("pair: %s + %s", p.First, p.Second))
	}

	msg := fmt.Sprintf("Auto-applied dictionary update for *%s* (confidence %.2f): %s",
		update.CategoryID, update.Confidence, strings.Join(parts, "; "))

	if _, _, err := n.client.PostMessage(n.channel, slack.MsgOptionText(msg, false)); err != nil {
		log.Printf("slack notification failed: %v", err)
	}
}
