package chat

import (
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Transcript renders the history as the plain-text export offered by the
// chat screen's download button.
func (c *Controller) Transcript() string {
	_, msgs := c.Snapshot()

	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		who := "ИИ"
		if m.Role == models.RoleUser {
			who = "Вы"
		}
		fmt.Fprintf(&b, "[%s] %s: %s", m.Timestamp.Format("15:04"), who, m.Text)
	}
	return b.String()
}
