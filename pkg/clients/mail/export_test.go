package mail

import "waitlist-api/pkg/clients/llm"

func RenderWelcome(content llm.Content, appName string) (string, error) {
	return renderWelcome(content, appName)
}
