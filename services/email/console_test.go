package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
	logsvc "github.com/simtahfidz/backend/services/logger"
)

func TestConsoleServiceMock(t *testing.T) {
	conf := &core.Config{AppName: "SIM-Tahfidz", FrontendBaseURL: "http://localhost:3000"}
	logger := logsvc.NewNopLogger()
	core.ParseEmailTemplates(logger, true)

	ResetSentMessages()
	defer ResetSentMessages()

	svc := NewConsoleServiceMock(conf, logger)
	svc.SendMessages(
		&core.EmailMessage{
			To:              []mail.Address{{Name: "Ustadz Ahmad", Address: "ahmad@example.com"}},
			Subject:         "Welcome",
			TemplateName:    "welcome_guru",
			TemplateData:    map[string]string{"Name": "Ustadz Ahmad", "Email": "ahmad@example.com"},
			FrontendBaseURL: conf.FrontendBaseURL,
		},
		&core.EmailMessage{Subject: "no recipient", BodyStr: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@example.com"}}, Subject: "no content"},
	)

	msgs := SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Welcome", msgs[0].Subject)
	assert.Contains(t, msgs[0].TextContent, "ahmad@example.com")
	assert.Contains(t, msgs[0].TextContent, "http://localhost:3000/login")
	assert.NotEmpty(t, msgs[0].HTMLContent)
}
