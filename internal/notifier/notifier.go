package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antonyoatec/case-tecnofit/internal/config"
	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const subject = "PIX Withdrawal Confirmation"

// EmailNotifier sends a withdrawal confirmation to the destination PIX key.
// Delivery is best-effort: failures are logged and never surface to the
// caller, whose transaction has already committed. Without a configured SMTP
// host the notifier degrades to log-only delivery.
type EmailNotifier struct {
	cfg *config.Config
}

func New(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Notify(ctx context.Context, withdrawID, accountID string, amount decimal.Decimal, destinationKey string) {
	body := buildBody(withdrawID, amount, destinationKey)

	if n.cfg.MailHost == "" {
		zap.L().Info("withdrawal notification (log-only delivery)",
			zap.String("withdrawID", withdrawID),
			zap.String("accountID", accountID),
			zap.String("recipient", destinationKey),
			zap.String("subject", subject),
		)
		return
	}

	if err := n.send(ctx, destinationKey, body); err != nil {
		zap.L().Error("failed to send withdrawal notification",
			zap.String("withdrawID", withdrawID),
			zap.String("recipient", destinationKey),
			zap.Error(err),
		)
		return
	}

	zap.L().Info("withdrawal notification sent",
		zap.String("withdrawID", withdrawID),
		zap.String("recipient", destinationKey),
	)
}

func (n *EmailNotifier) send(ctx context.Context, recipient, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(n.cfg.MailFromName, n.cfg.MailFrom); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(n.cfg.MailPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if n.cfg.MailUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.MailUsername),
			mail.WithPassword(n.cfg.MailPassword),
		)
	}

	client, err := mail.NewClient(n.cfg.MailHost, opts...)
	if err != nil {
		return fmt.Errorf("can't build mail client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func buildBody(withdrawID string, amount decimal.Decimal, pixKey string) string {
	return fmt.Sprintf(`Confirmação de Saque PIX

Seu saque foi processado com sucesso!

Detalhes da transação:
- Data: %s
- Valor: %s
- Chave PIX: %s
- ID da transação: %s

Este é um email automático, não responda.

PIX Withdrawal Service
`, time.Now().Format("02/01/2006 15:04:05"), formatBRL(amount), pixKey, withdrawID)
}

// formatBRL renders an amount in Brazilian currency notation, e.g. 1.234,56.
func formatBRL(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}

	out := "R$ " + sb.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
