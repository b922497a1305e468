package worker

// notification_worker.go
// Sends customer emails on order status changes and when a budget is sent for
// approval. Delivery is fire-and-forget from the mutation's point of view:
// failures are retried here and never roll anything back.

import (
	"context"
	"encoding/json"
	"fmt"

	"oficina/internal/infra"

	"github.com/rs/zerolog/log"
)

// StatusChangePayload is the job envelope for order status notifications.
type StatusChangePayload struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	OrderNumber   string `json:"order_number"`
	NewStatus     string `json:"new_status"`
	OrderLink     string `json:"order_link,omitempty"`
}

// BudgetSentPayload is the job envelope for budget approval requests. It
// carries the priced lines so the worker can render the PDF quote without
// touching the database.
type BudgetSentPayload struct {
	CustomerName  string                `json:"customer_name"`
	CustomerEmail string                `json:"customer_email"`
	OrderNumber   string                `json:"order_number"`
	BudgetID      string                `json:"budget_id"`
	Total         string                `json:"total"`
	ValidUntil    string                `json:"valid_until"`
	ApprovalLink  string                `json:"approval_link"`
	Items         []infra.BudgetPDFItem `json:"items"`
}

var statusMessages = map[string]string{
	"RECEBIDA":             "recebida e aguardando diagnóstico",
	"EM_DIAGNOSTICO":       "em diagnóstico",
	"AGUARDANDO_APROVACAO": "aguardando sua aprovação do orçamento",
	"EM_EXECUCAO":          "em execução",
	"FINALIZADA":           "finalizada",
	"ENTREGUE":             "entregue",
}

// NotificationWorker processes notification jobs from QueueNotifications.
type NotificationWorker struct {
	mailer  *infra.Mailer
	cb      *infra.CircuitBreaker
	pdfPath string
}

func NewNotificationWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, pdfPath string) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, cb: cb, pdfPath: pdfPath}
}

// Process dispatches on the job type. A returned error sends the job to the
// retry schedule.
func (w *NotificationWorker) Process(_ context.Context, job Job) error {
	switch job.Type {
	case JobStatusChange:
		return w.processStatusChange(job.Payload)
	case JobBudgetSent:
		return w.processBudgetSent(job.Payload)
	default:
		// Unknown types are dropped, not retried.
		log.Warn().Str("type", job.Type).Msg("notification_worker: unknown job type — skipping")
		return nil
	}
}

func (w *NotificationWorker) processStatusChange(raw json.RawMessage) error {
	var p StatusChangePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid status_change payload")
		return nil // malformed payloads are not retryable
	}
	if p.CustomerEmail == "" {
		log.Warn().Str("order", p.OrderNumber).Msg("notification_worker: empty customer email — skipping")
		return nil
	}

	statusText := statusMessages[p.NewStatus]
	if statusText == "" {
		statusText = p.NewStatus
	}

	subject := fmt.Sprintf("Atualização da Ordem de Serviço %s", p.OrderNumber)
	body := fmt.Sprintf(
		"Olá %s,\n\nSua ordem de serviço %s foi atualizada.\n\nStatus atual: %s\n",
		p.CustomerName, p.OrderNumber, statusText,
	)
	if p.OrderLink != "" {
		body += fmt.Sprintf("\nAcompanhe sua ordem de serviço: %s\n", p.OrderLink)
	}
	body += "\nAtenciosamente,\nEquipe Oficina Mecânica"

	return w.send(p.CustomerEmail, subject, body, "")
}

func (w *NotificationWorker) processBudgetSent(raw json.RawMessage) error {
	var p BudgetSentPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid budget_sent payload")
		return nil
	}
	if p.CustomerEmail == "" {
		log.Warn().Str("budget", p.BudgetID).Msg("notification_worker: empty customer email — skipping")
		return nil
	}

	pdfPath, err := infra.GenerateBudgetPDF(infra.BudgetPDFData{
		BudgetID:     p.BudgetID,
		OrderNumber:  p.OrderNumber,
		CustomerName: p.CustomerName,
		ValidUntil:   p.ValidUntil,
		Items:        p.Items,
		Total:        p.Total,
	}, w.pdfPath)
	if err != nil {
		// Quote still goes out, just without the attachment.
		log.Error().Err(err).Str("budget", p.BudgetID).Msg("notification_worker: PDF generation failed")
		pdfPath = ""
	}

	subject := fmt.Sprintf("Orçamento Disponível - OS %s", p.OrderNumber)
	body := fmt.Sprintf(
		"Olá %s,\n\nSeu orçamento para a ordem de serviço %s está pronto!\n\nValor total: R$ %s\nVálido até: %s\n\nAcesse o link abaixo para visualizar os detalhes e aprovar:\n%s\n\nAtenciosamente,\nEquipe Oficina Mecânica",
		p.CustomerName, p.OrderNumber, p.Total, p.ValidUntil, p.ApprovalLink,
	)

	return w.send(p.CustomerEmail, subject, body, pdfPath)
}

func (w *NotificationWorker) send(to, subject, body, pdfPath string) error {
	err := w.cb.Execute(func() error {
		return w.mailer.Send(to, subject, body, pdfPath)
	})
	if err != nil {
		return err
	}
	log.Info().Str("to", to).Str("subject", subject).Msg("notification_worker: email sent")
	return nil
}
