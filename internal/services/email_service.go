package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/makaohq/makao-api/internal/config"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// SendPaymentReceipt emails the tenant a receipt for one payment event.
func (s *EmailService) SendPaymentReceipt(ctx context.Context, tenant *models.Tenant, report *models.PaymentReport) error {
	data := struct {
		Name          string
		ReceiptNumber string
		Period        string
		AmountPaid    string
		TotalDue      string
		Arrears       string
		PaymentDate   string
		AppURL        string
	}{
		Name:          tenant.FullName,
		ReceiptNumber: report.ReceiptNumber,
		Period:        report.Period,
		AmountPaid:    fmt.Sprintf("Ksh %s", report.AmountPaid.StringFixed(2)),
		TotalDue:      fmt.Sprintf("Ksh %s", report.TotalDue.StringFixed(2)),
		Arrears:       fmt.Sprintf("Ksh %s", report.Arrears.StringFixed(2)),
		PaymentDate:   report.PaymentDate.Format("02/01/2006"),
		AppURL:        s.config.AppURL,
	}

	body, err := s.renderTemplate("payment_receipt.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Payment Receipt %s", report.ReceiptNumber)
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{tenant.Email},
		Subject: subject,
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", tenant.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", tenant.Email, subject))
	return nil
}

// OverdueItemData is one overdue line in the reminder email.
type OverdueItemData struct {
	Period  string
	Balance string
	DueDate string
}

// SendOverdueReminder emails the tenant a list of their overdue documents.
func (s *EmailService) SendOverdueReminder(ctx context.Context, tenant *models.Tenant, items []ArrearsItem) error {
	var itemData []OverdueItemData
	for _, item := range items {
		itemData = append(itemData, OverdueItemData{
			Period:  item.Period,
			Balance: fmt.Sprintf("Ksh %s", item.Balance.StringFixed(2)),
			DueDate: item.DueDate.Format("02/01/2006"),
		})
	}

	data := struct {
		Name   string
		Items  []OverdueItemData
		AppURL string
	}{
		Name:   tenant.FullName,
		Items:  itemData,
		AppURL: s.config.AppURL,
	}

	body, err := s.renderTemplate("overdue_reminder.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Overdue Invoices (%d items)", len(items))
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{tenant.Email},
		Subject: subject,
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", tenant.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", tenant.Email, subject))
	return nil
}

// SendDemandLetter emails a formal demand notice to the tenant.
func (s *EmailService) SendDemandLetter(ctx context.Context, tenant *models.Tenant, letter *models.DemandLetter) error {
	data := struct {
		Name              string
		ReferenceNumber   string
		OutstandingAmount string
		PeriodStart       string
		PeriodEnd         string
		ItemCount         int
		AppURL            string
	}{
		Name:              tenant.FullName,
		ReferenceNumber:   letter.ReferenceNumber,
		OutstandingAmount: fmt.Sprintf("Ksh %s", letter.OutstandingAmount.StringFixed(2)),
		PeriodStart:       letter.RentalPeriodStart,
		PeriodEnd:         letter.RentalPeriodEnd,
		ItemCount:         letter.ItemCount,
		AppURL:            s.config.AppURL,
	}

	body, err := s.renderTemplate("demand_letter.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Demand Notice %s", letter.ReferenceNumber)
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{tenant.Email},
		Subject: subject,
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", tenant.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", tenant.Email, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
