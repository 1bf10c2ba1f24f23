package service

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/gomail.v2"

	"fabrie-console/config"
	"fabrie-console/models"
)

// ReportMailer emails finance reports with the exported workbook
// attached.
type ReportMailer struct {
	cfg *config.EmailConfig
}

// NewReportMailer creates the mailer.
func NewReportMailer(cfg *config.EmailConfig) *ReportMailer {
	return &ReportMailer{cfg: cfg}
}

// SendFinanceReport mails the report summary. Recipients in to override
// the configured list; attachment may be nil for a body-only mail.
func (m *ReportMailer) SendFinanceReport(to []string, report models.FinanceReport, filename string, attachment []byte) error {
	if !m.cfg.Enabled {
		return fmt.Errorf("email is disabled, set email.enabled=true")
	}

	recipients := to
	if len(recipients) == 0 {
		recipients = m.cfg.To
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	subject := "FABRIE finance report, " + periodLabel(report.TimePeriod)
	body := m.generateReportBody(report)

	return m.send(recipients, subject, body, filename, attachment)
}

func periodLabel(p models.TimePeriod) string {
	switch {
	case p.StartDate != nil && p.EndDate != nil:
		return *p.StartDate + " to " + *p.EndDate
	case p.StartDate != nil:
		return "from " + *p.StartDate
	case p.EndDate != nil:
		return "until " + *p.EndDate
	default:
		return "all time"
	}
}

// generateReportBody renders the report summary mail.
func (m *ReportMailer) generateReportBody(report models.FinanceReport) string {
	profitColor := "#059669"
	profitLabel := "Net profit"
	if !report.Profitable() {
		profitColor = "#dc2626"
		profitLabel = "Net loss"
	}

	var breakdown strings.Builder
	for _, row := range report.CategoryBreakdown {
		breakdown.WriteString(fmt.Sprintf(
			`<tr><td style="padding: 8px 12px; border-bottom: 1px solid #eee;">%s</td>`+
				`<td style="padding: 8px 12px; border-bottom: 1px solid #eee;">%s</td>`+
				`<td style="padding: 8px 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td></tr>`,
			row.CategoryName, row.CategoryType, row.TotalAmount.Display()))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 24px; text-align: center; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { padding: 30px; }
        .totals td { padding: 8px 12px; font-size: 15px; }
        .breakdown { width: 100%%; border-collapse: collapse; margin-top: 20px; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 16px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>FABRIE Finance Report</h1>
            <p style="margin: 8px 0 0;">%s</p>
        </div>
        <div class="content">
            <table class="totals">
                <tr><td>Total income</td><td style="text-align: right;">%s</td></tr>
                <tr><td>Total expenses</td><td style="text-align: right;">%s</td></tr>
                <tr><td><strong>%s</strong></td><td style="text-align: right; color: %s;"><strong>%s</strong></td></tr>
            </table>
            <table class="breakdown">
                <tr><th style="text-align: left; padding: 8px 12px;">Category</th><th style="text-align: left; padding: 8px 12px;">Type</th><th style="text-align: right; padding: 8px 12px;">Total</th></tr>
                %s
            </table>
        </div>
        <div class="footer">
            <p>Sent automatically by the FABRIE console, do not reply</p>
        </div>
    </div>
</body>
</html>
`, periodLabel(report.TimePeriod),
		report.TotalIncome.Display(),
		report.TotalExpenses.Display(),
		profitLabel, profitColor, report.NetProfit.Display(),
		breakdown.String())
}

// send delivers one mail.
func (m *ReportMailer) send(to []string, subject, body, filename string, attachment []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.cfg.Username, m.cfg.From))
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if len(attachment) > 0 && filename != "" {
		msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
