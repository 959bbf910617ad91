package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"reviwa-backend/internal/domain"
)

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f0fdf4; padding: 24px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 32px;">
    <h1 style="color: #059669;">🌱 Reviwa</h1>
    {{template "content" .}}
    <p style="color: #6b7280; font-size: 12px; margin-top: 32px;">You are receiving this email because you have a Reviwa account.</p>
  </div>
</body>
</html>{{end}}`

var contents = map[string]string{
	"welcome": `{{define "content"}}
<h2>Welcome to Reviwa! 👋</h2>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>We're thrilled to have you join our community of eco-warriors. Snap a photo of waste in your area, submit a report with its location and earn green points as it gets cleaned up.</p>
<p><a href="{{.ClientURL}}/create-report">Report Waste Now</a></p>
<p>Cheers,<br><strong>The Reviwa Team</strong></p>
{{end}}`,
	"status": `{{define "content"}}
<h2>Report Update 🔔</h2>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>There's an update on your report: <strong>"{{.ReportTitle}}"</strong></p>
<p>Status changed from <strong>{{.OldStatus}}</strong> to <strong>{{.NewStatus}}</strong>.</p>
<p>{{.StatusMessage}}</p>
{{if .Note}}<p><strong>📝 Notes:</strong> {{.Note}}</p>{{end}}
<p><a href="{{.ClientURL}}/reports/{{.ReportID}}">View Report</a></p>
<p>Best,<br><strong>The Reviwa Team</strong></p>
{{end}}`,
	"new_report": `{{define "content"}}
<h2>New Report Submitted 📋</h2>
<p>A new waste report requires your attention.</p>
<table>
  <tr><td>Title:</td><td><strong>{{.ReportTitle}}</strong></td></tr>
  <tr><td>Reporter:</td><td>{{.Name}}</td></tr>
  <tr><td>Type:</td><td>{{.WasteType}}</td></tr>
  <tr><td>Severity:</td><td>{{.Severity}}</td></tr>
  {{if .Address}}<tr><td>Location:</td><td>{{.Address}}</td></tr>{{end}}
</table>
<p><a href="{{.ClientURL}}/reports/{{.ReportID}}">Review &amp; Verify</a></p>
{{end}}`,
	"milestone": `{{define "content"}}
<div style="text-align: center;">
  <div style="font-size: 48px;">{{.Icon}}</div>
  <h2>{{.MilestoneTitle}}</h2>
  <p style="font-size: 18px; color: #059669;">{{.Points}} Green Points</p>
</div>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>Congratulations on reaching this milestone! Your reports are making a tangible difference in your city.</p>
<p><a href="{{.ClientURL}}/profile">View Your Impact</a></p>
<p>Keep shining! ✨</p>
{{end}}`,
	"reset": `{{define "content"}}
<h2>Reset your password 🔑</h2>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>We received a request to reset your password. The link below is valid for {{.ValidFor}}.</p>
<p><a href="{{.ResetURL}}">Choose a new password</a></p>
<p>If you did not ask for this, you can ignore this email.</p>
{{end}}`,
	"test": `{{define "content"}}
<h2>It Works! 🚀</h2>
<p>This is a test email from the Reviwa backend.</p>
<p><strong>📅 Timestamp:</strong> {{.Timestamp}}</p>
<p>If you're seeing this, your email configuration is set up correctly.</p>
{{end}}`,
}

var statusMessages = map[domain.ReportStatus]string{
	domain.ReportStatusVerified:   "✅ Verified: our team has confirmed your report. It is now visible to cleanup crews.",
	domain.ReportStatusInProgress: "🚜 In Progress: cleanup crews are currently working on this site.",
	domain.ReportStatusResolved:   "✨ Resolved: the waste has been cleared. You've earned green points!",
	domain.ReportStatusRejected:   "❌ Rejected: this report could not be processed.",
}

type templateData struct {
	Title          string
	ClientURL      string
	Name           string
	ReportID       int32
	ReportTitle    string
	OldStatus      string
	NewStatus      string
	StatusMessage  string
	Note           string
	WasteType      string
	Severity       string
	Address        string
	Points         int32
	MilestoneTitle string
	Icon           string
	ResetURL       string
	ValidFor       string
	Timestamp      string
}

// Templates renders the transactional emails. Links point at clientURL.
type Templates struct {
	clientURL string
	tmpl      map[string]*template.Template
}

func NewTemplates(clientURL string) *Templates {
	t := &Templates{
		clientURL: strings.TrimRight(clientURL, "/"),
		tmpl:      make(map[string]*template.Template, len(contents)),
	}
	for name, body := range contents {
		t.tmpl[name] = template.Must(template.Must(template.New(name).Parse(layout)).Parse(body))
	}
	return t
}

func (t *Templates) render(name string, data templateData) (string, error) {
	data.ClientURL = t.clientURL
	var buf bytes.Buffer
	if err := t.tmpl[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func (t *Templates) Welcome(user *domain.User) (Message, error) {
	subject := "Welcome to Reviwa! 🌱"
	html, err := t.render("welcome", templateData{Title: subject, Name: user.Name})
	return Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: subject,
		Text: fmt.Sprintf("Hi %s,\n\nWelcome to Reviwa! Report waste in your area at %s/create-report and earn green points as it gets cleaned up.\n\nThe Reviwa Team",
			user.Name, t.clientURL),
		HTML: html,
	}, err
}

func (t *Templates) ReportStatus(owner *domain.User, report *domain.Report, from domain.ReportStatus) (Message, error) {
	subject := "Report Update: " + report.Title
	msg, ok := statusMessages[report.Status]
	if !ok {
		msg = "The status of your report has changed."
	}
	html, err := t.render("status", templateData{
		Title:         subject,
		Name:          owner.Name,
		ReportID:      report.ID,
		ReportTitle:   report.Title,
		OldStatus:     string(from),
		NewStatus:     string(report.Status),
		StatusMessage: msg,
		Note:          report.StatusNote,
	})
	text := fmt.Sprintf("Hi %s,\n\nYour report %q changed from %s to %s.\n%s\n", owner.Name, report.Title, from, report.Status, msg)
	if report.StatusNote != "" {
		text += "\nNotes: " + report.StatusNote + "\n"
	}
	text += fmt.Sprintf("\nView it at %s/reports/%d\n\nThe Reviwa Team", t.clientURL, report.ID)
	return Message{To: owner.Email, ToName: owner.Name, Subject: subject, Text: text, HTML: html}, err
}

func (t *Templates) NewReport(admin *domain.User, report *domain.Report, reporterName string) (Message, error) {
	subject := "New Report Submitted: " + report.Title
	html, err := t.render("new_report", templateData{
		Title:       subject,
		Name:        reporterName,
		ReportID:    report.ID,
		ReportTitle: report.Title,
		WasteType:   string(report.WasteType),
		Severity:    string(report.Severity),
		Address:     report.Location.Address,
	})
	text := fmt.Sprintf("A new %s %s waste report %q was submitted by %s.\n\nReview it at %s/reports/%d",
		report.Severity, report.WasteType, report.Title, reporterName, t.clientURL, report.ID)
	return Message{To: admin.Email, ToName: admin.Name, Subject: subject, Text: text, HTML: html}, err
}

func (t *Templates) Milestone(user *domain.User, points int32, m domain.Milestone) (Message, error) {
	subject := fmt.Sprintf("Milestone Reached: %d Green Points! 🎉", m.Points)
	html, err := t.render("milestone", templateData{
		Title:          subject,
		Name:           user.Name,
		Points:         points,
		MilestoneTitle: m.Title,
		Icon:           m.Icon,
	})
	text := fmt.Sprintf("Hi %s,\n\nCongratulations! You reached the %s milestone with %d green points.\n\nThe Reviwa Team",
		user.Name, m.Title, points)
	return Message{To: user.Email, ToName: user.Name, Subject: subject, Text: text, HTML: html}, err
}

func (t *Templates) PasswordReset(user *domain.User, token string, validFor time.Duration) (Message, error) {
	subject := "Reset your Reviwa password"
	resetURL := fmt.Sprintf("%s/reset-password/%s", t.clientURL, token)
	html, err := t.render("reset", templateData{
		Title:    subject,
		Name:     user.Name,
		ResetURL: resetURL,
		ValidFor: validFor.String(),
	})
	text := fmt.Sprintf("Hi %s,\n\nReset your password within %s using this link:\n%s\n\nIf you did not ask for this, ignore this email.",
		user.Name, validFor, resetURL)
	return Message{To: user.Email, ToName: user.Name, Subject: subject, Text: text, HTML: html}, err
}

func (t *Templates) Test(to string, now time.Time) (Message, error) {
	subject := "Reviwa Test Email 🚀"
	ts := now.UTC().Format(time.RFC1123)
	html, err := t.render("test", templateData{Title: subject, Timestamp: ts})
	return Message{
		To:      to,
		Subject: subject,
		Text:    "This is a test email from the Reviwa backend sent at " + ts + ".",
		HTML:    html,
	}, err
}
