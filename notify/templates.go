package notify

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"it_inventory/models"
)

type mailData struct {
	BorrowerName  string
	EquipmentName string
	PCName        string
	Date          string
}

type template struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func newTemplate(subject, intro, dateLabel, closing string) template {
	text := subject + `

Dear {{.BorrowerName}},

` + intro + `.
Equipment: {{.EquipmentName}}
PC Name: {{.PCName}}
` + dateLabel + `: {{.Date}}

` + closing + `

Best regards,
IT Department`
	html := `<h2>` + subject + `</h2>
<p>Dear {{.BorrowerName}},</p>
<p>` + intro + `:</p>
<ul>
  <li><strong>Equipment:</strong> {{.EquipmentName}}</li>
  <li><strong>PC Name:</strong> {{.PCName}}</li>
  <li><strong>` + dateLabel + `:</strong> {{.Date}}</li>
</ul>
<p>` + closing + `</p>
<p>Best regards,<br>IT Department</p>`
	return template{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New(subject).Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(subject).Parse(html)),
	}
}

var (
	borrowConfirmation = newTemplate("Equipment Borrow Confirmation",
		"Your equipment borrow request has been confirmed", "Expected Return",
		"Please ensure to return the equipment on time.")
	returnConfirmation = newTemplate("Equipment Return Confirmation",
		"We confirm that the following equipment has been returned", "Return Date",
		"Thank you for returning the equipment.")
	returnReminder = newTemplate("Equipment Return Reminder",
		"This is a reminder that the following equipment is due for return", "Due Date",
		"Please return the equipment to the IT department.")
)

func (t template) render(to string, d mailData) (Message, error) {
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, d); err != nil {
		return Message{}, err
	}
	if err := t.html.Execute(&html, d); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: t.subject, Text: text.String(), HTML: html.String()}, nil
}

func dataFor(rec *models.BorrowRecord, date models.Date) mailData {
	d := mailData{BorrowerName: rec.BorrowerName, PCName: "N/A", Date: date.String()}
	if rec.Inventory != nil {
		d.EquipmentName = strings.TrimSpace(rec.Inventory.EquipmentName())
		if rec.Inventory.PCName != nil && *rec.Inventory.PCName != "" {
			d.PCName = *rec.Inventory.PCName
		}
	}
	return d
}

func recipient(rec *models.BorrowRecord) string {
	if rec.BorrowerEmail == nil {
		return ""
	}
	return strings.TrimSpace(*rec.BorrowerEmail)
}

// BorrowConfirmation is sent on release; the date line is the expected return.
func BorrowConfirmation(rec *models.BorrowRecord) (Message, error) {
	return borrowConfirmation.render(recipient(rec), dataFor(rec, rec.ExpectedReturnDate))
}

func ReturnConfirmation(rec *models.BorrowRecord) (Message, error) {
	var d models.Date
	if rec.ActualReturnDate != nil {
		d = *rec.ActualReturnDate
	}
	return returnConfirmation.render(recipient(rec), dataFor(rec, d))
}

func ReturnReminder(rec *models.BorrowRecord) (Message, error) {
	return returnReminder.render(recipient(rec), dataFor(rec, rec.ExpectedReturnDate))
}
