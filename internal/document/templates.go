package document

import (
	"bytes"
	"fmt"
	"html/template"

	"recruitment-service/internal/domain"
)

// Data carries everything a document render needs. QRDataURI and
// VerificationURL both encode the same verification code.
type Data struct {
	CandidateName    string
	JobTitle         string
	InterviewDate    string
	WorkStartDate    string
	IssueDate        string
	VerificationCode string
	VerificationURL  string
	QRDataURI        template.URL
}

// invitationTexts and acceptanceTexts hold the per-language labels printed on
// the documents. The field set is identical in both languages; only layout
// direction changes.
var invitationTexts = map[domain.Language]map[string]string{
	domain.LangFR: {
		"issued":            "Émis le",
		"title":             "CONVOCATION À UN ENTRETIEN",
		"company_name":      "SALSABIL",
		"company_subtitle":  "Entreprise de Recrutement",
		"attention":         "À l'attention de :",
		"intro_1":           "Suite à votre candidature pour le poste de",
		"intro_2":           "nous avons le plaisir de vous informer que votre profil a retenu notre attention.",
		"please_present":    "Nous vous prions de bien vouloir vous présenter à notre siège aux date et heure suivantes :",
		"interview_info":    "Informations de l'entretien",
		"date":              "Date",
		"position":          "Poste",
		"instructions":      "Veuillez vous présenter muni(e) de cette convocation et d'une pièce d'identité.",
		"signature":         "Cordialement,",
		"hr_team":           "L'équipe Ressources Humaines",
		"verification_text": "Ce document est authentique. Scannez le QR code pour vérifier en ligne.",
		"verification_code": "Code de vérification",
	},
	domain.LangAR: {
		"issued":            "صدر في",
		"title":             "دعوة لإجراء مقابلة",
		"company_name":      "السلسبيل",
		"company_subtitle":  "شركة التوظيف",
		"attention":         "إلى عناية:",
		"intro_1":           "بعد تقديمكم لطلب التوظيف لمنصب",
		"intro_2":           "يسعدنا أن نعلمكم بأن ملفكم الشخصي قد نال اهتمامنا.",
		"please_present":    "يرجى التفضل بالحضور إلى مقرنا في التاريخ والوقت التاليين:",
		"interview_info":    "معلومات المقابلة",
		"date":              "التاريخ",
		"position":          "المنصب",
		"instructions":      "يرجى الحضور مع هذه الدعوة وبطاقة الهوية.",
		"signature":         "مع خالص التحيات،",
		"hr_team":           "فريق الموارد البشرية",
		"verification_text": "هذه الوثيقة أصلية. امسح رمز الاستجابة السريعة للتحقق عبر الإنترنت.",
		"verification_code": "رمز التحقق",
	},
}

var acceptanceTexts = map[domain.Language]map[string]string{
	domain.LangFR: {
		"issued":            "Émis le",
		"title":             "LETTRE D'ACCEPTATION",
		"company_name":      "SALSABIL",
		"company_subtitle":  "Entreprise de Recrutement",
		"attention":         "À l'attention de :",
		"congratulations":   "Félicitations !",
		"acceptance_msg_1":  "Nous avons le grand plaisir de vous informer que votre candidature pour le poste de",
		"acceptance_msg_2":  "a été retenue.",
		"contract_details":  "Détails du contrat",
		"position":          "Poste",
		"start_date":        "Date de début",
		"closing":           "Nous sommes convaincus que votre intégration sera une réussite et nous réjouissons de vous compter parmi nous.",
		"signature":         "Cordialement,",
		"hr_team":           "L'équipe Ressources Humaines",
		"verification_text": "Ce document est authentique. Scannez le QR code pour vérifier en ligne.",
		"verification_code": "Code de vérification",
	},
	domain.LangAR: {
		"issued":            "صدر في",
		"title":             "خطاب القبول",
		"company_name":      "السلسبيل",
		"company_subtitle":  "شركة التوظيف",
		"attention":         "إلى عناية:",
		"congratulations":   "تهانينا!",
		"acceptance_msg_1":  "يسعدنا أن نعلمكم بأنه تم قبول طلبكم لمنصب",
		"acceptance_msg_2":  "مع تهانينا الحارة.",
		"contract_details":  "تفاصيل العقد",
		"position":          "المنصب",
		"start_date":        "تاريخ البداية",
		"closing":           "نحن واثقون من أن انضمامكم سيكون ناجحاً ونتطلع إلى العمل معكم.",
		"signature":         "مع خالص التحيات،",
		"hr_team":           "فريق الموارد البشرية",
		"verification_text": "هذه الوثيقة أصلية. امسح رمز الاستجابة السريعة للتحقق عبر الإنترنت.",
		"verification_code": "رمز التحقق",
	},
}

const invitationTpl = `<!DOCTYPE html>
<html dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<style>
  body { font-family: 'Amiri', 'DejaVu Sans', sans-serif; margin: 2cm; color: #1a1a1a; }
  .header { text-align: center; border-bottom: 2px solid #1a5276; padding-bottom: 8px; }
  .header h1 { margin: 0; color: #1a5276; }
  .issued { text-align: {{.End}}; font-size: 11px; color: #555; }
  h2.doc-title { text-align: center; margin-top: 24px; letter-spacing: 1px; }
  p { text-align: {{.Start}}; line-height: 1.5; }
  table.info { width: 100%; border-collapse: collapse; margin: 16px 0; }
  table.info td { border: 1px solid #aaa; padding: 6px 10px; }
  td.label { background: #eaf2f8; font-weight: bold; width: 30%; }
  .verify { margin-top: 32px; border: 1px dashed #888; padding: 10px; font-size: 11px; }
  .verify img { width: 100px; height: 100px; float: {{.End}}; }
  .code { font-family: monospace; font-size: 14px; font-weight: bold; }
</style>
</head>
<body>
<div class="header">
  <h1>{{.T.company_name}}</h1>
  <div>{{.T.company_subtitle}}</div>
</div>
<div class="issued">{{.T.issued}} {{.Data.IssueDate}}</div>
<h2 class="doc-title">{{.T.title}}</h2>
<p><strong>{{.T.attention}}</strong> {{.Data.CandidateName}}</p>
<p>{{.T.intro_1}} <strong>{{.Data.JobTitle}}</strong>, {{.T.intro_2}}</p>
<p>{{.T.please_present}}</p>
<h3>{{.T.interview_info}}</h3>
<table class="info">
{{range .Rows}}<tr>{{range .}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
{{end}}</table>
<p>{{.T.instructions}}</p>
<p>{{.T.signature}}<br>{{.T.hr_team}}</p>
<div class="verify">
  <img src="{{.Data.QRDataURI}}" alt="QR">
  <div>{{.T.verification_text}}</div>
  <div>{{.T.verification_code}}: <span class="code">{{.Data.VerificationCode}}</span></div>
  <div>{{.Data.VerificationURL}}</div>
</div>
</body>
</html>`

const acceptanceTpl = `<!DOCTYPE html>
<html dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<style>
  body { font-family: 'Amiri', 'DejaVu Sans', sans-serif; margin: 2cm; color: #1a1a1a; }
  .header { text-align: center; border-bottom: 2px solid #145a32; padding-bottom: 8px; }
  .header h1 { margin: 0; color: #145a32; }
  .issued { text-align: {{.End}}; font-size: 11px; color: #555; }
  h2.doc-title { text-align: center; margin-top: 24px; letter-spacing: 1px; }
  .congrats { text-align: center; color: #145a32; font-size: 18px; font-weight: bold; }
  p { text-align: {{.Start}}; line-height: 1.5; }
  table.info { width: 100%; border-collapse: collapse; margin: 16px 0; }
  table.info td { border: 1px solid #aaa; padding: 6px 10px; }
  td.label { background: #e9f7ef; font-weight: bold; width: 30%; }
  .verify { margin-top: 32px; border: 1px dashed #888; padding: 10px; font-size: 11px; }
  .verify img { width: 100px; height: 100px; float: {{.End}}; }
  .code { font-family: monospace; font-size: 14px; font-weight: bold; }
</style>
</head>
<body>
<div class="header">
  <h1>{{.T.company_name}}</h1>
  <div>{{.T.company_subtitle}}</div>
</div>
<div class="issued">{{.T.issued}} {{.Data.IssueDate}}</div>
<h2 class="doc-title">{{.T.title}}</h2>
<div class="congrats">{{.T.congratulations}}</div>
<p><strong>{{.T.attention}}</strong> {{.Data.CandidateName}}</p>
<p>{{.T.acceptance_msg_1}} <strong>{{.Data.JobTitle}}</strong> {{.T.acceptance_msg_2}}</p>
<h3>{{.T.contract_details}}</h3>
<table class="info">
{{range .Rows}}<tr>{{range .}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
{{end}}</table>
<p>{{.T.closing}}</p>
<p>{{.T.signature}}<br>{{.T.hr_team}}</p>
<div class="verify">
  <img src="{{.Data.QRDataURI}}" alt="QR">
  <div>{{.T.verification_text}}</div>
  <div>{{.T.verification_code}}: <span class="code">{{.Data.VerificationCode}}</span></div>
  <div>{{.Data.VerificationURL}}</div>
</div>
</body>
</html>`

var (
	invitationTemplate = template.Must(template.New("invitation").Parse(invitationTpl))
	acceptanceTemplate = template.Must(template.New("acceptance").Parse(acceptanceTpl))
)

type cell struct {
	Class string
	Text  string
}

type tplContext struct {
	Dir   string
	Start string
	End   string
	T     map[string]string
	Data  Data
	Rows  [][]cell
}

// row builds one label/value table row; for Arabic the column order is
// reversed so the label sits on the right, mirroring the original layout.
func row(lang domain.Language, label, value string) []cell {
	l := cell{Class: "label", Text: label}
	v := cell{Class: "value", Text: value}
	if lang == domain.LangAR {
		return []cell{v, l}
	}
	return []cell{l, v}
}

func newContext(lang domain.Language, texts map[domain.Language]map[string]string, data Data) tplContext {
	ctx := tplContext{Dir: "ltr", Start: "left", End: "right", T: texts[domain.LangFR], Data: data}
	if lang == domain.LangAR {
		ctx.Dir, ctx.Start, ctx.End = "rtl", "right", "left"
		ctx.T = texts[domain.LangAR]
	}
	return ctx
}

// RenderInterviewInvitation produces the HTML body of an interview invitation
// in the requested language.
func RenderInterviewInvitation(data Data, lang domain.Language) (string, error) {
	ctx := newContext(lang, invitationTexts, data)
	ctx.Rows = [][]cell{
		row(lang, ctx.T["date"], data.InterviewDate),
		row(lang, ctx.T["position"], data.JobTitle),
	}
	var buf bytes.Buffer
	if err := invitationTemplate.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render invitation: %w", err)
	}
	return buf.String(), nil
}

// RenderAcceptanceLetter produces the HTML body of an acceptance letter in
// the requested language. The start date row is omitted when not yet known.
func RenderAcceptanceLetter(data Data, lang domain.Language) (string, error) {
	ctx := newContext(lang, acceptanceTexts, data)
	ctx.Rows = [][]cell{
		row(lang, ctx.T["position"], data.JobTitle),
	}
	if data.WorkStartDate != "" {
		ctx.Rows = append(ctx.Rows, row(lang, ctx.T["start_date"], data.WorkStartDate))
	}
	var buf bytes.Buffer
	if err := acceptanceTemplate.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render acceptance: %w", err)
	}
	return buf.String(), nil
}
