package usecase

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"recruitment-service/internal/document"
	"recruitment-service/internal/domain"
	"recruitment-service/internal/interfaces"

	"github.com/google/uuid"
)

// codeRetries bounds the defensive collision check before rendering.
const codeRetries = 3

// Issuer renders verifiable PDF documents and registers them in the
// verification ledger. One call is one issuance event: every rendered
// language variant shares a single verification code, and a new event always
// gets a new code without invalidating earlier ones.
type Issuer struct {
	renderer   Renderer
	apps       ApplicationsRepo
	ledger     LedgerRepo
	uploader   interfaces.Uploader
	storageDir string
	baseURL    string
	now        func() time.Time
}

func NewIssuer(renderer Renderer, apps ApplicationsRepo, ledger LedgerRepo, uploader interfaces.Uploader, storageDir, baseURL string) *Issuer {
	return &Issuer{
		renderer:   renderer,
		apps:       apps,
		ledger:     ledger,
		uploader:   uploader,
		storageDir: storageDir,
		baseURL:    baseURL,
		now:        time.Now,
	}
}

// IssueInterviewInvitation renders the convocation in the given languages.
// The application must already be selected for interview with a date set.
func (i *Issuer) IssueInterviewInvitation(ctx context.Context, app *domain.Application, langs []domain.Language) (*IssuedDocument, error) {
	if app.Phase1Status != domain.Phase1SelectedForInterview {
		return nil, fmt.Errorf("%w: application %d is not selected for interview", domain.ErrInvalidTransition, app.ID)
	}
	if app.InterviewDate == "" {
		return nil, fmt.Errorf("%w: interview_date", domain.ErrMissingField)
	}
	return i.issue(ctx, app, domain.DocConvocation, langs)
}

// IssueAcceptanceLetter renders the acceptance letter in the given languages.
// The application must hold an accepted phase-2 decision.
func (i *Issuer) IssueAcceptanceLetter(ctx context.Context, app *domain.Application, langs []domain.Language) (*IssuedDocument, error) {
	if app.Phase2Status != domain.Phase2Accepted {
		return nil, fmt.Errorf("%w: application %d is not accepted", domain.ErrInvalidTransition, app.ID)
	}
	return i.issue(ctx, app, domain.DocAcceptation, langs)
}

func (i *Issuer) issue(ctx context.Context, app *domain.Application, doc domain.DocumentType, langs []domain.Language) (*IssuedDocument, error) {
	if len(langs) == 0 {
		langs = []domain.Language{domain.LangFR, domain.LangAR}
	}
	requestID := uuid.NewString()
	issuedAt := i.now()

	code, err := i.freshCode(ctx, app.ID, doc)
	if err != nil {
		return nil, err
	}

	verificationURL := fmt.Sprintf("%s/verify/%s", i.baseURL, code)
	qrURI, err := document.QRDataURI(verificationURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentGeneration, err)
	}

	data := document.Data{
		CandidateName:    app.CandidateName(),
		JobTitle:         app.EffectiveJobTitle(),
		InterviewDate:    app.InterviewDate,
		WorkStartDate:    app.WorkStartDate,
		IssueDate:        issuedAt.Format("02/01/2006"),
		VerificationCode: code,
		VerificationURL:  verificationURL,
		QRDataURI:        template.URL(qrURI),
	}

	dir := filepath.Join(i.storageDir, document.Subdir(doc))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", domain.ErrDocumentGeneration, dir, err)
	}

	artifacts := make(map[domain.Language]string, len(langs))
	ledgerPath := ""
	for _, lang := range langs {
		var html string
		if doc == domain.DocConvocation {
			html, err = document.RenderInterviewInvitation(data, lang)
		} else {
			html, err = document.RenderAcceptanceLetter(data, lang)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDocumentGeneration, err)
		}

		pdf, err := i.renderer.RenderHTMLToPDF(ctx, html)
		if err != nil {
			return nil, fmt.Errorf("%w: render %s %s: %v", domain.ErrDocumentGeneration, doc, lang, err)
		}

		filename := document.Filename(doc, app.CandidateName(), app.ID, lang, issuedAt)
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return nil, fmt.Errorf("%w: write %s: %v", domain.ErrDocumentGeneration, path, err)
		}
		artifacts[lang] = filename
		if ledgerPath == "" || lang == domain.LangFR {
			ledgerPath = path
		}

		if i.uploader != nil {
			if url, err := i.uploader.UploadBytes(ctx, document.Subdir(doc), filename, pdf); err != nil {
				log.Printf("issuer %s: mirror upload of %s failed: %v", requestID, filename, err)
			} else {
				log.Printf("issuer %s: mirrored %s to %s", requestID, filename, url)
			}
		}
	}

	// Ledger insert comes after every artifact write. A failure here leaves
	// orphaned files, never a ledger entry pointing at a missing file.
	rec := &domain.VerificationRecord{
		Code:          code,
		ApplicationID: app.ID,
		DocumentType:  doc,
		CandidateName: app.CandidateName(),
		JobTitle:      app.EffectiveJobTitle(),
		IssueDate:     issuedAt.Format("02/01/2006"),
		PDFPath:       ledgerPath,
		Status:        domain.RecordStatusValid,
	}
	if err := i.ledger.Record(ctx, rec); err != nil {
		return nil, fmt.Errorf("record verification %s: %w", code, err)
	}

	if err := i.apps.SetDocumentRefs(ctx, app.ID, doc, artifacts); err != nil {
		return nil, fmt.Errorf("save document refs for application %d: %w", app.ID, err)
	}
	applyRefs(app, doc, artifacts)

	log.Printf("issuer %s: issued %s for application %d, code=%s, languages=%d", requestID, doc, app.ID, code, len(artifacts))
	return &IssuedDocument{RequestID: requestID, Code: code, Type: doc, Artifacts: artifacts}, nil
}

// freshCode generates a verification code, checking the ledger and
// regenerating on the (negligible-probability) collision.
func (i *Issuer) freshCode(ctx context.Context, appID int64, doc domain.DocumentType) (string, error) {
	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := GenerateVerificationCode(appID, doc)
		if err != nil {
			return "", err
		}
		if _, err := i.ledger.Lookup(ctx, code); errors.Is(err, domain.ErrNotFound) {
			return code, nil
		} else if err != nil {
			return "", fmt.Errorf("collision check: %w", err)
		}
		log.Printf("issuer: verification code collision on %s, regenerating", code)
	}
	return "", domain.ErrCodeCollision
}

// ArtifactPath resolves a stored artifact name to its path on disk.
func (i *Issuer) ArtifactPath(doc domain.DocumentType, filename string) string {
	return filepath.Join(i.storageDir, document.Subdir(doc), filename)
}

// RemoveArtifacts deletes every stored document file of an application, used
// by the administrative cascade delete. Missing files are not an error.
func (i *Issuer) RemoveArtifacts(app *domain.Application) {
	for _, ref := range []struct {
		doc  domain.DocumentType
		name string
	}{
		{domain.DocConvocation, app.InterviewInvitationPDF},
		{domain.DocConvocation, app.InterviewInvitationPDFAr},
		{domain.DocAcceptation, app.AcceptanceLetterPDF},
		{domain.DocAcceptation, app.AcceptanceLetterPDFAr},
	} {
		if ref.name == "" {
			continue
		}
		path := i.ArtifactPath(ref.doc, ref.name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("issuer: remove %s: %v", path, err)
		}
	}
}

func applyRefs(app *domain.Application, doc domain.DocumentType, refs map[domain.Language]string) {
	for lang, name := range refs {
		switch {
		case doc == domain.DocConvocation && lang == domain.LangAR:
			app.InterviewInvitationPDFAr = name
		case doc == domain.DocConvocation:
			app.InterviewInvitationPDF = name
		case doc == domain.DocAcceptation && lang == domain.LangAR:
			app.AcceptanceLetterPDFAr = name
		default:
			app.AcceptanceLetterPDF = name
		}
	}
}
