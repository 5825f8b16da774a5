package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"siteinspect_backend/internal/logger"
	"siteinspect_backend/internal/models"
	"siteinspect_backend/internal/storage"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// Generator renders inspection reports as PDF files into the artifact store.
type Generator struct {
	store  storage.Storage
	pdfDir string
}

// NewGenerator creates a new report generator writing into pdfDir.
func NewGenerator(store storage.Storage, pdfDir string) *Generator {
	return &Generator{
		store:  store,
		pdfDir: pdfDir,
	}
}

// Generate renders the inspection data and its photos into a new PDF and
// stores it under a unique name. Photos whose files are no longer present are
// skipped. Returns the storage-relative path of the generated file.
func (g *Generator) Generate(ctx context.Context, inspection *models.Inspection, photos []models.Photo) (string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Construction Inspection Report", true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Construction Inspection Report", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	g.fieldLine(doc, "Subproject", inspection.SubprojectName)
	g.fieldLine(doc, "Inspection form", inspection.InspectionFormName)
	g.fieldLine(doc, "Inspection date", inspection.InspectionDate.String())
	g.fieldLine(doc, "Location", inspection.Location)
	g.fieldLine(doc, "Timing", inspection.Timing)

	result := "not evaluated"
	if inspection.Result != nil {
		result = *inspection.Result
	}
	g.fieldLine(doc, "Result", result)

	if inspection.Remark != nil && *inspection.Remark != "" {
		doc.Ln(2)
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 7, "Remark", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 6, *inspection.Remark, "", "L", false)
	}

	if len(photos) > 0 {
		doc.Ln(6)
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, "Site Photos", "", 1, "L", false, 0, "")

		for _, photo := range photos {
			if err := g.embedPhoto(ctx, doc, photo); err != nil {
				// Фото могло исчезнуть с диска - отчёт всё равно генерируем
				logger.FileWarn("embed photo", photo.PhotoPath, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to render PDF: %w", err)
	}

	outPath := path.Join(g.pdfDir, fmt.Sprintf("inspection_%s.pdf", uuid.NewString()))
	if err := g.store.Save(ctx, outPath, &buf, "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to store PDF: %w", err)
	}

	return outPath, nil
}

func (g *Generator) fieldLine(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(40, 7, label+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func (g *Generator) embedPhoto(ctx context.Context, doc *fpdf.Fpdf, photo models.Photo) error {
	exists, err := g.store.Exists(ctx, photo.PhotoPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("file missing")
	}

	reader, err := g.store.Get(ctx, photo.PhotoPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	imageType := ""
	switch strings.ToLower(path.Ext(photo.PhotoPath)) {
	case ".jpg", ".jpeg":
		imageType = "JPG"
	case ".png":
		imageType = "PNG"
	default:
		return fmt.Errorf("unsupported image type")
	}

	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	doc.RegisterImageOptionsReader(photo.PhotoPath, opts, reader)
	doc.ImageOptions(photo.PhotoPath, 15, -1, 120, 0, true, opts, 0, "")

	caption := "-"
	if photo.Caption != nil && *photo.Caption != "" {
		caption = *photo.Caption
	}
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("Caption: %s", caption), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Captured: %s", photo.CaptureDate.String()), "", 1, "L", false, 0, "")
	doc.Ln(4)

	return nil
}
