package reports

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/jung-kurt/gofpdf"

	"personnel/internal/domain/employee"
)

const (
	photoWidth = 35.0
	labelWidth = 60.0
	lineHeight = 7.0
)

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func sheetFields(e employee.Employee) [][2]string {
	age := ""
	if e.Age > 0 {
		age = strconv.Itoa(e.Age)
	}
	return [][2]string{
		{"Matricule", e.Matricule},
		{"Nom", e.LastName},
		{"Prénom", e.FirstName},
		{"Email", e.Email},
		{"Genre", e.Gender},
		{"Âge", age},
		{"Date de naissance", formatDate(e.DateOfBirth)},
		{"Adresse", fmt.Sprintf("%s %s %s", e.Street, e.ZipCode, e.City)},
		{"Téléphone", e.MobilePhone},
		{"Fonction", e.JobTitle},
		{"Poste", e.PositionTitle},
		{"Direction", e.DirectionName},
		{"Service", e.ServiceUnitName},
		{"Division", e.DivisionName},
		{"Date d'embauche", formatDate(e.HireDate)},
		{"Entrée fonction publique", formatDate(e.PublicServiceEntryDate)},
		{"Situation administrative", e.AdministrativeStatus},
		{"Catégorie", e.StatusCategory},
		{"Diplôme le plus élevé", e.HighestDiploma},
	}
}

func imageType(contentType string) string {
	if contentType == "image/png" {
		return "PNG"
	}
	return "JPG"
}

// RenderSheet writes an A4 employee sheet: identity fields, the photo when
// present, and the audit history.
func RenderSheet(w io.Writer, sheet Sheet) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Fiche employé : "+sheet.Employee.FullName()))
	pdf.Ln(14)
	top := pdf.GetY()

	if sheet.Photo != nil && len(sheet.Photo.Data) > 0 {
		opts := gofpdf.ImageOptions{ImageType: imageType(sheet.Photo.ContentType), ReadDpi: true}
		pdf.RegisterImageOptionsReader("photo", opts, bytes.NewReader(sheet.Photo.Data))
		_, _, right, _ := pdf.GetMargins()
		pageWidth, _ := pdf.GetPageSize()
		pdf.ImageOptions("photo", pageWidth-right-photoWidth, top, photoWidth, 0, false, opts, 0, "")
	}

	for _, field := range sheetFields(sheet.Employee) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, lineHeight, tr(field[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, lineHeight, tr(field[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr("Historique des actions"))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 9)
	if len(sheet.Actions) == 0 {
		pdf.Cell(0, lineHeight, tr("Aucune action enregistrée"))
		pdf.Ln(lineHeight)
	}
	for _, a := range sheet.Actions {
		pdf.CellFormat(35, lineHeight, a.CreatedAt.Format("02/01/2006 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(45, lineHeight, tr(a.ActionType), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, lineHeight, tr(a.Actor), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, lineHeight, tr(a.Details), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render employee sheet")
	}
	return nil
}
