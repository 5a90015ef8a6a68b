package reports

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"personnel/internal/domain/employee"
)

const exportSheet = "Employés"

var exportHeader = []any{
	"ID", "Matricule", "Nom", "Prénom", "Email", "Genre", "Âge", "Fonction", "Poste",
	"Direction", "Service", "Division", "Date d'embauche", "Situation administrative",
}

func exportRow(e employee.Employee) []any {
	return []any{
		e.ID, e.Matricule, e.LastName, e.FirstName, e.Email, e.Gender, e.Age, e.JobTitle, e.PositionTitle,
		e.DirectionName, e.ServiceUnitName, e.DivisionName, formatDate(e.HireDate), e.AdministrativeStatus,
	}
}

// RenderEmployees writes the employee list as a single-sheet workbook with a
// bold header row.
func RenderEmployees(w io.Writer, list []employee.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "name sheet")
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportHeader))
	if err != nil {
		return errors.Wrap(err, "header range")
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", bold); err != nil {
		return errors.Wrap(err, "style header")
	}

	for i, e := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := exportRow(e)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write employee %d", e.ID)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
