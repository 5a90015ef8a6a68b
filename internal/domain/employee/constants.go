package employee

const (
	DetailCreation = "Création de la fiche employé"
	DetailUpdate   = "Mise à jour de la fiche employé"
	DetailDeletion = "Suppression de la fiche employé"
	DetailPhoto    = "Mise à jour de la photo"

	divisionChangePrefix  = "Changement de division vers : "
	divisionRemovalPrefix = "Retrait de la division : "
	duplicateRemovalText  = "Suppression du doublon de matricule "

	MaxPhotoBytes = 2 << 20
)

// Sortable columns for paged listing.
var sortColumns = map[string]string{
	"id":        "e.id",
	"matricule": "e.matricule",
	"firstName": "e.first_name",
	"lastName":  "e.last_name",
	"email":     "e.email",
	"age":       "e.age",
	"hireDate":  "e.hire_date",
	"createdAt": "e.created_at",
	"updatedAt": "e.updated_at",
}

func DivisionChangeDetail(divisionName string) string {
	return divisionChangePrefix + divisionName
}
