package db

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"personnel/internal/domain/auth"
	"personnel/internal/domain/catalog"
	"personnel/internal/domain/organization"
	"personnel/internal/platform/config"
)

type seedService struct {
	Name        string
	Description string
	Missions    string
	Objectives  string
	Divisions   []string
}

type seedDirection struct {
	organization.Details
	Templates [][2]string
	Services  []seedService
}

var dgiTree = []seedDirection{
	{
		Details: organization.Details{
			Name:        "Direction Générale",
			Description: "Direction Générale des Impôts",
			Missions:    "Définir la stratégie fiscale et superviser l'ensemble des services.",
			Objectives:  "Optimiser les recettes fiscales et moderniser l'administration.",
		},
		Templates: [][2]string{
			{"Directeur Général", "Responsable de l'ensemble de la DGI"},
			{"Assistant de Direction", "Assiste le DG dans ses tâches quotidiennes"},
		},
		Services: []seedService{
			{
				Name:        "Service des Ressources Humaines",
				Description: "Gestion du personnel",
				Missions:    "Assurer la gestion administrative et le développement des compétences.",
				Objectives:  "Améliorer la performance et le bien-être des agents.",
				Divisions:   []string{"Division Recrutement", "Division Formation", "Division Paie"},
			},
			{
				Name:        "Service Informatique",
				Description: "Support et Développement",
				Missions:    "Maintenir le système d'information et développer de nouveaux outils.",
				Objectives:  "Garantir la disponibilité et la sécurité des données.",
				Divisions:   []string{"Division Études et Développement", "Division Exploitation et Réseaux"},
			},
		},
	},
	{
		Details: organization.Details{
			Name:        "Direction des Grandes Entreprises",
			Description: "Gestion des contribuables à fort potentiel",
			Missions:    "Gérer les dossiers fiscaux des grandes entreprises.",
			Objectives:  "Assurer un recouvrement optimal et un service de qualité.",
		},
		Templates: [][2]string{{"Directeur DGE", "Responsable de la DGE"}},
		Services: []seedService{
			{
				Name:        "Service de l'Assiette",
				Description: "Gestion de l'assiette fiscale",
				Missions:    "Calculer et vérifier les impôts dus.",
				Objectives:  "Fiabiliser l'assiette fiscale.",
				Divisions:   []string{"Division Gestion des Dossiers", "Division Contrôle sur Pièces"},
			},
			{
				Name:        "Service du Recouvrement",
				Description: "Recouvrement des impôts",
				Missions:    "Assurer le recouvrement des créances fiscales.",
				Objectives:  "Maximiser le taux de recouvrement.",
				Divisions:   []string{"Division Poursuites", "Division Comptabilité"},
			},
		},
	},
	{
		Details: organization.Details{
			Name:        "Direction Régionale Analamanga",
			Description: "Direction opérationnelle régionale",
			Missions:    "Mettre en œuvre la politique fiscale au niveau régional.",
			Objectives:  "Atteindre les objectifs de recettes régionaux.",
		},
		Templates: [][2]string{{"Directeur Régional", "Responsable de la DR Analamanga"}},
		Services: []seedService{
			{
				Name:        "Service Régional des Entreprises",
				Description: "Gestion des PME/PMI",
				Missions:    "Gérer les dossiers des entreprises régionales.",
				Objectives:  "Assurer la conformité fiscale des PME.",
				Divisions:   []string{"Division Immatriculation", "Division Gestion"},
			},
		},
	},
}

// Seed creates the bootstrap admin when no user exists and, when enabled,
// the reference organization tree when no direction exists.
func Seed(ctx context.Context, pool *Pool, cfg config.Config) error {
	accounts := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	created, err := accounts.EnsureAdmin(ctx, cfg.SeedAdminUsername, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return errors.Wrap(err, "seed admin")
	}
	if created {
		logrus.WithField("username", cfg.SeedAdminUsername).Info("seeded admin user")
	}

	if !cfg.SeedOrganization {
		return nil
	}
	var directions int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM directions").Scan(&directions); err != nil {
		return errors.Wrap(err, "count directions")
	}
	if directions > 0 {
		return nil
	}
	err = InTx(ctx, pool, func(tx pgx.Tx) error {
		return seedOrganization(ctx, tx)
	})
	if err != nil {
		return errors.Wrap(err, "seed organization")
	}
	logrus.WithField("directions", len(dgiTree)).Info("seeded organization tree")
	return nil
}

func seedOrganization(ctx context.Context, tx pgx.Tx) error {
	org := organization.NewStore(tx)
	jobs := catalog.NewStore(tx)

	template := func(title, description string, in catalog.TemplateInput) error {
		in.Title = title
		in.Description = description
		_, err := jobs.CreateTemplate(ctx, in)
		return err
	}

	for _, d := range dgiTree {
		direction, err := org.CreateDirection(ctx, d.Details)
		if err != nil {
			return err
		}
		for _, t := range d.Templates {
			if err := template(t[0], t[1], catalog.TemplateInput{DirectionID: &direction.ID}); err != nil {
				return err
			}
		}

		for _, s := range d.Services {
			unit, err := org.CreateServiceUnit(ctx, direction.ID, organization.Details{
				Name:        s.Name,
				Description: s.Description,
				Address:     "Adresse " + s.Name,
				ManagerName: "Chef " + s.Name,
				Missions:    s.Missions,
				Objectives:  s.Objectives,
			})
			if err != nil {
				return err
			}
			if err := template("Chef de Service "+s.Name, "Responsable du service", catalog.TemplateInput{ServiceUnitID: &unit.ID}); err != nil {
				return err
			}

			for _, name := range s.Divisions {
				division, err := org.CreateDivision(ctx, unit.ID, organization.Details{
					Name:        name,
					Description: "Division " + name,
					Address:     "Adresse " + name,
					ManagerName: "Chef " + name,
					Missions:    "Missions de la " + name,
					Objectives:  "Objectifs de la " + name,
				})
				if err != nil {
					return err
				}
				anchor := catalog.TemplateInput{DivisionID: &division.ID}
				if err := template("Chef de Division "+name, "Responsable de la division", anchor); err != nil {
					return err
				}
				if err := template("Agent "+name, "Agent opérationnel", anchor); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
