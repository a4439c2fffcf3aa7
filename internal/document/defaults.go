package document

import "time"

const defaultMissionObject = "Augmentation du capital social"

const defaultPreambule = `Nous avons l'honneur de vous présenter notre rapport concernant le projet d'augmentation du capital social de votre société. Cette mission s'inscrit dans le cadre de nos prestations d'expertise comptable et vise à analyser la faisabilité et les implications de cette opération.`

const defaultExposMotifs = `Les raisons qui motivent cette augmentation de capital sont multiples :

1. Renforcement de la structure financière de l'entreprise
2. Amélioration de la capacité d'autofinancement
3. Préparation aux investissements futurs
4. Optimisation de la répartition du capital entre associés

Cette opération s'inscrit dans une stratégie de développement à long terme.`

const defaultReferencesReglementaires = `Les références réglementaires applicables sont :

• Article 691 du Code de commerce algérien relatif aux augmentations de capital
• Article 573 du Code de commerce concernant les assemblées générales extraordinaires
• Ordonnance n° 75-59 du 26 septembre 1975 portant code de commerce
• Dispositions légales et réglementaires en vigueur`

const defaultReferencesInternes = `Les références internes à la société comprennent :

• Statuts de la société dans leur version actuellement en vigueur
• Procès-verbaux des délibérations antérieures du conseil d'administration
• États financiers certifiés des trois derniers exercices
• Rapport du commissaire aux comptes sur les comptes annuels`

const defaultModaliteAugmentation = `L'augmentation du capital social s'effectuera selon les modalités suivantes :

1. MODALITÉ RETENUE : Augmentation par capitalisation du compte courant d'associés
2. PROCÉDURE : Incorporation au capital des sommes inscrites au compte courant des associés
3. RÉPARTITION : Attribution de nouvelles parts sociales aux associés au prorata de leurs apports`

const defaultConclusion = `En conclusion, nous certifions que l'augmentation du capital social proposée est :

• Conforme aux dispositions légales et réglementaires en vigueur
• Compatible avec les statuts de la société
• Techniquement réalisable dans les conditions proposées
• Favorable aux intérêts de la société et de ses associés

Nous recommandons l'approbation de cette opération par l'assemblée générale extraordinaire des associés.`

// Defaults returns a new form of type t pre-filled the way the editor
// presents it: dated today, one empty service line for fee notes, sample
// tables and narrative sections for capital reports.
func Defaults(t Type, now time.Time) FormData {
	today := now.Format(time.DateOnly)

	if t == TypeFeeNote {
		return &FeeNote{
			IssueDate:    today,
			LineItems:    []LineItem{{Quantity: 1}},
			PaymentTerms: DefaultPaymentTerms,
		}
	}

	r := &CapitalReport{
		ReportDate:    today,
		MissionObject: defaultMissionObject,
		Table1: []CapitalizationRow{
			{Libelle: "Capital social", PassifAvant: 1000000, PassifApres: 2000000},
			{Libelle: "Compte courant associés", PassifAvant: 1000000, PassifApres: 0},
		},
		Table2: []ShareholderRow{
			{Nom: "Associé principal", NbrPartsAvant: 100, ValeurPartsAvant: 1000000, NbrPartsApres: 200, ValeurPartsApres: 2000000},
		},
		Preambule:                defaultPreambule,
		ExposMotifs:              defaultExposMotifs,
		ReferencesReglementaires: defaultReferencesReglementaires,
		ReferencesInternes:       defaultReferencesInternes,
		ModaliteAugmentation:     defaultModaliteAugmentation,
		Conclusion:               defaultConclusion,
	}
	r.Recalculate()

	return r
}

// FillNarrative sets any empty narrative section of r to its default text.
func FillNarrative(r *CapitalReport) {
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}

	fill(&r.MissionObject, defaultMissionObject)
	fill(&r.Preambule, defaultPreambule)
	fill(&r.ExposMotifs, defaultExposMotifs)
	fill(&r.ReferencesReglementaires, defaultReferencesReglementaires)
	fill(&r.ReferencesInternes, defaultReferencesInternes)
	fill(&r.ModaliteAugmentation, defaultModaliteAugmentation)
	fill(&r.Conclusion, defaultConclusion)
}
