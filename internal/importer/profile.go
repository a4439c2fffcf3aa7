package importer

import "strings"

// Profile describes the column layout of a client list. Only the name and
// address columns are required; the others are read when present.
type Profile struct {
	Name         string
	NomCol       string
	AdresseCol   string
	RCCol        string
	NIFCol       string
	NISCol       string
	AICol        string
	EmailCol     string
	TelephoneCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.NomCol, p.AdresseCol}
}

// profiles is the ordered list of layouts tried during header detection.
var profiles = []Profile{
	{
		Name:         "cabinetdoc",
		NomCol:       "nom",
		AdresseCol:   "adresse",
		RCCol:        "rc",
		NIFCol:       "nif",
		NISCol:       "nis",
		AICol:        "ai",
		EmailCol:     "email",
		TelephoneCol: "téléphone",
	},
	{
		Name:         "raison-sociale",
		NomCol:       "raison sociale",
		AdresseCol:   "adresse du siège",
		RCCol:        "n° rc",
		NIFCol:       "n° nif",
		NISCol:       "n° nis",
		AICol:        "n° ai",
		EmailCol:     "e-mail",
		TelephoneCol: "tél",
	},
	{
		Name:         "legacy",
		NomCol:       "client",
		AdresseCol:   "adresse",
		RCCol:        "registre de commerce",
		NIFCol:       "nif",
		NISCol:       "nis",
		AICol:        "article d'imposition",
		EmailCol:     "email",
		TelephoneCol: "telephone",
	},
}

// normalizeHeader lower-cases a header cell and drops surrounding spaces.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
