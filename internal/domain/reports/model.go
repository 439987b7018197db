package reports

import "time"

// Type distingue reportes de mascotas perdidas y encontradas.
// @Enum lost, found
type Type string

const (
	TypeLost  Type = "lost"
	TypeFound Type = "found"
)

// ParseType normaliza (trim + lower) y valida el tipo.
func ParseType(s string) (Type, bool) {
	switch t := Type(normalize(s)); t {
	case TypeLost, TypeFound:
		return t, true
	default:
		return "", false
	}
}

// Status modela el ciclo de vida de un reporte.
// open -> matched es terminal; con la política delete el reporte además se borra.
type Status string

const (
	StatusOpen    Status = "open"
	StatusMatched Status = "matched"
)

// MatchPolicy decide qué pasa con un reporte lost al confirmarse un match.
type MatchPolicy string

const (
	PolicyDelete  MatchPolicy = "delete"
	PolicyArchive MatchPolicy = "archive"
)

func ParseMatchPolicy(s string) (MatchPolicy, bool) {
	switch p := MatchPolicy(normalize(s)); p {
	case PolicyDelete, PolicyArchive:
		return p, true
	case "":
		return PolicyDelete, true
	default:
		return "", false
	}
}

// MaxPhotos es el máximo de fotos por reporte.
const MaxPhotos = 5

// Location es un punto GeoJSON: Coordinates = [lng, lat].
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewPoint(lng, lat float64) *Location {
	return &Location{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (l *Location) Lng() float64 { return l.Coordinates[0] }
func (l *Location) Lat() float64 { return l.Coordinates[1] }

// Valid exige un par (lng, lat) dentro de rango.
func (l *Location) Valid() bool {
	if l == nil {
		return false
	}
	lng, lat := l.Lng(), l.Lat()
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// Report representa un aviso de mascota perdida o encontrada.
type Report struct {
	ID   string
	Name string
	Type Type

	Breed       string
	Description string

	// Contacto del dueño (lost) o de quien la encontró (found).
	ContactName  string
	ContactPhone string
	ContactEmail string

	ReportedAt time.Time // lastSeenDate
	Address    string
	PhotoURLs  []string
	Location   *Location

	OwnerID string
	Status  Status

	CreatedAt time.Time
}
