package models

// Record is one catalog entry (journal, article, book, thesis ...) as handed
// over by the catalog store. Missing fields are normalised to zero values:
// an empty Type or SubjectName means the source document had none, and a nil
// Indexing means the entry has no detail document.
type Record struct {
	Type        string   `json:"type"`
	SubjectName string   `json:"subjectName"`
	Indexing    []string `json:"indexing,omitempty"`
}

// Subject represents the subjects collection/table.
type Subject struct {
	SubjectName string `gorm:"column:subject_name" bson:"subjectName" json:"subjectName"`
}

// Type represents a registered classification label.
type Type struct {
	Name string `gorm:"column:name" bson:"name" json:"name"`
}

// User represents the users collection/table. Only the role is read.
type User struct {
	Role string `gorm:"column:role" bson:"role" json:"role"`
}

// TableName overrides
func (Subject) TableName() string {
	return "subjects"
}

func (Type) TableName() string {
	return "types"
}

func (User) TableName() string {
	return "users"
}

// CatalogData is the result of one read pass over the four catalog collections.
type CatalogData struct {
	Records  []Record
	Subjects []Subject
	Types    []Type
	Users    []User
}
