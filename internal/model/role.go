package model

// swagger:model Role
type Role struct {
	UUIDBase

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index" json:"category"`
	Active      bool   `gorm:"default:true;index" json:"active"`

	Versions []RoleVersion `gorm:"foreignKey:RoleID" json:"versions,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleVersion is an immutable, numbered snapshot of a role's question
// set. At most one version per role is active at any time; mutations of
// the question set always create a new version (copy-on-write).
//
// swagger:model RoleVersion
type RoleVersion struct {
	BaseModel

	RoleID        string `gorm:"index;type:varchar(36);not null" json:"roleId"`
	VersionNumber int    `gorm:"not null;default:1" json:"versionNumber"`
	Active        bool   `gorm:"default:false;index" json:"active"`

	Questions []RoleQuestion `gorm:"foreignKey:RoleVersionID" json:"questions,omitempty"`
}

func (RoleVersion) TableName() string {
	return "role_versions"
}

// RoleQuestion links one Question into one RoleVersion. Links are owned
// by their version and are never shared across versions: a new version
// gets fresh rows pointing at the same questions.
//
// swagger:model RoleQuestion
type RoleQuestion struct {
	BaseModel

	RoleVersionID uint    `gorm:"index;not null" json:"roleVersionId"`
	QuestionID    string  `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Weight        float64 `gorm:"default:1.0" json:"weight"`
	Order         int     `gorm:"column:display_order;default:0" json:"order"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (RoleQuestion) TableName() string {
	return "role_questions"
}
