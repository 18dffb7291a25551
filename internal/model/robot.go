package model

// RobotType is the category a robot belongs to.
type RobotType string

const (
	RobotTypeIndustrial  RobotType = "industrial"
	RobotTypeService     RobotType = "service"
	RobotTypeMedical     RobotType = "medical"
	RobotTypeEducational RobotType = "educational"
	RobotTypeOther       RobotType = "other"
)

// RobotTypes lists every known robot type in display order.
var RobotTypes = []RobotType{
	RobotTypeIndustrial,
	RobotTypeService,
	RobotTypeMedical,
	RobotTypeEducational,
	RobotTypeOther,
}

// Valid reports whether t is one of the known robot types.
func (t RobotType) Valid() bool {
	for _, known := range RobotTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Robot is a single robot record. Timestamps are epoch milliseconds.
type Robot struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:50;not null;index" json:"name"`
	Label     string    `gorm:"size:100;not null" json:"label"`
	Year      int       `gorm:"not null" json:"year"`
	Type      RobotType `gorm:"size:16;not null;index" json:"type"`
	CreatedAt int64     `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt int64     `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	Archived  bool      `gorm:"not null;default:false;index" json:"archived"`
}

// TableName pins the table name used by the raw queries in the repository.
func (Robot) TableName() string {
	return "robots"
}

// RobotInput holds the caller-supplied fields of a new robot.
type RobotInput struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Year  int       `json:"year"`
	Type  RobotType `json:"type"`
}

// RobotUpdate holds a partial change set. Nil fields are left untouched.
type RobotUpdate struct {
	Name  *string    `json:"name,omitempty"`
	Label *string    `json:"label,omitempty"`
	Year  *int       `json:"year,omitempty"`
	Type  *RobotType `json:"type,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (u RobotUpdate) Empty() bool {
	return u.Name == nil && u.Label == nil && u.Year == nil && u.Type == nil
}
