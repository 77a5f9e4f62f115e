package models

// Role 用户角色
type Role string

const (
	RoleElderly Role = "elderly"
	RoleFamily  Role = "family"
)

// Valid 是否为合法角色
func (r Role) Valid() bool {
	return r == RoleElderly || r == RoleFamily
}

// User 用户
type User struct {
	BaseModel
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Phone string `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Role  Role   `gorm:"type:varchar(20);not null;default:'elderly'" json:"role"`
}
